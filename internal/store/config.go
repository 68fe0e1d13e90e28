package store

import (
	"context"
	"time"
)

// GetConfig fetches a site_config value by key.
func (q *Queries) GetConfig(ctx context.Context, key string) (SiteConfig, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT key, value, updated_at FROM site_config WHERE key = ?", key)
	var c SiteConfig
	err := row.Scan(&c.Key, &c.Value, &c.UpdatedAt)
	return c, err
}

// ListConfig returns all site_config rows ordered by key.
func (q *Queries) ListConfig(ctx context.Context) ([]SiteConfig, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT key, value, updated_at FROM site_config ORDER BY key ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SiteConfig
	for rows.Next() {
		var c SiteConfig
		if err := rows.Scan(&c.Key, &c.Value, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UpsertConfigParams holds the values for UpsertConfig.
type UpsertConfigParams struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// UpsertConfig inserts or replaces a site_config value.
func (q *Queries) UpsertConfig(ctx context.Context, arg UpsertConfigParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO site_config (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		arg.Key, arg.Value, arg.UpdatedAt)
	return err
}
