package store

import (
	"context"
	"database/sql"
	"time"
)

const socialColumns = "id, platform, username, url, icon, followers_count, display_order, is_active, created_at"

func scanSocialLink(row *sql.Row) (SocialLink, error) {
	var s SocialLink
	err := row.Scan(&s.ID, &s.Platform, &s.Username, &s.Url, &s.Icon, &s.FollowersCount,
		&s.DisplayOrder, &s.IsActive, &s.CreatedAt)
	return s, err
}

func scanSocialLinks(rows *sql.Rows) ([]SocialLink, error) {
	defer rows.Close()
	var items []SocialLink
	for rows.Next() {
		var s SocialLink
		if err := rows.Scan(&s.ID, &s.Platform, &s.Username, &s.Url, &s.Icon, &s.FollowersCount,
			&s.DisplayOrder, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// CreateSocialLinkParams holds the values for CreateSocialLink.
type CreateSocialLinkParams struct {
	Platform       string
	Username       string
	Url            string
	Icon           sql.NullString
	FollowersCount string
	DisplayOrder   int64
	IsActive       bool
	CreatedAt      time.Time
}

// CreateSocialLink inserts a social link.
func (q *Queries) CreateSocialLink(ctx context.Context, arg CreateSocialLinkParams) (SocialLink, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO social_links (platform, username, url, icon, followers_count, display_order, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+socialColumns,
		arg.Platform, arg.Username, arg.Url, arg.Icon, arg.FollowersCount,
		arg.DisplayOrder, arg.IsActive, arg.CreatedAt)
	return scanSocialLink(row)
}

// GetSocialLinkByID fetches a social link by primary key.
func (q *Queries) GetSocialLinkByID(ctx context.Context, id int64) (SocialLink, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+socialColumns+" FROM social_links WHERE id = ?", id)
	return scanSocialLink(row)
}

// ListSocialLinks returns all links for the admin editor, by display order.
func (q *Queries) ListSocialLinks(ctx context.Context) ([]SocialLink, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+socialColumns+" FROM social_links ORDER BY display_order ASC, id ASC")
	if err != nil {
		return nil, err
	}
	return scanSocialLinks(rows)
}

// ListActiveSocialLinks returns active links only, by display order.
// This is the public visibility predicate.
func (q *Queries) ListActiveSocialLinks(ctx context.Context) ([]SocialLink, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+socialColumns+" FROM social_links WHERE is_active = 1 ORDER BY display_order ASC, id ASC")
	if err != nil {
		return nil, err
	}
	return scanSocialLinks(rows)
}

// UpdateSocialLinkParams holds the values for UpdateSocialLink.
type UpdateSocialLinkParams struct {
	ID             int64
	Platform       string
	Username       string
	Url            string
	Icon           sql.NullString
	FollowersCount string
	DisplayOrder   int64
	IsActive       bool
}

// UpdateSocialLink replaces the editable fields of a social link. The icon
// travels with the platform so a platform change never keeps a stale icon.
func (q *Queries) UpdateSocialLink(ctx context.Context, arg UpdateSocialLinkParams) (SocialLink, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE social_links
		SET platform = ?, username = ?, url = ?, icon = ?, followers_count = ?, display_order = ?, is_active = ?
		WHERE id = ?
		RETURNING `+socialColumns,
		arg.Platform, arg.Username, arg.Url, arg.Icon, arg.FollowersCount, arg.DisplayOrder, arg.IsActive, arg.ID)
	return scanSocialLink(row)
}

// DeleteSocialLink removes a social link permanently.
func (q *Queries) DeleteSocialLink(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM social_links WHERE id = ?", id)
	return err
}

// MaxSocialDisplayOrder returns the highest display_order, or 0 when empty.
func (q *Queries) MaxSocialDisplayOrder(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(display_order), 0) FROM social_links").Scan(&n)
	return n, err
}
