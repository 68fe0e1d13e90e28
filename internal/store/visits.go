package store

import (
	"context"
	"database/sql"
	"time"
)

// CreateVisitParams holds the values for CreateVisit.
type CreateVisitParams struct {
	Path      string
	Device    string
	Browser   string
	Country   string
	CreatedAt time.Time
}

// CreateVisit records a page view.
func (q *Queries) CreateVisit(ctx context.Context, arg CreateVisitParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO visits (path, device, browser, country, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.Path, arg.Device, arg.Browser, arg.Country, arg.CreatedAt)
	return err
}

// CountVisitsSince returns the number of visits recorded at or after the cutoff.
func (q *Queries) CountVisitsSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visits WHERE created_at >= ?", since).Scan(&n)
	return n, err
}

// VisitCountRow is a single bucket of a grouped visit count.
type VisitCountRow struct {
	Label string
	Count int64
}

// CountVisitsByPathParams holds the values for CountVisitsByPath.
type CountVisitsByPathParams struct {
	Since time.Time
	Limit int64
}

// CountVisitsByPath returns the most visited paths since the cutoff.
func (q *Queries) CountVisitsByPath(ctx context.Context, arg CountVisitsByPathParams) ([]VisitCountRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS n FROM visits
		WHERE created_at >= ?
		GROUP BY path ORDER BY n DESC LIMIT ?`,
		arg.Since, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVisitCounts(rows)
}

// CountVisitsByDevice groups visits since the cutoff by device class.
func (q *Queries) CountVisitsByDevice(ctx context.Context, since time.Time) ([]VisitCountRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT device, COUNT(*) AS n FROM visits
		WHERE created_at >= ?
		GROUP BY device ORDER BY n DESC`,
		since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVisitCounts(rows)
}

// CountVisitsByCountry groups visits since the cutoff by country code.
func (q *Queries) CountVisitsByCountry(ctx context.Context, since time.Time) ([]VisitCountRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT country, COUNT(*) AS n FROM visits
		WHERE created_at >= ? AND country != ''
		GROUP BY country ORDER BY n DESC`,
		since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVisitCounts(rows)
}

// DeleteVisitsBefore prunes visits older than the cutoff. Returns rows removed.
func (q *Queries) DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM visits WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanVisitCounts(rows *sql.Rows) ([]VisitCountRow, error) {
	var items []VisitCountRow
	for rows.Next() {
		var r VisitCountRow
		if err := rows.Scan(&r.Label, &r.Count); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
