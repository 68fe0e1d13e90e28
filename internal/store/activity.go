package store

import (
	"context"
	"database/sql"
	"time"
)

const activityColumns = "id, level, category, message, user_id, ip_address, metadata, created_at"

// CreateActivityParams holds the values for CreateActivity.
type CreateActivityParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IpAddress string
	Metadata  string
	CreatedAt time.Time
}

// CreateActivity inserts an activity log entry.
func (q *Queries) CreateActivity(ctx context.Context, arg CreateActivityParams) (ActivityLog, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO activity_log (level, category, message, user_id, ip_address, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+activityColumns,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.IpAddress, arg.Metadata, arg.CreatedAt)
	var a ActivityLog
	err := row.Scan(&a.ID, &a.Level, &a.Category, &a.Message, &a.UserID, &a.IpAddress, &a.Metadata, &a.CreatedAt)
	return a, err
}

// ListActivityParams holds the values for ListActivity.
type ListActivityParams struct {
	Level  string // empty = all levels
	Limit  int64
	Offset int64
}

// ListActivity returns activity entries, newest first, optionally filtered
// by level.
func (q *Queries) ListActivity(ctx context.Context, arg ListActivityParams) ([]ActivityLog, error) {
	query := "SELECT " + activityColumns + " FROM activity_log"
	args := []any{}
	if arg.Level != "" {
		query += " WHERE level = ?"
		args = append(args, arg.Level)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ActivityLog
	for rows.Next() {
		var a ActivityLog
		if err := rows.Scan(&a.ID, &a.Level, &a.Category, &a.Message, &a.UserID, &a.IpAddress, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// CountActivity returns the number of activity entries, optionally filtered
// by level.
func (q *Queries) CountActivity(ctx context.Context, level string) (int64, error) {
	var n int64
	if level != "" {
		err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activity_log WHERE level = ?", level).Scan(&n)
		return n, err
	}
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activity_log").Scan(&n)
	return n, err
}

// DeleteActivityBefore removes entries older than the cutoff. Used by the
// retention job.
func (q *Queries) DeleteActivityBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM activity_log WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
