package store

import (
	"context"
	"database/sql"
	"time"
)

const mediaColumns = "id, uuid, bucket, folder, filename, mime_type, size, width, height, created_at"

func scanMedium(row *sql.Row) (Medium, error) {
	var m Medium
	err := row.Scan(&m.ID, &m.Uuid, &m.Bucket, &m.Folder, &m.Filename, &m.MimeType,
		&m.Size, &m.Width, &m.Height, &m.CreatedAt)
	return m, err
}

func scanMedia(rows *sql.Rows) ([]Medium, error) {
	defer rows.Close()
	var items []Medium
	for rows.Next() {
		var m Medium
		if err := rows.Scan(&m.ID, &m.Uuid, &m.Bucket, &m.Folder, &m.Filename, &m.MimeType,
			&m.Size, &m.Width, &m.Height, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// CreateMediumParams holds the values for CreateMedium.
type CreateMediumParams struct {
	Uuid      string
	Bucket    string
	Folder    string
	Filename  string
	MimeType  string
	Size      int64
	Width     sql.NullInt64
	Height    sql.NullInt64
	CreatedAt time.Time
}

// CreateMedium records a stored bucket object.
func (q *Queries) CreateMedium(ctx context.Context, arg CreateMediumParams) (Medium, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO media (uuid, bucket, folder, filename, mime_type, size, width, height, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+mediaColumns,
		arg.Uuid, arg.Bucket, arg.Folder, arg.Filename, arg.MimeType,
		arg.Size, arg.Width, arg.Height, arg.CreatedAt)
	return scanMedium(row)
}

// GetMediumByID fetches a media record by primary key.
func (q *Queries) GetMediumByID(ctx context.Context, id int64) (Medium, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+mediaColumns+" FROM media WHERE id = ?", id)
	return scanMedium(row)
}

// GetMediumByPath fetches a media record by bucket, folder and filename.
type GetMediumByPathParams struct {
	Bucket   string
	Folder   string
	Filename string
}

// GetMediumByPath fetches a media record by its storage coordinates.
func (q *Queries) GetMediumByPath(ctx context.Context, arg GetMediumByPathParams) (Medium, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+mediaColumns+" FROM media WHERE bucket = ? AND folder = ? AND filename = ?",
		arg.Bucket, arg.Folder, arg.Filename)
	return scanMedium(row)
}

// ListMediaByBucket returns all objects in a bucket, newest first.
func (q *Queries) ListMediaByBucket(ctx context.Context, bucket string) ([]Medium, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+mediaColumns+" FROM media WHERE bucket = ? ORDER BY created_at DESC, id DESC", bucket)
	if err != nil {
		return nil, err
	}
	return scanMedia(rows)
}

// CountMedia returns the total number of stored objects.
func (q *Queries) CountMedia(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM media").Scan(&n)
	return n, err
}

// DeleteMedium removes a media record.
func (q *Queries) DeleteMedium(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM media WHERE id = ?", id)
	return err
}
