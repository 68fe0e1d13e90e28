package store

import (
	"context"
	"database/sql"
	"time"
)

const eventoColumns = "id, title, date, time, location, type, description, image_url, video_url, is_featured, is_published, created_at, updated_at"

func scanEvento(row *sql.Row) (Evento, error) {
	var e Evento
	err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Location, &e.Type, &e.Description,
		&e.ImageUrl, &e.VideoUrl, &e.IsFeatured, &e.IsPublished, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func scanEventos(rows *sql.Rows) ([]Evento, error) {
	defer rows.Close()
	var items []Evento
	for rows.Next() {
		var e Evento
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Location, &e.Type, &e.Description,
			&e.ImageUrl, &e.VideoUrl, &e.IsFeatured, &e.IsPublished, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// CreateEventoParams holds the values for CreateEvento.
type CreateEventoParams struct {
	Title       string
	Date        time.Time
	Time        string
	Location    string
	Type        string
	Description string
	ImageUrl    string
	VideoUrl    string
	IsFeatured  bool
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateEvento inserts an evento; the id is assigned by the database.
func (q *Queries) CreateEvento(ctx context.Context, arg CreateEventoParams) (Evento, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO eventos (title, date, time, location, type, description, image_url, video_url, is_featured, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+eventoColumns,
		arg.Title, arg.Date, arg.Time, arg.Location, arg.Type, arg.Description,
		arg.ImageUrl, arg.VideoUrl, arg.IsFeatured, arg.IsPublished, arg.CreatedAt, arg.UpdatedAt)
	return scanEvento(row)
}

// GetEventoByID fetches an evento by primary key.
func (q *Queries) GetEventoByID(ctx context.Context, id int64) (Evento, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+eventoColumns+" FROM eventos WHERE id = ?", id)
	return scanEvento(row)
}

// ListEventos returns all eventos for the admin list, newest date first.
func (q *Queries) ListEventos(ctx context.Context) ([]Evento, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+eventoColumns+" FROM eventos ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return scanEventos(rows)
}

// ListPublishedUpcomingEventos returns published eventos with date >= from,
// ascending by date. This is the public /eventos predicate.
func (q *Queries) ListPublishedUpcomingEventos(ctx context.Context, from time.Time) ([]Evento, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+eventoColumns+" FROM eventos WHERE is_published = 1 AND date >= ? ORDER BY date ASC, id ASC", from)
	if err != nil {
		return nil, err
	}
	return scanEventos(rows)
}

// ListFeaturedEventos returns all published eventos flagged as featured.
// Featured is not unique; the home page renders every row returned here.
func (q *Queries) ListFeaturedEventos(ctx context.Context) ([]Evento, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+eventoColumns+" FROM eventos WHERE is_published = 1 AND is_featured = 1 ORDER BY date ASC")
	if err != nil {
		return nil, err
	}
	return scanEventos(rows)
}

// CountEventos returns the total number of eventos.
func (q *Queries) CountEventos(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM eventos").Scan(&n)
	return n, err
}

// CountPublishedEventos returns the number of published eventos.
func (q *Queries) CountPublishedEventos(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM eventos WHERE is_published = 1").Scan(&n)
	return n, err
}

// UpdateEventoParams holds the values for UpdateEvento.
type UpdateEventoParams struct {
	ID          int64
	Title       string
	Date        time.Time
	Time        string
	Location    string
	Type        string
	Description string
	ImageUrl    string
	VideoUrl    string
	IsFeatured  bool
	IsPublished bool
	UpdatedAt   time.Time
}

// UpdateEvento replaces all mutable fields of an evento.
func (q *Queries) UpdateEvento(ctx context.Context, arg UpdateEventoParams) (Evento, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE eventos
		SET title = ?, date = ?, time = ?, location = ?, type = ?, description = ?,
		    image_url = ?, video_url = ?, is_featured = ?, is_published = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+eventoColumns,
		arg.Title, arg.Date, arg.Time, arg.Location, arg.Type, arg.Description,
		arg.ImageUrl, arg.VideoUrl, arg.IsFeatured, arg.IsPublished, arg.UpdatedAt, arg.ID)
	return scanEvento(row)
}

// SetEventoPublishedParams holds the values for SetEventoPublished.
type SetEventoPublishedParams struct {
	ID          int64
	IsPublished bool
	UpdatedAt   time.Time
}

// SetEventoPublished flips the publication flag of a single evento.
func (q *Queries) SetEventoPublished(ctx context.Context, arg SetEventoPublishedParams) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE eventos SET is_published = ?, updated_at = ? WHERE id = ?",
		arg.IsPublished, arg.UpdatedAt, arg.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetEventoFeaturedParams holds the values for SetEventoFeatured.
type SetEventoFeaturedParams struct {
	ID         int64
	IsFeatured bool
	UpdatedAt  time.Time
}

// SetEventoFeatured flips the featured flag of a single evento.
func (q *Queries) SetEventoFeatured(ctx context.Context, arg SetEventoFeaturedParams) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE eventos SET is_featured = ?, updated_at = ? WHERE id = ?",
		arg.IsFeatured, arg.UpdatedAt, arg.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteEvento removes an evento permanently. There is no soft delete.
func (q *Queries) DeleteEvento(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM eventos WHERE id = ?", id)
	return err
}

// CountEventosReferencingURL counts eventos whose image or video field
// holds the given URL. Used by the media reference check.
func (q *Queries) CountEventosReferencingURL(ctx context.Context, url string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM eventos WHERE image_url = ? OR video_url = ?", url, url).Scan(&n)
	return n, err
}
