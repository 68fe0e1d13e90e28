package store

import (
	"context"
	"database/sql"
	"time"
)

const noticiaColumns = "id, title, slug, excerpt, content, content_format, category, image_url, video_url, gallery, publish_date, is_published, created_at, updated_at"

func scanNoticia(row *sql.Row) (Noticia, error) {
	var n Noticia
	err := row.Scan(&n.ID, &n.Title, &n.Slug, &n.Excerpt, &n.Content, &n.ContentFormat, &n.Category,
		&n.ImageUrl, &n.VideoUrl, &n.Gallery, &n.PublishDate, &n.IsPublished, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func scanNoticias(rows *sql.Rows) ([]Noticia, error) {
	defer rows.Close()
	var items []Noticia
	for rows.Next() {
		var n Noticia
		if err := rows.Scan(&n.ID, &n.Title, &n.Slug, &n.Excerpt, &n.Content, &n.ContentFormat, &n.Category,
			&n.ImageUrl, &n.VideoUrl, &n.Gallery, &n.PublishDate, &n.IsPublished, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// CreateNoticiaParams holds the values for CreateNoticia.
type CreateNoticiaParams struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	ContentFormat string
	Category      string
	ImageUrl      string
	VideoUrl      string
	Gallery       string
	PublishDate   sql.NullTime
	IsPublished   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateNoticia inserts a noticia; the id is assigned by the database.
func (q *Queries) CreateNoticia(ctx context.Context, arg CreateNoticiaParams) (Noticia, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO noticias (title, slug, excerpt, content, content_format, category, image_url, video_url, gallery, publish_date, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+noticiaColumns,
		arg.Title, arg.Slug, arg.Excerpt, arg.Content, arg.ContentFormat, arg.Category,
		arg.ImageUrl, arg.VideoUrl, arg.Gallery, arg.PublishDate, arg.IsPublished, arg.CreatedAt, arg.UpdatedAt)
	return scanNoticia(row)
}

// GetNoticiaByID fetches a noticia by primary key.
func (q *Queries) GetNoticiaByID(ctx context.Context, id int64) (Noticia, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+noticiaColumns+" FROM noticias WHERE id = ?", id)
	return scanNoticia(row)
}

// GetPublishedNoticiaBySlug fetches a published noticia for the public
// detail page. Drafts 404 here regardless of slug knowledge.
func (q *Queries) GetPublishedNoticiaBySlug(ctx context.Context, slug string) (Noticia, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+noticiaColumns+" FROM noticias WHERE slug = ? AND is_published = 1", slug)
	return scanNoticia(row)
}

// ListNoticias returns all noticias for the admin list, newest first.
func (q *Queries) ListNoticias(ctx context.Context) ([]Noticia, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+noticiaColumns+" FROM noticias ORDER BY publish_date DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return scanNoticias(rows)
}

// ListPublishedNoticias returns published noticias, newest publish_date first.
func (q *Queries) ListPublishedNoticias(ctx context.Context, limit int64) ([]Noticia, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+noticiaColumns+" FROM noticias WHERE is_published = 1 ORDER BY publish_date DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	return scanNoticias(rows)
}

// CountNoticias returns the total number of noticias.
func (q *Queries) CountNoticias(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM noticias").Scan(&n)
	return n, err
}

// CountPublishedNoticias returns the number of published noticias.
func (q *Queries) CountPublishedNoticias(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM noticias WHERE is_published = 1").Scan(&n)
	return n, err
}

// CountNoticiasBySlug counts rows with the given slug, excluding one id.
// Used for uniqueness validation on create (excludeID = 0) and update.
func (q *Queries) CountNoticiasBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM noticias WHERE slug = ? AND id != ?", slug, excludeID).Scan(&n)
	return n, err
}

// UpdateNoticiaParams holds the values for UpdateNoticia.
type UpdateNoticiaParams struct {
	ID            int64
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	ContentFormat string
	Category      string
	ImageUrl      string
	VideoUrl      string
	Gallery       string
	PublishDate   sql.NullTime
	IsPublished   bool
	UpdatedAt     time.Time
}

// UpdateNoticia replaces all mutable fields of a noticia.
func (q *Queries) UpdateNoticia(ctx context.Context, arg UpdateNoticiaParams) (Noticia, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE noticias
		SET title = ?, slug = ?, excerpt = ?, content = ?, content_format = ?, category = ?,
		    image_url = ?, video_url = ?, gallery = ?, publish_date = ?, is_published = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+noticiaColumns,
		arg.Title, arg.Slug, arg.Excerpt, arg.Content, arg.ContentFormat, arg.Category,
		arg.ImageUrl, arg.VideoUrl, arg.Gallery, arg.PublishDate, arg.IsPublished, arg.UpdatedAt, arg.ID)
	return scanNoticia(row)
}

// SetNoticiaPublishedParams holds the values for SetNoticiaPublished.
type SetNoticiaPublishedParams struct {
	ID          int64
	IsPublished bool
	UpdatedAt   time.Time
}

// SetNoticiaPublished flips the publication flag of a single noticia.
func (q *Queries) SetNoticiaPublished(ctx context.Context, arg SetNoticiaPublishedParams) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE noticias SET is_published = ?, updated_at = ? WHERE id = ?",
		arg.IsPublished, arg.UpdatedAt, arg.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteNoticia removes a noticia permanently. There is no soft delete.
func (q *Queries) DeleteNoticia(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM noticias WHERE id = ?", id)
	return err
}

// CountNoticiasReferencingURL counts noticias whose image, video, gallery
// or body holds the given URL. The gallery and content checks are substring
// matches: authors paste media URLs straight into the article body.
func (q *Queries) CountNoticiasReferencingURL(ctx context.Context, url string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM noticias WHERE image_url = ? OR video_url = ? OR instr(gallery, ?) > 0 OR instr(content, ?) > 0",
		url, url, url, url).Scan(&n)
	return n, err
}
