// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mvargas/campana-go/internal/middleware"
	"github.com/mvargas/campana-go/internal/model"
	"github.com/mvargas/campana-go/internal/notify"
	"github.com/mvargas/campana-go/internal/render"
	"github.com/mvargas/campana-go/internal/service"
	"github.com/mvargas/campana-go/internal/store"
	"github.com/mvargas/campana-go/internal/util"
)

// NoticiaHandler handles the noticias admin CRUD routes.
type NoticiaHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	activity *service.ActivityService
	broker   *notify.Broker
}

// NewNoticiaHandler creates a NoticiaHandler.
func NewNoticiaHandler(db *sql.DB, renderer *render.Renderer, activity *service.ActivityService, broker *notify.Broker) *NoticiaHandler {
	return &NoticiaHandler{
		queries:  store.New(db),
		renderer: renderer,
		activity: activity,
		broker:   broker,
	}
}

// List renders the noticias admin list.
func (h *NoticiaHandler) List(w http.ResponseWriter, r *http.Request) {
	noticias, err := h.queries.ListNoticias(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list noticias", "error", err)
		return
	}
	if err := h.renderer.Render(w, r, "admin/noticias", render.TemplateData{
		Title: "Noticias",
		User:  middleware.GetUser(r),
		Data: map[string]any{
			"Noticias":   noticias,
			"Categories": model.NoticiaCategories(),
		},
	}); err != nil {
		logAndInternalError(w, "failed to render noticias list", "error", err)
	}
}

// NewForm renders the empty noticia form. The publish date starts at
// today so a plain submit publishes with the current date.
func (h *NoticiaHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "admin/noticia_form", render.TemplateData{
		Title: "Nueva noticia",
		User:  middleware.GetUser(r),
		Data: map[string]any{
			"Noticia": store.Noticia{
				Category:      model.CategoriaCampana,
				ContentFormat: model.ContentFormatMarkdown,
				PublishDate:   sql.NullTime{Time: time.Now(), Valid: true},
			},
			"Categories": model.NoticiaCategories(),
			"IsNew":      true,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render noticia form", "error", err)
	}
}

// EditForm renders the noticia form pre-filled with an existing noticia.
func (h *NoticiaHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminNoticias, "Noticia no encontrada")
		return
	}
	noticia, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminNoticias, "Noticia", id,
		func(id int64) (store.Noticia, error) { return h.queries.GetNoticiaByID(r.Context(), id) })
	if !ok {
		return
	}
	if err := h.renderer.Render(w, r, "admin/noticia_form", render.TemplateData{
		Title: "Editar noticia",
		User:  middleware.GetUser(r),
		Data: map[string]any{
			"Noticia":    noticia,
			"Gallery":    galleryLines(noticia.Gallery),
			"Categories": model.NoticiaCategories(),
			"IsNew":      false,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render noticia form", "error", err)
	}
}

// noticiaForm holds the parsed and validated noticia form fields.
type noticiaForm struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	ContentFormat string
	Category      string
	ImageURL      string
	VideoURL      string
	Gallery       string
	PublishDate   sql.NullTime
	IsPublished   bool
}

// parseNoticiaForm validates the submitted form. A non-empty second return
// is a user-facing validation message. The slug is derived from the title
// when the slug field is left empty.
func parseNoticiaForm(r *http.Request) (noticiaForm, string) {
	f := noticiaForm{
		Title:         strings.TrimSpace(r.FormValue("title")),
		Slug:          strings.TrimSpace(r.FormValue("slug")),
		Excerpt:       strings.TrimSpace(r.FormValue("excerpt")),
		Content:       r.FormValue("content"),
		ContentFormat: r.FormValue("content_format"),
		Category:      strings.TrimSpace(r.FormValue("category")),
		ImageURL:      strings.TrimSpace(r.FormValue("image_url")),
		VideoURL:      strings.TrimSpace(r.FormValue("video_url")),
		Gallery:       galleryJSON(r.FormValue("gallery")),
		PublishDate:   util.ParseDateNull(r.FormValue("publish_date")),
		IsPublished:   formBool(r, "is_published"),
	}
	if f.Title == "" {
		return f, "El título es obligatorio"
	}
	if f.Slug == "" {
		f.Slug = util.Slugify(f.Title)
	}
	if !util.IsValidSlug(f.Slug) {
		return f, "El slug no es válido"
	}
	if f.ContentFormat != model.ContentFormatHTML && f.ContentFormat != model.ContentFormatMarkdown {
		f.ContentFormat = model.ContentFormatMarkdown
	}
	// A cleared date field means "today", never NULL: NULL would sort the
	// noticia after every dated one in the public list.
	if !f.PublishDate.Valid {
		f.PublishDate = sql.NullTime{Time: time.Now(), Valid: true}
	}
	return f, ""
}

// galleryJSON turns a textarea with one URL per line into the stored JSON
// array. An empty textarea stores "[]".
func galleryJSON(raw string) string {
	var urls []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	if len(urls) == 0 {
		return "[]"
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// galleryLines is the inverse of galleryJSON, for the edit form textarea.
func galleryLines(stored string) string {
	var urls []string
	if err := json.Unmarshal([]byte(stored), &urls); err != nil {
		return ""
	}
	return strings.Join(urls, "\n")
}

// Create inserts a new noticia, rejecting duplicate slugs.
func (h *NoticiaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminNoticias+RouteSuffixNew) {
		return
	}
	f, msg := parseNoticiaForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, redirectAdminNoticias+RouteSuffixNew, msg)
		return
	}
	if taken, err := h.slugTaken(r, f.Slug, 0); err != nil {
		logAndInternalError(w, "failed to check slug", "error", err)
		return
	} else if taken {
		flashError(w, r, h.renderer, redirectAdminNoticias+RouteSuffixNew, "Ya existe una noticia con ese slug")
		return
	}

	now := time.Now()
	noticia, err := h.queries.CreateNoticia(r.Context(), store.CreateNoticiaParams{
		Title:         f.Title,
		Slug:          f.Slug,
		Excerpt:       f.Excerpt,
		Content:       f.Content,
		ContentFormat: f.ContentFormat,
		Category:      f.Category,
		ImageUrl:      f.ImageURL,
		VideoUrl:      f.VideoURL,
		Gallery:       f.Gallery,
		PublishDate:   f.PublishDate,
		IsPublished:   f.IsPublished,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create noticia", "error", err)
		return
	}

	h.publish(notify.OpInsert, noticia.ID)
	_ = h.activity.LogContent(r.Context(), model.ActivityLevelInfo, "Noticia created",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"id": noticia.ID, "slug": noticia.Slug})
	flashSuccess(w, r, h.renderer, redirectAdminNoticias, "Noticia creada")
}

// Update replaces an existing noticia, rejecting duplicate slugs.
func (h *NoticiaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminNoticias, "Noticia no encontrada")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminNoticias) {
		return
	}
	f, msg := parseNoticiaForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, redirectAdminNoticias, msg)
		return
	}
	if taken, err := h.slugTaken(r, f.Slug, id); err != nil {
		logAndInternalError(w, "failed to check slug", "error", err)
		return
	} else if taken {
		flashError(w, r, h.renderer, redirectAdminNoticias, "Ya existe una noticia con ese slug")
		return
	}

	noticia, err := h.queries.UpdateNoticia(r.Context(), store.UpdateNoticiaParams{
		ID:            id,
		Title:         f.Title,
		Slug:          f.Slug,
		Excerpt:       f.Excerpt,
		Content:       f.Content,
		ContentFormat: f.ContentFormat,
		Category:      f.Category,
		ImageUrl:      f.ImageURL,
		VideoUrl:      f.VideoURL,
		Gallery:       f.Gallery,
		PublishDate:   f.PublishDate,
		IsPublished:   f.IsPublished,
		UpdatedAt:     time.Now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, redirectAdminNoticias, "Noticia no encontrada")
			return
		}
		logAndInternalError(w, "failed to update noticia", "error", err, "id", id)
		return
	}

	h.publish(notify.OpUpdate, noticia.ID)
	_ = h.activity.LogContent(r.Context(), model.ActivityLevelInfo, "Noticia updated",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"id": noticia.ID})
	flashSuccess(w, r, h.renderer, redirectAdminNoticias, "Noticia actualizada")
}

// TogglePublished flips the publication flag.
func (h *NoticiaHandler) TogglePublished(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminNoticias, "Noticia no encontrada")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminNoticias) {
		return
	}
	published := formBool(r, "is_published")

	err := h.queries.SetNoticiaPublished(r.Context(), store.SetNoticiaPublishedParams{
		ID:          id,
		IsPublished: published,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, redirectAdminNoticias, "Noticia no encontrada")
			return
		}
		logAndInternalError(w, "failed to toggle noticia publication", "error", err, "id", id)
		return
	}

	h.publish(notify.OpUpdate, id)
	msg := "Noticia despublicada"
	if published {
		msg = "Noticia publicada"
	}
	flashSuccess(w, r, h.renderer, redirectAdminNoticias, msg)
}

// Delete removes a noticia permanently.
func (h *NoticiaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminNoticias, "Noticia no encontrada")
		return
	}
	noticia, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminNoticias, "Noticia", id,
		func(id int64) (store.Noticia, error) { return h.queries.GetNoticiaByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteNoticia(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete noticia", "error", err, "id", id)
		return
	}

	h.publish(notify.OpDelete, id)
	_ = h.activity.LogContent(r.Context(), model.ActivityLevelInfo, "Noticia deleted",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"id": id, "slug": noticia.Slug})
	flashSuccess(w, r, h.renderer, redirectAdminNoticias, "Noticia eliminada")
}

func (h *NoticiaHandler) slugTaken(r *http.Request, slug string, excludeID int64) (bool, error) {
	n, err := h.queries.CountNoticiasBySlug(r.Context(), slug, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (h *NoticiaHandler) publish(op string, id int64) {
	h.broker.Publish(notify.Event{
		Table: notify.TableNoticias,
		Op:    op,
		ID:    id,
		At:    time.Now(),
	})
}
