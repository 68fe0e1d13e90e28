// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mvargas/campana-go/internal/store"
)

const apiNoticiasLimit = 50

// eventoJSON is the public JSON shape of an evento.
type eventoJSON struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
	Location   string `json:"location,omitempty"`
	Type       string `json:"type"`
	Desc       string `json:"description,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	VideoURL   string `json:"video_url,omitempty"`
	IsFeatured bool   `json:"is_featured"`
}

func toEventoJSON(e store.Evento) eventoJSON {
	return eventoJSON{
		ID:         e.ID,
		Title:      e.Title,
		Date:       e.Date.Format("2006-01-02"),
		Time:       e.Time,
		Location:   e.Location,
		Type:       e.Type,
		Desc:       e.Description,
		ImageURL:   e.ImageUrl,
		VideoURL:   e.VideoUrl,
		IsFeatured: e.IsFeatured,
	}
}

// ListEventos answers GET /api/v1/eventos with published upcoming eventos.
func (h *Handler) ListEventos(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Truncate(24 * time.Hour)
	eventos, err := h.queries.ListPublishedUpcomingEventos(r.Context(), today)
	if err != nil {
		slog.Error("failed to list eventos", "error", err)
		WriteInternalError(w)
		return
	}
	out := make([]eventoJSON, 0, len(eventos))
	for _, e := range eventos {
		out = append(out, toEventoJSON(e))
	}
	WriteSuccess(w, out, &Meta{Total: len(out)})
}

// noticiaJSON is the public JSON shape of a noticia.
type noticiaJSON struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Content     string   `json:"content,omitempty"`
	Category    string   `json:"category,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	VideoURL    string   `json:"video_url,omitempty"`
	Gallery     []string `json:"gallery,omitempty"`
	PublishDate string   `json:"publish_date,omitempty"`
}

func toNoticiaJSON(n store.Noticia, includeContent bool) noticiaJSON {
	out := noticiaJSON{
		ID:       n.ID,
		Title:    n.Title,
		Slug:     n.Slug,
		Excerpt:  n.Excerpt,
		Category: n.Category,
		ImageURL: n.ImageUrl,
		VideoURL: n.VideoUrl,
	}
	if includeContent {
		out.Content = n.Content
		_ = json.Unmarshal([]byte(n.Gallery), &out.Gallery)
	}
	if n.PublishDate.Valid {
		out.PublishDate = n.PublishDate.Time.Format("2006-01-02")
	}
	return out
}

// ListNoticias answers GET /api/v1/noticias with published noticias,
// newest first. List entries omit the body.
func (h *Handler) ListNoticias(w http.ResponseWriter, r *http.Request) {
	noticias, err := h.queries.ListPublishedNoticias(r.Context(), apiNoticiasLimit)
	if err != nil {
		slog.Error("failed to list noticias", "error", err)
		WriteInternalError(w)
		return
	}
	out := make([]noticiaJSON, 0, len(noticias))
	for _, n := range noticias {
		out = append(out, toNoticiaJSON(n, false))
	}
	WriteSuccess(w, out, &Meta{Total: len(out)})
}

// GetNoticia answers GET /api/v1/noticias/{slug}. Drafts answer 404.
func (h *Handler) GetNoticia(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	noticia, err := h.queries.GetPublishedNoticiaBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "noticia not found")
			return
		}
		slog.Error("failed to get noticia", "error", err, "slug", slug)
		WriteInternalError(w)
		return
	}
	WriteSuccess(w, toNoticiaJSON(noticia, true), nil)
}

// socialLinkJSON is the public JSON shape of a social link.
type socialLinkJSON struct {
	Platform       string `json:"platform"`
	Username       string `json:"username,omitempty"`
	URL            string `json:"url"`
	Icon           string `json:"icon,omitempty"`
	FollowersCount string `json:"followers_count,omitempty"`
}

// ListSocialLinks answers GET /api/v1/redes with active links in
// display order.
func (h *Handler) ListSocialLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.queries.ListActiveSocialLinks(r.Context())
	if err != nil {
		slog.Error("failed to list social links", "error", err)
		WriteInternalError(w)
		return
	}
	out := make([]socialLinkJSON, 0, len(links))
	for _, l := range links {
		out = append(out, socialLinkJSON{
			Platform:       l.Platform,
			Username:       l.Username,
			URL:            l.Url,
			Icon:           l.Icon.String,
			FollowersCount: l.FollowersCount,
		})
	}
	WriteSuccess(w, out, &Meta{Total: len(out)})
}
