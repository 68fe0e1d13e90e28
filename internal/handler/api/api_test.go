// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mvargas/campana-go/internal/store"
	"github.com/mvargas/campana-go/internal/testutil"
)

func newTestAPI(t *testing.T) (*sql.DB, chi.Router) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	h := NewHandler(db)
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Get("/eventos", h.ListEventos)
		r.Get("/noticias", h.ListNoticias)
		r.Get("/noticias/{slug}", h.GetNoticia)
		r.Get("/redes", h.ListSocialLinks)
	})
	return db, r
}

func apiGet(t *testing.T, r chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func seedNoticia(t *testing.T, db *sql.DB, slug string, published bool) {
	t.Helper()
	now := time.Now()
	_, err := store.New(db).CreateNoticia(context.Background(), store.CreateNoticiaParams{
		Title:         "Noticia " + slug,
		Slug:          slug,
		Excerpt:       "Resumen",
		Content:       "Cuerpo completo",
		ContentFormat: "markdown",
		Category:      "Campaña",
		Gallery:       `["https://example.org/1.jpg"]`,
		IsPublished:   published,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateNoticia: %v", err)
	}
}

func TestStatus(t *testing.T) {
	_, r := newTestAPI(t)

	w := apiGet(t, r, "/api/v1/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp.Data["status"])
	}
}

func TestListNoticiasOnlyPublished(t *testing.T) {
	db, r := newTestAPI(t)
	seedNoticia(t, db, "publica", true)
	seedNoticia(t, db, "borrador", false)

	w := apiGet(t, r, "/api/v1/noticias")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data []noticiaJSON `json:"data"`
		Meta Meta          `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Slug != "publica" {
		t.Fatalf("data = %+v", resp.Data)
	}
	if resp.Data[0].Content != "" {
		t.Error("list entries should omit the body")
	}
	if resp.Meta.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Meta.Total)
	}
}

func TestGetNoticia(t *testing.T) {
	db, r := newTestAPI(t)
	seedNoticia(t, db, "publica", true)
	seedNoticia(t, db, "borrador", false)

	w := apiGet(t, r, "/api/v1/noticias/publica")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Data noticiaJSON `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.Content != "Cuerpo completo" {
		t.Errorf("content = %q", resp.Data.Content)
	}
	if len(resp.Data.Gallery) != 1 {
		t.Errorf("gallery = %v", resp.Data.Gallery)
	}

	// Drafts answer like missing slugs.
	if w := apiGet(t, r, "/api/v1/noticias/borrador"); w.Code != http.StatusNotFound {
		t.Errorf("draft status = %d, want 404", w.Code)
	}
	if w := apiGet(t, r, "/api/v1/noticias/nada"); w.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", w.Code)
	}
}

func TestListEventosOnlyUpcomingPublished(t *testing.T) {
	db, r := newTestAPI(t)
	queries := store.New(db)
	now := time.Now()

	for _, tc := range []struct {
		title     string
		date      time.Time
		published bool
	}{
		{"Próximo publicado", now.AddDate(0, 0, 3), true},
		{"Próximo borrador", now.AddDate(0, 0, 3), false},
		{"Pasado publicado", now.AddDate(0, 0, -3), true},
	} {
		_, err := queries.CreateEvento(context.Background(), store.CreateEventoParams{
			Title:       tc.title,
			Date:        tc.date,
			Type:        "Mitin",
			IsPublished: tc.published,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			t.Fatalf("CreateEvento: %v", err)
		}
	}

	w := apiGet(t, r, "/api/v1/eventos")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Data []eventoJSON `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Title != "Próximo publicado" {
		t.Fatalf("data = %+v", resp.Data)
	}
}

func TestListSocialLinksOnlyActive(t *testing.T) {
	db, r := newTestAPI(t)
	queries := store.New(db)
	now := time.Now()

	for i, active := range []bool{true, false} {
		_, err := queries.CreateSocialLink(context.Background(), store.CreateSocialLinkParams{
			Platform:     "Plataforma",
			Url:          "https://example.org",
			DisplayOrder: int64(i + 1),
			IsActive:     active,
			CreatedAt:    now,
		})
		if err != nil {
			t.Fatalf("CreateSocialLink: %v", err)
		}
	}

	w := apiGet(t, r, "/api/v1/redes")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Data []socialLinkJSON `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("data = %+v", resp.Data)
	}
}
