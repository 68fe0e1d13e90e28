// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/mvargas/campana-go/internal/middleware"
	"github.com/mvargas/campana-go/internal/model"
	"github.com/mvargas/campana-go/internal/render"
	"github.com/mvargas/campana-go/internal/store"
)

const activityPerPage = 50

// ActivityHandler serves the read-only activity log view.
type ActivityHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(db *sql.DB, renderer *render.Renderer) *ActivityHandler {
	return &ActivityHandler{queries: store.New(db), renderer: renderer}
}

// List renders the paginated activity log, optionally filtered by level.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	switch level {
	case model.ActivityLevelInfo, model.ActivityLevelWarning, model.ActivityLevelError:
	default:
		level = ""
	}
	page := queryPage(r)

	total, err := h.queries.CountActivity(r.Context(), level)
	if err != nil {
		logAndInternalError(w, "failed to count activity", "error", err)
		return
	}
	entries, err := h.queries.ListActivity(r.Context(), store.ListActivityParams{
		Level:  level,
		Limit:  activityPerPage,
		Offset: int64(page-1) * activityPerPage,
	})
	if err != nil {
		logAndInternalError(w, "failed to list activity", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/actividad", render.TemplateData{
		Title: "Registro de actividad",
		User:  middleware.GetUser(r),
		Data: map[string]any{
			"Entries":    entries,
			"Level":      level,
			"Pagination": BuildAdminPagination(page, total, activityPerPage, redirectAdmin+RouteAdminActividad, r.URL.Query()),
		},
	}); err != nil {
		logAndInternalError(w, "failed to render activity log", "error", err)
	}
}
