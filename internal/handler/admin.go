// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/mvargas/campana-go/internal/analytics"
	"github.com/mvargas/campana-go/internal/middleware"
	"github.com/mvargas/campana-go/internal/render"
	"github.com/mvargas/campana-go/internal/store"
)

// AdminHandler serves the dashboard.
type AdminHandler struct {
	db       *sql.DB
	queries  *store.Queries
	renderer *render.Renderer
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{db: db, queries: store.New(db), renderer: renderer}
}

// dashboardData aggregates the counters and recent activity shown on the
// admin home page.
type dashboardData struct {
	EventosTotal      int64
	EventosPublished  int64
	NoticiasTotal     int64
	NoticiasPublished int64
	MediaTotal        int64
	MensajesTotal     int64
	Visits            analytics.Summary
	RecentActivity    []store.ActivityLog
}

// Dashboard renders the admin dashboard with content counters, the visit
// summary and the latest activity entries.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data dashboardData
	var err error

	if data.EventosTotal, err = h.queries.CountEventos(ctx); err != nil {
		logAndInternalError(w, "failed to count eventos", "error", err)
		return
	}
	if data.EventosPublished, err = h.queries.CountPublishedEventos(ctx); err != nil {
		logAndInternalError(w, "failed to count published eventos", "error", err)
		return
	}
	if data.NoticiasTotal, err = h.queries.CountNoticias(ctx); err != nil {
		logAndInternalError(w, "failed to count noticias", "error", err)
		return
	}
	if data.NoticiasPublished, err = h.queries.CountPublishedNoticias(ctx); err != nil {
		logAndInternalError(w, "failed to count published noticias", "error", err)
		return
	}
	if data.MediaTotal, err = h.queries.CountMedia(ctx); err != nil {
		logAndInternalError(w, "failed to count media", "error", err)
		return
	}
	if data.MensajesTotal, err = h.queries.CountContactMessages(ctx); err != nil {
		logAndInternalError(w, "failed to count contact messages", "error", err)
		return
	}

	summary, err := analytics.BuildSummary(ctx, h.db)
	if err != nil {
		// The dashboard still renders without the visit summary.
		slog.Warn("failed to build visit summary", "error", err)
	} else {
		data.Visits = summary
	}

	data.RecentActivity, err = h.queries.ListActivity(ctx, store.ListActivityParams{Limit: 10})
	if err != nil {
		slog.Warn("failed to load recent activity", "error", err)
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title: "Panel de administración",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}
