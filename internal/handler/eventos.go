// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
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

// EventoHandler handles the eventos admin CRUD routes.
type EventoHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	activity *service.ActivityService
	broker   *notify.Broker
}

// NewEventoHandler creates an EventoHandler.
func NewEventoHandler(db *sql.DB, renderer *render.Renderer, activity *service.ActivityService, broker *notify.Broker) *EventoHandler {
	return &EventoHandler{
		queries:  store.New(db),
		renderer: renderer,
		activity: activity,
		broker:   broker,
	}
}

// List renders the eventos admin list.
func (h *EventoHandler) List(w http.ResponseWriter, r *http.Request) {
	eventos, err := h.queries.ListEventos(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list eventos", "error", err)
		return
	}
	if err := h.renderer.Render(w, r, "admin/eventos", render.TemplateData{
		Title: "Eventos",
		User:  middleware.GetUser(r),
		Data: map[string]any{
			"Eventos": eventos,
			"Types":   model.EventoTypes(),
		},
	}); err != nil {
		logAndInternalError(w, "failed to render eventos list", "error", err)
	}
}

// NewForm renders the empty evento form.
func (h *EventoHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "admin/evento_form", render.TemplateData{
		Title: "Nuevo evento",
		User:  middleware.GetUser(r),
		Data: map[string]any{
			"Evento": store.Evento{Type: model.EventoTypeMitin},
			"Types":  model.EventoTypes(),
			"IsNew":  true,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render evento form", "error", err)
	}
}

// EditForm renders the evento form pre-filled with an existing evento.
func (h *EventoHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminEventos, "Evento no encontrado")
		return
	}
	evento, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminEventos, "Evento", id,
		func(id int64) (store.Evento, error) { return h.queries.GetEventoByID(r.Context(), id) })
	if !ok {
		return
	}
	if err := h.renderer.Render(w, r, "admin/evento_form", render.TemplateData{
		Title: "Editar evento",
		User:  middleware.GetUser(r),
		Data: map[string]any{
			"Evento": evento,
			"Types":  model.EventoTypes(),
			"IsNew":  false,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render evento form", "error", err)
	}
}

// eventoForm holds the parsed and validated evento form fields.
type eventoForm struct {
	Title       string
	Date        time.Time
	Time        string
	Location    string
	Type        string
	Description string
	ImageURL    string
	VideoURL    string
	IsFeatured  bool
	IsPublished bool
}

// parseEventoForm validates the submitted form. A non-empty second return
// is a user-facing validation message.
func parseEventoForm(r *http.Request) (eventoForm, string) {
	f := eventoForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Time:        strings.TrimSpace(r.FormValue("time")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Type:        r.FormValue("type"),
		Description: strings.TrimSpace(r.FormValue("description")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		VideoURL:    strings.TrimSpace(r.FormValue("video_url")),
		IsFeatured:  formBool(r, "is_featured"),
		IsPublished: formBool(r, "is_published"),
	}
	if f.Title == "" {
		return f, "El título es obligatorio"
	}
	date := util.ParseDateNull(r.FormValue("date"))
	if !date.Valid {
		return f, "La fecha no es válida"
	}
	f.Date = date.Time
	if !model.IsValidEventoType(f.Type) {
		return f, "El tipo de evento no es válido"
	}
	return f, ""
}

// Create inserts a new evento and announces the change.
func (h *EventoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEventos+RouteSuffixNew) {
		return
	}
	f, msg := parseEventoForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, redirectAdminEventos+RouteSuffixNew, msg)
		return
	}

	now := time.Now()
	evento, err := h.queries.CreateEvento(r.Context(), store.CreateEventoParams{
		Title:       f.Title,
		Date:        f.Date,
		Time:        f.Time,
		Location:    f.Location,
		Type:        f.Type,
		Description: f.Description,
		ImageUrl:    f.ImageURL,
		VideoUrl:    f.VideoURL,
		IsFeatured:  f.IsFeatured,
		IsPublished: f.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create evento", "error", err)
		return
	}

	h.publish(notify.OpInsert, evento.ID)
	_ = h.activity.LogContent(r.Context(), model.ActivityLevelInfo, "Evento created",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"id": evento.ID, "title": evento.Title})
	flashSuccess(w, r, h.renderer, redirectAdminEventos, "Evento creado")
}

// Update replaces an existing evento and announces the change.
func (h *EventoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminEventos, "Evento no encontrado")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEventos) {
		return
	}
	f, msg := parseEventoForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, redirectAdminEventos, msg)
		return
	}

	evento, err := h.queries.UpdateEvento(r.Context(), store.UpdateEventoParams{
		ID:          id,
		Title:       f.Title,
		Date:        f.Date,
		Time:        f.Time,
		Location:    f.Location,
		Type:        f.Type,
		Description: f.Description,
		ImageUrl:    f.ImageURL,
		VideoUrl:    f.VideoURL,
		IsFeatured:  f.IsFeatured,
		IsPublished: f.IsPublished,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, redirectAdminEventos, "Evento no encontrado")
			return
		}
		logAndInternalError(w, "failed to update evento", "error", err, "id", id)
		return
	}

	h.publish(notify.OpUpdate, evento.ID)
	_ = h.activity.LogContent(r.Context(), model.ActivityLevelInfo, "Evento updated",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"id": evento.ID})
	flashSuccess(w, r, h.renderer, redirectAdminEventos, "Evento actualizado")
}

// TogglePublished flips the publication flag.
func (h *EventoHandler) TogglePublished(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminEventos, "Evento no encontrado")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEventos) {
		return
	}
	published := formBool(r, "is_published")

	err := h.queries.SetEventoPublished(r.Context(), store.SetEventoPublishedParams{
		ID:          id,
		IsPublished: published,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, redirectAdminEventos, "Evento no encontrado")
			return
		}
		logAndInternalError(w, "failed to toggle evento publication", "error", err, "id", id)
		return
	}

	h.publish(notify.OpUpdate, id)
	msg := "Evento despublicado"
	if published {
		msg = "Evento publicado"
	}
	flashSuccess(w, r, h.renderer, redirectAdminEventos, msg)
}

// ToggleFeatured flips the featured flag.
func (h *EventoHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminEventos, "Evento no encontrado")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEventos) {
		return
	}
	featured := formBool(r, "is_featured")

	err := h.queries.SetEventoFeatured(r.Context(), store.SetEventoFeaturedParams{
		ID:         id,
		IsFeatured: featured,
		UpdatedAt:  time.Now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, redirectAdminEventos, "Evento no encontrado")
			return
		}
		logAndInternalError(w, "failed to toggle evento featured flag", "error", err, "id", id)
		return
	}

	h.publish(notify.OpUpdate, id)
	msg := "Evento quitado de destacados"
	if featured {
		msg = "Evento destacado"
	}
	flashSuccess(w, r, h.renderer, redirectAdminEventos, msg)
}

// Delete removes an evento permanently.
func (h *EventoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminEventos, "Evento no encontrado")
		return
	}
	evento, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminEventos, "Evento", id,
		func(id int64) (store.Evento, error) { return h.queries.GetEventoByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteEvento(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete evento", "error", err, "id", id)
		return
	}

	h.publish(notify.OpDelete, id)
	_ = h.activity.LogContent(r.Context(), model.ActivityLevelInfo, "Evento deleted",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"id": id, "title": evento.Title})
	flashSuccess(w, r, h.renderer, redirectAdminEventos, "Evento eliminado")
}

func (h *EventoHandler) publish(op string, id int64) {
	h.broker.Publish(notify.Event{
		Table: notify.TableEventos,
		Op:    op,
		ID:    id,
		At:    time.Now(),
	})
}
