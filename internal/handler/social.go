// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/url"
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

// SocialHandler handles the social links admin routes.
type SocialHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	activity *service.ActivityService
	broker   *notify.Broker
}

// NewSocialHandler creates a SocialHandler.
func NewSocialHandler(db *sql.DB, renderer *render.Renderer, activity *service.ActivityService, broker *notify.Broker) *SocialHandler {
	return &SocialHandler{
		queries:  store.New(db),
		renderer: renderer,
		activity: activity,
		broker:   broker,
	}
}

// List renders the social links editor, ordered by display order.
func (h *SocialHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.queries.ListSocialLinks(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list social links", "error", err)
		return
	}
	if err := h.renderer.Render(w, r, "admin/redes", render.TemplateData{
		Title: "Redes sociales",
		User:  middleware.GetUser(r),
		Data:  map[string]any{"Links": links},
	}); err != nil {
		logAndInternalError(w, "failed to render social links", "error", err)
	}
}

// socialForm holds the parsed and validated social link form fields.
type socialForm struct {
	Platform       string
	Username       string
	URL            string
	FollowersCount string
	DisplayOrder   int64
	IsActive       bool
}

func parseSocialForm(r *http.Request) (socialForm, string) {
	f := socialForm{
		Platform:       strings.TrimSpace(r.FormValue("platform")),
		Username:       strings.TrimSpace(r.FormValue("username")),
		URL:            strings.TrimSpace(r.FormValue("url")),
		FollowersCount: strings.TrimSpace(r.FormValue("followers_count")),
		DisplayOrder:   formInt64(r, "display_order", 0),
		IsActive:       formBool(r, "is_active"),
	}
	if f.Platform == "" {
		return f, "La plataforma es obligatoria"
	}
	if f.URL == "" {
		return f, "La URL es obligatoria"
	}
	u, err := url.Parse(f.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return f, "La URL no es válida"
	}
	return f, ""
}

// Create inserts a new social link. When no display order is given the
// link is appended after the existing ones.
func (h *SocialHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminRedes) {
		return
	}
	f, msg := parseSocialForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, redirectAdminRedes, msg)
		return
	}
	if f.DisplayOrder == 0 {
		max, err := h.queries.MaxSocialDisplayOrder(r.Context())
		if err != nil {
			logAndInternalError(w, "failed to get max display order", "error", err)
			return
		}
		f.DisplayOrder = max + 1
	}

	style := model.StyleForPlatform(f.Platform)
	link, err := h.queries.CreateSocialLink(r.Context(), store.CreateSocialLinkParams{
		Platform:       f.Platform,
		Username:       f.Username,
		Url:            f.URL,
		Icon:           sql.NullString{String: style.Icon, Valid: true},
		FollowersCount: f.FollowersCount,
		DisplayOrder:   f.DisplayOrder,
		IsActive:       f.IsActive,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to create social link", "error", err)
		return
	}

	h.publish(notify.OpInsert, link.ID)
	_ = h.activity.LogContent(r.Context(), model.ActivityLevelInfo, "Social link created",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"id": link.ID, "platform": link.Platform})
	flashSuccess(w, r, h.renderer, redirectAdminRedes, "Red social añadida")
}

// Update replaces the editable fields of a social link.
func (h *SocialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminRedes, "Red social no encontrada")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminRedes) {
		return
	}
	f, msg := parseSocialForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, redirectAdminRedes, msg)
		return
	}

	style := model.StyleForPlatform(f.Platform)
	link, err := h.queries.UpdateSocialLink(r.Context(), store.UpdateSocialLinkParams{
		ID:             id,
		Platform:       f.Platform,
		Username:       f.Username,
		Url:            f.URL,
		Icon:           sql.NullString{String: style.Icon, Valid: true},
		FollowersCount: f.FollowersCount,
		DisplayOrder:   f.DisplayOrder,
		IsActive:       f.IsActive,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, redirectAdminRedes, "Red social no encontrada")
			return
		}
		logAndInternalError(w, "failed to update social link", "error", err, "id", id)
		return
	}

	h.publish(notify.OpUpdate, link.ID)
	flashSuccess(w, r, h.renderer, redirectAdminRedes, "Red social actualizada")
}

// ToggleActive flips the visibility flag of a social link.
func (h *SocialHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminRedes, "Red social no encontrada")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminRedes) {
		return
	}
	link, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminRedes, "Red social", id,
		func(id int64) (store.SocialLink, error) { return h.queries.GetSocialLinkByID(r.Context(), id) })
	if !ok {
		return
	}

	active := formBool(r, "is_active")
	_, err := h.queries.UpdateSocialLink(r.Context(), store.UpdateSocialLinkParams{
		ID:             link.ID,
		Platform:       link.Platform,
		Username:       link.Username,
		Url:            link.Url,
		Icon:           link.Icon,
		FollowersCount: link.FollowersCount,
		DisplayOrder:   link.DisplayOrder,
		IsActive:       active,
	})
	if err != nil {
		logAndInternalError(w, "failed to toggle social link", "error", err, "id", id)
		return
	}

	h.publish(notify.OpUpdate, id)
	msg := "Red social ocultada"
	if active {
		msg = "Red social visible"
	}
	flashSuccess(w, r, h.renderer, redirectAdminRedes, msg)
}

// Delete removes a social link permanently.
func (h *SocialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminRedes, "Red social no encontrada")
		return
	}
	if err := h.queries.DeleteSocialLink(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete social link", "error", err, "id", id)
		return
	}

	h.publish(notify.OpDelete, id)
	_ = h.activity.LogContent(r.Context(), model.ActivityLevelInfo, "Social link deleted",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"id": id})
	flashSuccess(w, r, h.renderer, redirectAdminRedes, "Red social eliminada")
}

func (h *SocialHandler) publish(op string, id int64) {
	h.broker.Publish(notify.Event{
		Table: notify.TableSocialLinks,
		Op:    op,
		ID:    id,
		At:    time.Now(),
	})
}
