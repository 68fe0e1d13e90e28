// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/mvargas/campana-go/internal/middleware"
	"github.com/mvargas/campana-go/internal/model"
	"github.com/mvargas/campana-go/internal/render"
	"github.com/mvargas/campana-go/internal/service"
	"github.com/mvargas/campana-go/internal/store"
	"github.com/mvargas/campana-go/internal/util"
)

// editableConfigKeys lists the site_config keys exposed on the
// configuration form, in display order.
var editableConfigKeys = []string{
	store.ConfigSiteName,
	store.ConfigSiteTagline,
	store.ConfigContactEmail,
	store.ConfigContactPhone,
	store.ConfigWhatsAppNumber,
	store.ConfigMapEmbedURL,
	store.ConfigAddress,
}

// SettingsHandler handles the site configuration admin routes.
type SettingsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	activity *service.ActivityService
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(db *sql.DB, renderer *render.Renderer, activity *service.ActivityService) *SettingsHandler {
	return &SettingsHandler{queries: store.New(db), renderer: renderer, activity: activity}
}

// Form renders the configuration form with the current values.
func (h *SettingsHandler) Form(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListConfig(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load site config", "error", err)
		return
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	if err := h.renderer.Render(w, r, "admin/configuracion", render.TemplateData{
		Title: "Configuración del sitio",
		User:  middleware.GetUser(r),
		Data: map[string]any{
			"Keys":   editableConfigKeys,
			"Values": values,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render configuration", "error", err)
	}
}

// Save upserts every editable key present in the form.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminConfiguracion) {
		return
	}

	now := time.Now()
	changed := 0
	for _, key := range editableConfigKeys {
		if !r.Form.Has(key) {
			continue
		}
		err := h.queries.UpsertConfig(r.Context(), store.UpsertConfigParams{
			Key:       key,
			Value:     strings.TrimSpace(r.FormValue(key)),
			UpdatedAt: now,
		})
		if err != nil {
			logAndInternalError(w, "failed to save site config", "error", err, "key", key)
			return
		}
		changed++
	}

	_ = h.activity.LogConfig(r.Context(), model.ActivityLevelInfo, "Site configuration updated",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"keys": changed})
	flashSuccess(w, r, h.renderer, redirectAdminConfiguracion, "Configuración guardada")
}
