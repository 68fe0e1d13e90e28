// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/mvargas/campana-go/internal/middleware"
	"github.com/mvargas/campana-go/internal/render"
	"github.com/mvargas/campana-go/internal/service"
)

const mensajesPerPage = 25

// MensajesHandler serves the contact message inbox.
type MensajesHandler struct {
	contact  *service.ContactService
	renderer *render.Renderer
}

// NewMensajesHandler creates a MensajesHandler.
func NewMensajesHandler(contact *service.ContactService, renderer *render.Renderer) *MensajesHandler {
	return &MensajesHandler{contact: contact, renderer: renderer}
}

// List renders the paginated inbox, newest first.
func (h *MensajesHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryPage(r)
	messages, total, err := h.contact.List(r.Context(), mensajesPerPage, int64(page-1)*mensajesPerPage)
	if err != nil {
		logAndInternalError(w, "failed to list contact messages", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/mensajes", render.TemplateData{
		Title: "Mensajes de contacto",
		User:  middleware.GetUser(r),
		Data: map[string]any{
			"Messages":   messages,
			"Pagination": BuildAdminPagination(page, total, mensajesPerPage, redirectAdminMensajes, r.URL.Query()),
		},
	}); err != nil {
		logAndInternalError(w, "failed to render contact messages", "error", err)
	}
}

// Delete removes a contact message permanently.
func (h *MensajesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMensajes, "Mensaje no encontrado")
		return
	}
	if err := h.contact.Delete(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete contact message", "error", err, "id", id)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminMensajes, "Mensaje eliminado")
}
