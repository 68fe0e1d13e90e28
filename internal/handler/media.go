// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mvargas/campana-go/internal/middleware"
	"github.com/mvargas/campana-go/internal/model"
	"github.com/mvargas/campana-go/internal/render"
	"github.com/mvargas/campana-go/internal/service"
	"github.com/mvargas/campana-go/internal/store"
	"github.com/mvargas/campana-go/internal/util"
)

// maxUploadMemory bounds the multipart form buffer; larger file parts
// spill to temporary files.
const maxUploadMemory = 10 << 20

// MediaHandler handles the media library admin routes.
type MediaHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	media    *service.MediaService
	activity *service.ActivityService
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(db *sql.DB, renderer *render.Renderer, media *service.MediaService, activity *service.ActivityService) *MediaHandler {
	return &MediaHandler{
		queries:  store.New(db),
		renderer: renderer,
		media:    media,
		activity: activity,
	}
}

// mediaItem pairs a stored medium with its public URLs for the template.
type mediaItem struct {
	Medium       store.Medium
	URL          string
	ThumbnailURL string
}

// List renders the media library for one bucket. The bucket is selected
// with the "bucket" query parameter and defaults to images.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")
	if bucket != model.BucketImages && bucket != model.BucketVideos {
		bucket = model.BucketImages
	}

	media, err := h.queries.ListMediaByBucket(r.Context(), bucket)
	if err != nil {
		logAndInternalError(w, "failed to list media", "error", err)
		return
	}

	items := make([]mediaItem, 0, len(media))
	for _, m := range media {
		items = append(items, mediaItem{
			Medium:       m,
			URL:          h.media.URL(m),
			ThumbnailURL: h.media.ThumbnailURL(m),
		})
	}

	if err := h.renderer.Render(w, r, "admin/media", render.TemplateData{
		Title: "Biblioteca de medios",
		User:  middleware.GetUser(r),
		Data: map[string]any{
			"Bucket":  bucket,
			"Items":   items,
			"Folders": model.BucketFolders,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render media library", "error", err)
	}
}

// Upload stores a new file in the selected bucket and folder.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		bucket = model.BucketImages
	}
	redirect := redirectAdminMedia + "?bucket=" + url.QueryEscape(bucket)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		flashError(w, r, h.renderer, redirect, "No se pudo leer el archivo")
		return
	}
	if b := r.FormValue("bucket"); b != "" {
		bucket = b
		redirect = redirectAdminMedia + "?bucket=" + url.QueryEscape(bucket)
	}
	folder := r.FormValue("folder")

	file, header, err := r.FormFile("file")
	if err != nil {
		flashError(w, r, h.renderer, redirect, "Selecciona un archivo")
		return
	}
	defer file.Close()

	result, err := h.media.Upload(r.Context(), file, header.Filename, header.Size, bucket, folder)
	if err != nil {
		if !isUploadUserError(err) {
			slog.Error("failed to store upload", "error", err, "filename", header.Filename, "bucket", bucket)
		}
		flashError(w, r, h.renderer, redirect, uploadErrorMessage(err))
		return
	}

	_ = h.activity.LogMedia(r.Context(), model.ActivityLevelInfo, "Media uploaded",
		middleware.GetUserIDPtr(r), util.ClientIP(r),
		map[string]any{"id": result.Media.ID, "bucket": bucket, "filename": result.Media.Filename})
	flashSuccess(w, r, h.renderer, redirect, "Archivo subido: "+result.URL)
}

// Delete removes a media file. Referenced files are refused unless the
// form carries force=1.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMedia, "Archivo no encontrado")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminMedia) {
		return
	}
	force := formBool(r, "force")

	err := h.media.Delete(r.Context(), id, force)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMediaReferenced):
			flashError(w, r, h.renderer, redirectAdminMedia,
				"El archivo está en uso por contenido publicado. Usa eliminar forzado para quitarlo igualmente.")
		case errors.Is(err, sql.ErrNoRows):
			flashError(w, r, h.renderer, redirectAdminMedia, "Archivo no encontrado")
		default:
			logAndInternalError(w, "failed to delete media", "error", err, "id", id)
		}
		return
	}

	_ = h.activity.LogMedia(r.Context(), model.ActivityLevelInfo, "Media deleted",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"id": id, "force": force})
	flashSuccess(w, r, h.renderer, redirectAdminMedia, "Archivo eliminado")
}

// uploadErrorMessage maps upload failures to user-facing Spanish messages.
func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		return "El archivo supera el tamaño máximo permitido"
	case errors.Is(err, service.ErrUnsupportedType):
		return "Tipo de archivo no admitido"
	case errors.Is(err, service.ErrInvalidBucket):
		return "Destino de subida no válido"
	case errors.Is(err, service.ErrInvalidFolder):
		return "Carpeta no válida"
	default:
		return "No se pudo subir el archivo"
	}
}

func isUploadUserError(err error) bool {
	return errors.Is(err, service.ErrFileTooLarge) ||
		errors.Is(err, service.ErrUnsupportedType) ||
		errors.Is(err, service.ErrInvalidBucket) ||
		errors.Is(err, service.ErrInvalidFolder)
}
