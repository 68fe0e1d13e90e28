// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"database/sql"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mvargas/campana-go/internal/cache"
	"github.com/mvargas/campana-go/internal/middleware"
	"github.com/mvargas/campana-go/internal/model"
	"github.com/mvargas/campana-go/internal/render"
	"github.com/mvargas/campana-go/internal/service"
	"github.com/mvargas/campana-go/internal/store"
)

const homeNoticiasLimit = 3

// FrontendHandler serves the public campaign pages.
type FrontendHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	cache    *cache.Manager
	contact  *service.ContactService
}

// NewFrontendHandler creates a FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, cm *cache.Manager, contact *service.ContactService) *FrontendHandler {
	return &FrontendHandler{
		queries:  store.New(db),
		renderer: renderer,
		cache:    cm,
		contact:  contact,
	}
}

// bufferedResponse captures a rendered page so it can be stored in the
// page cache before being written to the client.
type bufferedResponse struct {
	header http.Header
	buf    bytes.Buffer
	status int
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header         { return b.header }
func (b *bufferedResponse) WriteHeader(code int)        { b.status = code }
func (b *bufferedResponse) Write(p []byte) (int, error) { return b.buf.Write(p) }

// servePage renders a public page through the shared page cache. Pages
// carrying a flash message bypass the cache so the message is never
// stored or served to other visitors.
func (h *FrontendHandler) servePage(w http.ResponseWriter, r *http.Request, renderFn func(w http.ResponseWriter) error) {
	path := r.URL.Path
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}
	key := cache.PageKey(path)

	if cached, err := h.cache.Get(r.Context(), key); err == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Cache", "HIT")
		_, _ = w.Write(cached)
		return
	}

	rec := newBufferedResponse()
	if err := renderFn(rec); err != nil {
		logAndInternalError(w, "failed to render page", "error", err, "path", r.URL.Path)
		return
	}
	if rec.status == http.StatusOK {
		if err := h.cache.Set(r.Context(), key, rec.buf.Bytes()); err != nil {
			slog.Warn("failed to cache page", "error", err, "path", r.URL.Path)
		}
	}
	for k, vals := range rec.header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(rec.status)
	_, _ = w.Write(rec.buf.Bytes())
}

// base fills the template fields shared by every public page.
func (h *FrontendHandler) base(r *http.Request, title string) render.TemplateData {
	return render.TemplateData{
		Title:    title,
		SiteName: middleware.GetSiteName(r),
		Path:     r.URL.Path,
	}
}

// Home renders the landing page with featured eventos, the latest
// noticias and the active social links.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, func(out http.ResponseWriter) error {
		featured, err := h.queries.ListFeaturedEventos(r.Context())
		if err != nil {
			return err
		}
		noticias, err := h.queries.ListPublishedNoticias(r.Context(), homeNoticiasLimit)
		if err != nil {
			return err
		}
		links, err := h.queries.ListActiveSocialLinks(r.Context())
		if err != nil {
			return err
		}
		data := h.base(r, "Inicio")
		data.Data = map[string]any{
			"Featured":    featured,
			"Noticias":    noticias,
			"SocialLinks": links,
		}
		return h.renderer.Render(out, r, "public/home", data)
	})
}

// staticPage renders a template that needs no query data.
func (h *FrontendHandler) staticPage(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.servePage(w, r, func(out http.ResponseWriter) error {
			return h.renderer.Render(out, r, name, h.base(r, title))
		})
	}
}

// Partido renders the party page.
func (h *FrontendHandler) Partido(w http.ResponseWriter, r *http.Request) {
	h.staticPage("public/partido", "El Partido")(w, r)
}

// Candidato renders the candidate biography page.
func (h *FrontendHandler) Candidato(w http.ResponseWriter, r *http.Request) {
	h.staticPage("public/candidato", "La Candidata")(w, r)
}

// Propuestas renders the proposals page.
func (h *FrontendHandler) Propuestas(w http.ResponseWriter, r *http.Request) {
	h.staticPage("public/propuestas", "Propuestas")(w, r)
}

// Privacidad renders the privacy policy.
func (h *FrontendHandler) Privacidad(w http.ResponseWriter, r *http.Request) {
	h.staticPage("public/privacidad", "Política de privacidad")(w, r)
}

// Terminos renders the terms of use.
func (h *FrontendHandler) Terminos(w http.ResponseWriter, r *http.Request) {
	h.staticPage("public/terminos", "Términos de uso")(w, r)
}

// Transparencia renders the transparency page.
func (h *FrontendHandler) Transparencia(w http.ResponseWriter, r *http.Request) {
	h.staticPage("public/transparencia", "Transparencia")(w, r)
}

// Noticias renders the published news list, newest first. The optional
// ?categoria= query param filters the fetched set; an unknown categoria
// renders the full list.
func (h *FrontendHandler) Noticias(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, func(out http.ResponseWriter) error {
		noticias, err := h.queries.ListPublishedNoticias(r.Context(), 100)
		if err != nil {
			return err
		}
		categoria := r.URL.Query().Get("categoria")
		if model.IsValidNoticiaCategory(categoria) {
			filtered := noticias[:0:0]
			for _, n := range noticias {
				if n.Category == categoria {
					filtered = append(filtered, n)
				}
			}
			noticias = filtered
		}
		data := h.base(r, "Noticias")
		data.Data = map[string]any{
			"Noticias":   noticias,
			"Categorias": model.NoticiaCategories(),
			"Categoria":  categoria,
		}
		return h.renderer.Render(out, r, "public/noticias", data)
	})
}

// NoticiaDetail renders a single published noticia by slug. Drafts and
// unknown slugs both answer 404.
func (h *FrontendHandler) NoticiaDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	noticia, err := h.queries.GetPublishedNoticiaBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load noticia", "error", err, "slug", slug)
		return
	}

	h.servePage(w, r, func(out http.ResponseWriter) error {
		data := h.base(r, noticia.Title)
		data.Description = noticia.Excerpt
		data.Data = map[string]any{"Noticia": noticia}
		return h.renderer.Render(out, r, "public/noticia", data)
	})
}

// Eventos renders published upcoming eventos, soonest first.
func (h *FrontendHandler) Eventos(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, func(out http.ResponseWriter) error {
		today := time.Now().Truncate(24 * time.Hour)
		eventos, err := h.queries.ListPublishedUpcomingEventos(r.Context(), today)
		if err != nil {
			return err
		}
		data := h.base(r, "Eventos")
		data.Data = map[string]any{"Eventos": eventos}
		return h.renderer.Render(out, r, "public/eventos", data)
	})
}

// Contacto renders the contact page. It is never cached: the page shows
// per-visitor flash messages after a submission.
func (h *FrontendHandler) Contacto(w http.ResponseWriter, r *http.Request) {
	values, err := h.configValues(r)
	if err != nil {
		logAndInternalError(w, "failed to load site config", "error", err)
		return
	}
	data := h.base(r, "Contacto")
	data.Data = map[string]any{"Config": values}
	if err := h.renderer.Render(w, r, "public/contacto", data); err != nil {
		logAndInternalError(w, "failed to render contact page", "error", err)
	}
}

// SubmitContacto validates and stores a contact form submission.
func (h *FrontendHandler) SubmitContacto(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteContacto) {
		return
	}

	_, err := h.contact.Submit(r.Context(), service.ContactInput{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactMissingFields):
			flashError(w, r, h.renderer, RouteContacto, "Nombre, correo y mensaje son obligatorios")
		case errors.Is(err, service.ErrContactInvalidEmail):
			flashError(w, r, h.renderer, RouteContacto, "El correo electrónico no es válido")
		case errors.Is(err, service.ErrContactTooLong):
			flashError(w, r, h.renderer, RouteContacto, "El mensaje es demasiado largo")
		default:
			logAndInternalError(w, "failed to store contact message", "error", err)
		}
		return
	}

	flashSuccess(w, r, h.renderer, RouteContacto, "Gracias por tu mensaje. Te responderemos pronto.")
}

// configValues loads the site_config table as a map for templates.
func (h *FrontendHandler) configValues(r *http.Request) (map[string]string, error) {
	rows, err := h.queries.ListConfig(r.Context())
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	data := h.base(r, "Página no encontrada")
	if err := h.renderer.Render(w, r, "public/404", data); err != nil {
		http.Error(w, "404 page not found", http.StatusNotFound)
	}
}

// sitemapURL is one <url> entry in the sitemap.
type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap writes the sitemap.xml with the static pages and every
// published noticia.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	base := scheme + "://" + r.Host

	set := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range []string{RouteRoot, RoutePartido, RouteCandidato, RoutePropuestas,
		RouteNoticias, RouteEventos, RouteContacto, RoutePrivacidad, RouteTerminos, RouteTransparencia} {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + p})
	}

	noticias, err := h.queries.ListPublishedNoticias(r.Context(), 1000)
	if err != nil {
		logAndInternalError(w, "failed to list noticias for sitemap", "error", err)
		return
	}
	for _, n := range noticias {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     base + RouteNoticias + "/" + n.Slug,
			LastMod: n.UpdatedAt.Format("2006-01-02"),
		})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	fmt.Fprint(w, xml.Header)
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		slog.Error("failed to encode sitemap", "error", err)
	}
}

// Robots writes robots.txt, keeping crawlers out of the admin area.
func (h *FrontendHandler) Robots(w http.ResponseWriter, r *http.Request) {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nDisallow: /admin\nDisallow: /admin-login\n\nSitemap: %s://%s/sitemap.xml\n", scheme, r.Host)
}
