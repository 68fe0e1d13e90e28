// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/mvargas/campana-go/internal/auth"
	"github.com/mvargas/campana-go/internal/cache"
	"github.com/mvargas/campana-go/internal/middleware"
	"github.com/mvargas/campana-go/internal/notify"
	"github.com/mvargas/campana-go/internal/render"
	"github.com/mvargas/campana-go/internal/service"
	"github.com/mvargas/campana-go/internal/session"
	"github.com/mvargas/campana-go/internal/store"
	"github.com/mvargas/campana-go/internal/testutil"
)

// testTemplates builds a minimal template set covering every page name
// the handlers render.
func testTemplates() fstest.MapFS {
	fsys := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<title>{{.Title}}</title><body>{{template "content" .}}</body>{{end}}`),
		},
		"layouts/admin.html": &fstest.MapFile{
			Data: []byte(`{{define "adminNav"}}<nav></nav>{{end}}`),
		},
	}
	pages := []string{
		"auth/login",
		"admin/dashboard", "admin/password", "admin/eventos", "admin/evento_form",
		"admin/noticias", "admin/noticia_form", "admin/redes", "admin/media",
		"admin/mensajes", "admin/configuracion", "admin/actividad",
		"public/home", "public/partido", "public/candidato", "public/propuestas",
		"public/noticias", "public/noticia", "public/eventos", "public/contacto",
		"public/privacidad", "public/terminos", "public/transparencia", "public/404",
	}
	for _, p := range pages {
		fsys[p+".html"] = &fstest.MapFile{
			Data: []byte(`{{define "content"}}<main data-page="` + p + `">{{.Flash}}</main>{{end}}`),
		}
	}
	return fsys
}

// testApp wires the handlers onto a router the way main does, minus the
// CSRF and auth middleware so handlers can be exercised directly.
type testApp struct {
	db       *sql.DB
	queries  *store.Queries
	router   chi.Router
	sm       *scs.SessionManager
	renderer *render.Renderer
	broker   *notify.Broker
	cache    *cache.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	sm := session.New(db, true)
	renderer, err := render.New(render.Config{TemplatesFS: testTemplates(), SessionManager: sm, IsDev: true})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	broker := notify.NewBroker(8)
	t.Cleanup(broker.Close)
	cm := cache.NewManagerWithBackend(cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute}), time.Minute)

	activity := service.NewActivityService(db)
	contact := service.NewContactService(db)
	media := service.NewMediaService(db, t.TempDir())
	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	authH := NewAuthHandler(db, renderer, sm, activity, lp)
	frontH := NewFrontendHandler(db, renderer, cm, contact)
	eventosH := NewEventoHandler(db, renderer, activity, broker)
	noticiasH := NewNoticiaHandler(db, renderer, activity, broker)
	socialH := NewSocialHandler(db, renderer, activity, broker)
	mediaH := NewMediaHandler(db, renderer, media, activity)
	settingsH := NewSettingsHandler(db, renderer, activity)
	mensajesH := NewMensajesHandler(contact, renderer)
	adminH := NewAdminHandler(db, renderer)
	activityH := NewActivityHandler(db, renderer)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)

	r.Get(RouteRoot, frontH.Home)
	r.Get(RoutePartido, frontH.Partido)
	r.Get(RouteNoticias, frontH.Noticias)
	r.Get(RouteNoticias+RouteParamSlug, frontH.NoticiaDetail)
	r.Get(RouteEventos, frontH.Eventos)
	r.Get(RouteContacto, frontH.Contacto)
	r.Post(RouteContacto, frontH.SubmitContacto)
	r.Get("/sitemap.xml", frontH.Sitemap)
	r.Get("/robots.txt", frontH.Robots)
	r.NotFound(frontH.NotFound)

	r.Get(RouteLogin, authH.LoginForm)
	r.Post(RouteLogin, authH.Login)
	r.Post(RouteLogout, authH.Logout)

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Get(RouteRoot, adminH.Dashboard)
		r.Route(RouteAdminEventos, func(r chi.Router) {
			r.Get(RouteRoot, eventosH.List)
			r.Post(RouteRoot, eventosH.Create)
			r.Post(RouteParamID, eventosH.Update)
			r.Post(RouteParamID+RouteSuffixPublish, eventosH.TogglePublished)
			r.Post(RouteParamID+RouteSuffixFeature, eventosH.ToggleFeatured)
			r.Post(RouteParamID+RouteSuffixDelete, eventosH.Delete)
		})
		r.Route(RouteAdminNoticias, func(r chi.Router) {
			r.Get(RouteRoot, noticiasH.List)
			r.Post(RouteRoot, noticiasH.Create)
			r.Post(RouteParamID, noticiasH.Update)
			r.Post(RouteParamID+RouteSuffixPublish, noticiasH.TogglePublished)
			r.Post(RouteParamID+RouteSuffixDelete, noticiasH.Delete)
		})
		r.Route(RouteAdminRedes, func(r chi.Router) {
			r.Get(RouteRoot, socialH.List)
			r.Post(RouteRoot, socialH.Create)
			r.Post(RouteParamID, socialH.Update)
			r.Post(RouteParamID+RouteSuffixDelete, socialH.Delete)
		})
		r.Get(RouteAdminMedia, mediaH.List)
		r.Post(RouteAdminMedia+RouteParamID+RouteSuffixDelete, mediaH.Delete)
		r.Get(RouteAdminMensajes, mensajesH.List)
		r.Post(RouteAdminMensajes+RouteParamID+RouteSuffixDelete, mensajesH.Delete)
		r.Get(RouteAdminConfiguracion, settingsH.Form)
		r.Post(RouteAdminConfiguracion, settingsH.Save)
		r.Get(RouteAdminActividad, activityH.List)
	})

	return &testApp{
		db:       db,
		queries:  store.New(db),
		router:   r,
		sm:       sm,
		renderer: renderer,
		broker:   broker,
		cache:    cm,
	}
}

func (a *testApp) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) createUser(t *testing.T, email, password string) store.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now()
	user, err := a.queries.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         "admin",
		Name:         "Prueba",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func (a *testApp) createEvento(t *testing.T, title string, published bool) store.Evento {
	t.Helper()
	now := time.Now()
	evento, err := a.queries.CreateEvento(context.Background(), store.CreateEventoParams{
		Title:       title,
		Date:        now.AddDate(0, 0, 7),
		Time:        "18:00",
		Location:    "Plaza Central",
		Type:        "Mitin",
		IsPublished: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateEvento: %v", err)
	}
	return evento
}

func (a *testApp) createNoticia(t *testing.T, title, slug string, published bool) store.Noticia {
	t.Helper()
	now := time.Now()
	noticia, err := a.queries.CreateNoticia(context.Background(), store.CreateNoticiaParams{
		Title:         title,
		Slug:          slug,
		Excerpt:       "Resumen",
		Content:       "Contenido",
		ContentFormat: "markdown",
		Category:      "Campaña",
		Gallery:       "[]",
		IsPublished:   published,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateNoticia: %v", err)
	}
	return noticia
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "ana@example.org", "correct-horse-battery")

	w := app.postForm(t, RouteLogin, url.Values{
		"email":    {"ana@example.org"},
		"password": {"wrong"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != RouteLogin {
		t.Errorf("redirect = %q, want %q", loc, RouteLogin)
	}
}

func TestLoginUnknownAccountSameRedirect(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, RouteLogin, url.Values{
		"email":    {"nadie@example.org"},
		"password": {"whatever"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != RouteLogin {
		t.Errorf("redirect = %q, want %q", loc, RouteLogin)
	}
}

func TestLoginSuccess(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "ana@example.org", "correct-horse-battery")

	w := app.postForm(t, RouteLogin, url.Values{
		"email":    {"ana@example.org"},
		"password": {"correct-horse-battery"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != redirectAdmin {
		t.Errorf("redirect = %q, want %q", loc, redirectAdmin)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
}

func TestEventoCreateAndPublishEvents(t *testing.T) {
	app := newTestApp(t)
	events := app.broker.Subscribe()
	defer app.broker.Unsubscribe(events)

	w := app.postForm(t, redirectAdminEventos, url.Values{
		"title":    {"Gran mitin de cierre"},
		"date":     {"2026-10-01"},
		"time":     {"19:00"},
		"location": {"Estadio Municipal"},
		"type":     {"Mitin"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}

	select {
	case ev := <-events:
		if ev.Table != notify.TableEventos || ev.Op != notify.OpInsert {
			t.Errorf("event = %+v, want eventos INSERT", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no change event published")
	}

	eventos, err := app.queries.ListEventos(context.Background())
	if err != nil {
		t.Fatalf("ListEventos: %v", err)
	}
	if len(eventos) != 1 || eventos[0].Title != "Gran mitin de cierre" {
		t.Fatalf("eventos = %+v", eventos)
	}
	if eventos[0].IsPublished {
		t.Error("new evento should start unpublished")
	}

	// Toggle publication.
	w = app.postForm(t, redirectAdminEventos+"/1"+RouteSuffixPublish, url.Values{
		"is_published": {"on"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("toggle status = %d, want 303", w.Code)
	}
	evento, err := app.queries.GetEventoByID(context.Background(), eventos[0].ID)
	if err != nil {
		t.Fatalf("GetEventoByID: %v", err)
	}
	if !evento.IsPublished {
		t.Error("evento should be published after toggle")
	}
}

func TestEventoToggleUnknownIDFlashesError(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, redirectAdminEventos+"/999"+RouteSuffixPublish, url.Values{
		"is_published": {"on"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != redirectAdminEventos {
		t.Errorf("redirect = %q, want %q", loc, redirectAdminEventos)
	}
}

func TestEventoCreateRejectsBadType(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, redirectAdminEventos, url.Values{
		"title": {"Evento raro"},
		"date":  {"2026-10-01"},
		"type":  {"Fiesta"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	n, err := app.queries.CountEventos(context.Background())
	if err != nil {
		t.Fatalf("CountEventos: %v", err)
	}
	if n != 0 {
		t.Errorf("eventos = %d, want 0", n)
	}
}

func TestEventoCreateEmptyTitleWritesNothing(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, redirectAdminEventos, url.Values{
		"title":    {"   "},
		"date":     {"2026-10-01"},
		"time":     {"10:00"},
		"location": {"Plaza Central"},
		"type":     {"mitin"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	n, err := app.queries.CountEventos(context.Background())
	if err != nil {
		t.Fatalf("CountEventos: %v", err)
	}
	if n != 0 {
		t.Errorf("eventos = %d, want 0 after empty-title submit", n)
	}
}

func TestNoticiaCreateEmptyTitleWritesNothing(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, redirectAdminNoticias, url.Values{
		"title":   {""},
		"content": {"Texto sin título"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	n, err := app.queries.CountNoticias(context.Background())
	if err != nil {
		t.Fatalf("CountNoticias: %v", err)
	}
	if n != 0 {
		t.Errorf("noticias = %d, want 0 after empty-title submit", n)
	}
}

func TestNoticiaCreateDerivesSlug(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, redirectAdminNoticias, url.Values{
		"title":    {"Educación para todos"},
		"content":  {"Texto"},
		"category": {"Educación"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	noticias, err := app.queries.ListNoticias(context.Background())
	if err != nil {
		t.Fatalf("ListNoticias: %v", err)
	}
	if len(noticias) != 1 {
		t.Fatalf("noticias = %d, want 1", len(noticias))
	}
	if noticias[0].Slug != "educacion-para-todos" {
		t.Errorf("slug = %q", noticias[0].Slug)
	}
}

func TestNoticiaCreateDefaultsPublishDateToToday(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, redirectAdminNoticias, url.Values{
		"title":   {"Sin fecha"},
		"content": {"Texto"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	noticias, err := app.queries.ListNoticias(context.Background())
	if err != nil {
		t.Fatalf("ListNoticias: %v", err)
	}
	if len(noticias) != 1 {
		t.Fatalf("noticias = %d, want 1", len(noticias))
	}
	if !noticias[0].PublishDate.Valid {
		t.Fatal("publish_date is NULL, want today")
	}
	today := time.Now().Format("2006-01-02")
	if got := noticias[0].PublishDate.Time.Format("2006-01-02"); got != today {
		t.Errorf("publish_date = %s, want %s", got, today)
	}
}

func TestNoticiaCreateRejectsDuplicateSlug(t *testing.T) {
	app := newTestApp(t)
	app.createNoticia(t, "Primera", "misma-noticia", true)

	w := app.postForm(t, redirectAdminNoticias, url.Values{
		"title":   {"Segunda"},
		"slug":    {"misma-noticia"},
		"content": {"Texto"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	n, err := app.queries.CountNoticias(context.Background())
	if err != nil {
		t.Fatalf("CountNoticias: %v", err)
	}
	if n != 1 {
		t.Errorf("noticias = %d, want 1", n)
	}
}

func TestGalleryRoundTrip(t *testing.T) {
	got := galleryJSON("https://a.example/1.jpg\n\n  https://a.example/2.jpg  \n")
	want := `["https://a.example/1.jpg","https://a.example/2.jpg"]`
	if got != want {
		t.Errorf("galleryJSON = %q, want %q", got, want)
	}
	if lines := galleryLines(got); lines != "https://a.example/1.jpg\nhttps://a.example/2.jpg" {
		t.Errorf("galleryLines = %q", lines)
	}
	if galleryJSON("") != "[]" {
		t.Errorf("empty gallery = %q, want []", galleryJSON(""))
	}
}

func TestPublicNoticiaDetail(t *testing.T) {
	app := newTestApp(t)
	app.createNoticia(t, "Publicada", "publicada", true)
	app.createNoticia(t, "Borrador", "borrador", false)

	if w := app.get(t, "/noticias/publicada"); w.Code != http.StatusOK {
		t.Errorf("published noticia status = %d, want 200", w.Code)
	}
	// Drafts are indistinguishable from missing slugs.
	if w := app.get(t, "/noticias/borrador"); w.Code != http.StatusNotFound {
		t.Errorf("draft noticia status = %d, want 404", w.Code)
	}
	if w := app.get(t, "/noticias/no-existe"); w.Code != http.StatusNotFound {
		t.Errorf("unknown noticia status = %d, want 404", w.Code)
	}
}

func TestPublicEventosOnlyPublished(t *testing.T) {
	app := newTestApp(t)
	app.createEvento(t, "Visible", true)
	app.createEvento(t, "Oculto", false)

	w := app.get(t, RouteEventos)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestHomePageCached(t *testing.T) {
	app := newTestApp(t)

	w := app.get(t, RouteRoot)
	if w.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", w.Code)
	}
	if w.Header().Get("X-Cache") == "HIT" {
		t.Error("first request should miss the cache")
	}

	w = app.get(t, RouteRoot)
	if w.Code != http.StatusOK {
		t.Fatalf("second status = %d, want 200", w.Code)
	}
	if w.Header().Get("X-Cache") != "HIT" {
		t.Error("second request should hit the cache")
	}
}

func TestContactSubmitAndInbox(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, RouteContacto, url.Values{
		"name":    {"Luis"},
		"email":   {"luis@example.org"},
		"message": {"Quiero ser voluntario"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != RouteContacto {
		t.Errorf("redirect = %q, want %q", loc, RouteContacto)
	}

	if w := app.get(t, redirectAdminMensajes); w.Code != http.StatusOK {
		t.Errorf("inbox status = %d, want 200", w.Code)
	}

	n, err := app.queries.CountContactMessages(context.Background())
	if err != nil {
		t.Fatalf("CountContactMessages: %v", err)
	}
	if n != 1 {
		t.Errorf("messages = %d, want 1", n)
	}
}

func TestContactSubmitInvalidEmail(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, RouteContacto, url.Values{
		"name":    {"Luis"},
		"email":   {"no-es-un-correo"},
		"message": {"Hola"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	n, err := app.queries.CountContactMessages(context.Background())
	if err != nil {
		t.Fatalf("CountContactMessages: %v", err)
	}
	if n != 0 {
		t.Errorf("messages = %d, want 0", n)
	}
}

func TestSettingsSave(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, redirectAdminConfiguracion, url.Values{
		store.ConfigSiteName:     {"Mariana Vargas 2026"},
		store.ConfigContactEmail: {"hola@example.org"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	cfg, err := app.queries.GetConfig(context.Background(), store.ConfigSiteName)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if cfg.Value != "Mariana Vargas 2026" {
		t.Errorf("site_name = %q", cfg.Value)
	}
}

func TestSocialLinkCreateAppendsOrder(t *testing.T) {
	app := newTestApp(t)

	for _, platform := range []string{"Facebook", "Instagram"} {
		w := app.postForm(t, redirectAdminRedes, url.Values{
			"platform":  {platform},
			"url":       {"https://example.org/" + platform},
			"is_active": {"on"},
		})
		if w.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", w.Code)
		}
	}

	links, err := app.queries.ListSocialLinks(context.Background())
	if err != nil {
		t.Fatalf("ListSocialLinks: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("links = %d, want 2", len(links))
	}
	if links[0].DisplayOrder != 1 || links[1].DisplayOrder != 2 {
		t.Errorf("display orders = %d, %d", links[0].DisplayOrder, links[1].DisplayOrder)
	}
}

func TestSocialLinkUpdateRefreshesIcon(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm(t, redirectAdminRedes, url.Values{
		"platform":  {"Facebook"},
		"url":       {"https://facebook.com/campana"},
		"is_active": {"on"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d, want 303", w.Code)
	}
	links, err := app.queries.ListSocialLinks(context.Background())
	if err != nil || len(links) != 1 {
		t.Fatalf("ListSocialLinks: %v (%d links)", err, len(links))
	}
	if links[0].Icon.String != "facebook" {
		t.Fatalf("icon = %q, want facebook", links[0].Icon.String)
	}

	w = app.postForm(t, fmt.Sprintf("%s/%d", redirectAdminRedes, links[0].ID), url.Values{
		"platform":      {"YouTube"},
		"url":           {"https://youtube.com/@campana"},
		"display_order": {"1"},
		"is_active":     {"on"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d, want 303", w.Code)
	}
	updated, err := app.queries.GetSocialLinkByID(context.Background(), links[0].ID)
	if err != nil {
		t.Fatalf("GetSocialLinkByID: %v", err)
	}
	if updated.Icon.String != "youtube" {
		t.Errorf("icon = %q after platform change, want youtube", updated.Icon.String)
	}
}

func TestSitemapIncludesPublishedNoticias(t *testing.T) {
	app := newTestApp(t)
	app.createNoticia(t, "Publicada", "en-el-sitemap", true)
	app.createNoticia(t, "Borrador", "fuera-del-sitemap", false)

	w := app.get(t, "/sitemap.xml")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "/noticias/en-el-sitemap") {
		t.Error("sitemap missing published noticia")
	}
	if strings.Contains(body, "fuera-del-sitemap") {
		t.Error("sitemap leaked draft noticia")
	}
}

func TestRobots(t *testing.T) {
	app := newTestApp(t)

	w := app.get(t, "/robots.txt")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Disallow: /admin") {
		t.Error("robots.txt should disallow /admin")
	}
}

func TestDashboardRenders(t *testing.T) {
	app := newTestApp(t)
	app.createEvento(t, "Evento", true)

	w := app.get(t, redirectAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestActivityLogLevelFilter(t *testing.T) {
	app := newTestApp(t)

	if w := app.get(t, redirectAdmin+RouteAdminActividad+"?level=warning"); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w := app.get(t, redirectAdmin+RouteAdminActividad+"?level=nonsense"); w.Code != http.StatusOK {
		t.Errorf("bad level should fall back to all, got %d", w.Code)
	}
}
