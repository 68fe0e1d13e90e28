// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

// Command campana runs the campaign website: the public pages, the admin
// panel and the read-only JSON API, all in a single binary backed by SQLite.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/mvargas/campana-go/internal/analytics"
	"github.com/mvargas/campana-go/internal/cache"
	"github.com/mvargas/campana-go/internal/config"
	"github.com/mvargas/campana-go/internal/handler"
	"github.com/mvargas/campana-go/internal/handler/api"
	"github.com/mvargas/campana-go/internal/logging"
	"github.com/mvargas/campana-go/internal/metrics"
	"github.com/mvargas/campana-go/internal/middleware"
	"github.com/mvargas/campana-go/internal/notify"
	"github.com/mvargas/campana-go/internal/render"
	"github.com/mvargas/campana-go/internal/scheduler"
	"github.com/mvargas/campana-go/internal/service"
	"github.com/mvargas/campana-go/internal/session"
	"github.com/mvargas/campana-go/internal/store"
	"github.com/mvargas/campana-go/internal/version"
	"github.com/mvargas/campana-go/web"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "campana - campaign website server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPANA_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPANA_DB_PATH          SQLite database path (default: ./data/campana.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPANA_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPANA_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPANA_UPLOADS_DIR      Media upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPANA_REDIS_URL        Redis URL for the content cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPANA_GEOIP_DB_PATH    GeoLite2-Country.mmdb path (optional)\n")
	}
	flag.Parse()

	if *showVersion {
		info := version.Get()
		_, _ = fmt.Printf("campana %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// From here on WARN and ERROR logs also land in the activity log table.
	slog.SetDefault(slog.New(logging.NewActivityLogHandler(textHandler, db)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Seed(ctx, db, store.SeedParams{
		Enabled:       cfg.DoSeed,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		AdminName:     cfg.AdminName,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	// Change broadcast: content writers publish, the websocket hub and the
	// content cache subscribe.
	broker := notify.NewBroker(16)
	defer broker.Close()
	hub := notify.NewHub(broker)
	go hub.Run(ctx)

	cacheManager, err := cache.NewManager(cache.ManagerOptions{
		RedisURL: cfg.RedisURL,
		Prefix:   cfg.CachePrefix,
		TTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:  cfg.CacheMaxSize,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	go cacheManager.Run(ctx, broker)
	if cfg.UseRedisCache() {
		slog.Info("content cache initialized", "backend", "redis")
	} else {
		slog.Info("content cache initialized", "backend", "memory")
	}

	geo := analytics.NewGeoLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			slog.Warn("geoip disabled", "error", err)
		} else {
			defer func() { _ = geo.Close() }()
			slog.Info("geoip database loaded", "path", cfg.GeoIPDBPath)
		}
	}
	tracker := analytics.NewTracker(db, geo, slog.Default())

	m := metrics.New()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	activity := service.NewActivityService(db)
	contact := service.NewContactService(db)
	media := service.NewMediaService(db, cfg.UploadsDir)
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	sched := scheduler.New(db, media, slog.Default(), scheduler.Options{
		ActivityRetention: time.Duration(cfg.ActivityRetentionDays) * 24 * time.Hour,
		VisitRetention:    time.Duration(cfg.VisitRetentionDays) * 24 * time.Hour,
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	authH := handler.NewAuthHandler(db, renderer, sessionManager, activity, loginProtection)
	frontH := handler.NewFrontendHandler(db, renderer, cacheManager, contact)
	adminH := handler.NewAdminHandler(db, renderer)
	eventosH := handler.NewEventoHandler(db, renderer, activity, broker)
	noticiasH := handler.NewNoticiaHandler(db, renderer, activity, broker)
	socialH := handler.NewSocialHandler(db, renderer, activity, broker)
	mediaH := handler.NewMediaHandler(db, renderer, media, activity)
	settingsH := handler.NewSettingsHandler(db, renderer, activity)
	mensajesH := handler.NewMensajesHandler(contact, renderer)
	activityH := handler.NewActivityHandler(db, renderer)
	apiH := api.NewHandler(db)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestPath)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.SkipCSRF("/api/", "/ws/"))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadSiteConfig(db))
	r.Use(m.Middleware())
	r.Use(tracker.Middleware())

	htmlLimiter := middleware.NewGlobalRateLimiter(50, 100)

	// Public pages
	r.Group(func(r chi.Router) {
		r.Use(htmlLimiter.HTMLMiddleware())

		r.Get(handler.RouteRoot, frontH.Home)
		r.Get(handler.RoutePartido, frontH.Partido)
		r.Get(handler.RouteCandidato, frontH.Candidato)
		r.Get(handler.RoutePropuestas, frontH.Propuestas)
		r.Get(handler.RouteNoticias, frontH.Noticias)
		r.Get(handler.RouteNoticias+handler.RouteParamSlug, frontH.NoticiaDetail)
		r.Get(handler.RouteEventos, frontH.Eventos)
		r.Get(handler.RouteContacto, frontH.Contacto)
		r.Post(handler.RouteContacto, frontH.SubmitContacto)
		r.Get(handler.RoutePrivacidad, frontH.Privacidad)
		r.Get(handler.RouteTerminos, frontH.Terminos)
		r.Get(handler.RouteTransparencia, frontH.Transparencia)
		r.Get("/sitemap.xml", frontH.Sitemap)
		r.Get("/robots.txt", frontH.Robots)

		r.Get(handler.RouteLogin, authH.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authH.Login)
	})

	r.Post(handler.RouteLogout, authH.Logout)

	// Admin panel
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Use(middleware.RequireAdmin())

		r.Get(handler.RouteRoot, adminH.Dashboard)
		r.Get(handler.RouteAdminPassword, authH.PasswordForm)
		r.Post(handler.RouteAdminPassword, authH.UpdatePassword)

		r.Route(handler.RouteAdminEventos, func(r chi.Router) {
			r.Get(handler.RouteRoot, eventosH.List)
			r.Get(handler.RouteSuffixNew, eventosH.NewForm)
			r.Post(handler.RouteRoot, eventosH.Create)
			r.Get(handler.RouteParamID, eventosH.EditForm)
			r.Post(handler.RouteParamID, eventosH.Update)
			r.Post(handler.RouteParamID+handler.RouteSuffixPublish, eventosH.TogglePublished)
			r.Post(handler.RouteParamID+handler.RouteSuffixFeature, eventosH.ToggleFeatured)
			r.Post(handler.RouteParamID+handler.RouteSuffixDelete, eventosH.Delete)
		})

		r.Route(handler.RouteAdminNoticias, func(r chi.Router) {
			r.Get(handler.RouteRoot, noticiasH.List)
			r.Get(handler.RouteSuffixNew, noticiasH.NewForm)
			r.Post(handler.RouteRoot, noticiasH.Create)
			r.Get(handler.RouteParamID, noticiasH.EditForm)
			r.Post(handler.RouteParamID, noticiasH.Update)
			r.Post(handler.RouteParamID+handler.RouteSuffixPublish, noticiasH.TogglePublished)
			r.Post(handler.RouteParamID+handler.RouteSuffixDelete, noticiasH.Delete)
		})

		r.Route(handler.RouteAdminRedes, func(r chi.Router) {
			r.Get(handler.RouteRoot, socialH.List)
			r.Post(handler.RouteRoot, socialH.Create)
			r.Post(handler.RouteParamID, socialH.Update)
			r.Post(handler.RouteParamID+handler.RouteSuffixActive, socialH.ToggleActive)
			r.Post(handler.RouteParamID+handler.RouteSuffixDelete, socialH.Delete)
		})

		r.Route(handler.RouteAdminMedia, func(r chi.Router) {
			r.Get(handler.RouteRoot, mediaH.List)
			r.Post(handler.RouteSuffixUpload, mediaH.Upload)
			r.Post(handler.RouteParamID+handler.RouteSuffixDelete, mediaH.Delete)
		})

		r.Get(handler.RouteAdminMensajes, mensajesH.List)
		r.Post(handler.RouteAdminMensajes+handler.RouteParamID+handler.RouteSuffixDelete, mensajesH.Delete)
		r.Get(handler.RouteAdminConfiguracion, settingsH.Form)
		r.Post(handler.RouteAdminConfiguracion, settingsH.Save)
		r.Get(handler.RouteAdminActividad, activityH.List)
	})

	// Read-only JSON API
	apiLimiter := middleware.NewGlobalRateLimiter(10, 20)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		}).Handler)
		r.Use(apiLimiter.Middleware())

		r.Get("/status", apiH.Status)
		r.Get("/eventos", apiH.ListEventos)
		r.Get("/noticias", apiH.ListNoticias)
		r.Get("/noticias/{slug}", apiH.GetNoticia)
		r.Get("/redes", apiH.ListSocialLinks)
	})

	// Realtime change events
	r.Get("/ws/cambios", func(w http.ResponseWriter, req *http.Request) {
		hub.ServeWS(w, req)
		m.SetWebsocketClients(hub.ClientCount())
	})

	// Uploaded media and embedded static assets
	uploadsFS := http.FileServer(http.Dir(media.UploadDir()))
	r.With(middleware.StaticCache(86400)).Handle("/media/*", http.StripPrefix("/media/", uploadsFS))

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.With(middleware.StaticCache(86400)).Handle("/static/*",
		http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/metrics", m.Handler().ServeHTTP)
	r.Get("/healthz", handler.Healthz(db))

	r.NotFound(frontH.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
