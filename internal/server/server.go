// Package server is the composition root: it wires the store, the OAuth
// provider, the session codec, the uploader, the services, and the handlers
// into one chi router, and owns startup and graceful shutdown.
//
// The two binaries (mapserver, reviewserver) share everything here except
// which route set gets mounted; cfg.App picks the variant.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/davidrq/friendmap/internal/auth"
	"github.com/davidrq/friendmap/internal/handler"
	"github.com/davidrq/friendmap/internal/middleware"
	sqliteRepo "github.com/davidrq/friendmap/internal/repository/sqlite"
	"github.com/davidrq/friendmap/internal/service"
	"github.com/davidrq/friendmap/internal/upload"
)

// App selects which application variant a server instance runs.
type App string

const (
	// AppMap serves the friend-map application: events pinned to a personal
	// map plus the visit log.
	AppMap App = "map"
	// AppReviews serves the shared review feed application.
	AppReviews App = "reviews"
)

// Config holds everything a server instance needs, loaded from the
// environment in main. No package in internal/ reads env vars itself.
type Config struct {
	App App

	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string

	SessionSecret      string
	GoogleClientID     string
	GoogleClientSecret string

	// CloudinaryURL is optional; without it image uploads are disabled and
	// records are created without images.
	CloudinaryURL string

	// BaseURL is the externally visible origin (no trailing slash) used to
	// build the OAuth callback URL when the app sits behind a proxy. Empty
	// means "infer from each request".
	BaseURL string
}

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Everything is constructed exactly once, here, and injected downward;
// there are no package-level globals to reach for.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}

	google := auth.NewGoogleProvider(s.config.GoogleClientID, s.config.GoogleClientSecret)

	// The media host is optional: a missing CLOUDINARY_URL disables
	// uploads but the server still runs.
	var uploader upload.Uploader = upload.Disabled{}
	if s.config.CloudinaryURL != "" {
		cld, err := upload.NewCloudinaryUploader(s.config.CloudinaryURL)
		if err != nil {
			return fmt.Errorf("configuring uploader: %w", err)
		}
		uploader = cld
	} else {
		s.logger.Warn("CLOUDINARY_URL not set, image uploads are disabled")
	}

	renderer, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	// Global middleware, in order: request ID, real client IP, panic
	// recovery, then our request log.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	homePath, appTitle := "/map", "Friend Map"
	if s.config.App == AppReviews {
		homePath, appTitle = "/reviews", "Reviews"
	}

	authService := service.NewAuthService(s.db.Users(), sessions, s.logger)
	authHandler := handler.NewAuthHandler(
		google, sessions, authService, renderer, s.logger,
		s.config.BaseURL, homePath, appTitle,
	)

	// Auth surface, identical in both variants.
	s.router.Get("/", authHandler.HandleHome)
	s.router.Get("/login", authHandler.HandleLogin)
	s.router.Get("/auth", authHandler.HandleCallback)
	s.router.Get("/logout", authHandler.HandleLogout)

	switch s.config.App {
	case AppReviews:
		reviewService := service.NewReviewService(s.db.Reviews(), s.logger)
		reviewHandler := handler.NewReviewHandler(reviewService, uploader, renderer, s.logger)

		s.router.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(sessions))
			r.Get("/reviews", reviewHandler.HandleList)
			r.Get("/reviews/create", reviewHandler.HandleCreateForm)
			r.Post("/reviews/create", reviewHandler.HandleCreate)
			r.Get("/reviews/detail/{id}", reviewHandler.HandleDetail)
		})

	default:
		mapService := service.NewMapService(s.db.Events(), s.db.Visits(), s.logger)
		mapHandler := handler.NewMapHandler(mapService, uploader, renderer, s.logger)

		// POST /visit performs no auth check itself: it only redirects into
		// GET /map, which is where authorization happens.
		s.router.Post("/visit", mapHandler.HandleVisit)

		s.router.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(sessions))
			r.Get("/map", mapHandler.HandleMap)
			r.Post("/events/create", mapHandler.HandleCreateEvent)
			r.Post("/events/delete/{id}", mapHandler.HandleDeleteEvent)
		})
	}

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("app", string(s.config.App)),
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
