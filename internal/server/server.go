// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: the one place where the dependency chain
//
//	sqlite.DB → repositories → services → handlers → routes
//
// gets assembled. Handlers never touch the database and services never touch
// HTTP; this package is where the layers meet.
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

	"github.com/sakif/mentorhub/internal/auth"
	"github.com/sakif/mentorhub/internal/handler"
	"github.com/sakif/mentorhub/internal/middleware"
	sqliteRepo "github.com/sakif/mentorhub/internal/repository/sqlite"
	"github.com/sakif/mentorhub/internal/service"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string // path to the SQLite database file, or ":memory:"
	SecretKey   string // signs both the session token and the flash cookie
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with all dependencies wired.
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

// setupRoutes wires middleware, handlers, and the route table.
//
// MIDDLEWARE ORDER MATTERS: RequestID and RealIP run first so the logger
// sees them, Recoverer turns panics into 500s instead of crashing the
// process, and our slog logger times every request.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Shared infrastructure ===
	tokens, err := auth.NewTokenService(s.config.SecretKey)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	render, err := handler.NewRenderer(s.config.TemplateDir, s.config.SecretKey, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	// === Repositories and services ===
	authSvc := service.NewAuthService(s.db.Users(), passwords, s.logger)
	dirSvc := service.NewDirectoryService(s.db.Users(), s.db.Mentorships(), s.logger)
	ledgerSvc := service.NewMentorshipService(s.db.Mentorships(), s.db.Messages(), s.db.Users(), s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authSvc, tokens, render, s.logger)
	dashHandler := handler.NewDashboardHandler(authSvc, dirSvc, ledgerSvc, render, s.logger)
	profileHandler := handler.NewProfileHandler(authSvc, render, s.logger)
	mentorshipHandler := handler.NewMentorshipHandler(authSvc, dirSvc, ledgerSvc, render, s.logger)

	// === Static files ===
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// === Public routes ===
	s.router.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth(tokens))
		r.Get("/", authHandler.HandleHome)
	})
	s.router.Get("/register", authHandler.HandleRegisterForm)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/login", authHandler.HandleLoginForm)
	s.router.Post("/login", authHandler.HandleLogin)

	// === Authenticated routes ===
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/logout", authHandler.HandleLogout)
		r.Get("/dashboard", dashHandler.HandleDashboard)
		r.Get("/profile/edit", profileHandler.HandleEditForm)
		r.Post("/profile/edit", profileHandler.HandleEdit)

		r.Get("/mentorships", mentorshipHandler.HandleList)
		r.Post("/mentorships", mentorshipHandler.HandleCreate)
		r.Post("/mentorships/{id}/accept", mentorshipHandler.HandleAccept)
		r.Post("/mentorships/{id}/decline", mentorshipHandler.HandleDecline)
		r.Post("/mentorships/{id}/complete", mentorshipHandler.HandleComplete)
		r.Get("/mentorships/{id}/messages", mentorshipHandler.HandleMessages)
		r.Post("/mentorships/{id}/messages", mentorshipHandler.HandlePostMessage)
	})

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
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
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
