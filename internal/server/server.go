// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and
// routes. It decides which URL patterns map to which handler functions, what
// middleware runs on which routes, and how the server starts and stops
// gracefully.
//
// DEPENDENCY INJECTION FLOW:
// main.go reads config and passes it here. New() then builds the whole
// dependency chain in one place (the "composition root"):
//
//	sqlite.DB → AuthService/NoteService → AuthHandler/NoteHandler → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, nobody reaches around a layer.
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
	"github.com/go-chi/cors"

	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/handler"
	"github.com/sakif/notekeeper/internal/middleware"
	sqliteRepo "github.com/sakif/notekeeper/internal/repository/sqlite"
	"github.com/sakif/notekeeper/internal/service"
)

// Config holds server configuration, loaded from the environment in main.go
// and injected here — no component reads env vars on its own.
type Config struct {
	Port   int
	DBPath string // path to the SQLite database file

	// JWTSecret signs every issued token. Process-wide, no rotation.
	JWTSecret string

	// Google OAuth credentials. When ClientID is empty, the Google routes
	// respond 503 instead of redirecting.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// ClientURL is where the browser flows land: the Google callback
	// redirects to {ClientURL}/dashboard?token=... on success and
	// {ClientURL}/login on failure.
	ClientURL string

	// AllowedOrigins is the CORS allowlist — the client app's addresses.
	AllowedOrigins []string
}

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection; it is closed during graceful
// shutdown to flush the WAL and release the file lock.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the given config: opens the database, wires the
// services and handlers, and registers all routes.
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
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /healthz              → liveness probe
//	GET  /auth/google          → redirect to Google's consent page
//	GET  /auth/google/secrets  → OAuth callback, redirects to the client
//	POST /register             → local registration (JSON)
//	POST /login                → local login (JSON)
//	POST /add                  → create note           (bearer token)
//	PUT  /add                  → update note by id     (bearer token)
//	GET  /get-data             → list caller's notes   (bearer token)
//	POST /search               → fetch any note by id  (bearer token)
//
// MIDDLEWARE ORDER MATTERS — middleware executes in the order it's added:
// RequestID → RealIP → Recoverer → CORS → request logging, then per-group
// auth on the protected routes.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var google *auth.GoogleProvider
	if s.config.GoogleClientID != "" {
		google = auth.NewGoogleProvider(
			s.config.GoogleClientID,
			s.config.GoogleClientSecret,
			s.config.GoogleCallbackURL,
		)
	}

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	noteService := service.NewNoteService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, google, s.config.ClientURL, s.logger)
	noteHandler := handler.NewNoteHandler(noteService, s.logger)

	// === Global middleware — runs on EVERY request, in order ===
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500

	// CORS: the client app runs on a different origin (e.g. a Vite dev
	// server), so browsers preflight every JSON request. Credentials stay
	// on for the OAuth state cookie.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(middleware.Logger(s.logger))

	// === Public routes ===
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Get("/auth/google", authHandler.HandleGoogleLogin)
	s.router.Get("/auth/google/secrets", authHandler.HandleGoogleCallback)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)

	// === Protected routes ===
	// RequireAuth validates the bearer token and injects the identity;
	// the note handlers read the owner email from the request context.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Post("/add", noteHandler.HandleAdd)
		r.Put("/add", noteHandler.HandleUpdate)
		r.Get("/get-data", noteHandler.HandleGetData)
		r.Post("/search", noteHandler.HandleSearch)
	})

	return nil
}

// Router exposes the configured router — used by handler-level tests to
// drive the full middleware chain with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and handles graceful shutdown:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases the file lock)
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

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
