// Package main is the entry point for the notekeeper server.
//
// The main package stays minimal — its job is to:
// 1. Read configuration (a .env file plus environment variables)
// 2. Create the logger
// 3. Hand everything to internal/server and start it
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). Nothing below main.go reads the environment;
// configuration travels as an explicit server.Config value.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sakif/notekeeper/internal/server"
)

func main() {
	// Load a .env file if one exists — local development convenience.
	// In deployment the environment is set by the process manager, so a
	// missing file is not an error.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 3000
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// Default to "data/notekeeper.db" in the project root; DB_PATH
	// overrides for deployments (e.g. DB_PATH=/var/lib/notekeeper/prod.db).
	dbPath := "data/notekeeper.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_SECRET must be a long random string. Use:
	//   JWT_SECRET=$(openssl rand -hex 32)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET not set — refusing to start without a signing secret")
		os.Exit(1)
	}

	// Google OAuth is optional: without credentials the server still runs,
	// only the /auth/google routes are disabled.
	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	googleCallbackURL := os.Getenv("GOOGLE_CALLBACK_URL")
	if googleCallbackURL == "" {
		googleCallbackURL = fmt.Sprintf("http://localhost:%d/auth/google/secrets", port)
	}
	if googleClientID == "" {
		logger.Warn("GOOGLE_CLIENT_ID not set — Google sign-in is disabled")
	}

	// Where the client app lives: browser flows redirect here, and its
	// origins make up the CORS allowlist.
	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:5173"
	}

	allowedOrigins := []string{clientURL}
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		allowedOrigins = nil
		for _, origin := range strings.Split(originsStr, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := server.Config{
		Port:               port,
		DBPath:             dbPath,
		JWTSecret:          jwtSecret,
		GoogleClientID:     googleClientID,
		GoogleClientSecret: googleClientSecret,
		GoogleCallbackURL:  googleCallbackURL,
		ClientURL:          clientURL,
		AllowedOrigins:     allowedOrigins,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
