// Package main is the entry point for the memories API server.
//
// The main package stays minimal: read configuration from the environment,
// create the logger, and hand everything to internal/server. All actual
// logic lives in imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/memories-api/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// The API listens on 3333 by default; PORT overrides for deployments.
	port := 3333
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// JWT_SECRET_KEY is the one hard requirement: without it no token can be
	// signed or verified, so refusing to start beats failing on every
	// request.
	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET_KEY is required")
		os.Exit(1)
	}

	dbPath := "data/memories.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	uploadDir := "uploads"
	if envDir := os.Getenv("UPLOAD_DIR"); envDir != "" {
		uploadDir = envDir
	}

	// Ensure the data and upload directories exist before anything opens
	// files inside them.
	for _, dir := range []string{filepath.Dir(dbPath), uploadDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		UploadDir: uploadDir,

		JWTSecret: jwtSecret,

		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),

		MobileGitHubClientID:     os.Getenv("MOBILE_GITHUB_CLIENT_ID"),
		MobileGitHubClientSecret: os.Getenv("MOBILE_GITHUB_CLIENT_SECRET"),
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT or SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
