// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: main.go builds a Config from the
// environment, and New wires the whole dependency chain in one place:
//
//	sqlite.DB → repositories → services (auth, memories) → handlers → routes
//
// Each layer only receives what it needs. Services get repository
// interfaces, handlers get services, and nothing below the handler layer
// knows about HTTP.
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

	"github.com/sakif/memories-api/internal/auth"
	"github.com/sakif/memories-api/internal/handler"
	"github.com/sakif/memories-api/internal/middleware"
	sqliteRepo "github.com/sakif/memories-api/internal/repository/sqlite"
	"github.com/sakif/memories-api/internal/service"
)

// Config holds all server configuration, assembled once in main from the
// environment and passed here immutably. Nothing reads env vars after
// startup.
type Config struct {
	Port      int
	DBPath    string
	UploadDir string

	JWTSecret string

	GitHubClientID     string
	GitHubClientSecret string

	MobileGitHubClientID     string
	MobileGitHubClientSecret string
}

// Server represents the HTTP server and all its dependencies.
// It owns the database connection and closes it during shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the given config: opens the database, builds the
// service and handler layers, and registers every route.
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

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /register          → exchange GitHub OAuth code for a token
//	POST   /uploads           → multipart file upload
//	GET    /uploads/*         → static serving of uploaded files
//	GET    /me                → current user            (bearer)
//	GET    /memories          → list caller's memories  (bearer)
//	GET    /memories/{id}     → one memory              (bearer)
//	POST   /memories          → create                  (bearer)
//	PUT    /memories/{id}     → full replace            (bearer)
//	DELETE /memories/{id}     → delete                  (bearer)
//
// Middleware executes in the order it's added: RequestID and RealIP first,
// then panic recovery, request logging, and CORS on every route. The bearer
// guard applies only to the authenticated group, and runs before any handler
// logic there.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// CORS is open to all origins: the API serves browser frontends hosted
	// anywhere, and bearer tokens (not cookies) carry the credentials.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	github := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.MobileGitHubClientID,
		s.config.MobileGitHubClientSecret,
	)

	authService := service.NewAuthService(sqliteRepo.NewUserRepo(s.db), github, tokens, s.logger)
	memoryService := service.NewMemoryService(sqliteRepo.NewMemoryRepo(s.db), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	memoryHandler := handler.NewMemoryHandler(memoryService, s.logger)
	uploadHandler := handler.NewUploadHandler(s.config.UploadDir, "/uploads", s.logger)

	// Public routes.
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/uploads", uploadHandler.HandleUpload)

	fileServer := http.FileServer(http.Dir(s.config.UploadDir))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	// Authenticated routes: the guard rejects missing/invalid/expired tokens
	// before any handler in this group runs.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", authHandler.HandleMe)

		r.Route("/memories", func(r chi.Router) {
			r.Get("/", memoryHandler.HandleList)
			r.Get("/{id}", memoryHandler.HandleGet)
			r.Post("/", memoryHandler.HandleCreate)
			r.Put("/{id}", memoryHandler.HandleUpdate)
			r.Delete("/{id}", memoryHandler.HandleDelete)
		})
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown:
// stop accepting connections, give in-flight requests 30 seconds to finish,
// then close the database so the WAL is flushed and the file lock released.
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
			slog.String("uploads", s.config.UploadDir),
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
