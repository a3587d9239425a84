// Package server provides the HTTP API consumed by the documentation site.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/fieldnotes/guidepost/internal/config"
	"github.com/fieldnotes/guidepost/internal/indexer"
	"github.com/fieldnotes/guidepost/internal/lint"
	"github.com/fieldnotes/guidepost/internal/search"
	"github.com/fieldnotes/guidepost/internal/storage"
	"github.com/fieldnotes/guidepost/internal/vector"
)

// Server is the HTTP server for the Guidepost API.
type Server struct {
	engine      *search.Engine
	indexer     *indexer.Indexer
	linter      *lint.Linter
	storage     storage.Storage
	vectorIndex vector.Index
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	idx *indexer.Indexer,
	linter *lint.Linter,
	store storage.Storage,
	vectorIndex vector.Index,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:      engine,
		indexer:     idx,
		linter:      linter,
		storage:     store,
		vectorIndex: vectorIndex,
		config:      cfg,
		logger:      logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	if len(s.config.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.config.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/guides", s.handleListGuides)
	r.Get("/api/v1/guides/{id}", s.handleGetGuide)
	r.Delete("/api/v1/guides/{id}", s.handleDeleteGuide)
	r.Get("/api/v1/tags", s.handleTags)
	r.Post("/api/v1/lint", s.handleLint)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// requestLogger logs every request with method, path, status, and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
