// Package server provides the HTTP API for filingsearch queries.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lexfin/filingsearch/internal/config"
	"github.com/lexfin/filingsearch/internal/search"
)

// Server serves queries over a loaded index artifact. The artifact itself is
// immutable; a rebuild replaces the artifact file out-of-band, after which
// SwapEngine installs an engine over the new artifact.
type Server struct {
	mu     sync.RWMutex
	engine *search.Engine
	config *config.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server answering queries with the given engine.
func NewServer(engine *search.Engine, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{engine: engine, config: cfg, logger: logger}
}

// SwapEngine atomically replaces the query engine. In-flight requests finish
// against the engine they started with.
func (s *Server) SwapEngine(engine *search.Engine) {
	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()
}

func (s *Server) currentEngine() *search.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
