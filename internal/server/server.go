// Package server exposes the training adaptation engine and the
// session log history over a small REST API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftcycle/internal/engine"
	"github.com/claude/liftcycle/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      *storage.DB
	tracker *engine.Tracker
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, tracker *engine.Tracker, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		tracker: tracker,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/anchor", s.handleSetAnchor)
		r.Post("/api/v1/anchor/ensure", s.handleEnsureAnchor)
		r.Post("/api/v1/adjustment", s.handleAdjustment)
	})

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/anchor", s.handleGetAnchor)
	s.router.Get("/api/v1/label", s.handleLabel)
	s.router.Post("/api/v1/warmup", s.handleWarmup)
	s.router.Get("/api/v1/sessions", s.handleQuerySessions)
	s.router.Get("/api/v1/sessions/{id}", s.handleGetSession)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/progression", s.handleProgression)
}
