// Package api provides the REST API and web UI for resonance.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ternarybob/resonance/internal/catalog"
	"github.com/ternarybob/resonance/internal/config"
	"github.com/ternarybob/resonance/internal/render"
)

// Server represents the API server.
type Server struct {
	cfg      *config.Config
	router   chi.Router
	catalog  *catalog.Catalog
	renderer *render.Renderer
}

// NewServer creates a new API server.
func NewServer(cfg *config.Config, cat *catalog.Catalog, renderer *render.Renderer) *Server {
	s := &Server{
		cfg:      cfg,
		catalog:  cat,
		renderer: renderer,
	}

	s.setupRouter()
	return s
}

// setupRouter configures all routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health and version endpoints
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	// Field API
	r.Route("/field", func(r chi.Router) {
		r.Get("/", s.handleField)
		r.Get("/twins", s.handleTwins)
		r.Get("/stats", s.handleStats)
	})

	// Artifact rendering and catalog
	r.Post("/render", s.handleRender)
	r.Route("/artifacts", func(r chi.Router) {
		r.Get("/", s.handleListArtifacts)
		r.Delete("/{id}", s.handleRemoveArtifact)
	})

	// Web UI routes (served from /web)
	r.Get("/", s.handleWebRoot)
	r.Get("/web/*", s.handleWebAssets)

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
