// Package api exposes the document pipeline over HTTP: load a document,
// read its model, outline and sections, search it, and export HTML.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/pipeline"
	"github.com/dgallion1/mdview/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for mdview.
type Server struct {
	router chi.Router
	loader *pipeline.Loader
	store  *Store
	html   *render.HTMLRenderer
	stats  *pipeline.Stats
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(loader *pipeline.Loader, store *Store, stats *pipeline.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		loader: loader,
		store:  store,
		html:   render.NewHTMLRenderer(cfg),
		stats:  stats,
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Document endpoints, guarded only when an API key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/documents", s.handleLoadDocument)
		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)
		r.Get("/api/documents/{docID}/outline", s.handleOutline)
		r.Get("/api/documents/{docID}/sections", s.handleSections)
		r.Get("/api/documents/{docID}/search", s.handleSearch)
		r.Get("/api/documents/{docID}/html", s.handleExportHTML)

		r.Post("/api/validate", s.handleValidate)
		r.Get("/api/stats/pipeline", s.handlePipelineStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
