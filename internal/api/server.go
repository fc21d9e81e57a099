package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/bailgen/internal/config"
	"github.com/dgallion1/bailgen/internal/doctree"
	"github.com/dgallion1/bailgen/internal/pipeline"
)

// Server is the HTTP API server for bailgen.
type Server struct {
	router      chi.Router
	gen         *pipeline.Generator
	store       *pipeline.Store
	letterheads map[string]doctree.Letterhead
	stats       *Stats
	log         *slog.Logger
	cfg         config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(gen *pipeline.Generator, store *pipeline.Store, letterheads map[string]doctree.Letterhead, log *slog.Logger, cfg config.Config) *Server {
	if letterheads == nil {
		letterheads = map[string]doctree.Letterhead{}
	}
	s := &Server{
		gen:         gen,
		store:       store,
		letterheads: letterheads,
		stats:       &Stats{},
		log:         log,
		cfg:         cfg,
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
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Generation-ID", "X-Removed-Paragraphs", "X-Missing-Placeholders"},
	}))
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/generate", s.handleGenerate)
		r.Post("/api/generate/preview", s.handlePreview)
		r.Post("/api/generate/docx", s.handleGenerateDOCX)
		r.Post("/api/generate/batch", s.handleBatchGenerate)
		r.Post("/api/generate/template", s.handleFillTemplate)

		r.Get("/api/generations/{generationID}", s.handleGetGeneration)
		r.Get("/api/generations/{generationID}/docx", s.handleGenerationDOCX)
		r.Post("/api/generations/{generationID}/template", s.handleGenerationTemplate)

		r.Post("/api/templates/placeholders", s.handleTemplatePlaceholders)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
