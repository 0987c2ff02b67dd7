// ABOUTME: HTTP JSON API over a storage Repository.
// ABOUTME: Routes are mounted on a chi router under /api/v1.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/harperreed/lift/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	repo   storage.Repository
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(repo storage.Repository, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		repo:   repo,
		log:    log,
		router: chi.NewRouter(),
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

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", s.handleListEntries)
			r.Post("/", s.handleCreateEntry)
			r.Get("/{id}", s.handleGetEntry)
			r.Delete("/{id}", s.handleDeleteEntry)
			r.Post("/{id}/toggle", s.handleToggleEntry)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleListSessions)
			r.Post("/", s.handleCreateSession)
			r.Get("/{id}", s.handleGetSession)
			r.Delete("/{id}", s.handleDeleteSession)
			r.Post("/{id}/toggle", s.handleToggleSession)
			r.Get("/{id}/progress", s.handleSessionProgress)
			r.Post("/{id}/exercises", s.handleAddExercise)
			r.Delete("/{id}/exercises/{position}", s.handleRemoveExercise)
		})

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/{id}", s.handleGetExercise)
			r.Post("/{id}/toggle", s.handleToggleExercise)
			r.Get("/{id}/sets", s.handleListSets)
			r.Post("/{id}/sets", s.handleLogSet)
		})

		r.Get("/templates", s.handleListTemplates)
		r.Get("/templates/{name}", s.handleGetTemplate)
	})
}
