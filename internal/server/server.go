package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/maptrack/internal/geo"
	"github.com/claude/maptrack/internal/persist"
	"github.com/claude/maptrack/internal/store"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers. Every mutation runs
// synchronously: validate, mutate the store, rewrite the blob, respond with
// render instructions.
type Server struct {
	store   *store.Store
	bridge  *persist.Bridge
	locator geo.Provider
	log     *slog.Logger
	apiKey  string
	zoom    int
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(st *store.Store, bridge *persist.Bridge, locator geo.Provider, apiKey string, zoom int, log *slog.Logger) *Server {
	s := &Server{
		store:   st,
		bridge:  bridge,
		locator: locator,
		log:     log,
		apiKey:  apiKey,
		zoom:    zoom,
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
	s.router.Use(s.logRequests)
	s.router.Use(allowWidgetOrigin)

	s.router.Route("/api/v1/workouts", func(r chi.Router) {
		r.Get("/", s.handleListWorkouts)

		// Mutations (API key required)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAPIKey)
			r.Post("/", s.handleCreateWorkout)
			r.Put("/{id}", s.handleEditWorkout)
			r.Delete("/{id}", s.handleDeleteWorkout)
			r.Delete("/", s.handleClearWorkouts)
			r.Post("/{id}/click", s.handleVisitWorkout)
		})
	})

	s.router.Get("/api/v1/position", s.handlePosition)
}

// persistStore rewrites the blob from the current store contents
// (write-through, whole list, after every mutation).
func (s *Server) persistStore(ctx context.Context) error {
	return s.bridge.Save(ctx, s.store.All())
}
