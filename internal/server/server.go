// Package server exposes the onboarding flow and event search over HTTP.
// Every endpoint responds with well-formed JSON, also on internal failure.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/carolzy/networkai/internal/events"
	"github.com/carolzy/networkai/internal/flow"
	"github.com/carolzy/networkai/internal/recstore"
)

// Service wires the HTTP surface to the flow controller and event ranker.
type Service struct {
	registry    *flow.Registry
	controller  *flow.Controller
	ranker      *events.Ranker
	recommender *events.Recommender
	store       *recstore.Store
	router      chi.Router
	httpServer  *http.Server
}

// New creates the service and mounts its routes. store may be nil.
func New(registry *flow.Registry, controller *flow.Controller, ranker *events.Ranker, recommender *events.Recommender, store *recstore.Store) *Service {
	svc := &Service{
		registry:    registry,
		controller:  controller,
		ranker:      ranker,
		recommender: recommender,
		store:       store,
		router:      chi.NewRouter(),
	}
	svc.setupRoutes()
	return svc
}

// Router returns the mounted router, used directly in tests.
func (s *Service) Router() chi.Router { return s.router }

func (s *Service) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Post("/advance", s.handleAdvance)
				r.Get("/status", s.handleStatus)
				r.Post("/reset", s.handleReset)
				r.Put("/user-info", s.handleUserInfo)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/search", s.handleSearch)
			r.Post("/recommendation", s.handleRecommendation)
		})
	})
}

// ListenAndServe starts the server and blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *Service) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("Request served")
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
