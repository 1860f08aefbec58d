// Package server implements the analysis backend HTTP API: intent parsing,
// geospatial scoring, trend prediction, and liveness.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/terralink/terralink/internal/agents"
	"github.com/terralink/terralink/internal/sampler"
	"github.com/terralink/terralink/internal/store"
)

// Server holds the backend's collaborators. The run store is optional; a nil
// store disables history recording.
type Server struct {
	suite   *agents.Suite
	sampler *sampler.Sampler
	runs    store.Store
}

// New creates a Server.
func New(suite *agents.Suite, smp *sampler.Sampler, runs store.Store) *Server {
	return &Server{suite: suite, sampler: smp, runs: runs}
}

// Router builds the chi router with CORS configured for the given origins.
// An empty origin list allows any origin, matching local development use.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/predict", s.handlePredict)
		r.Get("/health", s.handleHealth)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":         "healthy",
		"ai_model":       s.suite.ModelName(),
		"sampler_status": "mock_mode",
	})
}
