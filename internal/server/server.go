// Package server exposes the REST surface: account auth, mailbox connect,
// keyword management and package generation/download.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/facturador/facturador/internal/google"
	"github.com/facturador/facturador/internal/pipeline"
	"github.com/facturador/facturador/internal/secrets"
	"github.com/facturador/facturador/internal/store"
)

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	store     *store.Store
	oauth     *google.OAuth
	box       *secrets.Box
	pipe      *pipeline.Pipeline
	jwtSecret string
	logger    *slog.Logger
	metrics   *Metrics
}

// New creates the server.
func New(st *store.Store, oauth *google.OAuth, box *secrets.Box, pipe *pipeline.Pipeline, jwtSecret string, logger *slog.Logger, metrics *Metrics) *Server {
	return &Server{
		store:     st,
		oauth:     oauth,
		box:       box,
		pipe:      pipe,
		jwtSecret: jwtSecret,
		logger:    logger,
		metrics:   metrics,
	}
}

// Router builds the HTTP routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Google redirects here; the state token carries the user identity.
		r.Get("/gmail/callback", s.handleGmailCallback)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Post("/auth/logout", s.handleLogout)

			r.Get("/gmail/auth", s.handleGmailAuth)
			r.Get("/gmail/status", s.handleGmailStatus)
			r.Delete("/gmail", s.handleGmailDisconnect)

			r.Get("/keywords", s.handleGetKeywords)
			r.Post("/keywords", s.handleAddKeyword)
			r.Delete("/keywords/{keyword}", s.handleRemoveKeyword)

			r.Post("/packages/generate", s.handleGenerate)
			r.Get("/packages/download/{id}", s.handleDownload)
		})
	})

	return r
}
