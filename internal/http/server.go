// Package http exposes the ledger core as a JSON API. Handlers resolve
// the acting user from the restored session; all data access goes through
// the repository's role-scoped surface.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"worktracker/internal/auth"
	"worktracker/internal/ledger"
	"worktracker/internal/log"
	"worktracker/internal/middleware/ratelimit"
	"worktracker/internal/middleware/trace"
)

// Server wires the core components behind the API routes.
type Server struct {
	repo         *ledger.Repository
	auth         *auth.Orchestrator
	logger       *log.Logger
	loginLimiter *ratelimit.Limiter
}

func NewServer(repo *ledger.Repository, orch *auth.Orchestrator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Server{
		repo:         repo,
		auth:         orch,
		logger:       logger.WithComponent(log.ComponentHTTP),
		loginLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(trace.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(s.loginLimiter.Middleware).Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/session", s.handleSession)

		r.Get("/entries", s.handleListEntries)
		r.Post("/entries", s.handleSaveEntry)
		r.Delete("/entries/{id}", s.handleDeleteEntry)

		r.Get("/users", s.handleListUsers)
		r.Get("/summary", s.handleSummary)
		r.Post("/reset", s.handleReset)
	})

	return r
}
