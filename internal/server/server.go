// Package server provides the HTTP API for the redaction engine: JSON and
// streaming redact endpoints, a scan endpoint, and the embedded dashboard.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/veilproj/veil/internal/otel"
	"github.com/veilproj/veil/internal/redactor"
)

const defaultTimeout = 60 * time.Second

// Server holds all dependencies for the HTTP API.
type Server struct {
	router        *chi.Mux
	engine        *redactor.Engine
	apiKeys       map[string]string
	corsOrigins   []string
	limiter       *RateLimiter
	maxBodyBytes  int64
	dashboardHTML string
	startTime     time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithAPIKeys sets API-key auth; keys map to caller names for rate limiting
// and logs. An empty map leaves the service open.
func WithAPIKeys(keys map[string]string) Option {
	return func(s *Server) { s.apiKeys = keys }
}

// WithCORSOrigins sets allowed CORS origins (e.g. ["*"] for any).
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithRateLimiter sets the token-bucket rate limiter (optional).
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) { s.limiter = rl }
}

// WithMaxBodyBytes caps request bodies on the redact endpoints.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// WithDashboard sets the embedded dashboard HTML served at / and /dashboard.
func WithDashboard(html string) Option {
	return func(s *Server) { s.dashboardHTML = html }
}

// NewServer builds a Server around the engine with optional Option(s).
func NewServer(engine *redactor.Engine, opts ...Option) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		engine:       engine,
		apiKeys:      make(map[string]string),
		corsOrigins:  []string{"*"},
		maxBodyBytes: 1 << 20,
		startTime:    time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the configured http.Handler (chi router with all middleware
// and routes). Recoverer is the boundary for unexpected internal failures:
// the engine is written so they cannot happen, but a panic still becomes a
// logged 500 rather than a dropped connection.
func (s *Server) Routes() http.Handler {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(otel.Middleware())
	r.Use(CORSMiddleware(s.corsOrigins))

	// Unauthenticated
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.apiKeys))
		r.Use(RateLimitMiddleware(s.limiter))
		r.Use(middleware.Timeout(defaultTimeout))

		r.Post("/v1/redact", s.handleRedact)
		r.Post("/v1/redact/stream", s.handleRedactStream)
		r.Post("/v1/scan", s.handleScan)
		r.Get("/v1/patterns", s.handlePatterns)
	})

	// Dashboard (no auth for same-origin use)
	r.Get("/", s.handleDashboard)
	r.Get("/dashboard", s.handleDashboard)

	return r
}
