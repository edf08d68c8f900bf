package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr     string
	apiToken string
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithAPIToken guards the /api routes with a static bearer token. Empty
// leaves the API open.
func WithAPIToken(token string) Option {
	return func(c *config) {
		c.apiToken = token
	}
}

// Server represents the HTTP control surface of the daemon.
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	runner interfaces.Runner,
	runRepo interfaces.RunRepository,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr: "localhost:8080",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check and metrics
	router.Get("/health", handleHealth)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Run API
	runsHandler := NewRunsHandler(runner, runRepo)
	router.Route("/api", func(r chi.Router) {
		if cfg.apiToken != "" {
			r.Use(BearerAuthMiddleware(cfg.apiToken))
		}
		r.Post("/runs", runsHandler.Trigger)
		r.Get("/runs", runsHandler.List)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
