package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maauso/mediajob-server/internal/ratelimit"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing. limiter guards
// the two submission routes against an unbounded burst of uploads.
// metricsGatherer is scraped by GET /metrics.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config, limiter *ratelimit.Middleware, metricsGatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /processors", h.ListProcessors)
	mux.Handle("POST /jobs", limiter.Wrap(http.HandlerFunc(h.CreateJob)))
	mux.Handle("POST /jobs/batch", limiter.Wrap(http.HandlerFunc(h.CreateBatch)))
	mux.HandleFunc("GET /jobs/batch/{id}", h.GetBatch)
	mux.HandleFunc("GET /jobs/{id}", h.GetJob)
	mux.HandleFunc("GET /jobs/{id}/progress", h.Progress)
	mux.HandleFunc("GET /jobs/{id}/result", h.Result)
	mux.HandleFunc("DELETE /cleanup", h.Cleanup)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metricsGatherer, promhttp.HandlerOpts{}))

	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
