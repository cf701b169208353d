// Package httptransport assembles the HTTP surface: shared middleware,
// the public and authenticated module routes, health and metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"confcentral/internal/platform/metrics"
	"confcentral/internal/platform/middleware"
	"confcentral/pkg/platform/httputil"
)

// Module is implemented by every handler package.
type Module interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config lists what the router mounts.
type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Validator      middleware.JWTValidator
	RequestTimeout time.Duration

	// Public modules are served without a bearer token.
	Public []Module
	// Authenticated modules sit behind RequireAuth.
	Authenticated []Module

	HealthChecks   map[string]HealthCheck
	MetricsHandler http.Handler
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter wires every route behind the shared middleware chain.
func NewRouter(cfg Config) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MetricsHandler == nil {
		cfg.MetricsHandler = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))

	r.Get("/healthz", healthHandler(cfg.HealthChecks))
	r.Handle("/metrics", cfg.MetricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		for _, m := range cfg.Public {
			m.Register(r)
		}
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
			for _, m := range cfg.Authenticated {
				m.Register(r)
			}
		})
	})
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		for _, name := range names {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(names))
			}
			if err := checks[name](r.Context()); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
