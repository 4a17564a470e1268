package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/gatehouse-api/gatehouse/internal/auth"
	"github.com/gatehouse-api/gatehouse/internal/media"
	"github.com/gatehouse-api/gatehouse/internal/observability"
)

// ReadinessCheck names a dependency probe the health endpoint runs on
// every request. A failing probe turns /healthz into a 503.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger       *slog.Logger
	Config       *Config
	Guard        *auth.Guard
	PublicRoutes *auth.PublicRoutes
	AuthHandler  *auth.Handler
	MediaHandler *media.Handler
	Metrics      *observability.Metrics
	Readiness    []ReadinessCheck
}

// NewRouter constructs the chi.Router. Every route is registered here or
// in a handler's MountRoutes, and public routes are marked in the same
// place they are registered; anything not marked is guarded.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.Guard.Middleware)

	r.Get("/healthz", healthHandler(params.Logger, params.Readiness))
	params.PublicRoutes.Mark(http.MethodGet, "/healthz")

	// Credential endpoints carry a tighter per-IP budget than general
	// traffic; authenticated session routes stay on the global limit.
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		params.AuthHandler.MountRoutes(r, params.PublicRoutes)
	})
	params.AuthHandler.MountSessionRoutes(r)

	if params.MediaHandler != nil {
		params.MediaHandler.MountRoutes(r, params.PublicRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
		params.PublicRoutes.Mark(http.MethodGet, "/metrics")
	}

	return r
}

// healthHandler probes every registered dependency and reports the first
// failure. The probes run with a short per-check timeout so a hung
// dependency cannot stall the endpoint.
func healthHandler(logger *slog.Logger, checks []ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for _, check := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := check.Check(ctx)
			cancel()
			if err != nil {
				logger.Warn("readiness check failed",
					slog.String("component", check.Name),
					slog.Any("error", err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable","component":"` + check.Name + `"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
