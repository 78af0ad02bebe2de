package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/carbon-tracker-api/shared/metrics"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/middleware"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/utilities"
)

// RouterConfig holds everything the HTTP router is assembled from.
type RouterConfig struct {
	Logger         *zerolog.Logger
	AllowedOrigins []string
	Verifier       middleware.TokenVerifier
	Metrics        *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer
	Auth           *AuthHandler
	Activities     *ActivityHandler
}

// NewRouter mounts the API under /api next to /healthz and /metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(cfg.Logger)...)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utilities.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	requireAuth := middleware.NewJWTMiddleware(cfg.Verifier, cfg.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			cfg.Auth.RegisterPublicRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				cfg.Auth.RegisterProtectedRoutes(r)
			})
		})

		r.Route("/activities", func(r chi.Router) {
			r.Use(requireAuth)
			cfg.Activities.RegisterRoutes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utilities.WriteError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		utilities.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
