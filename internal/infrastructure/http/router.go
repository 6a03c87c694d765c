package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/llinneaa/coyote/internal/infrastructure/http/handlers"
	"github.com/llinneaa/coyote/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	HealthHandler         *handlers.HealthHandler
	ResourcesHandler      *handlers.ResourcesHandler
	ResourceGroupsHandler *handlers.ResourceGroupsHandler
	OrganizationsHandler  *handlers.OrganizationsHandler
	UsersHandler          *handlers.UsersHandler
	Tenant                *middleware.TenantResolver
	Actor                 *middleware.ActorResolver
	Log                   zerolog.Logger
	Secure                func(http.Handler) http.Handler
	IPRateLimit           func(http.Handler) http.Handler
	OrganizationRateLimit func(http.Handler) http.Handler
	Metrics               bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	r.Use(chimid.SetHeader("Content-Type", "application/json"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Everything below is tenant scoped: the organization comes from the API
	// token, the actor from the authenticated user identity.
	r.Group(func(r chi.Router) {
		r.Use(cfg.Tenant.Handler)
		if cfg.OrganizationRateLimit != nil {
			r.Use(cfg.OrganizationRateLimit)
		}
		r.Use(cfg.Actor.Handler)

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", cfg.ResourcesHandler.Index)
			r.Post("/", cfg.ResourcesHandler.Create)
			r.Get("/{id}", cfg.ResourcesHandler.Show)
			r.Patch("/{id}", cfg.ResourcesHandler.Update)
			r.Put("/{id}", cfg.ResourcesHandler.Update)
			r.Delete("/{id}", cfg.ResourcesHandler.Destroy)
		})

		r.Route("/resource_groups", func(r chi.Router) {
			r.Get("/", cfg.ResourceGroupsHandler.Index)
			r.Post("/", cfg.ResourceGroupsHandler.Create)
			r.Get("/{id}", cfg.ResourceGroupsHandler.Show)
			r.Delete("/{id}", cfg.ResourceGroupsHandler.Destroy)
		})

		r.Route("/organization", func(r chi.Router) {
			r.Get("/", cfg.OrganizationsHandler.Show)
			r.Get("/memberships", cfg.OrganizationsHandler.Memberships)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}", cfg.UsersHandler.Show)
			r.Patch("/{id}", cfg.UsersHandler.Update)
			r.Delete("/{id}", cfg.UsersHandler.Destroy)
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
