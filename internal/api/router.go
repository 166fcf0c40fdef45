package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cumplia.mx/compliance-gateway/pkg/logger"
)

// RateLimitConfig bounds per-tenant request rates on the chat routes.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func NewRouter(apiHandler *APIHandler, log *logger.Logger, rl RateLimitConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/token", apiHandler.TokenHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Authenticated routes, rate limited per tenant
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)
			r.Use(tenantRateLimit(rl))

			r.Post("/chat", apiHandler.ChatHandler)
			r.Get("/suggested-questions", apiHandler.SuggestedQuestionsHandler)
			r.Get("/usage", apiHandler.UsageHandler)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func tenantRateLimit(rl RateLimitConfig) func(http.Handler) http.Handler {
	if rl.Requests <= 0 {
		rl.Requests = 30
	}
	if rl.Window <= 0 {
		rl.Window = time.Minute
	}
	return httprate.Limit(
		rl.Requests,
		rl.Window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if p := PrincipalFromContext(r.Context()); p.ID != "" {
				return "tenant:" + p.ID, nil
			}
			return "ip:" + r.RemoteAddr, nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"kind":"resource_exhausted","error":"rate limit exceeded"}`))
		}),
	)
}
