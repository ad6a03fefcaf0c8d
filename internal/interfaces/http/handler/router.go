package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/hapkiduki/landedcost/internal/application/port"
	"github.com/hapkiduki/landedcost/internal/interfaces/http/middleware"
)

// RouterConfig holds the HTTP settings of the router.
type RouterConfig struct {
	// Version is sent in the X-API-Version header
	Version string

	// CORSAllowedOrigins lists the origins allowed by CORS
	CORSAllowedOrigins []string

	// RequestTimeout bounds each request; zero disables it
	RequestTimeout time.Duration

	// MaxRequestSize caps request bodies in bytes; zero disables it
	MaxRequestSize int64

	// RateLimit enables per-client rate limiting when non-nil
	RateLimit *middleware.RateLimiterConfig

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP
	TrustProxy bool
}

// NewRouter builds the chi router with the middleware stack and every route.
//
// Parameters:
//   - h: the endpoint handlers
//   - log: logger for the request log and panic recovery
//   - cfg: HTTP settings
//
// Returns:
//   - http.Handler: the router
func NewRouter(h *Handler, log port.Logger, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Order matters! Middleware is executed in the order added.
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recoverer(log))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-API-Version"},
		MaxAge:         300,
	}))
	if cfg.RateLimit != nil {
		r.Use(middleware.RateLimiter(*cfg.RateLimit))
	}
	r.Use(middleware.SecureHeaders)
	if cfg.Version != "" {
		r.Use(middleware.APIVersion(cfg.Version))
	}

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.BodyLimit(cfg.MaxRequestSize))

		r.Post("/fees/fba", h.CalculateFbaFees)
		r.Post("/landed-cost", h.CalculateLandedCost)
		r.Post("/optimizations", h.GenerateRecommendations)
		r.Post("/scenarios/compare", h.CompareScenarios)
		r.Get("/size-tiers", h.SizeTiers)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
