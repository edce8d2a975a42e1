package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/projecthelena/gitops-demo/internal/config"
	_ "github.com/projecthelena/gitops-demo/internal/docs"
	"github.com/projecthelena/gitops-demo/internal/status"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/time/rate"
)

// SecurityHeaders middleware adds essential security headers to all responses.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// NewRouter builds the HTTP router serving the status endpoints and API docs.
// Background work started here stops when ctx is done.
func NewRouter(ctx context.Context, svc *status.Service, cfg *config.Config, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	// Only trust X-Forwarded-For behind a trusted reverse proxy, otherwise
	// clients could pick their own rate limit bucket.
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}

	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)

	statusH := NewStatusHandler(svc)

	// Liveness probe, never rate limited
	r.Get("/health", statusH.Health)

	r.Group(func(limited chi.Router) {
		// A zero burst would reject every request, so it disables limiting like a zero rate.
		if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
			limiter := NewIPRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
			limited.Use(RateLimitMiddleware(limiter))
		}

		limited.Get("/", statusH.Root)

		// API Documentation (Swagger UI)
		limited.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/doc.json"),
		))
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
