// Package kernel assembles the HTTP handler: the global middleware stack,
// operational endpoints and the API routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storehub/app/routes"
	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/pkg/metrics"
	"github.com/shashiranjanraj/storehub/pkg/middleware"
	"github.com/shashiranjanraj/storehub/pkg/reqid"
	"github.com/shashiranjanraj/storehub/pkg/response"
	"github.com/shashiranjanraj/storehub/pkg/router"
)

// Options configure the kernel. Zero rate limits disable limiting.
type Options struct {
	Services        services.Set
	DB              *gorm.DB
	CORS            middleware.CORSOptions
	RatePerMinute   int
	StrictPerMinute int
}

// NewRouter builds the router. ctx bounds the rate limiters' janitors.
//
// Middleware order, outermost first: metrics, request id, logger, recovery,
// CORS, rate limit.
func NewRouter(ctx context.Context, opts Options) *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(opts.CORS))
	if opts.RatePerMinute > 0 {
		r.Use(middleware.NewLimiter(ctx, opts.RatePerMinute, time.Minute).Middleware)
	}

	r.NotFound(response.NotFound)
	r.MethodNotAllowed(response.MethodNotAllowed)

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", health(opts.DB))

	var strict router.Middleware
	if opts.StrictPerMinute > 0 {
		strict = middleware.NewLimiter(ctx, opts.StrictPerMinute, time.Minute).Middleware
	}
	routes.RegisterAPI(r, opts.Services, strict)
	return r
}

// NewHTTPKernel returns the handler served by the HTTP server.
func NewHTTPKernel(ctx context.Context, opts Options) http.Handler {
	return NewRouter(ctx, opts).Handler()
}

func health(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "database": "unknown"}
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				response.Error(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
			status["database"] = "up"
		}
		response.Success(w, status)
	}
}
