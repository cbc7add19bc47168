// Package kernel builds the storefront's http.Handler: the global middleware
// stack, the framework routes and the /api route table.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/glamify/app/routes"
	"github.com/shashiranjanraj/glamify/pkg/metrics"
	"github.com/shashiranjanraj/glamify/pkg/middleware"
	"github.com/shashiranjanraj/glamify/pkg/reqid"
	"github.com/shashiranjanraj/glamify/pkg/response"
	"github.com/shashiranjanraj/glamify/pkg/router"
	"github.com/shashiranjanraj/glamify/pkg/telemetry"
)

// Options tune the framework side of the kernel.
type Options struct {
	CORSOrigins []string
	// Limiter rate-limits every request by client IP; nil disables limiting.
	Limiter middleware.Limiter
	// Storage serves uploaded files under /storage; nil leaves it out.
	Storage http.Handler
	// Health backs /healthz; nil always reports ok.
	Health func(ctx context.Context) error
}

type HTTPKernel struct {
	router  *router.Router
	handler http.Handler
}

func NewHTTPKernel(api routes.API, opts Options) *HTTPKernel {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Route tagger  — names the otel span after the matched pattern
	//  2. Prometheus    — accurate total latency per route
	//  3. Recovery      — catches panics before they kill the goroutine
	//  4. Request ID    — inject unique ID before anything logs
	//  5. Logger        — logs request_id from context
	//  6. CORS          — set CORS headers, answer preflights
	//  7. Rate limiter  — reject abusers early
	r.Use(telemetry.RouteTagger)
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(opts.CORSOrigins...)))
	if opts.Limiter != nil {
		r.Use(middleware.RateLimit(opts.Limiter))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", healthHandler(opts.Health))
	if opts.Storage != nil {
		r.Mount("/storage", "storage", http.StripPrefix("/storage", opts.Storage))
	}

	routes.RegisterAPI(r, api)

	return &HTTPKernel{
		router:  r,
		handler: telemetry.Handler(r.Handler(), "http.server"),
	}
}

// Handler returns the fully wrapped handler.
func (k *HTTPKernel) Handler() http.Handler { return k.handler }

// Router exposes the route table, e.g. for route:list.
func (k *HTTPKernel) Router() *router.Router { return k.router }

func healthHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				response.JSON(w, http.StatusServiceUnavailable, response.Envelope{
					Status:  http.StatusServiceUnavailable,
					Message: "unhealthy",
					Error:   err.Error(),
				})
				return
			}
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}
