package http

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/product-services/docs"
	"github.com/rogerio-castellano/product-services/internal/http/catalog"
	"github.com/rogerio-castellano/product-services/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-services/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type routerOptions struct {
	requestLog  *log.Logger
	rateLimiter *rl.RateLimiter
}

type RouterOption func(*routerOptions)

// WithRequestLog sends the per-request log lines to l instead of stdout.
func WithRequestLog(l *log.Logger) RouterOption {
	return func(o *routerOptions) { o.requestLog = l }
}

// WithRateLimiter throttles each client through limiter.
func WithRateLimiter(limiter *rl.RateLimiter) RouterOption {
	return func(o *routerOptions) { o.rateLimiter = limiter }
}

func newOptions(opts []RouterOption) routerOptions {
	o := routerOptions{requestLog: log.New(os.Stdout, "", 0)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewRouter builds the product registry API. Handlers read the repository set through
// handlers.SetProductRepo.
func NewRouter(opts ...RouterOption) http.Handler {
	o := newOptions(opts)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(o.requestLog))
	r.Use(middleware.Recoverer)
	if o.rateLimiter != nil {
		r.Use(o.rateLimiter.Middleware)
	}

	r.Get("/products", handlers.GetProductsHandler)
	r.Post("/products", handlers.CreateProductHandler)
	r.Get("/products/{id}", handlers.GetProductByIDHandler)
	r.Put("/products/{id}", handlers.UpdateProductHandler)
	r.Delete("/products/{id}", handlers.DeleteProductHandler)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	return r
}

// NewCatalogRouter builds the catalog site served from dir.
func NewCatalogRouter(dir string, opts ...RouterOption) http.Handler {
	o := newOptions(opts)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Recoverer)
	if o.rateLimiter != nil {
		r.Use(o.rateLimiter.Middleware)
	}

	catalog.NewHandler(dir).RegisterRoutes(r)
	return r
}
