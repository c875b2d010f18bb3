// Package handler serves the rwdb operations HTTP surface.
package handler

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joestump/rwdb/internal/rwdb"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Client *rwdb.Client
	// Mu guards Client. NewRouter allocates one when nil.
	Mu *sync.Mutex
	// Metrics serves GET /metrics. Defaults to promhttp.Handler().
	Metrics http.Handler
}

// NewRouter assembles the chi router with middleware and ops routes.
func NewRouter(deps Deps) http.Handler {
	if deps.Mu == nil {
		deps.Mu = &sync.Mutex{}
	}
	if deps.Metrics == nil {
		deps.Metrics = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	ops := NewOpsHandler(deps.Client, deps.Mu)
	r.Get("/healthz", ops.Healthz)
	r.Get("/stat/{mode}", ops.Stat)
	r.Get("/version/{mode}", ops.Version)
	r.Method(http.MethodGet, "/metrics", deps.Metrics)

	return r
}
