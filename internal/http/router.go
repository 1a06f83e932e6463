// Package http assembles the API surface: middleware chain, public auth
// routes, and the authenticated application routes.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	alerthandler "github.com/Loxfxgc/life-drop/internal/alert/handler"
	donorhandler "github.com/Loxfxgc/life-drop/internal/donor/handler"
	hospitalhandler "github.com/Loxfxgc/life-drop/internal/hospital/handler"
	identityhandler "github.com/Loxfxgc/life-drop/internal/identity/handler"
	inventoryhandler "github.com/Loxfxgc/life-drop/internal/inventory/handler"
	"github.com/Loxfxgc/life-drop/internal/platform/metrics"
	"github.com/Loxfxgc/life-drop/internal/platform/middleware"
	requesthandler "github.com/Loxfxgc/life-drop/internal/request/handler"
	userhandler "github.com/Loxfxgc/life-drop/internal/user/handler"
)

// Handlers carries every module handler the router mounts.
type Handlers struct {
	Identity  *identityhandler.Handler
	User      *userhandler.Handler
	Donor     *donorhandler.Handler
	Hospital  *hospitalhandler.Handler
	Inventory *inventoryhandler.Handler
	Request   *requesthandler.Handler
	Alert     *alerthandler.Handler
}

// NewRouter wires middleware and mounts all module routes under /api/v1.
func NewRouter(h Handlers, validator middleware.JWTValidator, revoked middleware.RevocationChecker,
	m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Device)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		h.Identity.RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON)
			r.Use(middleware.RequireAuth(validator, revoked, logger))

			h.Identity.RegisterProtected(r)
			h.User.Register(r)
			h.Donor.Register(r)
			h.Hospital.Register(r)
			h.Inventory.Register(r)
			h.Request.Register(r)
			h.Alert.Register(r)
		})
	})

	return r
}
