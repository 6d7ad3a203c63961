// Package server assembles the storefront HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"LuxeStore/internal/auth"
	"LuxeStore/internal/cart"
	"LuxeStore/internal/catalog"
	"LuxeStore/internal/kv"
	"LuxeStore/internal/notify"
	"LuxeStore/internal/order"
	"LuxeStore/internal/session"
	"LuxeStore/internal/shop"
	"LuxeStore/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry
	// Metrics may be nil; it must be registered on Registry.
	Metrics *StoreMetrics

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	Catalog       *catalog.Catalog
	CatalogSource catalog.Source
	State         kv.Store
	Orders        order.Store
	Sessions      *session.Registry
	Tokens        *session.Tokens
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	log := httpDeps.Log
	if log == nil {
		log = zap.NewNop()
	}

	var observe catalog.QueryObserver
	var placed func(order.Order)
	if httpDeps.Metrics != nil {
		observe = httpDeps.Metrics.ObserveQuery
		placed = func(order.Order) { httpDeps.Metrics.OrdersPlaced.Inc() }
	}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps, log)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, log))

	(&catalog.Server{Catalog: deps.Catalog, Log: log, Observer: observe}).Register(r)

	r.Group(func(sr chi.Router) {
		sr.Use(session.Middleware(deps.Sessions, deps.Tokens, log))

		(&cart.Server{Cart: session.CartOf, Log: log}).Register(sr)
		(&order.Server{Store: deps.Orders, Log: log, Placed: placed}).Register(sr)
		(&auth.Server{Log: log}).Register(sr)

		sr.Mount("/shop", (&shop.Server{View: session.ViewOf, Log: log}).Routes())
		sr.Mount("/notifications", (&notify.Server{Feed: session.FeedOf}).Routes())
		sr.Get("/session", sessionInfo)
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps, log *zap.Logger) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry, namespace)
	r.Use(metrics.Middleware(deps.Service, kit.RouteLabel))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type sessionResp struct {
	ID        string `json:"id"`
	ItemCount int    `json:"item_count"`
	Wishlist  []int  `json:"wishlist"`
}

// sessionInfo backs the navbar: cart badge and wishlist icon state.
func sessionInfo(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, sessionResp{
		ID:        s.ID,
		ItemCount: s.Cart.ItemCount(),
		Wishlist:  s.Cart.Wishlist(),
	})
}

type pinger interface {
	Ping(ctx context.Context) error
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	checks := []struct {
		name string
		p    pinger
	}{
		{"catalog", deps.CatalogSource},
		{"state", deps.State},
		{"orders", deps.Orders},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, c := range checks {
			if c.p == nil {
				continue
			}
			if err := checkReady(ctx, c.p); err != nil {
				log.Warn("readyz failed: "+c.name, zap.Error(err))
				kit.WriteError(w, r, http.StatusServiceUnavailable, c.name+" not ready", nil)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}

func checkReady(ctx context.Context, p pinger) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()
	return p.Ping(cctx)
}
