package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"EcoPantry/internal/catalog"
	"EcoPantry/internal/identity"
	"EcoPantry/internal/purchase"
	"EcoPantry/internal/recs"
	"EcoPantry/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Env      string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	CORSOrigins  []string
	LoginLimiter *kit.IPRateLimiter
}

type Deps struct {
	Catalog   *catalog.Server
	Purchases *purchase.Server
	Identity  *identity.Server
	Recs      *recs.Server
	JWT       *identity.TokenMaker

	// Store backs the readiness probe.
	Store purchase.Store
}

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(deps.Store, httpDeps.Log))

	r.Get("/api/health", health(httpDeps.Env))
	r.Get("/api/products", deps.Catalog.ListHandler())
	r.Get("/api/recommend/trending", deps.Recs.TrendingHandler())

	if deps.Identity != nil {
		r.Group(func(ar chi.Router) {
			if httpDeps.LoginLimiter != nil {
				ar.Use(httpDeps.LoginLimiter.Middleware)
			}
			ar.Post("/api/auth/register", deps.Identity.RegisterHandler())
			ar.Post("/api/auth/login", deps.Identity.LoginHandler())
		})
	}

	r.Group(func(pr chi.Router) {
		pr.Use(identity.Middleware(deps.JWT))
		pr.Post("/api/purchase", deps.Purchases.RecordHandler())
		pr.Get("/api/purchases", deps.Purchases.ListHandler())
		pr.Delete("/api/purchase/{productCode}", deps.Purchases.DeleteHandler())
		pr.Post("/api/sync-products", deps.Recs.SyncHandler())
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
	r.Use(kit.CORS(deps.CORSOrigins))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func health(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": env,
		})
	}
}

func readyz(store purchase.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			if log != nil {
				log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
