package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"EcoPantry/internal/app"
	"EcoPantry/internal/catalog"
	"EcoPantry/internal/config"
	"EcoPantry/internal/identity"
	"EcoPantry/internal/purchase"
	"EcoPantry/internal/recs"
	"EcoPantry/pkg/kit"
)

const (
	service        = "api"
	maxTrending    = 8
	migrateTimeout = 10 * time.Second
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := kit.NewLogger(service, cfg.Env)
	defer func() { _ = log.Sync() }()

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		if cfg.Env != "development" {
			log.Fatal("JWT_SECRET is required outside development")
		}
		jwtSecret = "ecopantry-dev-secret-do-not-deploy"
	}

	db, purchases, accounts, err := openStores(cfg)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err), zap.String("driver", cfg.DBDriver))
	}
	defer func() { _ = db.Close() }()

	jwt := identity.NewTokenMaker(jwtSecret)
	loader := catalog.NewFileLoader(cfg.CatalogPath)
	index := recs.NewHTTPIndex(cfg.SearchBaseURL, cfg.SearchAppID, cfg.SearchAPIKey, cfg.SearchIndex)

	deps := app.Deps{
		Catalog:   &catalog.Server{Loader: loader, Limit: cfg.CatalogLimit, Log: log},
		Purchases: &purchase.Server{Store: purchases, Log: log},
		Identity:  &identity.Server{Log: log, Accounts: accounts, JWT: jwt},
		Recs: &recs.Server{
			Loader:      loader,
			Syncer:      &recs.Syncer{Index: index, Counts: purchases},
			Trender:     &recs.Trender{Index: index, Static: recs.DefaultStaticTrending, Log: log},
			MaxTrending: maxTrending,
			Log:         log,
		},
		JWT:   jwt,
		Store: purchases,
	}

	h := app.NewHandler(deps, app.HTTPDeps{
		Log:            log,
		Service:        service,
		Env:            cfg.Env,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		CORSOrigins:    cfg.CORSOrigins,
		LoginLimiter:   kit.NewIPRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindowSeconds),
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStores(cfg config.Config) (*sql.DB, purchase.Store, identity.AccountStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	if cfg.DBDriver == "postgres" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}

		purchases := purchase.NewPostgresStore(db)
		accounts := identity.NewPostgresStore(db)
		if err := purchases.Migrate(ctx); err != nil {
			return nil, nil, nil, err
		}
		if err := accounts.Migrate(ctx); err != nil {
			return nil, nil, nil, err
		}
		return db, purchases, accounts, nil
	}

	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, nil, nil, err
	}

	purchases := purchase.NewSQLiteStore(db)
	accounts := identity.NewSQLiteStore(db)
	if err := purchases.Migrate(ctx); err != nil {
		return nil, nil, nil, err
	}
	if err := accounts.Migrate(ctx); err != nil {
		return nil, nil, nil, err
	}
	return db, purchases, accounts, nil
}
