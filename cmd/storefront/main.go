package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"LuxeStore/internal/catalog"
	"LuxeStore/internal/checkout"
	"LuxeStore/internal/config"
	"LuxeStore/internal/debounce"
	"LuxeStore/internal/kv"
	"LuxeStore/internal/notify"
	"LuxeStore/internal/order"
	"LuxeStore/internal/server"
	"LuxeStore/internal/session"
	"LuxeStore/pkg/kit"
)

const (
	service     = "storefront"
	startupTime = 15 * time.Second
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	log, err := kit.NewLogger(service, kit.LogOptions{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	log.Info("config loaded", cfg.Fields()...)

	ctx, cancel := context.WithTimeout(context.Background(), startupTime)
	defer cancel()

	pg := &lazyDB{ctx: ctx}
	defer pg.Close()

	src, err := catalogSource(cfg, pg)
	if err != nil {
		log.Fatal("catalog source", zap.Error(err))
	}
	cat, err := catalog.Build(ctx, src)
	if err != nil {
		log.Fatal("catalog load", zap.Error(err))
	}
	log.Info("catalog loaded", zap.Int("products", cat.Len()))

	state, err := stateStore(ctx, cfg, pg)
	if err != nil {
		log.Fatal("state store", zap.Error(err))
	}
	defer func() { _ = state.Close() }()

	orders, err := orderStore(cfg, pg)
	if err != nil {
		log.Fatal("order store", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := server.NewStoreMetrics(reg)

	sessions := session.NewRegistry(session.Deps{
		Catalog:       cat,
		Store:         state,
		Bus:           notify.NewBus(),
		Log:           log,
		Form:          checkout.NewForm(),
		Clock:         debounce.RealClock{},
		SearchDelay:   cfg.Shop.SearchDebounce,
		QueryObserver: metrics.ObserveQuery,
		Active:        metrics.SetActiveSessions,
	})
	defer sessions.Close()

	sweeper, err := session.StartSweeper(sessions, cfg.Session.SweepSchedule, cfg.Session.IdleTimeout, log)
	if err != nil {
		log.Fatal("session sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	h := server.NewHandler(
		server.Deps{
			Catalog:       cat,
			CatalogSource: src,
			State:         state,
			Orders:        orders,
			Sessions:      sessions,
			Tokens:        session.NewTokens(cfg.Session.Secret, cfg.Session.TTL),
		},
		server.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       reg,
			Metrics:        metrics,
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsToken:   cfg.Metrics.Token,
		},
	)

	if err := kit.RunHTTPServer(cfg.HTTPAddr, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}

func catalogSource(cfg config.Config, pg *lazyDB) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case "file":
		return catalog.NewFileStore(cfg.Catalog.File), nil
	case "postgres":
		db, err := pg.Open(cfg.Catalog.DSN)
		if err != nil {
			return nil, err
		}
		return catalog.NewPostgresStore(db), nil
	}
	return catalog.NewMemStore(), nil
}

// stateStore shares the Postgres pool with the order store when both use storage.dsn.
func stateStore(ctx context.Context, cfg config.Config, pg *lazyDB) (kv.Store, error) {
	if cfg.Storage.Driver == kv.DriverPostgres {
		db, err := pg.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return kv.NewPostgresStore(db), nil
	}
	return kv.Open(ctx, kv.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		DSN:    cfg.Storage.DSN,
	})
}

func orderStore(cfg config.Config, pg *lazyDB) (order.Store, error) {
	if cfg.Orders.Driver != "postgres" {
		return order.NewMemStore(), nil
	}
	db, err := pg.Open(cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}
	return order.NewPostgresStore(db), nil
}

// lazyDB opens one pool per DSN on first use.
type lazyDB struct {
	ctx context.Context
	dbs map[string]*sql.DB
}

func (l *lazyDB) Open(dsn string) (*sql.DB, error) {
	if db, ok := l.dbs[dsn]; ok {
		return db, nil
	}
	db, err := kit.OpenPostgres(l.ctx, dsn)
	if err != nil {
		return nil, err
	}
	if l.dbs == nil {
		l.dbs = make(map[string]*sql.DB)
	}
	l.dbs[dsn] = db
	return db, nil
}

func (l *lazyDB) Close() {
	for _, db := range l.dbs {
		_ = db.Close()
	}
}
