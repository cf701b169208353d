// Package app assembles the service from configuration: the entity store,
// the announcement cache and trigger queue, every domain module, the HTTP
// router and the background workers.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	announcementcache "confcentral/internal/announcement/cache"
	announcementhandler "confcentral/internal/announcement/handler"
	announcementmetrics "confcentral/internal/announcement/metrics"
	"confcentral/internal/announcement/queue"
	announcementservice "confcentral/internal/announcement/service"
	"confcentral/internal/announcement/worker"
	conferencehandler "confcentral/internal/conference/handler"
	conferencemetrics "confcentral/internal/conference/metrics"
	conferenceservice "confcentral/internal/conference/service"
	jwttoken "confcentral/internal/jwt_token"
	"confcentral/internal/platform/config"
	"confcentral/internal/platform/metrics"
	"confcentral/internal/platform/postgres"
	"confcentral/internal/platform/redis"
	profilehandler "confcentral/internal/profile/handler"
	profileservice "confcentral/internal/profile/service"
	registrationhandler "confcentral/internal/registration/handler"
	registrationmetrics "confcentral/internal/registration/metrics"
	registrationservice "confcentral/internal/registration/service"
	sessionhandler "confcentral/internal/session/handler"
	sessionservice "confcentral/internal/session/service"
	"confcentral/internal/storage"
	"confcentral/internal/storage/memory"
	pgstore "confcentral/internal/storage/postgres"
	httptransport "confcentral/internal/transport/http"
	wishlisthandler "confcentral/internal/wishlist/handler"
	wishlistmetrics "confcentral/internal/wishlist/metrics"
	wishlistservice "confcentral/internal/wishlist/service"
	"confcentral/pkg/platform/circuit"
)

// App is the assembled service.
type App struct {
	Handler http.Handler
	Store   storage.Store

	refresher *worker.Refresher
	triggers  *worker.Triggers
	closers   []func()
	logger    *slog.Logger
}

// Option customizes assembly.
type Option func(*options)

type options struct {
	registry *prometheus.Registry
}

// WithRegistry registers metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// Build connects the configured backends and wires every module. Backends
// without configuration fall back to their in-process versions. Call Close
// to release connections.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}
	reg := o.registry

	a := &App{logger: logger}
	checks := map[string]httptransport.HealthCheck{}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store
	checks["store"] = store.Ping

	cache, err := a.openCache(ctx, cfg, checks)
	if err != nil {
		a.Close()
		return nil, err
	}

	triggerQueue, err := a.openQueue(ctx, cfg, checks)
	if err != nil {
		a.Close()
		return nil, err
	}

	profiles := profileservice.New(store, profileservice.WithLogger(logger))

	announcements := announcementservice.New(store, cache,
		announcementservice.WithLogger(logger),
		announcementservice.WithMetrics(announcementmetrics.NewWithRegistry(reg)),
		announcementservice.WithNearlySoldOutSeats(cfg.Announcement.NearlySoldOutMax),
	)
	a.refresher = worker.NewRefresher(announcements, cfg.Announcement.RefreshInterval, logger)
	a.triggers = worker.NewTriggers(triggerQueue, announcements.HandleTrigger)

	conferences := conferenceservice.New(store, profiles,
		conferenceservice.WithLogger(logger),
		conferenceservice.WithMetrics(conferencemetrics.NewWithRegistry(reg)),
	)
	sessions := sessionservice.New(store, profiles, triggerQueue, sessionservice.WithLogger(logger))
	ledger := registrationservice.New(store, profiles,
		registrationservice.WithLogger(logger),
		registrationservice.WithMetrics(registrationmetrics.NewWithRegistry(reg)),
		registrationservice.WithSignaler(a.refresher),
	)
	wishlist := wishlistservice.New(store, profiles,
		wishlistservice.WithLogger(logger),
		wishlistservice.WithMetrics(wishlistmetrics.NewWithRegistry(reg)),
	)

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)

	a.Handler = httptransport.NewRouter(httptransport.Config{
		Logger:         logger,
		Metrics:        metrics.NewWithRegistry(reg),
		Validator:      jwttoken.NewJWTServiceAdapter(jwtService),
		RequestTimeout: cfg.Server.RequestTimeout,
		Public: []httptransport.Module{
			announcementhandler.New(announcements, logger),
		},
		Authenticated: []httptransport.Module{
			profilehandler.New(profiles, logger),
			conferencehandler.New(conferences, logger),
			sessionhandler.New(sessions, logger),
			registrationhandler.New(ledger, logger),
			wishlisthandler.New(wishlist, logger),
		},
		HealthChecks:   checks,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	if db == nil {
		a.logger.InfoContext(ctx, "using in-memory store")
		return memory.New(memory.WithTxTimeout(cfg.Store.TxTimeout)), nil
	}
	a.closers = append(a.closers, func() { _ = db.Close() })

	store := pgstore.New(db,
		pgstore.WithTxTimeout(cfg.Store.TxTimeout),
		pgstore.WithLockTimeout(cfg.Store.LockTimeout),
	)
	if cfg.Postgres.Migrate {
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	a.logger.InfoContext(ctx, "using postgres store")
	return store, nil
}

func (a *App) openCache(ctx context.Context, cfg config.Config, checks map[string]httptransport.HealthCheck) (announcementcache.Cache, error) {
	local := announcementcache.NewMemory()
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return local, nil
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	checks["redis"] = client.Health

	breaker := circuit.New("announcement-cache")
	return announcementcache.NewFallback(announcementcache.NewRedis(client.Client), local, breaker, a.logger), nil
}

type triggerQueue interface {
	queue.Publisher
	queue.Consumer
}

func (a *App) openQueue(ctx context.Context, cfg config.Config, checks map[string]httptransport.HealthCheck) (triggerQueue, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return queue.NewChannel(cfg.Announcement.TriggerBufferSize, a.logger), nil
	}
	k, err := queue.NewKafka(ctx, cfg.Kafka, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, k.Close)
	checks["kafka"] = k.Health
	return k, nil
}

// RunWorkers runs the announcement refresher and the trigger consumer until
// ctx ends.
func (a *App) RunWorkers(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.refresher.Run(ctx) })
	g.Go(func() error { return a.triggers.Run(ctx) })
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases backend connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
