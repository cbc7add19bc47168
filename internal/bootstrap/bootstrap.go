// Package bootstrap builds the storefront's object graph from config.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	appgraphql "github.com/shashiranjanraj/glamify/app/graphql"
	"github.com/shashiranjanraj/glamify/app/listeners"
	"github.com/shashiranjanraj/glamify/app/repositories"
	"github.com/shashiranjanraj/glamify/app/repositories/memory"
	"github.com/shashiranjanraj/glamify/app/routes"
	"github.com/shashiranjanraj/glamify/app/services"
	"github.com/shashiranjanraj/glamify/config"
	"github.com/shashiranjanraj/glamify/internal/kernel"
	"github.com/shashiranjanraj/glamify/pkg/auth"
	"github.com/shashiranjanraj/glamify/pkg/cache"
	"github.com/shashiranjanraj/glamify/pkg/database"
	"github.com/shashiranjanraj/glamify/pkg/event"
	gql "github.com/shashiranjanraj/glamify/pkg/graphql"
	"github.com/shashiranjanraj/glamify/pkg/logger"
	"github.com/shashiranjanraj/glamify/pkg/messaging"
	"github.com/shashiranjanraj/glamify/pkg/middleware"
	"github.com/shashiranjanraj/glamify/pkg/sse"
	"github.com/shashiranjanraj/glamify/pkg/storage"
	"github.com/shashiranjanraj/glamify/pkg/telemetry"
	"github.com/shashiranjanraj/glamify/pkg/workerpool"
	"github.com/shashiranjanraj/glamify/pkg/ws"
)

// Version is reported to the tracing backend.
var Version = "dev"

const serviceName = "glamify"

// App is the wired application.
type App struct {
	Repos    repositories.Set
	Services *services.Services
	Tokens   *auth.Manager
	Events   *event.Dispatcher
	Hub      *ws.Hub
	Stream   *sse.Broker
	Kernel   *kernel.HTTPKernel

	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client

	closers []func(context.Context) error
}

// New connects to the configured backends and wires every component. Call
// Close on the returned App even when New fails half way; it is nil-safe.
func New(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	logger.Setup(config.IsProduction())

	a := &App{Events: event.New()}

	shutdownTracing, err := telemetry.InitTracerProvider(ctx, config.OTLPEndpoint(), serviceName, Version)
	if err != nil {
		return a, err
	}
	a.onClose(shutdownTracing)

	if err := a.openStore(ctx); err != nil {
		return a, err
	}

	store, limiter := a.openCache(ctx)

	disk, err := storage.New(ctx, storage.Config{
		Driver:     config.StorageDefault(),
		LocalRoot:  config.StorageLocalRoot(),
		LocalURL:   config.StorageURL(),
		S3Bucket:   config.StorageS3Bucket(),
		S3Region:   config.StorageS3Region(),
		S3Key:      config.StorageS3Key(),
		S3Secret:   config.StorageS3Secret(),
		S3Endpoint: config.StorageS3Endpoint(),
		S3URL:      config.StorageS3URL(),
	})
	if err != nil {
		return a, err
	}

	a.Tokens = auth.NewManager(config.JWTSecret(), config.TokenTTL())
	a.Services = services.New(services.Deps{
		Repos:           a.Repos,
		Tokens:          a.Tokens,
		Cache:           store,
		Disk:            disk,
		Events:          a.Events,
		CacheTTL:        config.CacheTTL(),
		DefaultPageSize: config.DefaultPageSize(),
		MaxPageSize:     config.MaxPageSize(),
	})

	a.Hub = ws.NewHub(ws.AllowOrigins(config.CORSAllowedOrigins()))
	a.Stream = sse.NewBroker("stock")

	sinks := listeners.Sinks{
		Cache: a.Services.Catalog,
		Feeds: []listeners.Broadcaster{a.Hub, a.Stream},
	}
	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		producer := messaging.NewProducer(brokers, config.KafkaOrdersTopic())
		a.onClose(func(context.Context) error { return producer.Close() })

		// Closed before the producer so queued publishes still go out.
		pool := workerpool.New(config.Int("EVENT_WORKERS", 4), config.Int("EVENT_QUEUE", 1024))
		a.onClose(func(context.Context) error { pool.Close(); return nil })

		sinks.Publisher = producer
		sinks.Background = pool
		logger.Info("publishing order events", "brokers", brokers, "topic", config.KafkaOrdersTopic())
	}
	listeners.Register(a.Events, sinks)

	schema, err := appgraphql.NewSchema(a.Services.Catalog, a.Services.Reviews)
	if err != nil {
		return a, err
	}

	var files http.Handler
	if srv, ok := disk.(storage.Server); ok {
		files = srv.Handler()
	}

	a.Kernel = kernel.NewHTTPKernel(routes.API{
		Services:    a.Services,
		Tokens:      a.Tokens,
		GraphQL:     gql.Handler(schema),
		StockFeed:   a.Hub,
		StockStream: a.Stream,
	}, kernel.Options{
		CORSOrigins: config.CORSAllowedOrigins(),
		Limiter:     limiter,
		Storage:     files,
		Health:      a.Health,
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	if config.StoreDriver() == "memory" {
		logger.Warn("using the in-memory store; data is lost on exit")
		a.Repos = memory.NewSet()
		return nil
	}

	client, db, err := database.Connect(ctx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return err
	}
	a.Mongo, a.DB = client, db
	a.onClose(client.Disconnect)

	if err := repositories.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	a.Repos = repositories.NewMongoSet(db)

	if name := config.LogMongoCollection(); name != "" {
		sink := logger.NewMongoHandler(context.Background(), db.Collection(name), slog.LevelInfo)
		logger.Setup(config.IsProduction(), sink)
		// Registered after Disconnect so it runs first.
		a.onClose(func(context.Context) error { sink.Close(); return nil })
	}
	return nil
}

// openCache prefers Redis and falls back to in-process stores when Redis is
// unreachable.
func (a *App) openCache(ctx context.Context) (cache.Store, middleware.Limiter) {
	perMinute := config.RateLimitPerMinute()

	if config.CacheDriver() == "redis" {
		addr := config.RedisAddr()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		client, err := cache.Connect(pingCtx, addr, config.RedisPassword())
		cancel()
		if err == nil {
			a.Redis = client
			a.onClose(func(context.Context) error { return client.Close() })

			var limiter middleware.Limiter
			if perMinute > 0 {
				limiter = middleware.NewRedisLimiter(client, perMinute, time.Minute)
			}
			return cache.NewRedis(client, serviceName+":"), limiter
		}
		logger.Warn("redis unavailable, using in-process cache", "addr", addr, "error", err)
	}

	var limiter middleware.Limiter
	if perMinute > 0 {
		limiter = middleware.NewMemoryLimiter(perMinute, time.Minute)
	}
	return cache.NewMemory(), limiter
}

// Health reports whether the primary store is reachable.
func (a *App) Health(ctx context.Context) error {
	if a.Mongo == nil {
		return nil
	}
	return database.Ping(ctx, a.Mongo)
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse acquisition order.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
