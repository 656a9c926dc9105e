package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/linklite/linklite/internal/analytics"
	"github.com/linklite/linklite/internal/auth"
	"github.com/linklite/linklite/internal/click"
	"github.com/linklite/linklite/internal/enrich"
	"github.com/linklite/linklite/internal/handlers"
	"github.com/linklite/linklite/internal/link"
	"github.com/linklite/linklite/internal/messaging"
	"github.com/linklite/linklite/internal/middleware"
	"github.com/linklite/linklite/internal/ratelimit"
	"github.com/linklite/linklite/internal/store"
	"github.com/linklite/linklite/internal/user"
	"github.com/linklite/linklite/pkg/postgres"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PostgresService owns the connection pool so the injector can close it on
// shutdown.
type PostgresService struct {
	Pool *pgxpool.Pool
}

func (s *PostgresService) Shutdown() error {
	s.Pool.Close()

	return nil
}

// RedisService owns the Redis client lifecycle.
type RedisService struct {
	Client *redis.Client
}

func (s *RedisService) Shutdown() error {
	return s.Client.Close()
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "console" {
			return zap.NewDevelopment()
		}

		return zap.NewProduction()
	})
}

// PostgresPackage provides the connection pool and applies pending migrations.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*PostgresService, error) {
		options := do.MustInvoke[*Options](i)

		if options.MigrationsPath != "" {
			if err := postgres.RunMigrations(options.MigrationsPath, options.PostgresDSN); err != nil {
				return nil, err
			}
		}

		cfg, err := pgxpool.ParseConfig(options.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}

		cfg.MaxConns = int32(options.PostgresConns)

		pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
		if err != nil {
			return nil, err
		}

		return &PostgresService{Pool: pool}, nil
	})
}

// RedisPackage provides the Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisService, error) {
		options := do.MustInvoke[*Options](i)

		return &RedisService{
			Client: redis.NewClient(&redis.Options{Addr: options.RedisAddr}),
		}, nil
	})
}

// RepositoryPackage provides the stores, the link service, and the analytics
// aggregator.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (link.Repository, error) {
		options := do.MustInvoke[*Options](i)
		pg := do.MustInvoke[*PostgresService](i)
		rd := do.MustInvoke[*RedisService](i)

		return store.NewCachedLinkStore(
			store.NewPostgresLinkStore(pg.Pool), rd.Client, options.CacheTTL,
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (click.Store, error) {
		pg := do.MustInvoke[*PostgresService](i)

		return store.NewPostgresClickStore(pg.Pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (user.Repository, error) {
		pg := do.MustInvoke[*PostgresService](i)

		return store.NewPostgresUserStore(pg.Pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (analytics.RollupCache, error) {
		options := do.MustInvoke[*Options](i)
		rd := do.MustInvoke[*RedisService](i)

		return analytics.NewRedisRollupCache(rd.Client, options.RollupTTL), nil
	})

	do.Provide(injector, func(i *do.Injector) (*link.Service, error) {
		links := do.MustInvoke[link.Repository](i)
		users := do.MustInvoke[user.Repository](i)
		rollups := do.MustInvoke[analytics.RollupCache](i)
		logger := do.MustInvoke[*zap.Logger](i)

		generator, err := nanoid.CustomASCII(codeAlphabet, link.CodeLength)
		if err != nil {
			return nil, err
		}

		return link.NewService(links, users, rollups, generator, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*analytics.Aggregator, error) {
		links := do.MustInvoke[link.Repository](i)
		clicks := do.MustInvoke[click.Store](i)
		rollups := do.MustInvoke[analytics.RollupCache](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return analytics.NewAggregator(links, clicks, rollups, logger), nil
	})
}

// AuthPackage provides the session token manager.
func AuthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*auth.TokenManager, error) {
		options := do.MustInvoke[*Options](i)

		return auth.NewTokenManager(options.JWTSecret, options.TokenTTL), nil
	})
}

// RateLimitPackage provides the rate limit store, Redis-backed when shared
// limits are requested.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		options := do.MustInvoke[*Options](i)

		if options.SharedLimits {
			rd := do.MustInvoke[*RedisService](i)

			return store.NewRateLimitRedisStore(rd.Client), nil
		}

		return store.NewRateLimitMemoryStore(), nil
	})
}

// PublisherGroupPackage provides the access event publisher over Redis Streams.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		rd := do.MustInvoke[*RedisService](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: rd.Client,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[click.AccessEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[click.AccessEvent](group.Publisher(), click.TopicLinkAccessed), nil
	})
}

// ConsumerGroupPackage provides the click recorder consumer over Redis Streams.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (enrich.Locator, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.GeoEndpoint == "" {
			return enrich.NoopLocator{}, nil
		}

		return enrich.NewHTTPLocator(options.GeoEndpoint, options.GeoTimeout, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		rd := do.MustInvoke[*RedisService](i)
		logger := do.MustInvoke[*zap.Logger](i)
		links := do.MustInvoke[link.Repository](i)
		clicks := do.MustInvoke[click.Store](i)
		locator := do.MustInvoke[enrich.Locator](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        rd.Client,
			ConsumerGroup: "click-recorder",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		recorder := click.NewRecorder(links, clicks, locator, logger)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, click.TopicLinkAccessed, recorder.HandleAccess, logger))

		return group, nil
	})
}

// HTTPPackage provides the router and the configured API with all routes and
// middleware registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(*do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		pg := do.MustInvoke[*PostgresService](i)
		rd := do.MustInvoke[*RedisService](i)
		tokens := do.MustInvoke[*auth.TokenManager](i)
		limitStore := do.MustInvoke[ratelimit.Store](i)
		links := do.MustInvoke[link.Repository](i)
		service := do.MustInvoke[*link.Service](i)
		aggregator := do.MustInvoke[*analytics.Aggregator](i)
		users := do.MustInvoke[user.Repository](i)
		publishAccess := do.MustInvoke[messaging.Publish[click.AccessEvent]](i)

		api := humachi.New(router, huma.DefaultConfig("LinkLite", "1.0.0"))

		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.Authenticate(api, tokens),
			middleware.RateLimiter(api, limitStore, logger),
		)

		linkHandler := handlers.NewLinkHandler(service, links, options.BaseURL, publishAccess, logger)
		analyticsHandler := handlers.NewAnalyticsHandler(aggregator, logger)
		accountHandler := handlers.NewAccountHandler(users, tokens, logger)
		healthHandler := handlers.NewHealthHandler(
			handlers.PingFunc(pg.Pool.Ping),
			handlers.PingFunc(func(ctx context.Context) error {
				return rd.Client.Ping(ctx).Err()
			}),
		)

		handlers.RegisterRoutes(api, linkHandler, analyticsHandler, accountHandler, healthHandler)

		return api, nil
	})
}
