package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/commerce-system/internal/api"
	"github.com/99minutos/commerce-system/internal/api/authctx"
	"github.com/99minutos/commerce-system/internal/api/handler"
	"github.com/99minutos/commerce-system/internal/core/ports"
	"github.com/99minutos/commerce-system/internal/core/service"
	mongostore "github.com/99minutos/commerce-system/internal/infrastructure/db/mongo"
	pgstore "github.com/99minutos/commerce-system/internal/infrastructure/db/postgres"
	redisstore "github.com/99minutos/commerce-system/internal/infrastructure/db/redis"
	"github.com/99minutos/commerce-system/internal/pkg/config"
	"github.com/99minutos/commerce-system/pkg/logger"
)

// store is the persistence side selected by STORE_DRIVER.
type store struct {
	identity ports.IdentityStore
	repos    service.OrderRepositories
	ping     handler.PingFunc
	close    func(ctx context.Context) error
}

// @title       Commerce API
// @version     1.0
// @description Orders and caller identity.
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in          header
// @name        Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "commerce-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store unavailable")
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Error().Err(err).Msg("store close")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	identity := service.NewIdentityService(st.identity, authctx.RequestContext{}, log)
	guard := service.NewAuthGuard(identity, log)

	e := api.NewRouter(api.Dependencies{
		JWTSecret:   cfg.JWTSecret,
		Auth:        service.NewAuthService(identity, cfg.JWTSecret, cfg.JWTTTL),
		Users:       service.NewUserService(identity),
		Orders:      service.NewOrderService(st.repos, identity, guard, log),
		Idempotency: redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL),
		Readiness: map[string]handler.PingFunc{
			cfg.StoreDriver: st.ping,
			"redis":         redisstore.Pinger(rdb),
		},
		Logger: log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &store{
		identity: mongostore.NewUserRepository(db),
		repos: service.OrderRepositories{
			Orders:   mongostore.NewOrderRepository(db),
			Items:    mongostore.NewOrderItemRepository(db),
			Products: mongostore.NewProductRepository(db),
			Tx:       mongostore.NewTransactor(client, cfg.Mongo.Transactions, log),
		},
		ping:  mongostore.Pinger(db),
		close: client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*store, error) {
	db, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		return nil, err
	}
	if err := pgstore.Migrate(db); err != nil {
		_ = pgstore.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &store{
		identity: pgstore.NewUserRepository(db),
		repos: service.OrderRepositories{
			Orders:   pgstore.NewOrderRepository(db),
			Items:    pgstore.NewOrderItemRepository(db),
			Products: pgstore.NewProductRepository(db),
			Tx:       pgstore.NewTransactor(db),
		},
		ping:  pgstore.Pinger(db),
		close: func(context.Context) error { return pgstore.Close(db) },
	}, nil
}
