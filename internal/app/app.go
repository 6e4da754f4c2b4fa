package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/JulianVillasenor/restaurante/internal/config"
	"github.com/JulianVillasenor/restaurante/internal/postgres"
	"github.com/JulianVillasenor/restaurante/internal/redis"
	postgresrepo "github.com/JulianVillasenor/restaurante/internal/repository/postgres"
	redisrepo "github.com/JulianVillasenor/restaurante/internal/repository/redis"
	"github.com/JulianVillasenor/restaurante/internal/service"
	"github.com/JulianVillasenor/restaurante/internal/service/floor"
	httpgin "github.com/JulianVillasenor/restaurante/internal/transport/http/gin"
	"github.com/JulianVillasenor/restaurante/internal/uow"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	pool       *pgxpool.Pool
	rdb        *goredis.Client
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(ctx, postgres.Config{DSN: dsn, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	if err := store.EnsureSchema(ctx); err != nil {
		pgxPool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	coordinator := uow.NewUoW(store, cfg.Store.TxTimeout)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewTablesPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "checkout", cfg.Limits.CheckoutPerMinute, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, cfg.Limits.IdempotencyTTL)

	// Initialize services
	services := service.NewServices(store, coordinator, cache, pubsub, limiter, service.Config{
		Floor: floor.Config{
			FloorPlanTTL: cfg.Store.FloorPlanTTL,
			OpenTabTTL:   cfg.Store.OpenTabTTL,
		},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		pool: pgxPool,
		rdb:  rdb,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown: stop accepting requests, then release the
	// database pool and the redis client.
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := a.httpServer.Shutdown(shutdownCtx)
		a.pool.Close()
		if cerr := a.rdb.Close(); cerr != nil && err == nil {
			err = cerr
		}
		return err
	})

	return g.Wait()
}
