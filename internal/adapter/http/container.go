package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"taskapp/internal/adapter/database/postgres"
	pgrepository "taskapp/internal/adapter/database/postgres/repository"
	"taskapp/internal/adapter/database/sqlite"
	sqliterepository "taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/adapter/telemetry"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	tel "taskapp/internal/core/telemetry"
	"taskapp/pkg/config"
)

type Container struct {
	TaskRepo port.TaskRepository

	TaskService   *service.TaskService
	HealthService *service.HealthService

	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler

	RateLimitStore middleware.RateLimitStore

	closers []func() error
}

// NewContainer opens the configured database and wires every layer on top
// of it. Close releases the database and the rate limit store.
func NewContainer(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry, metrics *tel.AppMetrics, logger *telemetry.Logger) (*Container, error) {
	if probe == nil {
		probe = tel.NewNoOpProbe()
	}

	c := &Container{}

	pinger, err := c.openDatabase(ctx, cfg.Database, probe)

	if err != nil {
		return nil, err
	}

	if cfg.RateLimitEnabled {
		if err := c.openRateLimitStore(ctx, cfg); err != nil {
			c.Close()
			return nil, err
		}
	}

	c.TaskService = service.NewTaskService(c.TaskRepo, probe)
	c.HealthService = service.NewHealthService(pinger, metrics)

	c.TaskHandler = handler.NewTaskHandler(c.TaskService, logger)
	c.HealthHandler = handler.NewHealthHandler(c.HealthService)

	return c, nil
}

func (c *Container) openDatabase(ctx context.Context, cfg config.DatabaseConfig, probe port.Telemetry) (port.Pinger, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, postgres.Options{
			URL:            cfg.URL,
			MigrationsPath: cfg.MigrationsPath,
		})

		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}

		c.TaskRepo = pgrepository.NewTaskRepository(db, probe)
		c.closers = append(c.closers, func() error {
			db.Close()
			return nil
		})

		return db, nil
	case config.DriverSQLite, "":
		db, err := sqlite.NewDB(sqlite.Options{
			Path:           cfg.Path,
			MigrationsPath: cfg.MigrationsPath,
			LogQueries:     cfg.LogQueries,
		})

		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}

		c.TaskRepo = sqliterepository.NewTaskRepository(db, probe)
		c.closers = append(c.closers, db.Close)

		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (c *Container) openRateLimitStore(ctx context.Context, cfg *config.AppConfig) error {
	if cfg.RateLimitStore != config.RateLimitStoreRedis {
		c.RateLimitStore = middleware.NewMemoryStore()
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	c.RateLimitStore = middleware.NewRedisStore(client, cfg.ServiceName+":ratelimit:")
	c.closers = append(c.closers, client.Close)

	return nil
}

func (c *Container) Close() error {
	var errs []error

	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	c.closers = nil

	return errors.Join(errs...)
}
