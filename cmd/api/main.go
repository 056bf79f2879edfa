package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"

	server "taskapp/internal/adapter/http"
	"taskapp/internal/adapter/telemetry"
	"taskapp/internal/core/service"
	"taskapp/pkg/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger, err := telemetry.NewLogger(cfg.ServiceName, cfg.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer logger.Sync()

	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		ExportTraces:   cfg.TelemetryEnabled,
	}, slog.Default())

	if err != nil {
		logger.Logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	tel.AppMetrics.StartSystemMetrics(ctx)

	container, err := server.NewContainer(ctx, cfg, tel.NewTelemetryProbe(slog.Default()), tel.AppMetrics, logger)

	if err != nil {
		logger.Logger.Fatal("Failed to build application", zap.Error(err))
	}

	if cfg.SeedDemoData {
		seeded, err := service.SeedDemoTasks(ctx, container.TaskService)

		if err != nil {
			logger.Logger.Fatal("Failed to seed demo tasks", zap.Error(err))
		}

		logger.Logger.Info("Demo tasks seeded", zap.Int("count", seeded))
	}

	router := server.NewRouter(container, tel.AppMetrics, logger, cfg)
	srv := server.NewServer(router, cfg)

	go func() {
		if err := server.StartServer(srv, cfg); err != nil {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Logger.Info("Shutting down gracefully...")
				return srv.Shutdown(ctx)
			},
			"database": func(ctx context.Context) error {
				return container.Close()
			},
			"telemetry": func(ctx context.Context) error {
				cancel()
				return tel.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Logger.Info("Application exited", zap.Int("exit_code", exitCode))
	os.Exit(exitCode)
}
