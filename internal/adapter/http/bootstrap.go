package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskapp/internal/adapter/http/routes"
	"taskapp/internal/adapter/telemetry"
	tel "taskapp/internal/core/telemetry"
	"taskapp/pkg/config"
)

func NewRouter(container *Container, metrics *tel.AppMetrics, logger *telemetry.Logger, cfg *config.AppConfig) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return routes.SetupRouterWithConfig(routes.HandlersConfig{
		TaskHandler:   container.TaskHandler,
		HealthHandler: container.HealthHandler,
	}, metrics, logger, cfg, container.RateLimitStore)
}

func NewServer(handler http.Handler, cfg *config.AppConfig) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

// StartServer blocks until the server stops. A graceful Shutdown is not
// reported as an error.
func StartServer(srv *http.Server, cfg *config.AppConfig) error {
	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"database", cfg.Database.Driver,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"https_enforced", cfg.EnforceHTTPS)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
