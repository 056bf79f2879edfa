package routes

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/adapter/http/helper"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/adapter/telemetry"
	tel "taskapp/internal/core/telemetry"
	"taskapp/pkg/config"
)

type HandlersConfig struct {
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

func SetupRouter(handlers HandlersConfig, metrics *tel.AppMetrics, logger *telemetry.Logger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, config.GetDefaultConfig(), nil)
}

// SetupRouterWithConfig builds the engine. A nil store selects the
// in-memory rate limit store.
func SetupRouterWithConfig(handlers HandlersConfig, metrics *tel.AppMetrics, logger *telemetry.Logger, cfg *config.AppConfig, store middleware.RateLimitStore) *gin.Engine {
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.HTTPSRedirect(cfg.EnforceHTTPS, logger.Zap()))
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware(logger))

	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}

	if cfg.RateLimitEnabled {
		if store == nil {
			store = middleware.NewMemoryStore()
		}

		rateLimiter := middleware.NewRateLimiter(store, cfg.RateLimitConfigs, logger.Zap(), metrics)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	router.NoRoute(func(c *gin.Context) {
		helper.SendNotFoundError(c, "Cannot "+c.Request.Method+" "+c.Request.URL.Path)
	})

	if handlers.HealthHandler != nil {
		router.GET("/health", handlers.HealthHandler.Check)
	}

	if handlers.TaskHandler != nil {
		setupTaskRoutes(router, handlers.TaskHandler)
	}

	return router
}

func setupTaskRoutes(router *gin.Engine, taskHandler *handler.TaskHandler) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.PATCH("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}
}
