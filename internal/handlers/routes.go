package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"prospect-crm-api/internal/config"
	"prospect-crm-api/internal/middleware"
	"prospect-crm-api/internal/router"
	"prospect-crm-api/pkg/lambda"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Functions []*router.Function
	Health    func(ctx context.Context) error
	Logger    *logrus.Logger
}

// SetupRoutes mounts every resource function under its prefix, plus the
// health check and the API documentation.
func SetupRoutes(engine *gin.Engine, cfg *RouterConfig) {
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":  "healthy",
			"service": "prospect-crm-api",
			"version": "1.0.0",
		}

		if cfg.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			if err := cfg.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["error"] = err.Error()
			}
		}

		c.JSON(status, body)
	})

	for _, fn := range cfg.Functions {
		base := fn.Table().Prefix()
		h := FunctionHandler(fn, cfg.Logger)
		engine.Any(base, h)
		engine.Any(base+"/*path", h)
	}
}

// FunctionHandler adapts a resource function to gin
func FunctionHandler(fn *router.Function, logger *logrus.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return func(c *gin.Context) {
		req, err := lambda.FromHTTPRequest(c.Request)
		if err != nil {
			RenderError(badRequest(fn.Name(), "%v", err)).Write(c.Writer)
			return
		}

		resp, _ := fn.Handle(c.Request.Context(), req)
		if err := resp.Write(c.Writer); err != nil {
			logger.WithError(err).WithField("resource", fn.Name()).Error("Failed to write response")
		}
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(engine *gin.Engine, cfg *config.Config, logger *logrus.Logger) {
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.SecurityHeaders())

	// Request size limit (10MB)
	engine.Use(middleware.RequestSizeLimit(10 * 1024 * 1024))

	if cfg.RateLimit.RequestsPerSecond > 0 {
		engine.Use(middleware.RateLimiter(logger, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	engine.Use(middleware.StructuredLogger(logger))
}
