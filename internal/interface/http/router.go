package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/critter-checklist/internal/infra/config"
)

const requestIDHeader = "X-Request-ID"

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		errorHandlingMiddleware(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	guard := writeGuardMiddleware(cfg.Auth.WriteTokenSecret)

	api := router.Group("/api/v1")
	{
		api.GET("/state", handler.GetState)
		api.PATCH("/settings", guard, handler.UpdateSettings)
		api.PUT("/tab", guard, handler.SetTab)
		api.PUT("/marks/:id", guard, handler.SetMark)

		categories := api.Group("/categories/:category")
		categories.GET("/items", handler.ListItems)
		categories.GET("/items/:id/availability", handler.ItemAvailability)
		categories.PATCH("/filter", guard, handler.UpdateFilter)
		categories.POST("/marks", guard, handler.BulkMark)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "request_id", requestID, "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
