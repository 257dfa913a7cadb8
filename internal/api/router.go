package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/finpulse/internal/domain/dto"
	"github.com/guttosm/finpulse/internal/middleware"
)

// DefaultRequestTimeout bounds every request when no timeout is configured.
const DefaultRequestTimeout = 10 * time.Second

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler).
//   - Adds request timeout handling (timeout, or DefaultRequestTimeout when <= 0).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API routes (/api).
//   - Answers unknown routes with a dto.ErrorResponse.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler, timeout time.Duration) *gin.Engine {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(middleware.Timeout(timeout))

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API ──────────────────────────────────────
	v := router.Group("/api")
	{
		v.GET("/financial_data", handler.GetFinancialData)
		v.GET("/statistics", handler.GetStatistics)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("route not found", nil))
	})

	return router
}
