package http

import (
	"github.com/foodscore/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router.
// limiter may be nil to disable per-IP rate limiting.
func SetupRouter(cfg *config.Config, handler *Handler, limiter *IPRateLimiter) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	if limiter != nil {
		v1.Use(RateLimitMiddleware(limiter))
	}
	{
		v1.POST("/analyze", handler.Analyze)
		v1.POST("/analyze/batch", handler.AnalyzeBatch)
		v1.POST("/health-score", handler.HealthScore)

		products := v1.Group("/products")
		{
			products.GET("/barcode/:barcode", handler.AnalyzeBarcode)
			products.POST("/search", handler.SearchProduct)
		}

		history := v1.Group("/history")
		{
			history.GET("", handler.History)
			history.GET("/export", handler.ExportHistory)
		}

		v1.GET("/guidelines", handler.Guidelines)
		v1.GET("/guidelines/:nutrient", handler.Guideline)
		v1.GET("/rules", handler.Rules)
	}

	return router
}
