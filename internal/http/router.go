package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/botanex/marketplace-backend/internal/http/handlers"
	httpMW "github.com/botanex/marketplace-backend/internal/http/middleware"
	"github.com/botanex/marketplace-backend/internal/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler *httpH.HealthHandler
	IntelHandler  *httpH.IntelHandler

	AdminMiddleware *httpMW.AdminMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(otelgin.Middleware("marketplace-backend"))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	if cfg.IntelHandler != nil {
		intel := api.Group("/intel")
		{
			// Reads (UI surface)
			intel.GET("/matches", cfg.IntelHandler.ListMatches)
			intel.POST("/matches/:id/dismiss", cfg.IntelHandler.DismissMatch)
			intel.GET("/churn/at-risk", cfg.IntelHandler.ListAtRiskBuyers)
			intel.GET("/predictions", cfg.IntelHandler.ListPredictions)
			intel.GET("/sellers/:id/score", cfg.IntelHandler.GetSellerScore)
			intel.GET("/market/:category", cfg.IntelHandler.GetMarketContext)
			intel.GET("/dashboard", cfg.IntelHandler.GetDashboard)
		}

		// Batch triggers (operator-only)
		admin := api.Group("/intel")
		if cfg.AdminMiddleware != nil {
			admin.Use(cfg.AdminMiddleware.RequireAdmin())
		}
		{
			admin.POST("/matches/generate", cfg.IntelHandler.GenerateMatches)
			admin.POST("/churn/run", cfg.IntelHandler.RunChurnDetection)
			admin.POST("/predictions/run", cfg.IntelHandler.RunReorderPrediction)
			admin.POST("/sellers/recalculate", cfg.IntelHandler.RecalculateSellerScores)
		}
	}

	return r
}
