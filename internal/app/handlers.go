package app

import (
	"github.com/gin-gonic/gin"

	"github.com/botanex/marketplace-backend/internal/http"
	httpH "github.com/botanex/marketplace-backend/internal/http/handlers"
	httpMW "github.com/botanex/marketplace-backend/internal/http/middleware"
	"github.com/botanex/marketplace-backend/internal/logger"
)

type Middleware struct {
	Admin *httpMW.AdminMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Intel  *httpH.IntelHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Intel:  httpH.NewIntelHandler(log, serviceset.Intel, serviceset.Market),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Admin: httpMW.NewAdminMiddleware(log, cfg.AdminJWTSecret),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		HealthHandler:   handlers.Health,
		IntelHandler:    handlers.Intel,
		AdminMiddleware: middleware.Admin,
	})
}
