package routes

import (
	"time"

	"github.com/SarprasYP/sispras/internal/core/container"
	"github.com/SarprasYP/sispras/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with every route of the service.
func NewRouter(c *container.Container, requestTimeout time.Duration, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.RequestLogger(logger),
		middleware.TimeoutMiddleware(requestTimeout),
	)

	RegisterUtilityRoutes(router, c)
	RegisterPublicRoutes(router, c)
	RegisterProtectedRoutes(router, c)

	return router
}

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(c.Tokens.JWTMiddleware())

	c.AssetHandler.RegisterRoutes(protectedRoutes)
	c.StockHandler.RegisterRoutes(protectedRoutes)
	c.ReportHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine, c *container.Container) {
	router.GET("/health", middleware.HealthCheckHandler(c.Ping))
}
