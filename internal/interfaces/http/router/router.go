package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erpbridge/backend/internal/application/delivery"
	"github.com/erpbridge/backend/internal/domain/warehouse"
	"github.com/erpbridge/backend/internal/infrastructure/config"
	"github.com/erpbridge/backend/internal/infrastructure/logger"
	"github.com/erpbridge/backend/internal/interfaces/http/handler"
	"github.com/erpbridge/backend/internal/interfaces/http/middleware"
)

// Dependencies holds everything the HTTP layer needs
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	Delivery    *delivery.Service
	Provisioner *warehouse.Provisioner
}

// New builds the gin engine with all middleware and routes registered
func New(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(deps.Logger),
		logger.Recovery(deps.Logger),
		middleware.CORS(),
	)
	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "app": deps.Config.App.Name})
	})

	deliveryHandler := handler.NewDeliveryHandler(deps.Delivery)
	warehouseHandler := handler.NewWarehouseHandler(deps.Provisioner)

	v1 := engine.Group("/api/v1")
	{
		deliveries := v1.Group("/deliveries")
		{
			deliveries.POST("", deliveryHandler.Create)
			deliveries.POST("/lines", deliveryHandler.BuildLines)
			deliveries.POST("/preview", deliveryHandler.Preview)
		}
		v1.POST("/warehouses/ensure", warehouseHandler.Ensure)
	}

	return engine
}
