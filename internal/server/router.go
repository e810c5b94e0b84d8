package server

import (
	"fmode-core/internal/handler"
	"fmode-core/internal/handler/response"
	"fmode-core/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles the route handlers the router wires up.
type Handlers struct {
	Wallet   *handler.WalletHandler
	Transfer *handler.TransferHandler
	History  *handler.HistoryHandler
}

// NewHTTPRouter builds the gin engine with middleware and all F-Mode routes.
func NewHTTPRouter(h Handlers) *gin.Engine {
	monitor.Init()

	r := gin.Default()
	r.Use(monitor.PrometheusMiddleware())

	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		wallet := api.Group("/wallet")
		{
			wallet.POST("/connect", h.Wallet.Connect)
			wallet.GET("/session", h.Wallet.Session)
			wallet.POST("/disconnect", h.Wallet.Disconnect)
			wallet.GET("/network", h.Wallet.Network)
			wallet.POST("/network/switch", h.Wallet.SwitchNetwork)
		}

		balance := api.Group("/balance")
		{
			balance.GET("/native/:address", h.Transfer.NativeBalance)
			balance.GET("/token/:address", h.Transfer.TokenBalance)
		}

		api.GET("/token/metadata", h.Transfer.TokenMetadata)

		transfer := api.Group("/transfer")
		{
			transfer.POST("/estimate", h.Transfer.Estimate)
			transfer.POST("", h.Transfer.Submit)
			transfer.GET("/:hash", h.Transfer.Status)
		}

		api.GET("/history/:address", h.History.List)
	}

	return r
}
