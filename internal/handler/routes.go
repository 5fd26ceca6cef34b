package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ravkun27/nftix/internal/service"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Catalog *CatalogHandler
	Wallet  *WalletHandler
	Ticket  *TicketHandler
	System  *SystemHandler

	Wallets service.WalletService
	// MintGuard runs before the mint handler, e.g. idempotency replay
	MintGuard []gin.HandlerFunc
}

// RegisterRoutes mounts the health endpoints and the /api/v1 routes
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	router.GET("/health", h.System.Health)
	router.GET("/ready", h.System.Ready)

	requireSession := RequireSession(h.Wallets)
	optionalSession := OptionalSession(h.Wallets)

	v1 := router.Group("/api/v1")
	{
		events := v1.Group("/events")
		{
			events.GET("", h.Catalog.List)
			events.GET("/grid", optionalSession, h.Catalog.Grid)
			events.GET("/:id", h.Catalog.Get)
			events.GET("/:id/card", optionalSession, h.Catalog.Card)
			events.GET("/:id/countdown", h.Catalog.Countdown)

			mint := append([]gin.HandlerFunc{requireSession}, h.MintGuard...)
			mint = append(mint, h.Ticket.Mint)
			events.POST("/:id/mint", mint...)
		}

		wallet := v1.Group("/wallet")
		{
			wallet.GET("", optionalSession, h.Wallet.Current)
			wallet.POST("/connect", h.Wallet.Connect)
			wallet.POST("/disconnect", requireSession, h.Wallet.Disconnect)
		}

		tickets := v1.Group("/tickets", requireSession)
		{
			tickets.GET("", h.Ticket.List)
			tickets.GET("/:id", h.Ticket.Get)
		}

		v1.GET("/about", h.System.About)
	}
}
