package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/lilianna-roll/issuance/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	auth := middleware.Auth(authCfg)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Contract endpoints
		v1.GET("/contract", handler.GetContract)
		v1.PUT("/contract/uri", auth, handler.SetContractURI)

		// Collection endpoints (public read access, administrative writes)
		v1.GET("/collections/:id", handler.GetCollection)
		v1.POST("/collections", auth, handler.MakeCollection)
		v1.PUT("/collections/:id/size", auth, handler.FixCollectionSize)
		v1.PUT("/collections/:id/offer", auth, handler.MakeCollectionOffer)
		v1.PUT("/collections/:id/base-uri", auth, handler.SetCollectionBaseURI)
		v1.PUT("/collections/:id/fixed-uri", auth, handler.SetCollectionFixedURI)

		// Mint paths (requires authentication)
		v1.POST("/collections/:id/mint", auth, handler.Mint)
		v1.POST("/collections/:id/buy", auth, handler.Buy)
		v1.POST("/collections/:id/authorize", auth, handler.Authorize)

		// Token endpoints (public read access)
		v1.GET("/tokens/:id", handler.GetToken)

		// Treasury endpoints (administrative principal only)
		v1.GET("/treasury", auth, handler.GetTreasury)
		v1.POST("/treasury/withdraw", auth, handler.Withdraw)

		// Event journal (public read access)
		v1.GET("/events", handler.GetEvents)
	}
}
