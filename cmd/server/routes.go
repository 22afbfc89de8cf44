package main

import (
	"github.com/gin-gonic/gin"
	"github.com/srynko/teamspace/internal/middleware"
	"github.com/srynko/teamspace/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for webhook routes
	webhookLimiter := middleware.NewRateLimiter(10, 20)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "teamspace"})
	})

	// Root-level webhook route (without /api prefix for provider compatibility)
	r.POST("/webhooks/clerk", webhookLimiter.Middleware(), svc.webhookHandler.HandleClerkWebhook)

	api := r.Group("/api")
	{
		api.POST("/webhooks/clerk", webhookLimiter.Middleware(), svc.webhookHandler.HandleClerkWebhook)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/workspaces", svc.workspaceHandler.List)
			protected.POST("/workspaces/add-member", svc.workspaceHandler.AddMember)
		}
	}
}
