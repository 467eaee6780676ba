// internal/app/router.go
package app

import (
	authHandler "github.com/HeltonFraga01/cortexx-sub008/internal/handlers/auth"
	campaignHandler "github.com/HeltonFraga01/cortexx-sub008/internal/handlers/campaign"
	"github.com/HeltonFraga01/cortexx-sub008/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler     *authHandler.AuthHandler
	CampaignHandler *campaignHandler.CampaignHandler

	AuthMiddleware      *middleware.AuthMiddleware
	TenantMiddleware    *middleware.TenantMiddleware
	RLSMiddleware       *middleware.RLSMiddleware
	QuotaMiddleware     *middleware.QuotaMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	OwnershipMiddleware *middleware.OwnershipMiddleware
	IsolationMiddleware *middleware.IsolationMiddleware

	Health gin.HandlerFunc
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", h.Health)

	// ==================== Public Auth Routes ====================
	// Tenant resolution and rate limiting apply even before login so a
	// single tenant cannot hammer the credential endpoint.
	authPublic := api.Group("/auth")
	authPublic.Use(
		h.TenantMiddleware.Resolve(),
		h.RateLimitMiddleware.Limit(),
	)
	{
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(
		h.TenantMiddleware.Resolve(),
		h.AuthMiddleware.Auth(),
		h.RateLimitMiddleware.Limit(),
	)
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Campaigns ====================
	// Full admission chain: tenant, identity, RLS propagation, sliding
	// window, then the per-route guards.
	campaigns := api.Group("/campaigns")
	campaigns.Use(
		h.TenantMiddleware.Resolve(),
		h.TenantMiddleware.RequireTenant(),
		h.AuthMiddleware.Auth(),
		h.RLSMiddleware.Propagate(),
		h.RateLimitMiddleware.Limit(),
	)
	{
		campaigns.GET("", h.CampaignHandler.List)
		campaigns.POST("",
			h.QuotaMiddleware.RequireQuota("campaigns", 1),
			h.CampaignHandler.Create,
		)
		campaigns.GET("/:id",
			h.IsolationMiddleware.RequireTenantResource("campaigns", "id"),
			h.CampaignHandler.Get,
		)
		campaigns.POST("/:id/dispatch",
			h.IsolationMiddleware.RequireTenantResource("campaigns", "id"),
			h.OwnershipMiddleware.RequireTokenOwnership(),
			h.QuotaMiddleware.RequireQuota("messages", 1),
			h.CampaignHandler.Dispatch,
		)
	}
}
