// internal/handlers/campaign/campaign_handler.go
package campaign

import (
	"errors"
	"net/http"
	"strconv"

	domain "github.com/HeltonFraga01/cortexx-sub008/internal/domain/campaign"
	"github.com/HeltonFraga01/cortexx-sub008/internal/middleware"
	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/response"
	"github.com/HeltonFraga01/cortexx-sub008/internal/rls"
	campaignService "github.com/HeltonFraga01/cortexx-sub008/internal/service/campaign"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	service *campaignService.Service
	quota   *middleware.QuotaMiddleware
	logger  *zap.Logger
}

func NewCampaignHandler(svc *campaignService.Service, quota *middleware.QuotaMiddleware, logger *zap.Logger) *CampaignHandler {
	return &CampaignHandler{
		service: svc,
		quota:   quota,
		logger:  logger,
	}
}

// Get returns one campaign. Tenant match was already enforced by the
// isolation middleware on this route.
func (h *CampaignHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Deny(c, http.StatusBadRequest, response.CodeForbidden, "invalid campaign id")
		return
	}

	cmp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Deny(c, http.StatusNotFound, response.CodeTenantNotFound, "campaign not found")
			return
		}
		h.logger.Error("failed to load campaign", zap.Int64("campaign_id", id), zap.Error(err))
		response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "failed to load campaign")
		return
	}

	response.Success(c, http.StatusOK, "ok", cmp)
}

// Create makes a campaign in the request tenant and commits the staged
// quota charge only after the insert succeeded.
func (h *CampaignHandler) Create(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Deny(c, http.StatusBadRequest, response.CodeForbidden, "invalid request")
		return
	}

	p := middleware.MustGetPrincipal(c)
	tc := middleware.GetTenant(c)
	if tc == nil || tc.TenantID == 0 {
		response.Deny(c, http.StatusNotFound, response.CodeTenantNotFound, "tenant not found")
		return
	}

	cmp := &domain.Campaign{
		TenantID:  tc.TenantID,
		AccountID: p.AccountID,
		Name:      req.Name,
		CreatedBy: p.CanonicalUserID(),
	}
	if err := h.service.Create(c.Request.Context(), cmp); err != nil {
		h.logger.Error("failed to create campaign",
			zap.Int64("tenant_id", tc.TenantID),
			zap.Error(err),
		)
		response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "failed to create campaign")
		return
	}

	h.quota.CommitQuota(c)
	response.Success(c, http.StatusCreated, "campaign created", cmp)
}

// List returns the tenant's campaigns through the scoped listing path.
func (h *CampaignHandler) List(c *gin.Context) {
	rc, ok := middleware.GetRLSContext(c)
	if !ok {
		p := middleware.MustGetPrincipal(c)
		rc = rls.Context{UserID: p.ID, UserRole: p.Role, TenantID: p.TenantID}
		if tc := middleware.GetTenant(c); rc.TenantID == 0 && tc != nil {
			rc.TenantID = tc.TenantID
		}
	}

	campaigns, err := h.service.List(c.Request.Context(), rc)
	if err != nil {
		h.logger.Error("failed to list campaigns", zap.Int64("tenant_id", rc.TenantID), zap.Error(err))
		response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "failed to list campaigns")
		return
	}

	response.Success(c, http.StatusOK, "ok", campaigns)
}

// Dispatch sends the campaign and commits the staged message quota charge
// afterwards. A failed dispatch leaves the quota untouched.
func (h *CampaignHandler) Dispatch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Deny(c, http.StatusBadRequest, response.CodeForbidden, "invalid campaign id")
		return
	}

	// Body is optional; missing recipients defaults in the service.
	var req struct {
		Recipients int64 `json:"recipients"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.service.Dispatch(c.Request.Context(), id, req.Recipients); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Deny(c, http.StatusNotFound, response.CodeTenantNotFound, "campaign not found")
			return
		}
		h.logger.Error("failed to dispatch campaign", zap.Int64("campaign_id", id), zap.Error(err))
		response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "failed to dispatch campaign")
		return
	}

	h.quota.CommitQuota(c)
	response.Success(c, http.StatusOK, "campaign dispatched", nil)
}
