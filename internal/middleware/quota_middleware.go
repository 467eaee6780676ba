// internal/middleware/quota_middleware.go
package middleware

import (
	"net/http"

	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/response"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/admission"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PendingCharge is the quota debit reserved during admission. The handler
// commits it only after its operation succeeds, so failed work never
// consumes quota.
type PendingCharge struct {
	UserID    int64
	QuotaType string
	Amount    int64
}

type QuotaMiddleware struct {
	quota  *admission.Quota
	policy admission.FailPolicy
	logger *zap.Logger
}

func NewQuotaMiddleware(quota *admission.Quota, policy admission.FailPolicy, logger *zap.Logger) *QuotaMiddleware {
	return &QuotaMiddleware{quota: quota, policy: policy, logger: logger}
}

// RequireQuota admits the request against the caller's fixed budget for
// the given quota type and stages the charge on the context. MUST be used
// after Auth().
func (m *QuotaMiddleware) RequireQuota(quotaType string, amount int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			response.Deny(c, http.StatusUnauthorized, response.CodeAuthRequired, "authentication required")
			return
		}

		userID := p.CanonicalUserID()
		decision, err := m.quota.Check(c.Request.Context(), userID, quotaType, amount, m.policy)
		if err != nil {
			m.logger.Error("quota check failed",
				zap.Int64("user_id", userID),
				zap.String("quota_type", quotaType),
				zap.Error(err),
			)
			response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "quota check unavailable")
			return
		}

		if !decision.Allowed {
			response.DenyWith(c, http.StatusTooManyRequests, response.CodeQuotaExceeded, "quota exceeded for "+quotaType, map[string]interface{}{
				"quotaType": decision.QuotaType,
				"limit":     decision.Limit,
				"usage":     decision.Used,
				"remaining": decision.Remaining,
				"requested": decision.Requested,
			})
			return
		}

		c.Set(ctxKeyQuota, PendingCharge{
			UserID:    userID,
			QuotaType: quotaType,
			Amount:    decision.Requested,
		})
		c.Next()
	}
}

// CommitQuota charges the staged debit. Handlers call this once, after the
// guarded operation succeeded. A no-op when nothing was staged.
func (m *QuotaMiddleware) CommitQuota(c *gin.Context) {
	v, ok := c.Get(ctxKeyQuota)
	if !ok {
		return
	}
	charge, ok := v.(PendingCharge)
	if !ok {
		return
	}
	m.quota.Commit(c.Request.Context(), charge.UserID, charge.QuotaType, charge.Amount)
}
