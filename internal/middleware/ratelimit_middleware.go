// internal/middleware/ratelimit_middleware.go
package middleware

import (
	"net/http"

	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/response"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/admission"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RateLimitMiddleware struct {
	limiter *admission.RateLimiter
	policy  admission.FailPolicy
	logger  *zap.Logger
}

func NewRateLimitMiddleware(limiter *admission.RateLimiter, policy admission.FailPolicy, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, policy: policy, logger: logger}
}

// Limit admits the request against the tenant's sliding window and sets
// the X-RateLimit-* headers on every outcome. Requests without a real
// tenant binding (public surface, superadmin) are not limited. MUST be
// used after tenant Resolve().
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := GetTenant(c)
		if tc == nil || tc.TenantID == 0 {
			c.Next()
			return
		}
		if p := GetPrincipal(c); p != nil && p.IsSuperAdmin() {
			c.Next()
			return
		}

		decision, err := m.limiter.Allow(c.Request.Context(), tc.TenantID, m.policy)
		if err != nil {
			m.logger.Error("rate limit check failed",
				zap.Int64("tenant_id", tc.TenantID),
				zap.Error(err),
			)
			response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "rate limiting unavailable")
			return
		}

		response.RateHeaders(c, decision.Limit, decision.Remaining, decision.ResetAt, decision.Plan, decision.Unlimited)

		if !decision.Allowed {
			response.DenyWith(c, http.StatusTooManyRequests, response.CodeRateLimited, "rate limit exceeded, slow down", map[string]interface{}{
				"limit":     decision.Limit,
				"remaining": decision.Remaining,
				"plan":      decision.Plan,
			})
			return
		}

		c.Next()
	}
}
