// internal/middleware/rls_middleware.go
package middleware

import (
	"github.com/HeltonFraga01/cortexx-sub008/internal/rls"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RLSMiddleware struct {
	propagator *rls.Propagator
	logger     *zap.Logger
}

func NewRLSMiddleware(propagator *rls.Propagator, logger *zap.Logger) *RLSMiddleware {
	return &RLSMiddleware{propagator: propagator, logger: logger}
}

// Propagate assembles the RLS context from the resolved principal and
// tenant, attempting one fallback tenant lookup when the principal carries
// none. Failure here is non-fatal: the request proceeds on the privileged
// path, where the isolation validator remains the real tenant boundary.
// MUST be used after Auth() and tenant Resolve().
func (m *RLSMiddleware) Propagate() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			c.Next()
			return
		}

		rc := rls.Context{
			UserID:   p.ID,
			UserRole: p.Role,
		}

		if p.IsSuperAdmin() {
			rc.UserRole = "superadmin"
		} else {
			rc.TenantID = p.TenantID
			if rc.TenantID == 0 {
				if tc := GetTenant(c); tc != nil {
					rc.TenantID = tc.TenantID
				}
			}
			if rc.TenantID == 0 {
				rc.TenantID = m.propagator.ResolveTenantFallback(c.Request.Context(), p.ID)
			}
			if rc.TenantID == 0 {
				m.logger.Warn("no tenant binding for rls context, proceeding unscoped",
					zap.Int64("user_id", p.ID),
					zap.String("path", c.Request.URL.Path),
				)
				c.Next()
				return
			}
		}

		c.Set(ctxKeyRLS, rc)
		c.Next()
	}
}
