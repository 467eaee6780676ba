// internal/middleware/tenant_middleware.go
package middleware

import (
	"errors"
	"net/http"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/response"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/tenantctx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TenantMiddleware struct {
	resolver *tenantctx.Resolver
	logger   *zap.Logger
}

func NewTenantMiddleware(resolver *tenantctx.Resolver, logger *zap.Logger) *TenantMiddleware {
	return &TenantMiddleware{resolver: resolver, logger: logger}
}

// Resolve binds the request to a tenant context derived from
// header/query/hostname. Suspended and inactive tenants get distinct
// wording under the same error kind.
func (m *TenantMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, err := m.resolver.Resolve(c.Request.Context(), c.Request)
		if err != nil {
			switch {
			case errors.Is(err, xerrors.ErrTenantNotFound):
				response.Deny(c, http.StatusNotFound, response.CodeTenantNotFound, "tenant not found")
			case errors.Is(err, xerrors.ErrTenantSuspended):
				response.Deny(c, http.StatusForbidden, response.CodeTenantInactive, "this workspace has been suspended, contact support")
			case errors.Is(err, xerrors.ErrTenantInactive):
				response.Deny(c, http.StatusForbidden, response.CodeTenantInactive, "this workspace is not active")
			default:
				m.logger.Error("tenant resolution failed",
					zap.String("host", c.Request.Host),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
				response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "tenant resolution unavailable")
			}
			return
		}

		c.Set(ctxKeyTenant, tc)
		c.Next()
	}
}

// RequireTenant rejects requests that resolved to a pseudo-tenant, for
// routes that only make sense inside a real workspace. MUST be used after
// Resolve().
func (m *TenantMiddleware) RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := GetTenant(c)
		if tc == nil || tc.TenantID == 0 {
			response.Deny(c, http.StatusNotFound, response.CodeTenantNotFound, "tenant not found")
			return
		}
		c.Next()
	}
}
