// internal/middleware/isolation_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strconv"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/response"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/isolation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IsolationMiddleware struct {
	validator *isolation.Validator
	logger    *zap.Logger
}

func NewIsolationMiddleware(validator *isolation.Validator, logger *zap.Logger) *IsolationMiddleware {
	return &IsolationMiddleware{validator: validator, logger: logger}
}

// RequireTenantResource guards a route whose path parameter names a row in
// a tenant-scoped table. Superadmin requests bypass; everything else must
// match the resolved tenant. MUST be used after Auth() and tenant
// Resolve().
func (m *IsolationMiddleware) RequireTenantResource(table, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		tc := GetTenant(c)
		if p == nil || tc == nil {
			response.Deny(c, http.StatusUnauthorized, response.CodeAuthRequired, "authentication required")
			return
		}

		if p.IsSuperAdmin() {
			c.Next()
			return
		}

		resourceID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			response.Deny(c, http.StatusBadRequest, response.CodeForbidden, "invalid resource id")
			return
		}

		actor := isolation.Actor{
			UserID: p.ID,
			Path:   c.Request.URL.Path,
			IP:     c.ClientIP(),
		}

		err = m.validator.Ensure(c.Request.Context(), table, resourceID, tc.TenantID, actor)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, xerrors.ErrNotFound):
			response.Deny(c, http.StatusNotFound, response.CodeTenantNotFound, "resource not found")
		case errors.Is(err, xerrors.ErrCrossTenant):
			response.Deny(c, http.StatusForbidden, response.CodeCrossTenant, "access to this resource is denied")
		default:
			m.logger.Error("isolation check failed",
				zap.String("table", table),
				zap.Int64("resource_id", resourceID),
				zap.Error(err),
			)
			response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "authorization unavailable")
		}
	}
}
