// internal/middleware/ownership_middleware.go
package middleware

import (
	"net/http"

	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/response"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/ownership"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HeaderProviderToken carries a provider credential supplied alongside the
// caller's own, for operations executed against the provider directly.
const HeaderProviderToken = "X-Provider-Token"

type OwnershipMiddleware struct {
	validator *ownership.Validator
	logger    *zap.Logger
}

func NewOwnershipMiddleware(validator *ownership.Validator, logger *zap.Logger) *OwnershipMiddleware {
	return &OwnershipMiddleware{validator: validator, logger: logger}
}

// RequireTokenOwnership verifies that a provider token supplied in the
// alternate header actually belongs to the caller. Requests without the
// header pass through untouched, admin kinds bypass. The denial message is
// deliberately generic: it must not reveal whether the token exists for a
// different user. MUST be used after Auth().
func (m *OwnershipMiddleware) RequireTokenOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderProviderToken)
		if token == "" {
			c.Next()
			return
		}

		p := GetPrincipal(c)
		if p == nil {
			response.Deny(c, http.StatusUnauthorized, response.CodeAuthRequired, "authentication required")
			return
		}
		if p.IsAdminKind() {
			c.Next()
			return
		}

		userID := p.CanonicalUserID()
		owned, err := m.validator.Owns(c.Request.Context(), userID, token)
		if err != nil {
			m.logger.Error("token ownership check failed",
				zap.Int64("user_id", userID),
				zap.String("token_fingerprint", ownership.Fingerprint(token)[:12]),
				zap.Error(err),
			)
			response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "token validation unavailable")
			return
		}

		if !owned {
			response.Deny(c, http.StatusForbidden, response.CodeTokenNotOwned, "token does not belong to this account")
			return
		}

		c.Next()
	}
}
