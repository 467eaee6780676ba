// internal/middleware/helpers.go
package middleware

import (
	"github.com/HeltonFraga01/cortexx-sub008/internal/domain/principal"
	"github.com/HeltonFraga01/cortexx-sub008/internal/domain/tenant"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/session"
	"github.com/HeltonFraga01/cortexx-sub008/internal/rls"
	"github.com/gin-gonic/gin"
)

// Context keys set by the admission middleware chain.
const (
	ctxKeyPrincipal  = "principal"
	ctxKeySession    = "session_data"
	ctxKeyTenant     = "tenant_context"
	ctxKeyRLS        = "rls_context"
	ctxKeyQuota      = "quota_pending"
	ctxKeyRequestID  = "request_id"
	authenticatedKey = "authenticated"
)

// GetPrincipal returns the resolved principal, nil when unauthenticated.
func GetPrincipal(c *gin.Context) *principal.Principal {
	if v, ok := c.Get(ctxKeyPrincipal); ok {
		if p, ok := v.(*principal.Principal); ok {
			return p
		}
	}
	return nil
}

// MustGetPrincipal gets the principal from context or panics. Only for
// handlers mounted behind Auth().
func MustGetPrincipal(c *gin.Context) *principal.Principal {
	p := GetPrincipal(c)
	if p == nil {
		panic("principal not found in context")
	}
	return p
}

// GetSessionData returns the session backing the principal, nil on the
// bearer path.
func GetSessionData(c *gin.Context) *session.Data {
	if v, ok := c.Get(ctxKeySession); ok {
		if s, ok := v.(*session.Data); ok {
			return s
		}
	}
	return nil
}

// GetTenant returns the request tenant context, nil before ResolveTenant.
func GetTenant(c *gin.Context) *tenant.Context {
	if v, ok := c.Get(ctxKeyTenant); ok {
		if t, ok := v.(*tenant.Context); ok {
			return t
		}
	}
	return nil
}

// GetRLSContext returns the propagated RLS context and whether one was
// established for this request.
func GetRLSContext(c *gin.Context) (rls.Context, bool) {
	if v, ok := c.Get(ctxKeyRLS); ok {
		if rc, ok := v.(rls.Context); ok {
			return rc, true
		}
	}
	return rls.Context{}, false
}

// IsAuthenticated checks if the request carries a resolved principal.
func IsAuthenticated(c *gin.Context) bool {
	return GetPrincipal(c) != nil
}
