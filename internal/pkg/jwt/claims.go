// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by a bearer credential. Role and
// tenant can appear both as generic top-level fields and inside the
// app_metadata claim; the metadata claim wins when they disagree.
type Claims struct {
	UserID      int64                  `json:"user_id"`
	Role        string                 `json:"role,omitempty"`
	TenantID    int64                  `json:"tenant_id,omitempty"`
	AccountID   int64                  `json:"account_id,omitempty"`
	AppMetadata map[string]interface{} `json:"app_metadata,omitempty"`
	jwt.RegisteredClaims
}

// ResolvedRole applies the fallback order: app_metadata role claim, then
// the generic role field, then none.
func (c *Claims) ResolvedRole() string {
	if role, ok := c.metadataString("role"); ok {
		return role
	}
	return c.Role
}

// ResolvedTenantID applies the same fallback order for the tenant binding.
func (c *Claims) ResolvedTenantID() int64 {
	if id, ok := c.metadataInt("tenant_id"); ok {
		return id
	}
	return c.TenantID
}

func (c *Claims) metadataString(key string) (string, bool) {
	if c.AppMetadata == nil {
		return "", false
	}
	v, ok := c.AppMetadata[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (c *Claims) metadataInt(key string) (int64, bool) {
	if c.AppMetadata == nil {
		return 0, false
	}
	// JSON numbers decode as float64.
	switch v := c.AppMetadata[key].(type) {
	case float64:
		if v == 0 {
			return 0, false
		}
		return int64(v), true
	case int64:
		if v == 0 {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}
	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}
	return false
}
