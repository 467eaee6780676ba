// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/response"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/session"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	resolver   *identity.Resolver
	cookieName string
	logger     *zap.Logger
}

func NewAuthMiddleware(resolver *identity.Resolver, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver:   resolver,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Auth resolves the caller to a principal from either credential form and
// terminates the request otherwise. Trust-boundary infra failures answer
// 500, never a silent allow.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cred := identity.ExtractCredential(c.Request, m.cookieName)
		meta := session.RequestMeta{Path: c.Request.URL.Path, IP: c.ClientIP()}

		res, err := m.resolver.Resolve(c.Request.Context(), cred, meta)
		if err != nil {
			switch {
			case errors.Is(err, xerrors.ErrSessionCorrupted):
				// Record already destroyed by the validator; finish the
				// repair by clearing the cookie.
				m.clearSessionCookie(c)
				response.Deny(c, http.StatusUnauthorized, response.CodeSessionCorrupted, "session corrupted, please sign in again")
			case errors.Is(err, xerrors.ErrUnauthorized):
				response.Deny(c, http.StatusUnauthorized, response.CodeAuthRequired, "authentication required")
			default:
				m.logger.Error("identity resolution failed",
					zap.String("path", meta.Path),
					zap.String("ip", meta.IP),
					zap.Error(err),
				)
				response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "authentication unavailable")
			}
			return
		}

		c.Set(ctxKeyPrincipal, res.Principal)
		if res.Session != nil {
			c.Set(ctxKeySession, res.Session)
		}
		c.Set(authenticatedKey, true)

		c.Next()
	}
}

// RequireRole requires the principal to hold one of the given roles. An
// unresolved role never matches. MUST be used after Auth().
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			response.Deny(c, http.StatusUnauthorized, response.CodeAuthRequired, "authentication required")
			return
		}

		for _, role := range roles {
			if p.HasRole(role) {
				c.Next()
				return
			}
		}

		m.logger.Info("role check denied",
			zap.Int64("user_id", p.ID),
			zap.String("role", p.Role),
			zap.Strings("required", roles),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
		)
		response.Deny(c, http.StatusForbidden, response.CodeInsufficientPerms, "insufficient permissions")
	}
}

// OptionalAuth resolves a principal when a credential is present but lets
// anonymous requests through. Corruption is still repaired.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cred := identity.ExtractCredential(c.Request, m.cookieName)
		if cred.Kind == identity.CredentialNone {
			c.Next()
			return
		}

		meta := session.RequestMeta{Path: c.Request.URL.Path, IP: c.ClientIP()}
		res, err := m.resolver.Resolve(c.Request.Context(), cred, meta)
		if err != nil {
			if errors.Is(err, xerrors.ErrSessionCorrupted) {
				m.clearSessionCookie(c)
			}
			c.Next()
			return
		}

		c.Set(ctxKeyPrincipal, res.Principal)
		if res.Session != nil {
			c.Set(ctxKeySession, res.Session)
		}
		c.Set(authenticatedKey, true)
		c.Next()
	}
}

func (m *AuthMiddleware) clearSessionCookie(c *gin.Context) {
	c.SetCookie(m.cookieName, "", -1, "/", "", false, true)
}
