// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"github.com/HeltonFraga01/cortexx-sub008/internal/middleware"
	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/response"
	authService "github.com/HeltonFraga01/cortexx-sub008/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authService.Service
	cookieName  string
	logger      *zap.Logger
}

func NewAuthHandler(svc *authService.Service, cookieName string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: svc,
		cookieName:  cookieName,
		logger:      logger,
	}
}

// Login authenticates with email/password and issues both credential
// forms: the bearer token in the body and the session id in a cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req authService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Deny(c, http.StatusBadRequest, response.CodeForbidden, "invalid request")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrUnauthorized):
			response.Deny(c, http.StatusUnauthorized, response.CodeAuthRequired, "invalid email or password")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Deny(c, http.StatusForbidden, response.CodeForbidden, "account is not active")
		default:
			h.logger.Error("login failed",
				zap.String("email", req.Email),
				zap.String("ip", c.ClientIP()),
				zap.Error(err),
			)
			response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "login failed")
		}
		return
	}

	c.SetCookie(h.cookieName, result.SessionID, h.authService.SessionTTL(), "/", "", false, true)

	response.Success(c, http.StatusOK, "login successful", gin.H{
		"token":     result.Token,
		"user_id":   result.Principal.ID,
		"role":      result.Principal.Role,
		"tenant_id": result.Principal.TenantID,
	})
}

// Logout destroys the backing session and clears the cookie. Bearer-only
// callers have nothing server-side to destroy; the response is the same.
func (h *AuthHandler) Logout(c *gin.Context) {
	if data := middleware.GetSessionData(c); data != nil {
		if err := h.authService.Logout(c.Request.Context(), data.SessionID); err != nil {
			h.logger.Error("logout failed",
				zap.String("session_id", data.SessionID),
				zap.Error(err),
			)
			response.Deny(c, http.StatusInternalServerError, response.CodeInternal, "logout failed")
			return
		}
	}

	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, "logout successful", nil)
}

// Me returns the resolved principal for the current request.
func (h *AuthHandler) Me(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	body := gin.H{
		"user_id":   p.ID,
		"kind":      p.Kind,
		"role":      p.Role,
		"tenant_id": p.TenantID,
	}
	if p.AccountID != 0 {
		body["account_id"] = p.AccountID
	}
	if tc := middleware.GetTenant(c); tc != nil {
		body["tenant"] = gin.H{
			"subdomain": tc.Subdomain,
			"name":      tc.Name,
			"status":    tc.Status,
		}
	}

	response.Success(c, http.StatusOK, "ok", body)
}
