// internal/pkg/response/response.go
package response

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Error codes returned in denial bodies. Clients branch on these, not on
// the human-readable message.
const (
	CodeAuthRequired      = "AUTH_REQUIRED"
	CodeSessionCorrupted  = "SESSION_CORRUPTED"
	CodeForbidden         = "FORBIDDEN"
	CodeInsufficientPerms = "INSUFFICIENT_PERMISSIONS"
	CodeCrossTenant       = "CROSS_TENANT_ACCESS_DENIED"
	CodeTenantNotFound    = "TENANT_NOT_FOUND"
	CodeTenantInactive    = "TENANT_INACTIVE"
	CodeQuotaExceeded     = "QUOTA_EXCEEDED"
	CodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	CodeTokenNotOwned     = "TOKEN_NOT_OWNED"
	CodeInternal          = "INTERNAL_ERROR"
)

// Response defines the standard API response format for successful calls.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Deny terminates the request with the standard denial body
// {error, code, timestamp}. Every admission middleware answers through
// here so no denial leaks a different shape.
func Deny(c *gin.Context, status int, code, message string) {
	DenyWith(c, status, code, message, nil)
}

// DenyWith is Deny plus extra top-level fields (quota/rate denials carry
// their numbers alongside the standard triple).
func DenyWith(c *gin.Context, status int, code, message string, extra map[string]interface{}) {
	// Abort FIRST so no later handler writes over the denial.
	c.Abort()

	body := gin.H{
		"error":     message,
		"code":      code,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range extra {
		body[k] = v
	}

	c.JSON(status, body)
}

// RateHeaders sets the X-RateLimit-* response headers. Called for allowed,
// rejected and unlimited outcomes alike so clients can self-throttle.
func RateHeaders(c *gin.Context, limit, remaining int64, resetAt time.Time, plan string, unlimited bool) {
	if unlimited {
		c.Header("X-RateLimit-Limit", "unlimited")
	} else {
		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
	}
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
	c.Header("X-RateLimit-Plan", plan)
}
