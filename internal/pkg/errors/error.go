package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("authentication required")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal server error")
	ErrSessionCorrupted = errors.New("session corrupted")

	// ErrTokenRejected marks a bearer credential the identity service
	// actively refused (invalid, expired, wrong audience). Distinct from an
	// infra error so the resolver knows not to fall through to the session
	// path for the same failure.
	ErrTokenRejected = errors.New("bearer token rejected")

	ErrTenantNotFound  = errors.New("tenant not found")
	ErrTenantInactive  = errors.New("tenant is inactive")
	ErrTenantSuspended = errors.New("tenant is suspended")

	ErrCrossTenant   = errors.New("cross-tenant access denied")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrRateLimited   = errors.New("too many requests")
	ErrTokenNotOwned = errors.New("token not owned by caller")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
