// internal/pkg/session/types.go
package session

import "time"

// Data is the server-side session payload, stored as an opaque JSON blob
// keyed by the session id from the cookie. Created at login, touched on
// each authenticated request, destroyed on logout or detected corruption.
type Data struct {
	SessionID      string    `json:"session_id"`
	UserID         int64     `json:"user_id"`
	Role           string    `json:"role"`
	TenantID       int64     `json:"tenant_id,omitempty"`
	AccountID      int64     `json:"account_id,omitempty"`
	ProviderToken  string    `json:"provider_token,omitempty"` // alternate-service credential
	IPAddress      string    `json:"ip_address,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
	LoginAt        time.Time `json:"login_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// State classifies session validation. A session is exactly one of absent,
// corrupted or valid; there is no fourth state.
type State int

const (
	StateAbsent State = iota
	StateCorrupted
	StateValid
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateCorrupted:
		return "corrupted"
	case StateValid:
		return "valid"
	default:
		return "unknown"
	}
}
