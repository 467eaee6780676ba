// internal/service/identity/credential.go
package identity

import (
	"net/http"
	"strings"
)

type CredentialKind int

const (
	CredentialNone CredentialKind = iota
	CredentialBearer
	CredentialSession
)

// Credential is the raw caller credential pulled off a request, resolved
// once per request instead of re-reading headers throughout the codebase.
// Both forms are captured so the bearer path can degrade to the session
// path when the identity service is unreachable; Kind names the primary.
type Credential struct {
	Kind      CredentialKind
	Token     string
	SessionID string
}

// ExtractCredential reads the Authorization header and the session cookie.
// A bearer header always takes precedence as the primary form.
func ExtractCredential(r *http.Request, cookieName string) Credential {
	cred := Credential{Kind: CredentialNone}

	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		cred.SessionID = cookie.Value
		cred.Kind = CredentialSession
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			cred.Token = parts[1]
			cred.Kind = CredentialBearer
		}
	}

	return cred
}
