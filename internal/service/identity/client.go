// internal/service/identity/client.go
package identity

import (
	"context"

	appjwt "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/jwt"
)

// TokenIdentity is what the identity service resolves a bearer credential
// to. Role and tenant already carry the claim fallback applied (metadata
// claim wins over the generic field).
type TokenIdentity struct {
	UserID    int64
	Role      string
	TenantID  int64
	AccountID int64
}

// Client validates bearer credentials. A rejection (invalid/expired token)
// is reported as xerrors.ErrTokenRejected; any other error is an infra
// failure of the identity service itself, which callers may degrade on.
type Client interface {
	ValidateBearerToken(ctx context.Context, token string) (*TokenIdentity, error)
}

// JWTClient validates tokens locally against the platform signing key.
type JWTClient struct {
	verifier *appjwt.Verifier
}

func NewJWTClient(verifier *appjwt.Verifier) *JWTClient {
	return &JWTClient{verifier: verifier}
}

func (c *JWTClient) ValidateBearerToken(_ context.Context, token string) (*TokenIdentity, error) {
	claims, err := c.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	return &TokenIdentity{
		UserID:    claims.UserID,
		Role:      claims.ResolvedRole(),
		TenantID:  claims.ResolvedTenantID(),
		AccountID: claims.AccountID,
	}, nil
}
