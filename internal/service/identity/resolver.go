// internal/service/identity/resolver.go
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/HeltonFraga01/cortexx-sub008/internal/domain/principal"
	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/session"
	"go.uber.org/zap"
)

// Resolution carries the resolved principal plus the session it came from,
// if any, so downstream checks (token ownership) can reach the session's
// alternate-service credential.
type Resolution struct {
	Principal *principal.Principal
	Session   *session.Data
}

// Resolver turns a raw credential into exactly one Principal or an
// explicit rejection. Bearer and session paths are mutually exclusive; the
// session path doubles as the degraded path when the identity service
// itself errors (not when it rejects).
type Resolver struct {
	client    Client
	validator *session.Validator
	logger    *zap.Logger
}

func NewResolver(client Client, validator *session.Validator, logger *zap.Logger) *Resolver {
	return &Resolver{
		client:    client,
		validator: validator,
		logger:    logger,
	}
}

// Resolve produces the request principal. Error mapping:
//   - xerrors.ErrUnauthorized: no credential / rejected token / absent session
//   - xerrors.ErrSessionCorrupted: session record purged, caller clears cookie
//   - anything else: infra failure in a trust-boundary decision, fail closed
func (r *Resolver) Resolve(ctx context.Context, cred Credential, meta session.RequestMeta) (*Resolution, error) {
	switch cred.Kind {
	case CredentialBearer:
		res, err := r.resolveBearer(ctx, cred.Token)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, xerrors.ErrTokenRejected) {
			// A rejected token never falls through to the session path:
			// the caller presented a bad credential, not no credential.
			return nil, xerrors.ErrUnauthorized
		}
		// Identity service infra failure: degrade to session resolution.
		r.logger.Warn("identity service unavailable, degrading to session path",
			zap.Error(err),
			zap.String("path", meta.Path),
		)
		return r.resolveSession(ctx, cred.SessionID, meta)

	case CredentialSession:
		return r.resolveSession(ctx, cred.SessionID, meta)

	default:
		return nil, xerrors.ErrUnauthorized
	}
}

func (r *Resolver) resolveBearer(ctx context.Context, token string) (*Resolution, error) {
	ident, err := r.client.ValidateBearerToken(ctx, token)
	if err != nil {
		return nil, err
	}

	// An unresolved role is still a valid principal; it just carries no
	// privilege anywhere a role is required.
	p := &principal.Principal{
		ID:        ident.UserID,
		Kind:      principal.KindForRole(ident.Role),
		Role:      ident.Role,
		TenantID:  ident.TenantID,
		AccountID: ident.AccountID,
	}

	return &Resolution{Principal: p}, nil
}

func (r *Resolver) resolveSession(ctx context.Context, sessionID string, meta session.RequestMeta) (*Resolution, error) {
	data, state, err := r.validator.Validate(ctx, sessionID, meta)
	if err != nil {
		return nil, fmt.Errorf("session resolution failed: %w", err)
	}

	switch state {
	case session.StateValid:
		p := &principal.Principal{
			ID:        data.UserID,
			Kind:      principal.KindForRole(data.Role),
			Role:      data.Role,
			TenantID:  data.TenantID,
			AccountID: data.AccountID,
		}
		return &Resolution{Principal: p, Session: data}, nil
	case session.StateCorrupted:
		return nil, xerrors.ErrSessionCorrupted
	default:
		return nil, xerrors.ErrUnauthorized
	}
}
