// internal/pkg/session/validator.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"go.uber.org/zap"
)

// RequestMeta is the diagnostic snapshot attached to security events.
type RequestMeta struct {
	Path string
	IP   string
}

// Validator classifies session state and repairs corruption. The only
// mutating transition it performs is CORRUPTED -> ABSENT: destroying the
// record so a stale or tampered cookie cannot be accepted by a later code
// path that checks only the user id.
type Validator struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewValidator(store Store, ttl time.Duration, logger *zap.Logger) *Validator {
	return &Validator{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Validate resolves the session id to one of the three states. On VALID it
// touches last_activity_at and writes the record back (best effort). On
// CORRUPTED it destroys the record and logs a security event; clearing the
// cookie is the caller's job. A store infra error is returned as-is:
// session resolution is a trust decision and fails closed.
func (v *Validator) Validate(ctx context.Context, sessionID string, meta RequestMeta) (*Data, State, error) {
	if sessionID == "" {
		return nil, StateAbsent, nil
	}

	payload, err := v.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, StateAbsent, nil
		}
		return nil, StateAbsent, fmt.Errorf("session store unavailable: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		// Record exists but the payload is unreadable: same corruption
		// class as missing fields, same repair.
		v.repair(ctx, sessionID, []string{"payload"}, meta)
		return nil, StateCorrupted, nil
	}

	if data.UserID == 0 {
		// No resolvable identity at all; indistinguishable from no session.
		return nil, StateAbsent, nil
	}

	if missing := requiredFieldsMissing(&data); len(missing) > 0 {
		v.repair(ctx, sessionID, missing, meta)
		return nil, StateCorrupted, nil
	}

	data.SessionID = sessionID
	data.LastActivityAt = v.now()
	if updated, err := json.Marshal(&data); err == nil {
		if err := v.store.Set(ctx, sessionID, updated, v.ttl); err != nil {
			v.logger.Warn("failed to touch session activity", zap.Error(err))
		}
	}

	return &data, StateValid, nil
}

func requiredFieldsMissing(d *Data) []string {
	var missing []string
	if d.Role == "" {
		missing = append(missing, "role")
	}
	if d.LoginAt.IsZero() {
		missing = append(missing, "login_at")
	}
	return missing
}

func (v *Validator) repair(ctx context.Context, sessionID string, missing []string, meta RequestMeta) {
	if err := v.store.Destroy(ctx, sessionID); err != nil {
		v.logger.Error("failed to destroy corrupted session", zap.Error(err), zap.String("session_id", sessionID))
	}
	v.logger.Warn("session_corrupted",
		zap.String("session_id", sessionID),
		zap.Strings("missing_fields", missing),
		zap.String("path", meta.Path),
		zap.String("ip", meta.IP),
	)
}
