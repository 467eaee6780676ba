// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Manager owns the session lifecycle around the store: create at login,
// destroy at logout. Validation lives in Validator.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewManager(store Store, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Create stores a new session and returns its opaque id.
func (m *Manager) Create(ctx context.Context, data *Data) (string, error) {
	sessionID := ulid.Make().String()
	data.SessionID = sessionID

	now := time.Now()
	if data.LoginAt.IsZero() {
		data.LoginAt = now
	}
	data.LastActivityAt = now

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := m.store.Set(ctx, sessionID, payload, m.ttl); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return sessionID, nil
}

// Destroy removes a session. Used by logout; corruption repair goes through
// the validator.
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := m.store.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// TTL exposes the configured session lifetime (cookie Max-Age follows it).
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
