// internal/service/ownership/validator.go
package ownership

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/cache"
	"go.uber.org/zap"
)

// ProviderAdminClient enumerates the provider credentials known for a
// user. The enumeration is expensive (remote admin endpoint), which is why
// results are cached.
type ProviderAdminClient interface {
	ListTokens(ctx context.Context, userID int64) ([]string, error)
}

// Validator confirms a caller-supplied alternate provider credential
// belongs to the caller. Cache keys and log lines only ever see the
// credential's fingerprint, never the raw value.
type Validator struct {
	client ProviderAdminClient
	cache  *cache.TTL[bool]
	logger *zap.Logger
}

func NewValidator(client ProviderAdminClient, ttl time.Duration, logger *zap.Logger) *Validator {
	return &Validator{
		client: client,
		cache:  cache.New[bool](ttl),
		logger: logger,
	}
}

// Fingerprint derives the cache-safe identifier for a credential.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Owns reports whether the token belongs to the user. Both positive and
// negative answers are cached for the TTL, so repeated probes with the
// same (token, user) pair cost at most one upstream enumeration.
func (v *Validator) Owns(ctx context.Context, userID int64, token string) (bool, error) {
	fingerprint := Fingerprint(token)
	key := fmt.Sprintf("%s:%d", fingerprint, userID)

	if owned, ok := v.cache.Get(key); ok {
		return owned, nil
	}

	known, err := v.client.ListTokens(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to enumerate provider credentials: %w", err)
	}

	owned := false
	for _, candidate := range known {
		if Fingerprint(candidate) == fingerprint {
			owned = true
			break
		}
	}

	v.cache.Set(key, owned)
	if !owned {
		v.logger.Warn("provider token ownership denied",
			zap.Int64("user_id", userID),
			zap.String("token_fingerprint", fingerprint[:12]),
		)
	}
	return owned, nil
}
