// internal/service/admission/ratelimit.go
package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/cache"
	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// WindowStore is the external sorted-set store holding one timestamped
// entry per admitted request.
type WindowStore interface {
	RemoveOlderThan(ctx context.Context, key string, cutoff time.Time) error
	Count(ctx context.Context, key string) (int64, error)
	AddEntry(ctx context.Context, key string, at time.Time, member string) error
	SetExpiry(ctx context.Context, key string, ttl time.Duration) error
	HealthCheck(ctx context.Context) error
}

// PlanSource resolves a tenant's plan slug on cache miss.
type PlanSource interface {
	PlanSlugByTenant(ctx context.Context, tenantID int64) (string, error)
}

// RateDecision is the outcome of one sliding-window check. Header values
// are derived from it for every outcome, allowed or not.
type RateDecision struct {
	Allowed   bool
	Unlimited bool
	Degraded  bool // store failure absorbed by FailOpen
	Plan      string
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// RateLimiter admits requests per tenant against a continuously sliding
// window, unlike the fixed-budget quota counter. Plan resolution goes
// through a short-TTL process-local cache; lookup failure defaults to the
// lowest tier.
type RateLimiter struct {
	store       WindowStore
	plans       PlanSource
	planCache   *cache.TTL[string]
	limits      map[string]int64 // plan slug -> requests per window, <= 0 means unlimited
	defaultPlan string
	window      time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func NewRateLimiter(
	store WindowStore,
	plans PlanSource,
	planCacheTTL time.Duration,
	limits map[string]int64,
	defaultPlan string,
	window time.Duration,
	logger *zap.Logger,
) *RateLimiter {
	return &RateLimiter{
		store:       store,
		plans:       plans,
		planCache:   cache.New[string](planCacheTTL),
		limits:      limits,
		defaultPlan: defaultPlan,
		window:      window,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock injects the clock for tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	rl.now = now
	return rl
}

func rateKey(tenantID int64) string {
	return fmt.Sprintf("ratelimit:tenant:%d", tenantID)
}

// Allow runs the sliding-window algorithm: prune entries older than the
// window, count the rest, reject at the limit, otherwise append a new
// timestamped entry and bound the key's lifetime to twice the window.
func (rl *RateLimiter) Allow(ctx context.Context, tenantID int64, policy FailPolicy) (RateDecision, error) {
	planSlug := rl.resolvePlan(ctx, tenantID)
	limit := rl.limitFor(planSlug)
	now := rl.now()

	if limit <= 0 {
		// Unlimited tier short-circuits the store entirely.
		return RateDecision{
			Allowed:   true,
			Unlimited: true,
			Plan:      planSlug,
			Remaining: 0,
			ResetAt:   now.Add(rl.window),
		}, nil
	}

	decision := RateDecision{
		Plan:    planSlug,
		Limit:   limit,
		ResetAt: now.Add(rl.window),
	}

	key := rateKey(tenantID)
	cutoff := now.Add(-rl.window)

	count, err := rl.countWindow(ctx, key, cutoff)
	if err != nil {
		return rl.degrade(decision, policy, err, tenantID)
	}

	if count >= limit {
		decision.Allowed = false
		decision.Remaining = 0
		return decision, nil
	}

	// Member carries an unused ULID tie-breaker so two entries in the same
	// millisecond stay distinct.
	member := fmt.Sprintf("%d-%s", now.UnixMilli(), ulid.Make().String())
	if err := rl.store.AddEntry(ctx, key, now, member); err != nil {
		return rl.degrade(decision, policy, err, tenantID)
	}
	if err := rl.store.SetExpiry(ctx, key, 2*rl.window); err != nil {
		rl.logger.Warn("failed to set rate window expiry", zap.String("key", key), zap.Error(err))
	}

	decision.Allowed = true
	decision.Remaining = limit - count - 1
	return decision, nil
}

func (rl *RateLimiter) countWindow(ctx context.Context, key string, cutoff time.Time) (int64, error) {
	if err := rl.store.RemoveOlderThan(ctx, key, cutoff); err != nil {
		return 0, err
	}
	return rl.store.Count(ctx, key)
}

func (rl *RateLimiter) degrade(decision RateDecision, policy FailPolicy, err error, tenantID int64) (RateDecision, error) {
	if policy == FailClosed {
		return RateDecision{}, fmt.Errorf("rate check failed: %w", err)
	}
	rl.logger.Warn("rate window store unavailable, allowing request",
		zap.Int64("tenant_id", tenantID),
		zap.String("policy", policy.String()),
		zap.Error(err),
	)
	decision.Allowed = true
	decision.Degraded = true
	decision.Remaining = decision.Limit
	return decision, nil
}

// resolvePlan looks up the tenant's plan through the short-TTL cache,
// defaulting to the lowest tier when the lookup fails.
func (rl *RateLimiter) resolvePlan(ctx context.Context, tenantID int64) string {
	key := fmt.Sprintf("%d", tenantID)
	if slug, ok := rl.planCache.Get(key); ok {
		return slug
	}

	slug, err := rl.plans.PlanSlugByTenant(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, xerrors.ErrNotFound) {
			rl.logger.Warn("plan lookup failed, defaulting to lowest tier",
				zap.Int64("tenant_id", tenantID),
				zap.Error(err),
			)
		}
		slug = rl.defaultPlan
	}

	rl.planCache.Set(key, slug)
	return slug
}

func (rl *RateLimiter) limitFor(planSlug string) int64 {
	if limit, ok := rl.limits[planSlug]; ok {
		return limit
	}
	return rl.limits[rl.defaultPlan]
}

// InvalidatePlan drops the cached plan for a tenant. Best effort only:
// staleness is bounded by the cache TTL regardless.
func (rl *RateLimiter) InvalidatePlan(tenantID int64) {
	rl.planCache.Delete(fmt.Sprintf("%d", tenantID))
}
