// internal/service/admission/quota.go
package admission

import (
	"context"
	"errors"
	"fmt"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"go.uber.org/zap"
)

// UsageStore is the external usage-counter store.
type UsageStore interface {
	GetUsage(ctx context.Context, userID int64, quotaType string) (limit, used int64, err error)
	Increment(ctx context.Context, userID int64, quotaType string, amount int64) error
}

// QuotaDecision is the outcome of a quota check. On allow the caller is
// expected to Commit the same (userID, quotaType, amount) only after the
// underlying operation succeeds, so a failed operation never consumes
// quota. Check and commit are deliberately not atomic; concurrent
// identical requests can overshoot the limit slightly.
type QuotaDecision struct {
	Allowed   bool
	Degraded  bool // store failure absorbed by FailOpen
	QuotaType string
	Limit     int64
	Used      int64
	Remaining int64
	Requested int64
}

// Quota is the fixed-budget admission controller: check-then-allow against
// a per-user counter, reset by policy elsewhere.
type Quota struct {
	store    UsageStore
	defaults map[string]int64 // limit per quota type for users with no row yet
	logger   *zap.Logger
}

func NewQuota(store UsageStore, defaults map[string]int64, logger *zap.Logger) *Quota {
	return &Quota{
		store:    store,
		defaults: defaults,
		logger:   logger,
	}
}

// Check decides whether usage+amount fits the limit. A store failure under
// FailOpen is logged and allowed through (Degraded set); under FailClosed
// it surfaces as an error.
func (q *Quota) Check(ctx context.Context, userID int64, quotaType string, amount int64, policy FailPolicy) (QuotaDecision, error) {
	if amount <= 0 {
		amount = 1
	}

	limit, used, err := q.store.GetUsage(ctx, userID, quotaType)
	if errors.Is(err, xerrors.ErrNotFound) {
		limit, used, err = q.defaults[quotaType], 0, nil
	}
	if err != nil {
		if policy == FailClosed {
			return QuotaDecision{}, fmt.Errorf("quota check failed: %w", err)
		}
		q.logger.Warn("usage store unavailable, allowing request",
			zap.Int64("user_id", userID),
			zap.String("quota_type", quotaType),
			zap.String("policy", policy.String()),
			zap.Error(err),
		)
		return QuotaDecision{Allowed: true, Degraded: true, QuotaType: quotaType, Requested: amount}, nil
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}

	decision := QuotaDecision{
		QuotaType: quotaType,
		Limit:     limit,
		Used:      used,
		Remaining: remaining,
		Requested: amount,
	}
	decision.Allowed = used+amount <= limit
	return decision, nil
}

// Commit charges the quota after the business operation succeeded. Errors
// are logged, not surfaced: the work is already done, and the counter is
// an append that tolerates loss better than a double charge.
func (q *Quota) Commit(ctx context.Context, userID int64, quotaType string, amount int64) {
	if amount <= 0 {
		amount = 1
	}
	if err := q.store.Increment(ctx, userID, quotaType, amount); err != nil {
		q.logger.Error("failed to commit quota charge",
			zap.Int64("user_id", userID),
			zap.String("quota_type", quotaType),
			zap.Int64("amount", amount),
			zap.Error(err),
		)
	}
}
