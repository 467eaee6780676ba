// internal/repository/postgres/usage_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/jackc/pgx/v5"
)

// UsageRepository is the usage-counter store behind the quota controller.
// The controller owns the check/increment protocol; this repo only reads
// and appends.
type UsageRepository struct {
	db PgxPool
}

func NewUsageRepository(db PgxPool) *UsageRepository {
	return &UsageRepository{db: db}
}

// GetUsage returns the plan-defined limit and current usage for one
// (user, quotaType) pair.
func (r *UsageRepository) GetUsage(ctx context.Context, userID int64, quotaType string) (limit, used int64, err error) {
	query := `
		SELECT quota_limit, usage
		FROM user_quotas
		WHERE user_id = $1 AND quota_type = $2
	`

	err = r.db.QueryRow(ctx, query, userID, quotaType).Scan(&limit, &used)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, xerrors.ErrNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read usage counter: %w", err)
	}

	return limit, used, nil
}

// Increment charges the counter. An append, safe to repeat under retry.
func (r *UsageRepository) Increment(ctx context.Context, userID int64, quotaType string, amount int64) error {
	query := `
		INSERT INTO user_quotas (user_id, quota_type, quota_limit, usage)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (user_id, quota_type)
		DO UPDATE SET usage = user_quotas.usage + EXCLUDED.usage, updated_at = now()
	`

	if _, err := r.db.Exec(ctx, query, userID, quotaType, amount); err != nil {
		return fmt.Errorf("failed to increment usage counter: %w", err)
	}
	return nil
}
