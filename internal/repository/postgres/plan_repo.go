// internal/repository/postgres/plan_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/jackc/pgx/v5"
)

// PlanRepository resolves a tenant's subscription plan. The rate controller
// consumes only the plan slug; numeric limits are configuration.
type PlanRepository struct {
	db PgxPool
}

func NewPlanRepository(db PgxPool) *PlanRepository {
	return &PlanRepository{db: db}
}

// PlanSlugByTenant returns the slug of the tenant's current plan.
func (r *PlanRepository) PlanSlugByTenant(ctx context.Context, tenantID int64) (string, error) {
	query := `
		SELECT p.slug
		FROM tenant_subscriptions ts
		JOIN subscription_plans p ON p.id = ts.plan_id
		WHERE ts.tenant_id = $1 AND ts.status = 'active'
		ORDER BY ts.created_at DESC
		LIMIT 1
	`

	var slug string
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", xerrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve tenant plan: %w", err)
	}

	return slug, nil
}
