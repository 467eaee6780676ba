// internal/repository/postgres/tenant_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/HeltonFraga01/cortexx-sub008/internal/domain/tenant"
	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/jackc/pgx/v5"
)

// TenantRepository is the tenant directory: lookup by subdomain.
type TenantRepository struct {
	db PgxPool
}

func NewTenantRepository(db PgxPool) *TenantRepository {
	return &TenantRepository{db: db}
}

// GetBySubdomain retrieves a tenant record by its subdomain.
func (r *TenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	query := `
		SELECT id, name, subdomain, status, branding, created_at, updated_at
		FROM tenants
		WHERE subdomain = $1
	`

	var t tenant.Tenant
	err := r.db.QueryRow(ctx, query, subdomain).Scan(
		&t.ID, &t.Name, &t.Subdomain, &t.Status, &t.Branding, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant by subdomain: %w", err)
	}

	return &t, nil
}
