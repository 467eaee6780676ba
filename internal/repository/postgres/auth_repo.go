// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/jackc/pgx/v5"
)

// Identity is a login-capable user row. Tenant and account bindings are
// nullable: a superadmin has neither.
type Identity struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	TenantID     sql.NullInt64
	AccountID    sql.NullInt64
	Status       string
}

type AuthRepository struct {
	db PgxPool
}

func NewAuthRepository(db PgxPool) *AuthRepository {
	return &AuthRepository{db: db}
}

// FindIdentityByEmail loads an identity for password login.
func (r *AuthRepository) FindIdentityByEmail(ctx context.Context, email string) (*Identity, error) {
	query := `
		SELECT id, email, password_hash, role, tenant_id, account_id, status
		FROM users
		WHERE email = $1
	`

	var ident Identity
	err := r.db.QueryRow(ctx, query, email).Scan(
		&ident.ID, &ident.Email, &ident.PasswordHash, &ident.Role,
		&ident.TenantID, &ident.AccountID, &ident.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity by email: %w", err)
	}

	return &ident, nil
}

// TenantByUser resolves a user's tenant binding directly from the users
// relation. First hop of the RLS fallback chain.
func (r *AuthRepository) TenantByUser(ctx context.Context, userID int64) (int64, error) {
	return r.scanTenant(ctx, `SELECT tenant_id FROM users WHERE id = $1`, userID)
}

// TenantByAccountOwner resolves the tenant of the account the user owns.
func (r *AuthRepository) TenantByAccountOwner(ctx context.Context, userID int64) (int64, error) {
	return r.scanTenant(ctx, `SELECT tenant_id FROM accounts WHERE owner_user_id = $1`, userID)
}

// TenantByAgent resolves the tenant an agent identity belongs to.
func (r *AuthRepository) TenantByAgent(ctx context.Context, userID int64) (int64, error) {
	return r.scanTenant(ctx, `SELECT tenant_id FROM agents WHERE user_id = $1`, userID)
}

func (r *AuthRepository) scanTenant(ctx context.Context, query string, userID int64) (int64, error) {
	var tenantID sql.NullInt64
	err := r.db.QueryRow(ctx, query, userID).Scan(&tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, xerrors.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve tenant for user: %w", err)
	}
	if !tenantID.Valid || tenantID.Int64 == 0 {
		return 0, xerrors.ErrNotFound
	}
	return tenantID.Int64, nil
}
