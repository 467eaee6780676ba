// internal/repository/postgres/resource_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/jackc/pgx/v5"
)

// ownershipQuery returns the SQL resolving a resource id to its owning
// tenant via one path. Queries for a table are tried in order: direct
// tenant column, via owning account, via owning user.
type ownershipQuery struct {
	path string
	sql  string
}

func directColumn(table string) ownershipQuery {
	return ownershipQuery{
		path: "direct",
		sql:  fmt.Sprintf(`SELECT tenant_id FROM %s WHERE id = $1`, table),
	}
}

func viaAccount(table string) ownershipQuery {
	return ownershipQuery{
		path: "account",
		sql:  fmt.Sprintf(`SELECT a.tenant_id FROM %s r JOIN accounts a ON a.id = r.account_id WHERE r.id = $1`, table),
	}
}

func viaUser(table string) ownershipQuery {
	return ownershipQuery{
		path: "user",
		sql:  fmt.Sprintf(`SELECT u.tenant_id FROM %s r JOIN users u ON u.id = r.user_id WHERE r.id = $1`, table),
	}
}

// ownedTables is the allowlist of tenant-scoped tables the isolation
// validator may interrogate. Table names never come from request input.
var ownedTables = map[string][]ownershipQuery{
	"campaigns": {directColumn("campaigns"), viaAccount("campaigns"), viaUser("campaigns")},
	"contacts":  {directColumn("contacts"), viaAccount("contacts"), viaUser("contacts")},
	"messages":  {viaAccount("messages"), viaUser("messages")},
	"accounts":  {directColumn("accounts")},
	"users":     {directColumn("users")},
}

// ResourceRepository resolves the owning tenant of tenant-scoped resources.
type ResourceRepository struct {
	db PgxPool
}

func NewResourceRepository(db PgxPool) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// OwnerTenant resolves a resource to its owning tenant id, trying each
// ownership path in order. A missing row on every path is ErrNotFound; an
// unknown table is a programming error surfaced as invalid input.
func (r *ResourceRepository) OwnerTenant(ctx context.Context, table string, id int64) (int64, error) {
	queries, ok := ownedTables[table]
	if !ok {
		return 0, fmt.Errorf("%w: table %q is not tenant-scoped", xerrors.ErrInvalidInput, table)
	}

	for _, q := range queries {
		var tenantID *int64
		err := r.db.QueryRow(ctx, q.sql, id).Scan(&tenantID)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to resolve owner via %s path: %w", q.path, err)
		}
		if tenantID != nil && *tenantID != 0 {
			return *tenantID, nil
		}
	}

	return 0, xerrors.ErrNotFound
}

// FilterOwnedUsers narrows candidate user ids down to those owned by the
// tenant, for bulk operations.
func (r *ResourceRepository) FilterOwnedUsers(ctx context.Context, tenantID int64, userIDs []int64) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `SELECT id FROM users WHERE tenant_id = $1 AND id = ANY($2)`

	rows, err := r.db.Query(ctx, query, tenantID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to filter owned users: %w", err)
	}
	defer rows.Close()

	var owned []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		owned = append(owned, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owned users: %w", err)
	}

	return owned, nil
}
