// internal/rls/propagator.go
package rls

import (
	"context"
	"fmt"
	"strconv"

	"github.com/HeltonFraga01/cortexx-sub008/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Context mirrors the resolved principal + tenant binding pushed into the
// database session so row-level-security policies scope queries without an
// explicit tenant filter.
//
// Superadmin requests set UserRole = "superadmin" and omit the tenant id
// (full bypass); every other request must carry a non-zero TenantID.
type Context struct {
	TenantID int64
	UserRole string
	UserID   int64
}

// TenantLookup is the fallback chain for requests whose principal carries
// no tenant binding: users relation, then owning account, then agent.
type TenantLookup interface {
	TenantByUser(ctx context.Context, userID int64) (int64, error)
	TenantByAccountOwner(ctx context.Context, userID int64) (int64, error)
	TenantByAgent(ctx context.Context, userID int64) (int64, error)
}

type Propagator struct {
	db     *postgres.DB
	lookup TenantLookup
	logger *zap.Logger
}

func NewPropagator(db *postgres.DB, lookup TenantLookup, logger *zap.Logger) *Propagator {
	return &Propagator{db: db, lookup: lookup, logger: logger}
}

// ResolveTenantFallback tries one fallback lookup across the three owning
// relations before giving up. A zero return means no tenant could be found.
func (p *Propagator) ResolveTenantFallback(ctx context.Context, userID int64) int64 {
	if userID == 0 {
		return 0
	}
	lookups := []func(context.Context, int64) (int64, error){
		p.lookup.TenantByUser,
		p.lookup.TenantByAccountOwner,
		p.lookup.TenantByAgent,
	}
	for _, fn := range lookups {
		if id, err := fn(ctx, userID); err == nil && id != 0 {
			return id
		}
	}
	return 0
}

// Begin opens a transaction with the session variables applied. Callers
// run their tenant-scoped queries on the returned tx. If the variables
// cannot be set the transaction is rolled back and the error returned; the
// caller decides whether to fall back to the privileged path.
func (p *Propagator) Begin(ctx context.Context, rc Context) (pgx.Tx, error) {
	tx, err := p.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rls transaction: %w", err)
	}

	if err := p.Apply(ctx, tx, rc); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	return tx, nil
}

// Apply issues the scoped SET LOCALs on an existing transaction.
// set_config with is_local=true keeps the variables transaction-scoped.
func (p *Propagator) Apply(ctx context.Context, tx pgx.Tx, rc Context) error {
	settings := map[string]string{
		"app.user_role": rc.UserRole,
		"app.user_id":   strconv.FormatInt(rc.UserID, 10),
	}
	if rc.UserRole == "superadmin" {
		// Full bypass: no tenant binding.
	} else if rc.TenantID != 0 {
		settings["app.tenant_id"] = strconv.FormatInt(rc.TenantID, 10)
	} else {
		return fmt.Errorf("rls context has no tenant id and is not superadmin")
	}

	for name, value := range settings {
		if _, err := tx.Exec(ctx, `SELECT set_config($1, $2, true)`, name, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}

	return nil
}
