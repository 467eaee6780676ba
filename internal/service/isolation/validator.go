// internal/service/isolation/validator.go
package isolation

import (
	"context"
	"errors"
	"fmt"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"go.uber.org/zap"
)

// ResourceStore resolves resources to their owning tenant.
type ResourceStore interface {
	OwnerTenant(ctx context.Context, table string, id int64) (int64, error)
	FilterOwnedUsers(ctx context.Context, tenantID int64, userIDs []int64) ([]int64, error)
}

// Actor identifies who attempted the access, for the audit trail.
type Actor struct {
	UserID int64
	Path   string
	IP     string
}

// Validator is the authoritative tenant boundary: every route that takes a
// resource id for a tenant-scoped table must pass through it. RLS is a
// safety net, this is the wall.
type Validator struct {
	store  ResourceStore
	logger *zap.Logger
}

func NewValidator(store ResourceStore, logger *zap.Logger) *Validator {
	return &Validator{store: store, logger: logger}
}

// Ensure denies any access to a resource whose owning tenant differs from
// the request tenant. Each mismatch emits exactly one security_violation
// audit entry.
func (v *Validator) Ensure(ctx context.Context, table string, resourceID, tenantID int64, actor Actor) error {
	owner, err := v.store.OwnerTenant(ctx, table, resourceID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return xerrors.ErrNotFound
		}
		return fmt.Errorf("ownership lookup failed: %w", err)
	}

	if owner != tenantID {
		v.logger.Warn("security_violation",
			zap.String("kind", "cross_tenant_access"),
			zap.Int64("request_tenant_id", tenantID),
			zap.Int64("resource_tenant_id", owner),
			zap.String("table", table),
			zap.Int64("resource_id", resourceID),
			zap.Int64("actor_user_id", actor.UserID),
			zap.String("path", actor.Path),
			zap.String("ip", actor.IP),
		)
		return xerrors.ErrCrossTenant
	}

	return nil
}

// FilterOwnedUsers narrows a candidate user id list to those provably
// owned by the tenant, for bulk operations.
func (v *Validator) FilterOwnedUsers(ctx context.Context, tenantID int64, userIDs []int64) ([]int64, error) {
	owned, err := v.store.FilterOwnedUsers(ctx, tenantID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("bulk ownership filter failed: %w", err)
	}
	return owned, nil
}
