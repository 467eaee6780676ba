// internal/domain/campaign/entity.go
package campaign

import "time"

// Campaign is the minimal tenant-scoped resource used by the protected API
// surface. Dispatch semantics live with the campaign service; the admission
// layer only cares that a campaign has an owning tenant.
type Campaign struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenant_id"`
	AccountID  int64     `json:"account_id,omitempty"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	CreatedBy  int64     `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Dispatched int64     `json:"dispatched"`
}

type CreateRequest struct {
	Name string `json:"name" binding:"required"`
}
