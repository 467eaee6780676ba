// internal/domain/tenant/entity.go
package tenant

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Reserved subdomains that never hit the tenant directory.
const (
	SubdomainSuperadmin = "superadmin"
)

// Tenant is a directory record: one isolated customer instance, identified
// by subdomain.
type Tenant struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Subdomain string          `json:"subdomain"`
	Status    Status          `json:"status"`
	Branding  json.RawMessage `json:"branding,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Context is the request-scoped tenant binding, derived fresh per request
// from hostname/header/query. RoleOverride carries the public/superadmin
// pseudo-tenants, which have no directory record.
type Context struct {
	TenantID     int64
	Subdomain    string
	Name         string
	Status       Status
	Branding     json.RawMessage
	RoleOverride string // "superadmin" or "public", empty for real tenants
}

func (c *Context) IsSuperadmin() bool {
	return c.RoleOverride == "superadmin"
}

func (c *Context) IsPublic() bool {
	return c.RoleOverride == "public"
}
