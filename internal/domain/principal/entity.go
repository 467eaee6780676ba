// internal/domain/principal/entity.go
package principal

// Kind classifies how the caller authenticated and what class of actor it is.
type Kind string

const (
	KindEndUser           Kind = "end_user"
	KindAgent             Kind = "agent"
	KindTenantAdmin       Kind = "tenant_admin"
	KindImpersonatedAdmin Kind = "tenant_admin_impersonated"
	KindSuperAdmin        Kind = "super_admin"
	KindAdminToken        Kind = "admin_token"
)

// Principal is the resolved caller identity for one request. It is created
// by the identity resolver, lives on the request context and is never
// persisted.
type Principal struct {
	ID        int64
	Kind      Kind
	Role      string
	TenantID  int64 // 0 for superadmin (no tenant binding)
	AccountID int64 // 0 when the caller has no account scope

	// Fallback identities for usage accounting. Populated per auth mode so
	// CanonicalUserID never double-counts the same logical user under two
	// id shapes.
	AccountOwnerID int64
	AgentID        int64
}

// KindForRole maps a resolved role string onto a principal kind. An empty
// role is a valid but unprivileged end user.
func KindForRole(role string) Kind {
	switch role {
	case "superadmin", "super_admin":
		return KindSuperAdmin
	case "tenant_admin", "admin":
		return KindTenantAdmin
	case "tenant_admin_impersonated":
		return KindImpersonatedAdmin
	case "agent":
		return KindAgent
	case "admin_token":
		return KindAdminToken
	default:
		return KindEndUser
	}
}

// CanonicalUserID resolves the single user id used for quota accounting,
// shared across all auth modes: the principal's own id, then the owning
// account's user, then the agent identity.
func (p *Principal) CanonicalUserID() int64 {
	if p.ID != 0 {
		return p.ID
	}
	if p.AccountOwnerID != 0 {
		return p.AccountOwnerID
	}
	return p.AgentID
}

// IsAdminKind reports whether the principal bypasses ownership checks.
func (p *Principal) IsAdminKind() bool {
	switch p.Kind {
	case KindTenantAdmin, KindImpersonatedAdmin, KindSuperAdmin, KindAdminToken:
		return true
	default:
		return false
	}
}

// HasRole checks the resolved role. An unresolved (empty) role never
// matches, so "userId set but role unresolved" carries no privilege.
func (p *Principal) HasRole(role string) bool {
	return p.Role != "" && p.Role == role
}

func (p *Principal) IsSuperAdmin() bool {
	return p.Kind == KindSuperAdmin
}
