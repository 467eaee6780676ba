// internal/service/tenantctx/resolver.go
package tenantctx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/HeltonFraga01/cortexx-sub008/internal/config"
	"github.com/HeltonFraga01/cortexx-sub008/internal/domain/tenant"
	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"go.uber.org/zap"
)

// Directory is the external tenant lookup.
type Directory interface {
	GetBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error)
}

// Resolver derives the tenant context fresh per request. Resolution order,
// first match wins: override header (non-production), query parameter
// (non-production), hostname pattern match, none.
type Resolver struct {
	directory  Directory
	cfg        config.TenantResolution
	production bool
	logger     *zap.Logger
}

func NewResolver(directory Directory, cfg config.TenantResolution, production bool, logger *zap.Logger) *Resolver {
	return &Resolver{
		directory:  directory,
		cfg:        cfg,
		production: production,
		logger:     logger,
	}
}

// Resolve binds the request to a tenant context. Error mapping:
// ErrTenantNotFound for a directory miss, ErrTenantSuspended /
// ErrTenantInactive for non-active tenants, other errors are infra
// failures (fail closed).
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (*tenant.Context, error) {
	subdomain := r.Subdomain(req)

	if subdomain == tenant.SubdomainSuperadmin {
		return &tenant.Context{Subdomain: subdomain, RoleOverride: "superadmin"}, nil
	}
	if subdomain == "" {
		return &tenant.Context{RoleOverride: "public"}, nil
	}

	rec, err := r.directory.GetBySubdomain(ctx, subdomain)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrTenantNotFound
		}
		return nil, err
	}

	switch rec.Status {
	case tenant.StatusActive:
	case tenant.StatusSuspended:
		return nil, xerrors.ErrTenantSuspended
	default:
		return nil, xerrors.ErrTenantInactive
	}

	return &tenant.Context{
		TenantID:  rec.ID,
		Subdomain: rec.Subdomain,
		Name:      rec.Name,
		Status:    rec.Status,
		Branding:  rec.Branding,
	}, nil
}

// Subdomain extracts the tenant subdomain from the request, empty string
// when none resolves.
func (r *Resolver) Subdomain(req *http.Request) string {
	if !r.production {
		if v := req.Header.Get(r.cfg.OverrideHeader); v != "" {
			return v
		}
		if v := req.URL.Query().Get(r.cfg.QueryParam); v != "" {
			return v
		}
	}

	host := req.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	for _, bare := range r.cfg.BareHosts {
		if host == bare {
			return ""
		}
	}

	for _, suffix := range []string{r.cfg.DevSuffix, r.cfg.LocalSuffix, r.cfg.ProdSuffix} {
		if suffix == "" {
			continue
		}
		if sub, ok := strings.CutSuffix(host, suffix); ok {
			// Nested hosts resolve on the label adjacent to the suffix.
			if i := strings.LastIndex(sub, "."); i >= 0 {
				sub = sub[i+1:]
			}
			return sub
		}
	}

	return ""
}
