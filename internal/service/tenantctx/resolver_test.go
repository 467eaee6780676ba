package tenantctx

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/HeltonFraga01/cortexx-sub008/internal/config"
	"github.com/HeltonFraga01/cortexx-sub008/internal/domain/tenant"
	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDirectory struct {
	tenants map[string]*tenant.Tenant
	err     error
}

func (d *fakeDirectory) GetBySubdomain(_ context.Context, subdomain string) (*tenant.Tenant, error) {
	if d.err != nil {
		return nil, d.err
	}
	rec, ok := d.tenants[subdomain]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return rec, nil
}

func testResolutionConfig() config.TenantResolution {
	return config.TenantResolution{
		OverrideHeader: "X-Tenant-Override",
		QueryParam:     "tenant",
		BareHosts:      []string{"localhost", "127.0.0.1"},
		DevSuffix:      ".lvh.me",
		LocalSuffix:    ".local",
		ProdSuffix:     ".cortexx.app",
	}
}

func newTestResolver(dir Directory, production bool) *Resolver {
	return NewResolver(dir, testResolutionConfig(), production, zap.NewNop())
}

func TestSubdomain_ResolutionOrder(t *testing.T) {
	r := newTestResolver(&fakeDirectory{}, false)

	tests := []struct {
		name   string
		host   string
		header string
		query  string
		want   string
	}{
		{name: "header wins over everything", host: "acme.cortexx.app", header: "beta", query: "gamma", want: "beta"},
		{name: "query wins over hostname", host: "acme.cortexx.app", query: "gamma", want: "gamma"},
		{name: "prod suffix", host: "acme.cortexx.app", want: "acme"},
		{name: "dev suffix", host: "acme.lvh.me", want: "acme"},
		{name: "local suffix", host: "acme.local", want: "acme"},
		{name: "port stripped", host: "acme.lvh.me:8000", want: "acme"},
		{name: "nested host uses label next to suffix", host: "www.acme.cortexx.app", want: "acme"},
		{name: "bare host", host: "localhost", want: ""},
		{name: "bare host with port", host: "localhost:8000", want: ""},
		{name: "unknown host", host: "example.com", want: ""},
		{name: "case folded", host: "ACME.cortexx.app", want: "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "http://" + tt.host + "/"
			if tt.query != "" {
				url += "?tenant=" + tt.query
			}
			req := httptest.NewRequest("GET", url, nil)
			req.Host = tt.host
			if tt.header != "" {
				req.Header.Set("X-Tenant-Override", tt.header)
			}
			assert.Equal(t, tt.want, r.Subdomain(req))
		})
	}
}

func TestSubdomain_OverridesIgnoredInProduction(t *testing.T) {
	r := newTestResolver(&fakeDirectory{}, true)

	req := httptest.NewRequest("GET", "http://acme.cortexx.app/?tenant=gamma", nil)
	req.Host = "acme.cortexx.app"
	req.Header.Set("X-Tenant-Override", "beta")

	assert.Equal(t, "acme", r.Subdomain(req))
}

func TestResolve_ActiveTenant(t *testing.T) {
	dir := &fakeDirectory{tenants: map[string]*tenant.Tenant{
		"acme": {ID: 5, Subdomain: "acme", Name: "Acme", Status: tenant.StatusActive},
	}}
	r := newTestResolver(dir, false)

	req := httptest.NewRequest("GET", "http://acme.cortexx.app/", nil)
	req.Host = "acme.cortexx.app"

	tc, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(5), tc.TenantID)
	assert.Equal(t, "acme", tc.Subdomain)
}

func TestResolve_SuperadminPseudoTenant(t *testing.T) {
	r := newTestResolver(&fakeDirectory{}, false)

	req := httptest.NewRequest("GET", "http://superadmin.cortexx.app/", nil)
	req.Host = "superadmin.cortexx.app"

	tc, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tc.TenantID, "pseudo-tenant has no id and no directory lookup")
	assert.Equal(t, "superadmin", tc.RoleOverride)
}

func TestResolve_NoSubdomainIsPublic(t *testing.T) {
	r := newTestResolver(&fakeDirectory{}, false)

	req := httptest.NewRequest("GET", "http://localhost/", nil)
	req.Host = "localhost"

	tc, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "public", tc.RoleOverride)
}

func TestResolve_StatusMapping(t *testing.T) {
	dir := &fakeDirectory{tenants: map[string]*tenant.Tenant{
		"gone":      nil,
		"suspended": {ID: 6, Subdomain: "suspended", Status: tenant.StatusSuspended},
		"inactive":  {ID: 7, Subdomain: "inactive", Status: tenant.StatusInactive},
	}}
	delete(dir.tenants, "gone")
	r := newTestResolver(dir, false)

	tests := []struct {
		subdomain string
		wantErr   error
	}{
		{"gone", xerrors.ErrTenantNotFound},
		{"suspended", xerrors.ErrTenantSuspended},
		{"inactive", xerrors.ErrTenantInactive},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "http://"+tt.subdomain+".cortexx.app/", nil)
		req.Host = tt.subdomain + ".cortexx.app"

		_, err := r.Resolve(context.Background(), req)
		assert.ErrorIs(t, err, tt.wantErr, tt.subdomain)
	}
}

func TestResolve_DirectoryInfraErrorFailsClosed(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("connection refused")}
	r := newTestResolver(dir, false)

	req := httptest.NewRequest("GET", "http://acme.cortexx.app/", nil)
	req.Host = "acme.cortexx.app"

	_, err := r.Resolve(context.Background(), req)
	require.Error(t, err)
	assert.NotErrorIs(t, err, xerrors.ErrTenantNotFound)
}
