package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvedRole_MetadataWins(t *testing.T) {
	c := &Claims{
		Role:        "end_user",
		AppMetadata: map[string]interface{}{"role": "tenant_admin"},
	}
	assert.Equal(t, "tenant_admin", c.ResolvedRole())
}

func TestResolvedRole_FallsBackToTopLevel(t *testing.T) {
	c := &Claims{Role: "agent"}
	assert.Equal(t, "agent", c.ResolvedRole())

	c = &Claims{Role: "agent", AppMetadata: map[string]interface{}{"role": ""}}
	assert.Equal(t, "agent", c.ResolvedRole(), "empty metadata role does not shadow")
}

func TestResolvedRole_NoneResolves(t *testing.T) {
	c := &Claims{}
	assert.Equal(t, "", c.ResolvedRole())
}

func TestResolvedTenantID_MetadataWins(t *testing.T) {
	// JSON decoding hands metadata numbers over as float64.
	c := &Claims{
		TenantID:    7,
		AppMetadata: map[string]interface{}{"tenant_id": float64(12)},
	}
	assert.Equal(t, int64(12), c.ResolvedTenantID())
}

func TestResolvedTenantID_ZeroMetadataDoesNotShadow(t *testing.T) {
	c := &Claims{
		TenantID:    7,
		AppMetadata: map[string]interface{}{"tenant_id": float64(0)},
	}
	assert.Equal(t, int64(7), c.ResolvedTenantID())
}

func TestResolvedTenantID_NonNumericMetadataIgnored(t *testing.T) {
	c := &Claims{
		TenantID:    7,
		AppMetadata: map[string]interface{}{"tenant_id": "twelve"},
	}
	assert.Equal(t, int64(7), c.ResolvedTenantID())
}

func TestVerifyAudience(t *testing.T) {
	c := &Claims{}
	c.Audience = []string{"cortexx-api", "cortexx-admin"}

	assert.True(t, c.VerifyAudience("cortexx-api", true))
	assert.False(t, c.VerifyAudience("other", true))

	empty := &Claims{}
	assert.True(t, empty.VerifyAudience("cortexx-api", false))
	assert.False(t, empty.VerifyAudience("cortexx-api", true))
}
