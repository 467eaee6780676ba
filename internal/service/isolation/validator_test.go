package isolation

import (
	"context"
	"errors"
	"testing"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeResourceStore struct {
	owners map[int64]int64
	err    error
	owned  []int64
}

func (s *fakeResourceStore) OwnerTenant(_ context.Context, _ string, id int64) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	owner, ok := s.owners[id]
	if !ok {
		return 0, xerrors.ErrNotFound
	}
	return owner, nil
}

func (s *fakeResourceStore) FilterOwnedUsers(_ context.Context, _ int64, _ []int64) ([]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.owned, nil
}

func TestEnsure_SameTenantAllowed(t *testing.T) {
	store := &fakeResourceStore{owners: map[int64]int64{10: 5}}
	v := NewValidator(store, zap.NewNop())

	err := v.Ensure(context.Background(), "campaigns", 10, 5, Actor{UserID: 1})
	assert.NoError(t, err)
}

func TestEnsure_CrossTenantDeniedWithOneAuditEntry(t *testing.T) {
	store := &fakeResourceStore{owners: map[int64]int64{10: 99}}
	core, logs := observer.New(zap.WarnLevel)
	v := NewValidator(store, zap.New(core))

	actor := Actor{UserID: 1, Path: "/api/v1/campaigns/10", IP: "10.0.0.1"}
	err := v.Ensure(context.Background(), "campaigns", 10, 5, actor)
	require.ErrorIs(t, err, xerrors.ErrCrossTenant)

	entries := logs.FilterMessage("security_violation").All()
	require.Len(t, entries, 1, "exactly one audit entry per violation")
	fields := entries[0].ContextMap()
	assert.Equal(t, "cross_tenant_access", fields["kind"])
	assert.Equal(t, int64(5), fields["request_tenant_id"])
	assert.Equal(t, int64(99), fields["resource_tenant_id"])
	assert.Equal(t, "campaigns", fields["table"])
	assert.Equal(t, int64(10), fields["resource_id"])
	assert.Equal(t, int64(1), fields["actor_user_id"])
	assert.Equal(t, "/api/v1/campaigns/10", fields["path"])
}

func TestEnsure_MissingResourceIsNotFound(t *testing.T) {
	store := &fakeResourceStore{owners: map[int64]int64{}}
	core, logs := observer.New(zap.WarnLevel)
	v := NewValidator(store, zap.New(core))

	err := v.Ensure(context.Background(), "campaigns", 10, 5, Actor{})
	require.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.Empty(t, logs.All(), "a miss is not a security violation")
}

func TestEnsure_StoreErrorSurfaces(t *testing.T) {
	store := &fakeResourceStore{err: errors.New("connection refused")}
	v := NewValidator(store, zap.NewNop())

	err := v.Ensure(context.Background(), "campaigns", 10, 5, Actor{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, xerrors.ErrCrossTenant)
}

func TestFilterOwnedUsers_PassesThrough(t *testing.T) {
	store := &fakeResourceStore{owned: []int64{1, 3}}
	v := NewValidator(store, zap.NewNop())

	owned, err := v.FilterOwnedUsers(context.Background(), 5, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, owned)
}
