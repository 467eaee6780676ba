package admission

import (
	"context"
	"errors"
	"testing"

	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsageStore struct {
	limit      int64
	used       int64
	getErr     error
	increments []int64
	incErr     error
}

func (s *fakeUsageStore) GetUsage(_ context.Context, _ int64, _ string) (int64, int64, error) {
	if s.getErr != nil {
		return 0, 0, s.getErr
	}
	return s.limit, s.used, nil
}

func (s *fakeUsageStore) Increment(_ context.Context, _ int64, _ string, amount int64) error {
	if s.incErr != nil {
		return s.incErr
	}
	s.increments = append(s.increments, amount)
	return nil
}

func TestQuotaCheck_UnderLimitAllowed(t *testing.T) {
	store := &fakeUsageStore{limit: 100, used: 40}
	q := NewQuota(store, nil, zap.NewNop())

	d, err := q.Check(context.Background(), 1, "messages", 10, FailClosed)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(100), d.Limit)
	assert.Equal(t, int64(40), d.Used)
	assert.Equal(t, int64(60), d.Remaining)
}

func TestQuotaCheck_ExactFitAllowed(t *testing.T) {
	store := &fakeUsageStore{limit: 100, used: 90}
	q := NewQuota(store, nil, zap.NewNop())

	d, err := q.Check(context.Background(), 1, "messages", 10, FailClosed)
	require.NoError(t, err)
	assert.True(t, d.Allowed, "used+amount == limit must be allowed")
}

func TestQuotaCheck_OverLimitDenied(t *testing.T) {
	store := &fakeUsageStore{limit: 100, used: 95}
	q := NewQuota(store, nil, zap.NewNop())

	d, err := q.Check(context.Background(), 1, "messages", 10, FailClosed)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(5), d.Remaining)
}

func TestQuotaCheck_NoRowFallsBackToDefaults(t *testing.T) {
	store := &fakeUsageStore{getErr: xerrors.ErrNotFound}
	q := NewQuota(store, map[string]int64{"campaigns": 50}, zap.NewNop())

	d, err := q.Check(context.Background(), 1, "campaigns", 1, FailClosed)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(50), d.Limit)
	assert.Equal(t, int64(0), d.Used)
}

func TestQuotaCheck_StoreErrorFailOpen(t *testing.T) {
	store := &fakeUsageStore{getErr: errors.New("connection refused")}
	q := NewQuota(store, nil, zap.NewNop())

	d, err := q.Check(context.Background(), 1, "messages", 1, FailOpen)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.True(t, d.Degraded)
}

func TestQuotaCheck_StoreErrorFailClosed(t *testing.T) {
	store := &fakeUsageStore{getErr: errors.New("connection refused")}
	q := NewQuota(store, nil, zap.NewNop())

	_, err := q.Check(context.Background(), 1, "messages", 1, FailClosed)
	require.Error(t, err)
}

func TestQuotaCheck_ZeroAmountNormalizedToOne(t *testing.T) {
	store := &fakeUsageStore{limit: 10, used: 10}
	q := NewQuota(store, nil, zap.NewNop())

	d, err := q.Check(context.Background(), 1, "messages", 0, FailClosed)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(1), d.Requested)
}

func TestQuotaCommit_ChargesStore(t *testing.T) {
	store := &fakeUsageStore{}
	q := NewQuota(store, nil, zap.NewNop())

	q.Commit(context.Background(), 1, "messages", 3)
	assert.Equal(t, []int64{3}, store.increments)
}

func TestQuotaCommit_ErrorSwallowed(t *testing.T) {
	store := &fakeUsageStore{incErr: errors.New("connection refused")}
	q := NewQuota(store, nil, zap.NewNop())

	// Must not panic or surface; the guarded work already happened.
	q.Commit(context.Background(), 1, "messages", 1)
	assert.Empty(t, store.increments)
}
