package rls

import (
	"context"
	"errors"
	"testing"

	"github.com/HeltonFraga01/cortexx-sub008/internal/repository/postgres"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTenantLookup struct {
	byUser    int64
	byAccount int64
	byAgent   int64
}

func (l *fakeTenantLookup) TenantByUser(context.Context, int64) (int64, error) {
	if l.byUser == 0 {
		return 0, errors.New("no row")
	}
	return l.byUser, nil
}

func (l *fakeTenantLookup) TenantByAccountOwner(context.Context, int64) (int64, error) {
	if l.byAccount == 0 {
		return 0, errors.New("no row")
	}
	return l.byAccount, nil
}

func (l *fakeTenantLookup) TenantByAgent(context.Context, int64) (int64, error) {
	if l.byAgent == 0 {
		return 0, errors.New("no row")
	}
	return l.byAgent, nil
}

func newMockPropagator(t *testing.T, lookup TenantLookup) (*Propagator, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	// Session variables are applied from a map, so the statement order is
	// not fixed.
	mock.MatchExpectationsInOrder(false)

	return NewPropagator(postgres.NewDB(mock), lookup, zap.NewNop()), mock
}

func expectSetConfig(mock pgxmock.PgxPoolIface, name, value string) {
	mock.ExpectExec(`SELECT set_config($1, $2, true)`).
		WithArgs(name, value).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
}

func TestBegin_TenantScopedSession(t *testing.T) {
	p, mock := newMockPropagator(t, &fakeTenantLookup{})

	mock.ExpectBegin()
	expectSetConfig(mock, "app.tenant_id", "5")
	expectSetConfig(mock, "app.user_role", "agent")
	expectSetConfig(mock, "app.user_id", "42")

	tx, err := p.Begin(context.Background(), Context{TenantID: 5, UserRole: "agent", UserID: 42})
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBegin_SuperadminOmitsTenant(t *testing.T) {
	p, mock := newMockPropagator(t, &fakeTenantLookup{})

	mock.ExpectBegin()
	expectSetConfig(mock, "app.user_role", "superadmin")
	expectSetConfig(mock, "app.user_id", "1")

	tx, err := p.Begin(context.Background(), Context{UserRole: "superadmin", UserID: 1})
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBegin_NoTenantAndNotSuperadminFails(t *testing.T) {
	p, mock := newMockPropagator(t, &fakeTenantLookup{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := p.Begin(context.Background(), Context{UserRole: "agent", UserID: 42})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBegin_SetConfigFailureRollsBack(t *testing.T) {
	p, mock := newMockPropagator(t, &fakeTenantLookup{})

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config($1, $2, true)`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := p.Begin(context.Background(), Context{TenantID: 5, UserRole: "agent", UserID: 42})
	require.Error(t, err)
}

func TestResolveTenantFallback_Order(t *testing.T) {
	p, _ := newMockPropagator(t, &fakeTenantLookup{byAccount: 7, byAgent: 9})
	assert.Equal(t, int64(7), p.ResolveTenantFallback(context.Background(), 42),
		"account path answers before agent path")

	p, _ = newMockPropagator(t, &fakeTenantLookup{byUser: 3, byAccount: 7})
	assert.Equal(t, int64(3), p.ResolveTenantFallback(context.Background(), 42))

	p, _ = newMockPropagator(t, &fakeTenantLookup{})
	assert.Equal(t, int64(0), p.ResolveTenantFallback(context.Background(), 42))

	assert.Equal(t, int64(0), p.ResolveTenantFallback(context.Background(), 0),
		"zero user id short-circuits")
}
