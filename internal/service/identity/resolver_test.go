package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HeltonFraga01/cortexx-sub008/internal/domain/principal"
	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClient struct {
	identity *TokenIdentity
	err      error
}

func (c *fakeClient) ValidateBearerToken(context.Context, string) (*TokenIdentity, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.identity, nil
}

type fakeSessionStore struct {
	payloads map[string][]byte
	getErr   error
}

func (s *fakeSessionStore) Get(_ context.Context, id string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	payload, ok := s.payloads[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return payload, nil
}

func (s *fakeSessionStore) Set(_ context.Context, id string, payload []byte, _ time.Duration) error {
	s.payloads[id] = payload
	return nil
}

func (s *fakeSessionStore) Destroy(_ context.Context, id string) error {
	delete(s.payloads, id)
	return nil
}

func newResolverWithStore(t *testing.T, client Client, store session.Store) *Resolver {
	t.Helper()
	validator := session.NewValidator(store, time.Hour, zap.NewNop())
	return NewResolver(client, validator, zap.NewNop())
}

func storeWithSession(t *testing.T, id string, data *session.Data) *fakeSessionStore {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	return &fakeSessionStore{payloads: map[string][]byte{id: payload}}
}

func TestResolve_NoCredential(t *testing.T) {
	r := newResolverWithStore(t, &fakeClient{}, &fakeSessionStore{payloads: map[string][]byte{}})

	_, err := r.Resolve(context.Background(), Credential{Kind: CredentialNone}, session.RequestMeta{})
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestResolve_ValidBearer(t *testing.T) {
	client := &fakeClient{identity: &TokenIdentity{UserID: 42, Role: "tenant_admin", TenantID: 5}}
	r := newResolverWithStore(t, client, &fakeSessionStore{payloads: map[string][]byte{}})

	res, err := r.Resolve(context.Background(), Credential{Kind: CredentialBearer, Token: "tok"}, session.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.Principal.ID)
	assert.Equal(t, principal.KindTenantAdmin, res.Principal.Kind)
	assert.Nil(t, res.Session, "bearer path carries no session")
}

func TestResolve_RejectedBearerNeverFallsThrough(t *testing.T) {
	client := &fakeClient{err: xerrors.Wrap(xerrors.ErrTokenRejected, "signature invalid")}
	store := storeWithSession(t, "sid", &session.Data{UserID: 42, Role: "agent", LoginAt: time.Now()})
	r := newResolverWithStore(t, client, store)

	// Even with a perfectly valid session cookie alongside, a rejected
	// bearer token is a rejection, not a degradation.
	cred := Credential{Kind: CredentialBearer, Token: "bad", SessionID: "sid"}
	_, err := r.Resolve(context.Background(), cred, session.RequestMeta{})
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestResolve_BearerInfraErrorDegradesToSession(t *testing.T) {
	client := &fakeClient{err: errors.New("identity service timeout")}
	store := storeWithSession(t, "sid", &session.Data{UserID: 42, Role: "agent", TenantID: 5, LoginAt: time.Now()})
	r := newResolverWithStore(t, client, store)

	cred := Credential{Kind: CredentialBearer, Token: "tok", SessionID: "sid"}
	res, err := r.Resolve(context.Background(), cred, session.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.Principal.ID)
	require.NotNil(t, res.Session)
	assert.Equal(t, int64(5), res.Principal.TenantID)
}

func TestResolve_BearerInfraErrorWithoutSession(t *testing.T) {
	client := &fakeClient{err: errors.New("identity service timeout")}
	r := newResolverWithStore(t, client, &fakeSessionStore{payloads: map[string][]byte{}})

	cred := Credential{Kind: CredentialBearer, Token: "tok"}
	_, err := r.Resolve(context.Background(), cred, session.RequestMeta{})
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestResolve_SessionCorrupted(t *testing.T) {
	store := storeWithSession(t, "sid", &session.Data{UserID: 42}) // missing role, login_at
	r := newResolverWithStore(t, &fakeClient{}, store)

	cred := Credential{Kind: CredentialSession, SessionID: "sid"}
	_, err := r.Resolve(context.Background(), cred, session.RequestMeta{})
	assert.ErrorIs(t, err, xerrors.ErrSessionCorrupted)
	assert.Empty(t, store.payloads, "corrupted record purged")
}

func TestResolve_SessionStoreInfraErrorFailsClosed(t *testing.T) {
	store := &fakeSessionStore{getErr: errors.New("connection refused")}
	r := newResolverWithStore(t, &fakeClient{}, store)

	cred := Credential{Kind: CredentialSession, SessionID: "sid"}
	_, err := r.Resolve(context.Background(), cred, session.RequestMeta{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, xerrors.ErrUnauthorized)
	assert.NotErrorIs(t, err, xerrors.ErrSessionCorrupted)
}

func TestResolve_EmptyRoleCarriesNoPrivilege(t *testing.T) {
	client := &fakeClient{identity: &TokenIdentity{UserID: 42}}
	r := newResolverWithStore(t, client, &fakeSessionStore{payloads: map[string][]byte{}})

	res, err := r.Resolve(context.Background(), Credential{Kind: CredentialBearer, Token: "tok"}, session.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, principal.KindEndUser, res.Principal.Kind)
	assert.False(t, res.Principal.HasRole(""), "empty role never matches a role check")
}

func TestExtractCredential_None(t *testing.T) {
	req := httptest.NewRequest("GET", "http://x/", nil)
	cred := ExtractCredential(req, "cortexx_session")
	assert.Equal(t, CredentialNone, cred.Kind)
}

func TestExtractCredential_BearerTakesPrecedence(t *testing.T) {
	req := httptest.NewRequest("GET", "http://x/", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	req.Header.Set("Cookie", "cortexx_session=sid456")

	cred := ExtractCredential(req, "cortexx_session")
	assert.Equal(t, CredentialBearer, cred.Kind)
	assert.Equal(t, "tok123", cred.Token)
	assert.Equal(t, "sid456", cred.SessionID, "session id still captured for the degraded path")
}

func TestExtractCredential_SessionOnly(t *testing.T) {
	req := httptest.NewRequest("GET", "http://x/", nil)
	req.Header.Set("Cookie", "cortexx_session=sid456")

	cred := ExtractCredential(req, "cortexx_session")
	assert.Equal(t, CredentialSession, cred.Kind)
	assert.Equal(t, "sid456", cred.SessionID)
}

func TestExtractCredential_MalformedAuthorizationIgnored(t *testing.T) {
	req := httptest.NewRequest("GET", "http://x/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	cred := ExtractCredential(req, "cortexx_session")
	assert.Equal(t, CredentialNone, cred.Kind)
}
