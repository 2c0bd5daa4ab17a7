package auth_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godmath04/newsfront/internal/auth"
	"github.com/godmath04/newsfront/internal/model"
)

// fakeAuthenticator hands back a canned login response or error.
type fakeAuthenticator struct {
	resp *model.LoginResponse
	err  error
}

func (f *fakeAuthenticator) Login(_ context.Context, _, _ string) (*model.LoginResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newStore(t *testing.T) *auth.CredentialStore {
	t.Helper()
	return auth.NewCredentialStore(filepath.Join(t.TempDir(), "credentials"))
}

func reporterToken(t *testing.T) string {
	return signedToken(t, jwt.MapClaims{
		"sub":    "mgarcia",
		"userId": 7,
		"roles":  []string{"Reportero"},
	})
}

func TestSession_LoginPersistsCredential(t *testing.T) {
	store := newStore(t)
	token := reporterToken(t)
	session := auth.NewSession(store, &fakeAuthenticator{resp: &model.LoginResponse{
		Token:    token,
		UserID:   7,
		Username: "mgarcia",
	}})

	identity, err := session.Login(context.Background(), "mgarcia", "secreta")
	require.NoError(t, err)

	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "Reportero", identity.PrimaryRole())
	assert.Equal(t, token, session.Token())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, token, persisted)
}

func TestSession_InitFromPersistedCredential(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(reporterToken(t)))

	session := auth.NewSession(store, nil)
	require.NoError(t, session.Init())

	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, int64(7), session.CurrentIdentity().UserID)
	assert.True(t, session.HasRole("Reportero"))
}

func TestSession_InitClearsCorruptCredential(t *testing.T) {
	// A credential that does not decode must not leave the session
	// half-authenticated; it is dropped and the store wiped.
	store := newStore(t)
	require.NoError(t, store.Save("no-es-un-token"))

	session := auth.NewSession(store, nil)
	require.NoError(t, session.Init())

	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.CurrentIdentity())
	assert.Equal(t, "", session.Token())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "", persisted)
}

func TestSession_InitClearsExpiredCredential(t *testing.T) {
	store := newStore(t)
	expired := signedToken(t, jwt.MapClaims{
		"sub":    "mgarcia",
		"userId": 7,
		"roles":  []string{"Reportero"},
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, store.Save(expired))

	session := auth.NewSession(store, nil)
	require.NoError(t, session.Init())

	assert.False(t, session.IsAuthenticated())
	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "", persisted)
}

func TestSession_MissingExpiryPolicies(t *testing.T) {
	// Default policy: a credential without exp never expires.
	store := newStore(t)
	require.NoError(t, store.Save(reporterToken(t)))

	lax := auth.NewSession(store, nil)
	require.NoError(t, lax.Init())
	assert.True(t, lax.IsAuthenticated())

	// Strict policy rejects it.
	require.NoError(t, store.Save(reporterToken(t)))
	strict := auth.NewSession(store, nil, auth.WithRequireExpiry(true))
	require.NoError(t, strict.Init())
	assert.False(t, strict.IsAuthenticated())
}

func TestSession_ExpiryCrossedWhileRunning(t *testing.T) {
	now := time.Now()
	store := newStore(t)
	token := signedToken(t, jwt.MapClaims{
		"sub":    "mgarcia",
		"userId": 7,
		"roles":  []string{"Reportero"},
		"exp":    now.Add(30 * time.Minute).Unix(),
	})
	require.NoError(t, store.Save(token))

	clock := now
	session := auth.NewSession(store, nil, auth.WithClock(func() time.Time { return clock }))
	require.NoError(t, session.Init())
	assert.True(t, session.IsAuthenticated())

	clock = now.Add(time.Hour)
	assert.False(t, session.IsAuthenticated())
	assert.False(t, session.HasRole("Reportero"))
	assert.Equal(t, "", session.Token())
}

func TestSession_LogoutIsIdempotent(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(reporterToken(t)))

	session := auth.NewSession(store, nil)
	require.NoError(t, session.Init())
	require.True(t, session.IsAuthenticated())

	require.NoError(t, session.Logout())
	assert.False(t, session.IsAuthenticated())
	require.NoError(t, session.Logout())

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestSession_RoleQueriesWithoutIdentity(t *testing.T) {
	session := auth.NewSession(newStore(t), nil)
	require.NoError(t, session.Init())

	assert.False(t, session.HasRole("Editor"))
	assert.False(t, session.HasAnyRole([]string{"Editor", "Revisor Legal"}))
	assert.False(t, session.HasAnyRole(nil))
}
