package devserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godmath04/newsfront/internal/auth"
	"github.com/godmath04/newsfront/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	user := &UserRecord{ID: 42, Username: "epaez", Role: model.RoleEditor}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "epaez", claims.Subject)
	assert.Equal(t, int64(42), claims.UserID)
	require.Len(t, claims.Roles, 1)
	assert.Equal(t, model.RoleEditor, claims.Roles[0].RoleName)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewTokenIssuer("secret").Issue(&UserRecord{ID: 1, Username: "u", Role: model.RoleReporter})
	require.NoError(t, err)

	_, err = NewTokenIssuer("other").Verify(token)
	require.Error(t, err)
}

// The client decodes identities from the token payload without
// verification; an issued token must yield the same identity the
// verifying side sees.
func TestIssuedTokenDecodableByClient(t *testing.T) {
	token, err := NewTokenIssuer("secret").Issue(&UserRecord{ID: 7, Username: "lruiz", Role: model.RoleLegalReviewer})
	require.NoError(t, err)

	identity, err := auth.DecodeIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, "lruiz", identity.Subject)
	assert.Equal(t, int64(7), identity.UserID)
	assert.Equal(t, model.RoleLegalReviewer, identity.PrimaryRole())
	require.NotNil(t, identity.ExpiresAt)
}
