package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedCredential reports a credential whose payload could not be
// decoded. The decoder never returns a partial identity alongside it.
var ErrMalformedCredential = errors.New("malformed credential")

// Role is a role resolved to its canonical name. The credential may carry
// roles as bare strings or as objects keyed "roleName" or "authority";
// that variance is resolved exactly once, here, and never branched on
// again downstream.
type Role struct {
	Name string
}

// UnmarshalJSON accepts both role representations.
func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.Name = name
		return nil
	}

	var obj struct {
		RoleName  string `json:"roleName"`
		Authority string `json:"authority"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unsupported role representation: %s", data)
	}
	if obj.RoleName != "" {
		r.Name = obj.RoleName
	} else {
		r.Name = obj.Authority
	}
	return nil
}

// Identity is what the client knows about the authenticated user. It is
// derived from the credential on demand, never stored.
type Identity struct {
	Subject   string
	UserID    int64
	Roles     []Role
	ExpiresAt *time.Time
}

// PrimaryRole returns the first role's name, used for dashboard
// personalization. Empty when the identity carries no roles; that is not
// an error. Authorization never relies on this, only on full membership.
func (id *Identity) PrimaryRole() string {
	if id == nil || len(id.Roles) == 0 {
		return ""
	}
	return id.Roles[0].Name
}

// HasRole reports membership of name in the whole role set.
func (id *Identity) HasRole(name string) bool {
	if id == nil {
		return false
	}
	for _, r := range id.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the role set intersects names. An empty
// names list yields false.
func (id *Identity) HasAnyRole(names []string) bool {
	for _, n := range names {
		if id.HasRole(n) {
			return true
		}
	}
	return false
}

// Expired reports whether the identity's credential has expired at the
// given instant. A credential without an expiry never expires; see
// Session's RequireExpiry option for the stricter policy.
func (id *Identity) Expired(now time.Time) bool {
	return id.ExpiresAt != nil && id.ExpiresAt.Before(now)
}

// identityClaims is the self-describing payload embedded in the token.
type identityClaims struct {
	UserID int64  `json:"userId"`
	Roles  []Role `json:"roles"`
	jwt.RegisteredClaims
}

// DecodeIdentity parses the credential's payload segment into an Identity.
//
// Only the middle segment of the three-part token is decoded; the
// signature is NOT verified here. The backend verifies it on every
// authenticated request — the client decodes purely for display and
// authorization hinting, never as a security boundary. The parser handles
// the URL-safe base64 alphabet this token format uses, and the payload is
// plain UTF-8 JSON, so non-ASCII role names and usernames survive intact.
func DecodeIdentity(credential string) (*Identity, error) {
	claims := &identityClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	identity := &Identity{
		Subject: claims.Subject,
		UserID:  claims.UserID,
		Roles:   claims.Roles,
	}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		identity.ExpiresAt = &t
	}
	return identity, nil
}
