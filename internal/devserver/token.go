package devserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is how long an emulator-issued credential lives.
const tokenTTL = 8 * time.Hour

// TokenIssuer mints and verifies the emulator's HS256 credentials. The
// payload mirrors the production token: subject, numeric userId and a
// roles array — emitted as objects keyed "roleName", the shape the
// production auth service uses.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer creates an issuer with the given signing secret.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue mints a credential for an authenticated user.
func (i *TokenIssuer) Issue(user *UserRecord) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    user.Username,
		"userId": user.ID,
		"roles":  []map[string]string{{"roleName": user.Role}},
		"iat":    now.Unix(),
		"exp":    now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// tokenClaims is what the verification side reads back.
type tokenClaims struct {
	UserID int64 `json:"userId"`
	Roles  []struct {
		RoleName string `json:"roleName"`
	} `json:"roles"`
	jwt.RegisteredClaims
}

// Verify checks signature and expiry and returns the embedded identity.
func (i *TokenIssuer) Verify(tokenString string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
