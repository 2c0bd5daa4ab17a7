package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/godmath04/newsfront/internal/model"
)

// Authenticator exchanges a username/password pair for a credential. The
// backend client implements this; the session never talks HTTP itself.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*model.LoginResponse, error)
}

// Session owns the authenticated-identity lifecycle: it is constructed at
// process start, initialized once from the persisted credential, and
// passed explicitly to every component that needs it. There are no
// ambient globals.
type Session struct {
	store         *CredentialStore
	authenticator Authenticator
	logger        *logrus.Logger

	now           func() time.Time
	requireExpiry bool

	token    string
	identity *Identity
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock overrides the session's time source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithRequireExpiry makes the session reject credentials that carry no
// expiry instead of treating them as non-expiring.
func WithRequireExpiry(require bool) SessionOption {
	return func(s *Session) { s.requireExpiry = require }
}

// WithLogger sets the session's logger.
func WithLogger(logger *logrus.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession builds an uninitialized session.
func NewSession(store *CredentialStore, authenticator Authenticator, opts ...SessionOption) *Session {
	s := &Session{
		store:         store,
		authenticator: authenticator,
		logger:        logrus.New(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init reads any persisted credential and populates the identity. It runs
// once, before any protected command, so "has a credential" and "is
// authenticated" never diverge: a corrupted or expired credential is
// cleared and the session comes up logged out rather than
// half-authenticated.
func (s *Session) Init() error {
	token, err := s.store.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	identity, err := DecodeIdentity(token)
	if err != nil {
		s.logger.WithError(err).Warn("discarding undecodable credential")
		return s.store.Clear()
	}
	if !s.acceptable(identity) {
		s.logger.Debug("discarding expired credential")
		return s.store.Clear()
	}

	s.token = token
	s.identity = identity
	return nil
}

// acceptable applies the expiry policy to a decoded identity.
func (s *Session) acceptable(identity *Identity) bool {
	if identity.Expired(s.now()) {
		return false
	}
	if s.requireExpiry && identity.ExpiresAt == nil {
		return false
	}
	return true
}

// Login authenticates against the backend, persists the returned
// credential and derives the identity from it. Failures come back
// normalized by the backend client; the caller classifies them for
// display.
func (s *Session) Login(ctx context.Context, username, password string) (*Identity, error) {
	resp, err := s.authenticator.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	identity, err := DecodeIdentity(resp.Token)
	if err != nil {
		return nil, fmt.Errorf("backend returned an unusable credential: %w", err)
	}
	if !s.acceptable(identity) {
		return nil, fmt.Errorf("backend returned an expired credential")
	}

	if err := s.store.Save(resp.Token); err != nil {
		return nil, err
	}
	s.token = resp.Token
	s.identity = identity

	s.logger.WithFields(logrus.Fields{
		"username": identity.Subject,
		"role":     identity.PrimaryRole(),
	}).Info("session established")
	return identity, nil
}

// Logout clears the persisted credential and all derived state. Calling
// it on a logged-out session is a no-op.
func (s *Session) Logout() error {
	s.token = ""
	s.identity = nil
	return s.store.Clear()
}

// CurrentIdentity returns the authenticated identity, or nil.
func (s *Session) CurrentIdentity() *Identity {
	return s.identity
}

// IsAuthenticated reports whether a non-expired credential is present.
func (s *Session) IsAuthenticated() bool {
	return s.identity != nil && !s.identity.Expired(s.now())
}

// HasRole reports role membership; false when nobody is logged in.
func (s *Session) HasRole(name string) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return s.identity.HasRole(name)
}

// HasAnyRole reports whether any of names is held; false when nobody is
// logged in and false for an empty list.
func (s *Session) HasAnyRole(names []string) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return s.identity.HasAnyRole(names)
}

// Token returns the raw bearer credential for transport use, or "".
func (s *Session) Token() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.token
}
