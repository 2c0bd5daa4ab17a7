// Package container wires the client's dependency graph: configuration,
// logger, credential store, session and backend client are constructed
// here once and handed to the commands — no component reaches for
// ambient globals.
package container

import (
	"github.com/sirupsen/logrus"

	"github.com/godmath04/newsfront/internal/auth"
	"github.com/godmath04/newsfront/internal/backend"
	"github.com/godmath04/newsfront/internal/config"
	"github.com/godmath04/newsfront/internal/logging"
)

// Container holds the client's wired components.
type Container struct {
	cfg     *config.Config
	logger  *logrus.Logger
	store   *auth.CredentialStore
	session *auth.Session
	client  *backend.Client
}

// sessionTokens defers Token() to the session so the client and the
// session can reference each other without a construction cycle.
type sessionTokens struct {
	c *Container
}

func (t *sessionTokens) Token() string {
	if t.c.session == nil {
		return ""
	}
	return t.c.session.Token()
}

// New builds the dependency graph and initializes the session from any
// persisted credential.
func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		cfg:    cfg,
		logger: logging.New(&cfg.Log),
		store:  auth.NewCredentialStore(cfg.Auth.CredentialsFile),
	}
	c.client = backend.NewClient(&cfg.Backend, &sessionTokens{c}, c.logger)
	c.session = auth.NewSession(c.store, c.client,
		auth.WithLogger(c.logger),
		auth.WithRequireExpiry(cfg.Auth.RequireExpiry),
	)

	if err := c.session.Init(); err != nil {
		return nil, err
	}
	return c, nil
}

// Config returns the loaded configuration.
func (c *Container) Config() *config.Config { return c.cfg }

// Logger returns the shared logger.
func (c *Container) Logger() *logrus.Logger { return c.logger }

// Session returns the session manager.
func (c *Container) Session() *auth.Session { return c.session }

// Client returns the backend client.
func (c *Container) Client() *backend.Client { return c.client }
