// Package backend is the HTTP client for the portal's backend services.
// It depends only on the operation semantics of the contract; every
// failure is normalized to a *Error before it reaches callers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/godmath04/newsfront/internal/config"
	"github.com/godmath04/newsfront/internal/model"
)

// TokenSource supplies the bearer credential attached to authenticated
// calls. The session implements it; an empty token sends no header.
type TokenSource interface {
	Token() string
}

// Client talks to the auth and article services.
type Client struct {
	authURL    string
	articleURL string
	http       *http.Client
	tokens     TokenSource
	logger     *logrus.Logger
}

// NewClient builds a client from configuration. tokens may be nil for a
// purely public client.
func NewClient(cfg *config.BackendConfig, tokens TokenSource, logger *logrus.Logger) *Client {
	timeout := 15 * time.Second
	if cfg.TimeoutSec > 0 {
		timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}
	return &Client{
		authURL:    strings.TrimRight(cfg.AuthURL, "/"),
		articleURL: strings.TrimRight(cfg.ArticleURL, "/"),
		http:       &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
}

// Login exchanges credentials for a token. 401 here means bad
// credentials, never an expired session.
func (c *Client) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	req := model.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, c.authURL+"/auth/login", req, &resp, false); err != nil {
		return nil, asAuthError(err)
	}
	return &resp, nil
}

// GetUser fetches one account from the auth service.
func (c *Client) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	url := fmt.Sprintf("%s/auth/users/%d", c.authURL, userID)
	if err := c.do(ctx, http.MethodGet, url, nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListPublished fetches all published articles. Public, no credential.
func (c *Client) ListPublished(ctx context.Context) ([]model.Article, error) {
	var articles []model.Article
	if err := c.do(ctx, http.MethodGet, c.articleURL+"/api/v1/articles", nil, &articles, false); err != nil {
		return nil, err
	}
	return articles, nil
}

// ListByAuthor fetches the given author's articles.
func (c *Client) ListByAuthor(ctx context.Context, authorID int64) ([]model.Article, error) {
	var articles []model.Article
	url := fmt.Sprintf("%s/api/v1/articles/author/%d", c.articleURL, authorID)
	if err := c.do(ctx, http.MethodGet, url, nil, &articles, true); err != nil {
		return nil, err
	}
	return articles, nil
}

// ListPending fetches the articles waiting for review.
func (c *Client) ListPending(ctx context.Context) ([]model.Article, error) {
	var articles []model.Article
	if err := c.do(ctx, http.MethodGet, c.articleURL+"/api/v1/articles/pending", nil, &articles, true); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetArticle fetches one article.
func (c *Client) GetArticle(ctx context.Context, id int64) (*model.Article, error) {
	var article model.Article
	if err := c.do(ctx, http.MethodGet, c.articleEndpoint(id), nil, &article, true); err != nil {
		return nil, err
	}
	return &article, nil
}

// GetPublicArticle fetches one article without a credential.
func (c *Client) GetPublicArticle(ctx context.Context, id int64) (*model.Article, error) {
	var article model.Article
	if err := c.do(ctx, http.MethodGet, c.articleEndpoint(id), nil, &article, false); err != nil {
		return nil, err
	}
	return &article, nil
}

// CreateArticle creates a draft.
func (c *Client) CreateArticle(ctx context.Context, input model.ArticleInput) (*model.Article, error) {
	var article model.Article
	if err := c.do(ctx, http.MethodPost, c.articleURL+"/api/v1/articles", input, &article, true); err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle updates title and content.
func (c *Client) UpdateArticle(ctx context.Context, id int64, input model.ArticleInput) (*model.Article, error) {
	var article model.Article
	if err := c.do(ctx, http.MethodPut, c.articleEndpoint(id), input, &article, true); err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteArticle deletes a draft.
func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.articleEndpoint(id), nil, nil, true)
}

// SendToReview submits an article for review.
func (c *Client) SendToReview(ctx context.Context, id int64) (*model.Article, error) {
	var article model.Article
	url := c.articleEndpoint(id) + "/send-to-review"
	if err := c.do(ctx, http.MethodPut, url, nil, &article, true); err != nil {
		return nil, err
	}
	return &article, nil
}

// ApprovalHistory fetches an article's append-only decision history.
func (c *Client) ApprovalHistory(ctx context.Context, articleID int64) ([]model.ApprovalDecision, error) {
	var history []model.ApprovalDecision
	url := fmt.Sprintf("%s/api/v1/approvals/article/%d", c.articleURL, articleID)
	if err := c.do(ctx, http.MethodGet, url, nil, &history, true); err != nil {
		return nil, err
	}
	return history, nil
}

// ProcessApproval appends a decision and returns the backend's outcome
// report.
func (c *Client) ProcessApproval(ctx context.Context, req model.ApprovalRequest) (*model.ApprovalOutcome, error) {
	var outcome model.ApprovalOutcome
	if err := c.do(ctx, http.MethodPost, c.articleURL+"/api/v1/approvals", req, &outcome, true); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// ListUsers fetches all accounts. Admin surface.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, c.authURL+"/admin/users", nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account. Admin surface.
func (c *Client) CreateUser(ctx context.Context, input model.UserInput) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, c.authURL+"/admin/users", input, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an account. Admin surface.
func (c *Client) UpdateUser(ctx context.Context, id int64, input model.UserInput) (*model.User, error) {
	var user model.User
	url := fmt.Sprintf("%s/admin/users/%d", c.authURL, id)
	if err := c.do(ctx, http.MethodPut, url, input, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account. Admin surface.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/admin/users/%d", c.authURL, id)
	return c.do(ctx, http.MethodDelete, url, nil, nil, true)
}

func (c *Client) articleEndpoint(id int64) string {
	return fmt.Sprintf("%s/api/v1/articles/%d", c.articleURL, id)
}

// errorPayload is the error body shape the backend returns. Some
// endpoints answer with a bare string instead; handleFailure copes with
// both.
type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// do issues one request and decodes the response into out (when non-nil).
// Every failure path returns a *Error.
func (c *Client) do(ctx context.Context, method, url string, body, out any, authenticated bool) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindServer, Message: msgServer}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &Error{Kind: KindServer, Message: msgServer}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Debug("backend unreachable")
		return &Error{Kind: KindTransport, Message: msgTransport}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.handleFailure(resp, authenticated)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.WithError(err).WithField("url", url).Debug("undecodable backend response")
		return &Error{Kind: KindServer, Message: msgServer, StatusCode: resp.StatusCode}
	}
	return nil
}

// handleFailure turns an error response into the normalized form. The
// payload's message, when present, is surfaced verbatim.
func (c *Client) handleFailure(resp *http.Response, authenticated bool) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Message == "" {
		// Some services answer with a bare string body.
		if msg := strings.TrimSpace(string(raw)); msg != "" && !strings.HasPrefix(msg, "{") {
			payload.Message = msg
		}
	}
	if payload.Message == "" {
		payload.Message = msgServer
	}

	kind := KindServer
	message := payload.Message
	switch {
	case authenticated && resp.StatusCode == http.StatusUnauthorized:
		// The credential was rejected outside of login: the session is
		// gone, whatever the payload says.
		kind = KindSessionExpired
		message = msgExpired
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		kind = KindNotFound
	}

	return &Error{
		Kind:       kind,
		Message:    message,
		Code:       payload.Code,
		StatusCode: resp.StatusCode,
	}
}

// asAuthError relabels login failures so the caller can classify them
// (inactive account vs. bad credentials) without seeing HTTP details.
func asAuthError(err error) error {
	pe, ok := err.(*Error)
	if !ok {
		return err
	}
	if pe.Kind == KindTransport {
		return pe
	}
	if pe.Message == msgServer {
		pe.Message = msgAuth
	}
	pe.Kind = KindAuthentication
	return pe
}
