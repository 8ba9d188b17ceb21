// Package client provides the REST collaborator used by the CLI and the
// application state container. It speaks the backend's /api/v1 surface:
// bearer-token auth, paginated lists, and the {"error":{code,message}}
// error shape.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"bucketeer/internal/logger"
	"bucketeer/internal/models"
)

// defaultTimeout bounds every remote call; a hung request is a failure,
// not a wait.
const defaultTimeout = 10 * time.Second

// Client is a thin HTTP client for the Bucketeer API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	token          string
	onUnauthorized func()
	log            *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithUnauthorizedHandler registers the observer invoked whenever the
// server answers 401. The session owner injects it here instead of
// mutating a process-wide callback.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a Client for the given base URL (e.g.
// "http://localhost:8080/api/v1").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger.Named("client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after Login.
func (c *Client) SetToken(token string) { c.token = token }

// APIError is a server-reported failure. StatusCode distinguishes 401
// (session teardown) from ordinary errors; Op names the intent of the
// call that failed.
type APIError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unauthorized reports whether the failure was an auth rejection.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// errorEnvelope mirrors the server's error response shape.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do performs one request. op names the call's intent for error
// messages ("create bucket"). body, when non-nil, is JSON-encoded; out,
// when non-nil, receives the decoded success response.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Code:       "UNKNOWN",
			Message:    http.StatusText(resp.StatusCode),
		}
		var envelope errorEnvelope
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.log.Warnw("request unauthorized", "op", op)
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

// Session is the result of a successful register or login.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates an account and adopts the returned token.
func (c *Client) Register(ctx context.Context, email, password, name string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password, "name": name}
	var session Session
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", payload, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Login authenticates and adopts the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", payload, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}
