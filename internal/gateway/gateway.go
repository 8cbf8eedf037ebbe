// Package gateway performs outbound calls to the backend API. It attaches
// the bearer credential of the current session, treats a 401 as the end of
// that session, and turns every response into a success or a failure.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/routes"
)

// Session is the session state the gateway reads credentials from and
// invalidates on a 401
type Session interface {
	// Credential returns the held credential, or nil when there is none
	Credential(ctx context.Context) (*model.Credential, error)
	Invalidate(ctx context.Context) error
}

// Navigator moves the user to another route
type Navigator interface {
	Navigate(route string)
}

// Config holds gateway settings
type Config struct {
	// BaseURL is prefixed to every request path
	BaseURL string
	// Timeout applies when HTTPClient is nil
	Timeout time.Duration
	// HTTPClient is optional
	HTTPClient *http.Client
	// LoginRoute is where the user is sent on a 401 (default routes.Login)
	LoginRoute string
	Logger     *slog.Logger
}

// DefaultConfig returns defaults for a local backend
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:3000",
		Timeout:    30 * time.Second,
		LoginRoute: routes.Login,
	}
}

// Options are the optional parts of a request
type Options struct {
	// Body is sent as-is when it is []byte, json.RawMessage or string, and
	// JSON-encoded otherwise
	Body   any
	Header http.Header
	Query  url.Values
}

// Gateway sends requests to the backend. It is safe for concurrent use;
// concurrent requests are independent and unordered.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	loginRoute string
	logger     *slog.Logger

	session   Session
	navigator Navigator
}

// New creates a Gateway bound to a session and navigator
func New(cfg Config, session Session, navigator Navigator) *Gateway {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultConfig().Timeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	loginRoute := cfg.LoginRoute
	if loginRoute == "" {
		loginRoute = routes.Login
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if session == nil {
		session = NoSession{}
	}
	if navigator == nil {
		navigator = NopNavigator{}
	}

	return &Gateway{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		loginRoute: loginRoute,
		logger:     logger,
		session:    session,
		navigator:  navigator,
	}
}

// With returns a copy of the gateway bound to another session and navigator,
// sharing the underlying HTTP client
func (g *Gateway) With(session Session, navigator Navigator) *Gateway {
	c := *g
	if session != nil {
		c.session = session
	}
	if navigator != nil {
		c.navigator = navigator
	}
	return &c
}

// BaseURL returns the configured backend base URL
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Send performs one request and returns the raw success payload.
//
// A transport failure is returned wrapped and is never retried. A 401
// invalidates the session and navigates to the login route before the body
// is looked at; see Classify for how the body decides the outcome otherwise.
func (g *Gateway) Send(ctx context.Context, path, method string, opts *Options, requiresAuth bool) (json.RawMessage, error) {
	if opts == nil {
		opts = &Options{}
	}

	req, err := g.newRequest(ctx, path, method, opts, requiresAuth)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	g.logger.Debug("backend request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		g.expire(ctx, path)
	}

	if err := Classify(resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	return json.RawMessage(bytes.TrimSpace(respBody)), nil
}

func (g *Gateway) newRequest(ctx context.Context, path, method string, opts *Options, requiresAuth bool) (*http.Request, error) {
	target := g.baseURL + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	bodyReader, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range opts.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if requiresAuth {
		req.Header.Set("Authorization", "Bearer "+g.token(ctx))
	}

	return req, nil
}

// token returns the held bearer token, or "" when no credential is held.
// A missing credential never blocks the request.
func (g *Gateway) token(ctx context.Context) string {
	cred, err := g.session.Credential(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrSessionNotFound) {
			g.logger.Warn("could not read session credential", slog.String("error", err.Error()))
		}
		return ""
	}
	if cred == nil {
		return ""
	}
	return cred.Token
}

func (g *Gateway) expire(ctx context.Context, path string) {
	g.logger.Warn("backend rejected credential", slog.String("path", path))

	if err := g.session.Invalidate(ctx); err != nil {
		g.logger.Error("failed to invalidate session", slog.String("error", err.Error()))
	}
	g.navigator.Navigate(g.loginRoute)
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// Do sends an authenticated request and decodes the success payload into T
func Do[T any](ctx context.Context, g *Gateway, path, method string, opts *Options) (T, error) {
	return decode[T](g.Send(ctx, path, method, opts, true))
}

// DoPublic sends a request without a bearer credential and decodes the
// success payload into T
func DoPublic[T any](ctx context.Context, g *Gateway, path, method string, opts *Options) (T, error) {
	return decode[T](g.Send(ctx, path, method, opts, false))
}

func decode[T any](raw json.RawMessage, err error) (T, error) {
	var result T
	if err != nil {
		return result, err
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return result, nil
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("failed to parse response: %w", err)
	}
	return result, nil
}
