package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/routes"
	"github.com/mcoot/scorekeeper/internal/testutil"
)

// eventLog records side effects in order across the session and navigator
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

type trackingSession struct {
	*gateway.MemorySession
	log *eventLog
}

func (s trackingSession) Invalidate(ctx context.Context) error {
	s.log.add("invalidate")
	return s.MemorySession.Invalidate(ctx)
}

type trackingNavigator struct {
	log *eventLog
}

func (n trackingNavigator) Navigate(route string) {
	n.log.add("navigate " + route)
}

type captured struct {
	method string
	path   string
	header http.Header
	body   string
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		c.method = r.Method
		c.path = r.URL.RequestURI()
		c.header = r.Header.Clone()
		c.body = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func newGateway(baseURL string, session gateway.Session, nav gateway.Navigator) *gateway.Gateway {
	cfg := gateway.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Logger = testutil.NopLogger()
	return gateway.New(cfg, session, nav)
}

func TestSendAttachesBearerCredential(t *testing.T) {
	srv, req := newServer(t, http.StatusOK, `{"id":1}`)
	session := gateway.NewMemorySession(&model.Credential{Token: "tok-123"})
	g := newGateway(srv.URL+"/", session, nil)

	raw, err := g.Send(t.Context(), "/users/1", http.MethodGet, nil, true)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":1}`, string(raw))
	assert.Equal(t, "/users/1", req.path)
	assert.Equal(t, "Bearer tok-123", req.header.Get("Authorization"))
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))
}

func TestSendWithoutAuthOmitsAuthorization(t *testing.T) {
	srv, req := newServer(t, http.StatusCreated, `{"access_token":"x"}`)
	g := newGateway(srv.URL, gateway.NewMemorySession(&model.Credential{Token: "tok"}), nil)

	_, err := g.Send(t.Context(), "/auth/login", "post", &gateway.Options{Body: map[string]string{"username": "john"}}, false)
	require.NoError(t, err)

	assert.Empty(t, req.header.Get("Authorization"))
	assert.Equal(t, http.MethodPost, req.method)
	assert.JSONEq(t, `{"username":"john"}`, req.body)
}

func TestSendWithoutCredentialStillAttempts(t *testing.T) {
	srv, req := newServer(t, http.StatusOK, `[]`)
	g := newGateway(srv.URL, gateway.NewMemorySession(nil), nil)

	_, err := g.Send(t.Context(), "/users", http.MethodGet, nil, true)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.method)
	assert.True(t, strings.HasPrefix(req.header.Get("Authorization"), "Bearer"))
}

func TestSendMergesCallerHeaders(t *testing.T) {
	srv, req := newServer(t, http.StatusOK, `{}`)
	g := newGateway(srv.URL, nil, nil)

	opts := &gateway.Options{
		Body: `{"raw":true}`,
		Header: http.Header{
			"X-Trace-Id":   []string{"abc"},
			"Content-Type": []string{"application/merge-patch+json"},
		},
	}
	_, err := g.Send(t.Context(), "/matches/1", http.MethodPatch, opts, true)
	require.NoError(t, err)

	assert.Equal(t, "abc", req.header.Get("X-Trace-Id"))
	assert.Equal(t, "application/merge-patch+json", req.header.Get("Content-Type"))
	assert.Equal(t, "application/json", req.header.Get("Accept"))
	assert.Equal(t, `{"raw":true}`, req.body)
}

func TestSendEncodesQuery(t *testing.T) {
	srv, req := newServer(t, http.StatusOK, `[]`)
	g := newGateway(srv.URL, nil, nil)

	_, err := g.Send(t.Context(), "/matches", http.MethodGet, &gateway.Options{Query: map[string][]string{"inProgress": {"true"}}}, true)
	require.NoError(t, err)
	assert.Equal(t, "/matches?inProgress=true", req.path)
}

func TestSendErrorPayloadOnOKTransportFails(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"statusCode":400,"message":"bad"}`)
	session := gateway.NewMemorySession(&model.Credential{Token: "tok"})
	nav := &gateway.RecordingNavigator{}
	g := newGateway(srv.URL, session, nav)

	_, err := g.Send(t.Context(), "/users", http.MethodPost, nil, true)
	require.Error(t, err)

	var apiErr *gateway.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad", apiErr.Message)

	// Only a transport 401 ends the session
	cred, _ := session.Credential(t.Context())
	assert.NotNil(t, cred)
	assert.Empty(t, nav.Route())
}

func TestSendUnauthorizedInvalidatesThenNavigates(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `this is not json`)
	log := &eventLog{}
	mem := gateway.NewMemorySession(&model.Credential{Token: "stale"})
	g := newGateway(srv.URL, trackingSession{MemorySession: mem, log: log}, trackingNavigator{log: log})

	_, err := g.Send(t.Context(), "/users", http.MethodGet, nil, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrSessionExpired))

	assert.Equal(t, []string{"invalidate", "navigate " + routes.Login}, log.events)
	cred, _ := mem.Credential(t.Context())
	assert.Nil(t, cred)
}

func TestSendUnauthorizedUsesConfiguredLoginRoute(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"statusCode":401,"message":"Unauthorized"}`)
	nav := &gateway.RecordingNavigator{}
	cfg := gateway.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.LoginRoute = "/signin"
	g := gateway.New(cfg, gateway.NewMemorySession(nil), nav)

	_, err := g.Send(t.Context(), "/users", http.MethodGet, nil, false)
	require.Error(t, err)
	assert.Equal(t, "/signin", nav.Route())
}

func TestSendTransportFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	session := gateway.NewMemorySession(&model.Credential{Token: "tok"})
	nav := &gateway.RecordingNavigator{}
	g := newGateway(srv.URL, session, nav)

	_, err := g.Send(t.Context(), "/users", http.MethodGet, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")

	var apiErr *gateway.APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.False(t, errors.Is(err, gateway.ErrSessionExpired))
	assert.Empty(t, nav.Route())
}

func TestSendHonoursContextCancellation(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	g := newGateway(srv.URL, nil, nil)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := g.Send(ctx, "/users", http.MethodGet, nil, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDoDecodesPayload(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[{"id":1,"username":"john"},{"id":2,"username":"mary"}]`)
	g := newGateway(srv.URL, nil, nil)

	players, err := gateway.Do[[]model.Player](t.Context(), g, "/users", http.MethodGet, nil)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "mary", players[1].Username)
}

func TestDoEmptyBodyYieldsZeroValue(t *testing.T) {
	srv, _ := newServer(t, http.StatusNoContent, ``)
	g := newGateway(srv.URL, nil, nil)

	player, err := gateway.Do[model.Player](t.Context(), g, "/users/1", http.MethodDelete, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Player{}, player)
}

func TestDoReportsShapeMismatch(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"id":"not-a-number"}`)
	g := newGateway(srv.URL, nil, nil)

	_, err := gateway.Do[model.Player](t.Context(), g, "/users/1", http.MethodGet, nil)
	require.Error(t, err)

	var typeErr *json.UnmarshalTypeError
	assert.True(t, errors.As(err, &typeErr))
}

func TestWithRebindsSession(t *testing.T) {
	srv, req := newServer(t, http.StatusOK, `{}`)
	base := newGateway(srv.URL, gateway.NewMemorySession(&model.Credential{Token: "first"}), nil)
	bound := base.With(gateway.NewMemorySession(&model.Credential{Token: "second"}), nil)

	_, err := bound.Send(t.Context(), "/users", http.MethodGet, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "Bearer second", req.header.Get("Authorization"))
	assert.Equal(t, srv.URL, bound.BaseURL())
}

func TestExpand(t *testing.T) {
	assert.Equal(t, "/users/42", gateway.Expand("/users/:id", map[string]string{"id": "42"}))
	assert.Equal(t,
		"/matches/1/rounds/3/users/9",
		gateway.Expand("/matches/:matchId/rounds/:roundId/users/:userId", map[string]string{
			"matchId": "1", "roundId": "3", "userId": "9",
		}),
	)
	assert.Equal(t, "/users/:id", gateway.Expand("/users/:id", nil))
	assert.Equal(t, "/users/a%2Fb", gateway.Expand("/users/:id", map[string]string{"id": "a/b"}))
}
