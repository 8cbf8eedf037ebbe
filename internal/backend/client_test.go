package backend_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/scorekeeper/internal/backend"
	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/routes"
	"github.com/mcoot/scorekeeper/internal/testutil"
)

type fixture struct {
	fake    *testutil.Backend
	session *gateway.MemorySession
	nav     *gateway.RecordingNavigator
	client  *backend.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fake := testutil.NewBackend(t)
	fake.AddAccount("alice", "secret", "Alice", "Anders")

	session := gateway.NewMemorySession(nil)
	nav := &gateway.RecordingNavigator{}
	cfg := gateway.DefaultConfig()
	cfg.BaseURL = fake.URL()
	cfg.Logger = testutil.NopLogger()

	return &fixture{
		fake:    fake,
		session: session,
		nav:     nav,
		client:  backend.New(gateway.New(cfg, session, nav)),
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.session.Set(&model.Credential{Token: f.fake.IssueToken("alice"), Username: "alice"})
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	cred, err := f.client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	assert.NotEmpty(t, cred.Token)
	assert.Equal(t, "alice", cred.Username)
	assert.Equal(t, "Alice", cred.FirstName)
	assert.Equal(t, "Anders", cred.LastName)
	assert.WithinDuration(t, time.Now().Add(time.Hour), cred.ExpiresAt, time.Minute)
	assert.False(t, cred.Expired(time.Now()))
}

func TestLoginBadPasswordIsErrorPayload(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Login(context.Background(), "alice", "wrong")

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "Invalid username or password", apiErr.Message)
	assert.Empty(t, f.nav.Route())
}

func TestListPlayersRequiresCredential(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.ListPlayers(context.Background())

	assert.ErrorIs(t, err, gateway.ErrSessionExpired)
	assert.Equal(t, routes.Login, f.nav.Route())
}

func TestRevokedTokenInvalidatesSession(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.fake.RevokeTokens()

	_, err := f.client.ListMatches(context.Background())
	require.ErrorIs(t, err, gateway.ErrSessionExpired)

	cred, err := f.session.Credential(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cred)
	assert.Equal(t, routes.Login, f.nav.Route())
}

func TestPlayerLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	created, err := f.client.CreatePlayer(ctx, model.PlayerInput{Username: "bob", FirstName: "Bob", LastName: "Brown", Password: "pw"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := f.client.GetPlayer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := f.client.UpdatePlayer(ctx, created.ID, model.PlayerInput{FirstName: "Robert"})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.FirstName)
	assert.Equal(t, "bob", updated.Username)

	players, err := f.client.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 2)

	deleted, err := f.client.DeletePlayer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = f.client.GetPlayer(ctx, created.ID)
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCreatePlayerValidationMessages(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	_, err := f.client.CreatePlayer(context.Background(), model.PlayerInput{})

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "username should not be empty", apiErr.Message)
}

func TestMatchLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	bob := f.fake.AddPlayer(model.Player{Username: "bob"})
	carol := f.fake.AddPlayer(model.Player{Username: "carol"})
	loc := f.fake.AddLocation("Clubhouse")

	locations, err := f.client.ListLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Location{loc}, locations)

	m, err := f.client.CreateMatch(ctx, model.MatchInput{UserIDs: []model.PlayerID{bob.ID, carol.ID}, LocationID: loc.ID})
	require.NoError(t, err)
	assert.True(t, m.InProgress)
	assert.Equal(t, "Clubhouse", m.LocationName())
	assert.Len(t, m.Users, 2)

	ended, err := f.client.EndMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, ended.InProgress)

	stored, ok := f.fake.Match(m.ID)
	require.True(t, ok)
	assert.False(t, stored.InProgress)

	_, err = f.client.DeleteMatch(ctx, m.ID)
	require.NoError(t, err)

	matches, err := f.client.ListMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSaveRoundSendsOneRequestPerPlayer(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	bob := f.fake.AddPlayer(model.Player{Username: "bob"})
	carol := f.fake.AddPlayer(model.Player{Username: "carol"})
	m := f.fake.AddMatch(model.Match{InProgress: true, Users: []model.Player{bob, carol}})

	rounds, err := f.client.SaveRound(ctx, model.RoundInput{
		MatchID: m.ID,
		RoundID: 1,
		Points:  12,
		UserIDs: []model.PlayerID{bob.ID, carol.ID, bob.ID},
	}, false)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, bob.ID, rounds[0].User.ID)
	assert.Equal(t, carol.ID, rounds[1].User.ID)

	var roundRequests int
	for _, r := range f.fake.Requests() {
		if r == "POST /matches/"+strconv.Itoa(int(m.ID))+"/rounds/1/users/"+strconv.Itoa(int(bob.ID)) ||
			r == "POST /matches/"+strconv.Itoa(int(m.ID))+"/rounds/1/users/"+strconv.Itoa(int(carol.ID)) {
			roundRequests++
		}
	}
	assert.Equal(t, 2, roundRequests)

	stored, _ := f.fake.Match(m.ID)
	assert.Equal(t, map[model.PlayerID]int{bob.ID: 12, carol.ID: 12}, stored.Totals())

	_, err = f.client.SaveRound(ctx, model.RoundInput{MatchID: m.ID, RoundID: 1, Points: 20, UserIDs: []model.PlayerID{carol.ID}}, true)
	require.NoError(t, err)
	stored, _ = f.fake.Match(m.ID)
	assert.Equal(t, 20, stored.Totals()[carol.ID])
}

func TestSaveRoundReportsFirstFailure(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	bob := f.fake.AddPlayer(model.Player{Username: "bob"})
	outsider := f.fake.AddPlayer(model.Player{Username: "zed"})
	m := f.fake.AddMatch(model.Match{InProgress: true, Users: []model.Player{bob}})

	_, err := f.client.SaveRound(context.Background(), model.RoundInput{
		MatchID: m.ID,
		RoundID: 1,
		Points:  3,
		UserIDs: []model.PlayerID{bob.ID, outsider.ID},
	}, false)

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Player is not part of this match", apiErr.Message)

	// the valid request still completed
	stored, _ := f.fake.Match(m.ID)
	assert.Equal(t, 3, stored.Totals()[bob.ID])
}

func TestSaveRoundValidation(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	cases := map[string]model.RoundInput{
		"no match":        {RoundID: 1, UserIDs: []model.PlayerID{1}},
		"no players":      {MatchID: 1, RoundID: 1},
		"zero round":      {MatchID: 1, UserIDs: []model.PlayerID{1}},
		"negative points": {MatchID: 1, RoundID: 1, Points: -1, UserIDs: []model.PlayerID{1}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.client.SaveRound(context.Background(), in, false)
			assert.ErrorIs(t, err, model.ErrInvalidRound)
		})
	}
	assert.Empty(t, f.fake.Requests(), "invalid rounds are never sent")
}

func TestErrorPayloadInsideSuccessStatus(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.fake.Fail(http.MethodGet, "/users", testutil.Failure{TransportStatus: http.StatusOK, StatusCode: 500, Message: "database offline"})

	_, err := f.client.ListPlayers(context.Background())

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.False(t, errors.Is(err, gateway.ErrSessionExpired))
	assert.Empty(t, f.nav.Route())
}
