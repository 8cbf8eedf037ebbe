package factory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/model"
	redisstorage "github.com/mcoot/scorekeeper/internal/storage/redis"
	"github.com/mcoot/scorekeeper/internal/testutil"
)

type FactorySuite struct {
	suite.Suite
	fake *testutil.Backend
	ctx  context.Context
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactorySuite))
}

func (s *FactorySuite) SetupTest() {
	s.fake = testutil.NewBackend(s.T())
	s.fake.AddAccount("alice", "secret", "Alice", "Anders")
	s.ctx = context.Background()
}

func (s *FactorySuite) TestNewWithMemoryStorage() {
	app, err := New(Config{Gateway: gateway.Config{BaseURL: s.fake.URL()}})
	s.Require().NoError(err)
	defer func() { _ = app.Close() }()

	session, err := app.AuthService.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	stored, err := app.Storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal("alice", stored.Credential.Username)
}

func (s *FactorySuite) TestNewWithRedisStorage() {
	mini := miniredis.RunT(s.T())
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mini.Addr()

	app, err := New(Config{
		Gateway:     gateway.Config{BaseURL: s.fake.URL()},
		StorageType: StorageTypeRedis,
		RedisConfig: &redisCfg,
	})
	s.Require().NoError(err)
	defer func() { _ = app.Close() }()

	session, err := app.AuthService.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	s.True(mini.Exists("scorekeeper:session:" + string(session.ID)))
}

func (s *FactorySuite) TestRedisStorageRequiresConfig() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.ErrorContains(err, "RedisConfig required")
}

func (s *FactorySuite) TestInvalidStorageType() {
	_, err := New(Config{StorageType: "disk"})
	s.ErrorContains(err, "invalid StorageType")
}

func (s *FactorySuite) TestBoundBackendUsesSession() {
	app := NewTestApp(s.fake.URL(), testutil.NopLogger())
	app.MockRandom.QueueSessionID("session-1")

	session, err := app.AuthService.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	s.Equal(model.SessionID("session-1"), session.ID)

	nav := &gateway.RecordingNavigator{}
	client := app.Backend(app.AuthService.SessionContext(session.ID), nav)

	players, err := client.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)

	// expiry of the console session is seen by the next backend call
	app.MockClock.Advance(25 * time.Hour)
	_, err = client.ListPlayers(s.ctx)
	s.ErrorIs(err, gateway.ErrSessionExpired)
	s.Equal("/login", nav.Route())
}
