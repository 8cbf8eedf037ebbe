package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scorekeeper/internal/dependencies/mocks"
	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/storage/memory"
	"github.com/mcoot/scorekeeper/internal/testutil"
)

// stubAuthenticator accepts alice/password123
type stubAuthenticator struct {
	expiresAt time.Time
	calls     int
}

func (a *stubAuthenticator) Login(_ context.Context, username, password string) (*model.Credential, error) {
	a.calls++
	if username != "alice" || password != "password123" {
		return nil, &gateway.APIError{StatusCode: 400, Message: "Invalid username or password"}
	}
	return &model.Credential{Token: "jwt-alice", Username: "alice", FirstName: "Alice", ExpiresAt: a.expiresAt}, nil
}

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	backend *stubAuthenticator
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = memory.New(s.clock)
	s.random = mocks.NewMockRandom()
	s.backend = &stubAuthenticator{}
	s.service = New(s.storage, s.backend, s.clock, s.random, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	s.random.QueueSessionID("session-1")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.Equal(model.SessionID("session-1"), session.ID)
	s.Equal("jwt-alice", session.Credential.Token)
	s.Equal("Alice", session.Credential.FirstName)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestLoginPersistsSession() {
	session, _ := s.service.Login(s.ctx, "alice", "password123")

	stored, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal("alice", stored.Credential.Username)
}

func (s *ServiceSuite) TestLoginSessionEndsWithCredential() {
	s.backend.expiresAt = s.clock.Now().Add(time.Hour)

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal(s.backend.expiresAt, session.ExpiresAt)
}

func (s *ServiceSuite) TestLoginRejectsExpiredCredential() {
	s.backend.expiresAt = s.clock.Now().Add(-time.Minute)

	_, err := s.service.Login(s.ctx, "alice", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")

	var apiErr *gateway.APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal("Invalid username or password", apiErr.Message)
}

func (s *ServiceSuite) TestLoginRequiresBothFields() {
	_, err := s.service.Login(s.ctx, "alice", "")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Zero(s.backend.calls, "empty credentials never reach the backend")
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, _ := s.service.Login(s.ctx, "alice", "password123")

	validated, err := s.service.ValidateSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.ID, validated.ID)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidID() {
	_, err := s.service.ValidateSession(s.ctx, "invalid")
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(s.ctx, "")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session, _ := s.service.Login(s.ctx, "alice", "password123")

	// Advance time past expiration
	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(s.ctx, session.ID)
	s.ErrorIs(err, ErrInvalidSession)
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	session, _ := s.service.Login(s.ctx, "alice", "password123")

	s.Require().NoError(s.service.InvalidateSession(s.ctx, session.ID))

	_, err := s.service.ValidateSession(s.ctx, session.ID)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionNoopForUnknownID() {
	s.NoError(s.service.InvalidateSession(s.ctx, "unknown"))
}

// SessionContext tests

func (s *ServiceSuite) TestSessionContextReadsCredential() {
	session, _ := s.service.Login(s.ctx, "alice", "password123")

	cred, err := s.service.SessionContext(session.ID).Credential(s.ctx)
	s.Require().NoError(err)
	s.Equal("jwt-alice", cred.Token)
}

func (s *ServiceSuite) TestSessionContextInvalidateIsSeenEverywhere() {
	session, _ := s.service.Login(s.ctx, "alice", "password123")
	first := s.service.SessionContext(session.ID)
	second := s.service.SessionContext(session.ID)

	s.Require().NoError(first.Invalidate(s.ctx))

	_, err := second.Credential(s.ctx)
	s.ErrorIs(err, model.ErrSessionNotFound)
}
