package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/scorekeeper/internal/dependencies/clock"
	"github.com/mcoot/scorekeeper/internal/dependencies/random"
	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Authenticator exchanges a username and password for a backend credential
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*model.Credential, error)
}

// Service handles console sessions: logging in against the backend,
// looking sessions up, and ending them
type Service struct {
	storage storage.Storage
	auth    Authenticator
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(storage storage.Storage, auth Authenticator, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		auth:            auth,
		clock:           clock,
		random:          random,
		logger:          logger,
		sessionDuration: cfg.SessionDuration,
	}
}

// Login authenticates against the backend and creates a session holding
// the issued credential. Backend error payloads are returned unchanged so
// callers can show their message.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	cred, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.logger.Info("login rejected",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	now := s.clock.Now()
	if cred.Expired(now) {
		return nil, ErrInvalidCredentials
	}

	expiresAt := now.Add(s.sessionDuration)
	if !cred.ExpiresAt.IsZero() && cred.ExpiresAt.Before(expiresAt) {
		expiresAt = cred.ExpiresAt
	}

	session := &model.Session{
		ID:         s.random.SessionID(),
		Credential: *cred,
		CreatedAt:  now,
		ExpiresAt:  expiresAt,
	}
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session created",
		slog.String("username", cred.Username),
		slog.Time("expires_at", expiresAt),
	)
	return session, nil
}

// ValidateSession checks if a session id is valid and returns the session
func (s *Service) ValidateSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.storage.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if !s.clock.Now().Before(session.ExpiresAt) {
		_ = s.storage.DeleteSession(ctx, id)
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session. Unknown ids are a no-op.
func (s *Service) InvalidateSession(ctx context.Context, id model.SessionID) error {
	return s.storage.DeleteSession(ctx, id)
}

// SessionContext returns the gateway view of one console session. The
// credential is read from storage on every call, so an invalidation made
// by any request is seen by all later ones.
func (s *Service) SessionContext(id model.SessionID) gateway.Session {
	return &sessionContext{service: s, id: id}
}

type sessionContext struct {
	service *Service
	id      model.SessionID
}

func (c *sessionContext) Credential(ctx context.Context) (*model.Credential, error) {
	session, err := c.service.ValidateSession(ctx, c.id)
	if err != nil {
		if errors.Is(err, ErrInvalidSession) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}
	return &session.Credential, nil
}

func (c *sessionContext) Invalidate(ctx context.Context) error {
	c.service.logger.Info("session invalidated by backend", slog.String("session", string(c.id)))
	return c.service.InvalidateSession(ctx, c.id)
}
