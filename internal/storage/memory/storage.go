package memory

import (
	"context"
	"sync"

	"github.com/mcoot/scorekeeper/internal/dependencies/clock"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/storage"
	"github.com/mcoot/scorekeeper/internal/view"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	clock clock.Clock

	sessions   map[model.SessionID]*model.Session
	viewStates map[model.SessionID]map[string]view.State
}

// New creates a new in-memory storage instance
func New(clk clock.Clock) *Storage {
	if clk == nil {
		clk = clock.New()
	}
	return &Storage{
		clock:      clk,
		sessions:   make(map[model.SessionID]*model.Session),
		viewStates: make(map[model.SessionID]map[string]view.State),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *session
	s.sessions[session.ID] = &stored
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	if !session.ExpiresAt.IsZero() && !s.clock.Now().Before(session.ExpiresAt) {
		_ = s.DeleteSession(ctx, id)
		return nil, model.ErrSessionNotFound
	}

	result := *session
	return &result, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.viewStates, id)
	return nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Storage) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if !session.ExpiresAt.IsZero() && !now.Before(session.ExpiresAt) {
			delete(s.sessions, id)
			delete(s.viewStates, id)
			removed++
		}
	}
	return removed
}

// View state operations

func (s *Storage) SaveViewState(ctx context.Context, id model.SessionID, table string, state view.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return model.ErrSessionNotFound
	}
	states, ok := s.viewStates[id]
	if !ok {
		states = make(map[string]view.State)
		s.viewStates[id] = states
	}
	states[table] = state
	return nil
}

func (s *Storage) GetViewState(ctx context.Context, id model.SessionID, table string) (view.State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.viewStates[id][table]
	return state, ok, nil
}
