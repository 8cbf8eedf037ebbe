package gateway

import (
	"context"
	"sync"

	"github.com/mcoot/scorekeeper/internal/model"
)

// NoSession holds no credential and ignores invalidation
type NoSession struct{}

func (NoSession) Credential(context.Context) (*model.Credential, error) { return nil, nil }
func (NoSession) Invalidate(context.Context) error                     { return nil }

// NopNavigator ignores navigation
type NopNavigator struct{}

func (NopNavigator) Navigate(string) {}

// MemorySession is a process-wide session held in memory.
// Invalidation is last-writer-wins and monotonic: once cleared, only Set
// (a fresh login) restores a credential.
type MemorySession struct {
	mu   sync.RWMutex
	cred *model.Credential
}

// NewMemorySession creates a session holding cred (which may be nil)
func NewMemorySession(cred *model.Credential) *MemorySession {
	return &MemorySession{cred: cred}
}

func (s *MemorySession) Credential(context.Context) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, nil
}

func (s *MemorySession) Invalidate(context.Context) error {
	s.mu.Lock()
	s.cred = nil
	s.mu.Unlock()
	return nil
}

// Set stores a fresh credential
func (s *MemorySession) Set(cred *model.Credential) {
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
}

// RecordingNavigator remembers the last route navigated to
type RecordingNavigator struct {
	mu    sync.Mutex
	route string
}

func (n *RecordingNavigator) Navigate(route string) {
	n.mu.Lock()
	n.route = route
	n.mu.Unlock()
}

// Route returns the last route navigated to, or "" if none
func (n *RecordingNavigator) Route() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}
