package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/scorekeeper/internal/dependencies/random"
	"github.com/mcoot/scorekeeper/internal/model"
)

// MockRandom hands out queued session ids, then numbered placeholders
type MockRandom struct {
	mu        sync.Mutex
	queued    []model.SessionID
	generated int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// SessionID returns the next queued id, or a deterministic placeholder once
// the queue is empty
func (r *MockRandom) SessionID() model.SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queued) > 0 {
		id := r.queued[0]
		r.queued = r.queued[1:]
		return id
	}
	r.generated++
	return model.SessionID(fmt.Sprintf("00000000-0000-4000-8000-%012d", r.generated))
}

// QueueSessionID queues ids to be returned by SessionID in order
func (r *MockRandom) QueueSessionID(ids ...model.SessionID) {
	r.mu.Lock()
	r.queued = append(r.queued, ids...)
	r.mu.Unlock()
}
