package random

import (
	"github.com/google/uuid"

	"github.com/mcoot/scorekeeper/internal/model"
)

// Random mints the unguessable identifiers the console hands out
type Random interface {
	// SessionID returns a fresh console session id
	SessionID() model.SessionID
}

// UUIDRandom mints ids from random (version 4) UUIDs
type UUIDRandom struct{}

// New creates a new UUIDRandom
func New() *UUIDRandom {
	return &UUIDRandom{}
}

// SessionID returns a new random UUID as a session id
func (r *UUIDRandom) SessionID() model.SessionID {
	return model.SessionID(uuid.NewString())
}
