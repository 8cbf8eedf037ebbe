package storage

import (
	"context"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/view"
)

// Storage defines the interface for console session persistence
type Storage interface {
	// Session operations. Expired sessions read as model.ErrSessionNotFound.
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error

	// View state operations remember the last table state per session.
	// They live and die with the session.
	SaveViewState(ctx context.Context, id model.SessionID, table string, state view.State) error
	GetViewState(ctx context.Context, id model.SessionID, table string) (view.State, bool, error)
}
