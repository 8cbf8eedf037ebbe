package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/scorekeeper/internal/dependencies/clock"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/storage"
	"github.com/mcoot/scorekeeper/internal/view"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keyspace
	clock  clock.Clock
}

// New creates a new Redis storage instance
func New(cfg Config, clk clock.Clock) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg, clk), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, clk clock.Clock) *Storage {
	if clk == nil {
		clk = clock.New()
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   newKeyspace(cfg.KeyPrefix),
		clock:  clk,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	ttl := s.sessionTTL(session)
	if ttl <= 0 {
		// Already expired; make sure nothing stale is left behind
		return s.DeleteSession(ctx, session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.session(session.ID), data, ttl)
	pipe.Expire(ctx, s.keys.viewState(session.ID), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, s.keys.session(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}

	// Redis expiry has second granularity; the stored deadline is exact
	if !session.ExpiresAt.IsZero() && !s.clock.Now().Before(session.ExpiresAt) {
		return nil, model.ErrSessionNotFound
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, s.keys.session(id), s.keys.viewState(id)).Err()
}

// View state operations

func (s *Storage) SaveViewState(ctx context.Context, id model.SessionID, table string, state view.State) error {
	exists, err := s.client.Exists(ctx, s.keys.session(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrSessionNotFound
	}
	ttl, err := s.client.PTTL(ctx, s.keys.session(id)).Result()
	if err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.keys.viewState(id), table, data)
	if ttl > 0 {
		pipe.PExpire(ctx, s.keys.viewState(id), ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetViewState(ctx context.Context, id model.SessionID, table string) (view.State, bool, error) {
	data, err := s.client.HGet(ctx, s.keys.viewState(id), table).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return view.State{}, false, nil
		}
		return view.State{}, false, err
	}

	var state view.State
	if err := json.Unmarshal(data, &state); err != nil {
		return view.State{}, false, err
	}
	return state, true, nil
}

// sessionTTL is the shorter of the configured session lifetime and the
// time left until the session's own expiry
func (s *Storage) sessionTTL(session *model.Session) time.Duration {
	ttl := s.cfg.SessionTTL
	if !session.ExpiresAt.IsZero() {
		left := clock.Until(s.clock, session.ExpiresAt)
		if ttl <= 0 || left < ttl {
			ttl = left
		}
	}
	return ttl
}
