package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/scorekeeper/internal/backend"
	"github.com/mcoot/scorekeeper/internal/dependencies/clock"
	"github.com/mcoot/scorekeeper/internal/dependencies/random"
	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/services/auth"
	"github.com/mcoot/scorekeeper/internal/storage"
	"github.com/mcoot/scorekeeper/internal/storage/memory"
	redisstorage "github.com/mcoot/scorekeeper/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Gateway is the unbound gateway; handlers bind it to a session with
	// Gateway.With before calling the backend
	Gateway *gateway.Gateway

	// Services
	AuthService *auth.Service

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Gateway holds backend connection settings (optional)
	// If zero value, defaults to gateway.DefaultConfig()
	Gateway gateway.Config
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the session storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	// Create storage based on type
	var store storage.Storage
	var closers []io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, clk)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	gwCfg := cfg.Gateway
	if gwCfg.BaseURL == "" {
		gwCfg.BaseURL = gateway.DefaultConfig().BaseURL
	}
	gwCfg.Logger = logger

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, gateway.New(gwCfg, nil, nil), clk, rnd, authCfg, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, gw *gateway.Gateway, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(store, backend.New(gw), clk, rnd, authCfg, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Gateway:     gw,
		AuthService: authService,
	}
}

// Backend returns a backend client bound to a session and navigator
func (a *App) Backend(session gateway.Session, navigator gateway.Navigator) *backend.Client {
	return backend.New(a.Gateway.With(session, navigator))
}

// Close releases storage connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
