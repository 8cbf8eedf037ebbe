package factory

import (
	"log/slog"
	"time"

	"github.com/mcoot/scorekeeper/internal/dependencies/mocks"
	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/services/auth"
	"github.com/mcoot/scorekeeper/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies,
// talking to the backend at baseURL
func NewTestApp(baseURL string, logger *slog.Logger) *TestApp {
	mockClock := mocks.NewMockClock(time.Now())
	mockRandom := mocks.NewMockRandom()
	store := memory.New(mockClock)

	gwCfg := gateway.DefaultConfig()
	gwCfg.BaseURL = baseURL
	gwCfg.Timeout = 5 * time.Second
	gwCfg.Logger = logger

	app := newWithDependencies(store, gateway.New(gwCfg, nil, nil), mockClock, mockRandom, auth.DefaultConfig(), logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
