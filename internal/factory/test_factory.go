package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/deadnumber/internal/config"
	"github.com/mcoot/deadnumber/internal/dependencies/mocks"
	"github.com/mcoot/deadnumber/internal/storage/memory"
	"github.com/mcoot/deadnumber/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	Storage    *memory.Storage
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// TestSettings returns settings bound to loopback ephemeral ports with a
// cheap bcrypt cost
func TestSettings() *config.Config {
	settings := config.DefaultConfig()
	settings.Server.Host = "127.0.0.1"
	settings.Server.Port = 0
	settings.Server.AdminAddr = "127.0.0.1:0"
	settings.Accounts.Storage = StorageTypeMemory
	settings.Accounts.BcryptCost = bcrypt.MinCost
	return settings
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithSettings(TestSettings())
}

// NewTestAppWithSettings creates a test App from explicit settings
func NewTestAppWithSettings(settings *config.Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, settings, testutil.NopLogger())

	return &TestApp{
		App:        app,
		Storage:    store,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// RegisterPlayers registers each name with the given password
func (t *TestApp) RegisterPlayers(ctx context.Context, password string, names ...string) error {
	for _, name := range names {
		if err := t.Accounts.Register(ctx, name, password); err != nil {
			return err
		}
	}
	return nil
}
