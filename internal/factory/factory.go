package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/deadnumber/internal/api"
	"github.com/mcoot/deadnumber/internal/config"
	"github.com/mcoot/deadnumber/internal/dependencies/clock"
	"github.com/mcoot/deadnumber/internal/dependencies/random"
	"github.com/mcoot/deadnumber/internal/server"
	"github.com/mcoot/deadnumber/internal/services/account"
	"github.com/mcoot/deadnumber/internal/services/room"
	"github.com/mcoot/deadnumber/internal/storage"
	"github.com/mcoot/deadnumber/internal/storage/file"
	"github.com/mcoot/deadnumber/internal/storage/memory"
)

// Storage type constants
const (
	StorageTypeFile   = "file"
	StorageTypeMemory = "memory"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.CredentialStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Accounts   *account.Directory
	Rooms      *room.Registry
	Dispatcher *server.Dispatcher

	// Transports
	TCPServer   *server.TCPServer
	AdminServer *api.Server

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Settings is the loaded server configuration (optional)
	// If nil, config.DefaultConfig() is used
	Settings *config.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired and the
// account directory loaded from its credential store
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	settings := cfg.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}

	var store storage.CredentialStore
	switch settings.Accounts.Storage {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeFile, "":
		fileStore, err := file.New(settings.Accounts.File, logger)
		if err != nil {
			return nil, err
		}
		store = fileStore
	default:
		return nil, fmt.Errorf("invalid storage type %q: must be 'file' or 'memory'", settings.Accounts.Storage)
	}

	app := newWithDependencies(store, clock.New(), random.New(), settings, logger)
	if err := app.Accounts.Load(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.CredentialStore,
	clk clock.Clock,
	rnd random.Random,
	settings *config.Config,
	logger *slog.Logger,
) *App {
	accounts := account.New(store, clk, account.Config{BcryptCost: settings.Accounts.BcryptCost}, logger)
	rooms := room.NewRegistry(room.Config{
		Capacity:   settings.Game.Capacity,
		MinPlayers: settings.Game.MinPlayers,
	})
	dispatcher := server.NewDispatcher(accounts, rooms, clk, rnd,
		server.DispatcherConfig{TurnTimeout: settings.Game.TurnTimeout}, logger)

	tcpServer := server.NewTCPServer(server.TCPConfig{
		Host:          settings.Server.Host,
		Port:          settings.Server.Port,
		OutboxSize:    settings.Server.OutboxSize,
		WriteTimeout:  settings.Server.WriteTimeout,
		MaxLineLength: settings.Server.MaxLineLength,
	}, dispatcher, logger)

	var adminServer *api.Server
	if settings.Server.AdminAddr != "" {
		router := api.NewRouter(api.RouterConfig{
			Logger:    logger,
			Stats:     dispatcher,
			Accounts:  accounts,
			Websocket: server.NewWebsocketHandler(dispatcher, settings.Server.OutboxSize, settings.Server.AllowedOrigins, logger),
		})
		adminCfg := api.DefaultServerConfig()
		adminCfg.Addr = settings.Server.AdminAddr
		adminServer = api.NewServer(router, adminCfg, logger)
	}

	return &App{
		Store:       store,
		Clock:       clk,
		Random:      rnd,
		Accounts:    accounts,
		Rooms:       rooms,
		Dispatcher:  dispatcher,
		TCPServer:   tcpServer,
		AdminServer: adminServer,
		logger:      logger,
	}
}

// Listen binds every listener so addresses are known before Run
func (a *App) Listen() error {
	if err := a.TCPServer.Listen(); err != nil {
		return err
	}
	if a.AdminServer != nil {
		if err := a.AdminServer.Listen(); err != nil {
			return err
		}
	}
	return nil
}

// Run serves the TCP listener and the admin server until ctx is cancelled
// or one of them fails, then closes every session and pending watchdog
func (a *App) Run(ctx context.Context) error {
	if err := a.Listen(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.TCPServer.Serve(gctx)
	})
	if a.AdminServer != nil {
		g.Go(func() error {
			return a.AdminServer.Run(gctx)
		})
	}

	err := g.Wait()
	a.Dispatcher.Close()
	a.logger.Info("application stopped")
	return err
}
