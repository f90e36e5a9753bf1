package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/deadnumber/internal/config"
	"github.com/mcoot/deadnumber/internal/factory"
)

const defaultConfigPath = "deadnumber.hcl"

func main() {
	// Bootstrap logger until the configured one is available
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := config.LoadDotEnv(); err != nil {
		logger.Warn("could not load .env", slog.String("error", err.Error()))
	}

	configPath := os.Getenv(config.EnvPrefix + "CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, factory.Config{
		Settings: cfg,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := app.Listen(); err != nil {
		logger.Error("failed to bind listeners", slog.String("error", err.Error()))
		os.Exit(1)
	}

	attrs := []any{slog.String("tcp_addr", app.TCPServer.Addr().String())}
	if app.AdminServer != nil {
		attrs = append(attrs, slog.String("admin_addr", app.AdminServer.Addr()))
	}
	logger.Info("server started", attrs...)

	if err := app.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
