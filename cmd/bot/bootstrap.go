package main

import (
	"context"
	"fmt"
	"os"

	"momentum-trading-bot/internal/engine"
	"momentum-trading-bot/internal/engine/engineobs"
	"momentum-trading-bot/internal/journal"
	"momentum-trading-bot/internal/logger"
	"momentum-trading-bot/internal/server"
	"momentum-trading-bot/internal/store"
	"momentum-trading-bot/internal/trace"

	"github.com/joho/godotenv"
)

type app struct {
	server  *server.Server
	journal *journal.Journal
}

// initializeSystem loads the environment and brings up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// bootstrap wires config, journal, engine, and HTTP server together.
func bootstrap(ctx context.Context) (*app, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := store.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Info(ctx, "Config loaded",
		"path", cfgPath,
		"port", cfg.Server.Port,
		"max_daily_trades", cfg.Session.MaxDailyTrades,
	)

	jrn, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		// The engine works without the audit trail; don't refuse to start.
		logger.Warn(ctx, "Journal disabled", "path", cfg.Journal.Path, "error", err)
		jrn = nil
	}

	apiKey := os.Getenv(cfg.Server.APIKeyEnv)
	if apiKey == "" {
		logger.Warn(ctx, "API key env not set, requests will need an empty X-API-Key",
			"env", cfg.Server.APIKeyEnv)
	}

	eng := engineobs.Wrap(engine.New(cfg))
	srv := server.New(eng, jrn, apiKey, cfg.Server.Port)

	return &app{server: srv, journal: jrn}, nil
}
