package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
	"github.com/jose-valero/zephyr-bot/internal/app/handlers"
	"github.com/jose-valero/zephyr-bot/internal/infra/config"
	"github.com/jose-valero/zephyr-bot/internal/infra/observability"
	"github.com/jose-valero/zephyr-bot/internal/infra/storage"
)

func loadConfig(required ...string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Require(required...); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, observability.NewLogger(cfg.LogLevel, cfg.LogFormat), nil
}

// commandProviders lists the same commands cmd/bot serves.
func commandProviders() []dispatch.CommandProvider {
	return []dispatch.CommandProvider{handlers.Greetings{}}
}

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	return storage.Open(ctx, cfg.DatabaseURL)
}
