package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jose-valero/zephyr-bot/internal/infra/config"
)

// handler borra del journal lo que supera la retención. Corre con un
// schedule de EventBridge, alternativa al cron de cmd/bot.
func handler(ctx context.Context) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.DatabaseURL == "" {
		return "no DATABASE_URL", nil
	}

	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	pcfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return "", fmt.Errorf("pool: %w", err)
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tag, err := pool.Exec(cctx, `DELETE FROM dispatch_journal WHERE received_at < $1`, time.Now().Add(-cfg.JournalRetention))
	if err != nil {
		return "", fmt.Errorf("prune journal: %w", err)
	}
	return fmt.Sprintf("deleted %d", tag.RowsAffected()), nil
}

func main() { lambda.Start(handler) }
