package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner deletes journal rows older than a cutoff. *JournalRepo.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// PruneOnce removes entries older than retention.
func PruneOnce(ctx context.Context, p Pruner, retention time.Duration, log *slog.Logger) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	n, err := p.Prune(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	if log != nil && n > 0 {
		log.Info("journal pruned", "deleted", n, "retention", retention.String())
	}
	return n, nil
}

// StartRetention schedules PruneOnce with a cron spec ("@hourly",
// "0 3 * * *"). The returned func stops the schedule and waits for a
// running prune to finish.
func StartRetention(ctx context.Context, spec string, retention time.Duration, p Pruner, log *slog.Logger) (func(), error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := PruneOnce(ctx, p, retention, log); err != nil {
			log.Warn("journal retention failed", "err", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("retention schedule %q: %w", spec, err)
	}
	c.Start()
	log.Info("journal retention scheduled", "schedule", spec, "retention", retention.String())
	return func() { <-c.Stop().Done() }, nil
}
