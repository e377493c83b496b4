package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/zephyr-bot/internal/infra/observability"
)

// Publisher replaces the application's commands in one bulk overwrite.
// With a store it skips the call when nothing changed since the last run.
type Publisher struct {
	api     CommandAPI
	appID   string
	guildID string

	store   PublicationStore
	force   bool
	log     *slog.Logger
	metrics *observability.Metrics
}

type PublisherOption func(*Publisher)

func WithPublicationStore(s PublicationStore) PublisherOption {
	return func(p *Publisher) { p.store = s }
}

// WithForce always overwrites; the store is still refreshed afterwards.
func WithForce() PublisherOption {
	return func(p *Publisher) { p.force = true }
}

func WithPublisherLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.log = l }
}

func WithPublisherMetrics(m *observability.Metrics) PublisherOption {
	return func(p *Publisher) { p.metrics = m }
}

// NewPublisher targets guildID, or global commands when it is empty.
func NewPublisher(api CommandAPI, appID, guildID string, opts ...PublisherOption) *Publisher {
	p := &Publisher{api: api, appID: appID, guildID: guildID}
	for _, o := range opts {
		o(p)
	}
	if p.log == nil {
		p.log = slog.New(slog.DiscardHandler)
	}
	return p
}

func (p *Publisher) Publish(ctx context.Context, defs []*discordgo.ApplicationCommand) error {
	log := p.log.With("app", p.appID, "guild", p.guildID)
	hashes := fingerprints(defs)

	// Un set vacío no deja rastro en la caché; siempre se sobrescribe.
	if p.store != nil && !p.force && len(hashes) > 0 {
		cached, err := p.store.Hashes(ctx, p.guildID)
		if err != nil {
			log.Warn("publication cache unavailable", "err", err)
		} else if sameHashes(cached, hashes) {
			log.Info("commands unchanged, skipping publication", "count", len(defs))
			p.metrics.RecordPublication("unchanged")
			return nil
		}
	}

	if defs == nil {
		defs = []*discordgo.ApplicationCommand{}
	}
	if _, err := p.api.ApplicationCommandBulkOverwrite(p.appID, p.guildID, defs, discordgo.WithContext(ctx)); err != nil {
		p.metrics.RecordPublication("failed")
		return fmt.Errorf("bulk overwrite: %w", err)
	}
	p.metrics.RecordPublication("published")
	log.Info("commands published", "count", len(defs))

	if p.store != nil {
		if err := p.store.Replace(ctx, p.guildID, hashes); err != nil {
			log.Warn("publication cache not updated", "err", err)
		}
	}
	return nil
}
