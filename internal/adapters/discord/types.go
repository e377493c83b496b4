package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/zephyr-bot/internal/infra/storage"
)

// InteractionAPI is the part of *discordgo.Session used to answer interactions.
type InteractionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// CommandAPI is the part of *discordgo.Session used to publish commands.
type CommandAPI interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Journal records what happened to each dispatch. *storage.JournalRepo.
type Journal interface {
	Record(ctx context.Context, e storage.JournalEntry) error
}

// PublicationStore caches the fingerprints of published commands. *storage.PublicationRepo.
type PublicationStore interface {
	Hashes(ctx context.Context, scope string) (map[string]string, error)
	Replace(ctx context.Context, scope string, hashes map[string]string) error
}

// HandlerRegistrar is the part of *discordgo.Session the router attaches to.
type HandlerRegistrar interface {
	AddHandler(handler interface{}) func()
}
