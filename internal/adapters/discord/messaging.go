package discord

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
)

// Discord JSON error codes.
const (
	codeUnknownWebhook      = 10015
	codeAlreadyAcknowledged = 40060
)

// sessionResponder answers one gateway interaction. The first reply is the
// interaction response; later ones become followups.
type sessionResponder struct {
	api      InteractionAPI
	ic       *discordgo.InteractionCreate
	answered atomic.Bool
}

func newSessionResponder(api InteractionAPI, ic *discordgo.InteractionCreate) *sessionResponder {
	return &sessionResponder{api: api, ic: ic}
}

func (r *sessionResponder) Reply(ctx context.Context, _ *dispatch.Invocation, content string) error {
	if r.answered.CompareAndSwap(false, true) {
		err := sendMessage(ctx, r.api, r.ic, content, 0)
		if !isRESTCode(err, codeAlreadyAcknowledged) {
			return err
		}
	}
	return followup(ctx, r.api, r.ic, content, 0)
}

// replyEphemeral is used for adapter-level failures (panics, not ready).
func (r *sessionResponder) replyEphemeral(ctx context.Context, content string) error {
	if r.answered.CompareAndSwap(false, true) {
		return sendMessage(ctx, r.api, r.ic, content, discordgo.MessageFlagsEphemeral)
	}
	return followup(ctx, r.api, r.ic, content, discordgo.MessageFlagsEphemeral)
}

func sendMessage(ctx context.Context, api InteractionAPI, ic *discordgo.InteractionCreate, msg string, flags discordgo.MessageFlags) error {
	return api.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   flags,
		},
	}, discordgo.WithContext(ctx))
}

func followup(ctx context.Context, api InteractionAPI, ic *discordgo.InteractionCreate, content string, flags discordgo.MessageFlags) error {
	_, err := api.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   flags,
	}, discordgo.WithContext(ctx))

	// Fallback sólo si todavía no hay respuesta (webhook desconocido)
	if isRESTCode(err, codeUnknownWebhook) {
		return sendMessage(ctx, api, ic, content, flags)
	}
	return err
}

func isRESTCode(err error, code int) bool {
	var reqErr *discordgo.RESTError
	return errors.As(err, &reqErr) && reqErr.Message != nil && reqErr.Message.Code == code
}
