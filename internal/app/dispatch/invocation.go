package dispatch

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
)

// Responder sends a reply to the gateway for one invocation.
type Responder interface {
	Reply(ctx context.Context, inv *Invocation, content string) error
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, inv *Invocation, content string) error

func (f ResponderFunc) Reply(ctx context.Context, inv *Invocation, content string) error {
	return f(ctx, inv, content)
}

var errNoResponder = errors.New("invocation has no responder")

// Invocation is one incoming command request, decoded from the gateway.
type Invocation struct {
	Name     string
	GuildID  string
	Options  map[string]*discordgo.ApplicationCommandInteractionDataOption
	Resolved *discordgo.ApplicationCommandInteractionDataResolved

	// Interaction is the raw gateway object; nil when built by hand.
	Interaction *discordgo.InteractionCreate
	Responder   Responder
}

// NewInvocation decodes an application command interaction. Only top level
// options are indexed; subcommands are not part of the dispatch model.
func NewInvocation(ic *discordgo.InteractionCreate, r Responder) *Invocation {
	data := ic.ApplicationCommandData()
	inv := &Invocation{
		Name:        data.Name,
		GuildID:     ic.GuildID,
		Options:     make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options)),
		Resolved:    data.Resolved,
		Interaction: ic,
		Responder:   r,
	}
	for _, o := range data.Options {
		if o != nil {
			inv.Options[o.Name] = o
		}
	}
	return inv
}

// GuildPresent reports whether the invocation happened inside a guild.
func (inv *Invocation) GuildPresent() bool { return inv.GuildID != "" }

// Option returns the raw option value sent under name.
func (inv *Invocation) Option(name string) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	o, ok := inv.Options[name]
	return o, ok && o != nil
}

// UserID returns the invoking user, whether the interaction came from a
// guild (member) or a DM.
func (inv *Invocation) UserID() string {
	if inv.Interaction == nil || inv.Interaction.Interaction == nil {
		return ""
	}
	if m := inv.Interaction.Member; m != nil && m.User != nil {
		return m.User.ID
	}
	if u := inv.Interaction.User; u != nil {
		return u.ID
	}
	return ""
}

// Reply answers the invocation through its responder.
func (inv *Invocation) Reply(ctx context.Context, content string) error {
	if inv.Responder == nil {
		return errNoResponder
	}
	return inv.Responder.Reply(ctx, inv, content)
}
