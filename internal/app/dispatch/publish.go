package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Publisher registers command definitions with the remote gateway.
type Publisher interface {
	Publish(ctx context.Context, defs []*discordgo.ApplicationCommand) error
}

// ProjectCommand builds the public definition of a binding: name,
// description, guild-only scope and one option per named parameter.
func ProjectCommand(b *CommandBinding) (*discordgo.ApplicationCommand, error) {
	def := &discordgo.ApplicationCommand{
		Type:        discordgo.ChatApplicationCommand,
		Name:        b.Name,
		Description: b.Description,
		Contexts:    &[]discordgo.InteractionContextType{discordgo.InteractionContextGuild},
	}
	for _, p := range b.Params {
		if !p.Named() {
			continue
		}
		typ, ok := p.Kind.OptionType()
		if !ok {
			return nil, fmt.Errorf("command %q: option %q: kind %s cannot be published", b.Name, p.OptionName, p.Kind)
		}
		def.Options = append(def.Options, &discordgo.ApplicationCommandOption{
			Type:        typ,
			Name:        p.OptionName,
			Description: p.Description,
			Required:    p.Required,
		})
	}
	return def, nil
}

// Definitions projects every binding of reg. A binding that cannot be
// projected is logged and left out; the rest are still returned.
func Definitions(log *slog.Logger, reg *CommandRegistry) []*discordgo.ApplicationCommand {
	log = orDiscard(log)
	all := reg.All()
	defs := make([]*discordgo.ApplicationCommand, 0, len(all))
	for _, b := range all {
		def, err := ProjectCommand(b)
		if err != nil {
			log.Error("failed to project command", "command", b.Name, "err", err)
			continue
		}
		defs = append(defs, def)
	}
	return defs
}
