package dispatch

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type recordingResponder struct {
	mu      sync.Mutex
	replies []string
}

func (r *recordingResponder) Reply(_ context.Context, _ *Invocation, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, content)
	return nil
}

func (r *recordingResponder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.replies...)
}

func option(name string, typ discordgo.ApplicationCommandOptionType, v any) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: typ, Value: v}
}

func invocation(name, guildID string, r Responder, opts ...*discordgo.ApplicationCommandInteractionDataOption) *Invocation {
	inv := &Invocation{
		Name:      name,
		GuildID:   guildID,
		Options:   map[string]*discordgo.ApplicationCommandInteractionDataOption{},
		Responder: r,
	}
	for _, o := range opts {
		inv.Options[o.Name] = o
	}
	return inv
}

// greeter mirrors the two sample commands of the bot.
type greeter struct {
	mu     sync.Mutex
	hellos []string
	pings  int
}

func (g *greeter) hello(name string, inv *Invocation) error {
	g.mu.Lock()
	g.hellos = append(g.hellos, name)
	g.mu.Unlock()
	return nil
}

func (g *greeter) ping() {
	g.mu.Lock()
	g.pings++
	g.mu.Unlock()
}

func (g *greeter) Commands() []Command {
	return []Command{
		{
			Name:        "hello",
			Description: "Make the bot say hello",
			Params:      []Param{Opt("name", "Your Name"), Context()},
			Handler:     g.hello,
		},
		{
			Name:        "ping",
			Description: "Play Ping, Pong with the bot",
			Handler:     g.ping,
		},
	}
}

func commands(cs ...Command) CommandProvider {
	return CommandFunc(func() []Command { return cs })
}

func listeners(ls ...Listener) ListenerProvider {
	return ListenerFunc(func() []Listener { return ls })
}
