package handlers

import (
	"context"

	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
)

// Greetings provides /hello and /ping.
type Greetings struct{}

func (g Greetings) Commands() []dispatch.Command {
	return []dispatch.Command{
		{
			Name:        "hello",
			Description: "Make the bot say hello",
			Params:      []dispatch.Param{dispatch.Context(), dispatch.Opt("name", "Your Name"), dispatch.Context()},
			Handler:     g.hello,
		},
		{
			Name:        "ping",
			Description: "Play Ping, Pong with the bot",
			Params:      []dispatch.Param{dispatch.Context(), dispatch.Context()},
			Handler:     g.ping,
		},
	}
}

func (Greetings) hello(ctx context.Context, name string, inv *dispatch.Invocation) error {
	return inv.Reply(ctx, "Hello "+name)
}

func (Greetings) ping(ctx context.Context, inv *dispatch.Invocation) error {
	return inv.Reply(ctx, "Pong!")
}
