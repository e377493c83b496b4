package main

import (
	"fmt"

	discordrouter "github.com/jose-valero/zephyr-bot/internal/adapters/discord"
)

// gateway es la parte de *discordgo.Session que necesita connect.
type gateway interface {
	discordrouter.HandlerRegistrar
	Open() error
}

// connect engancha el router y recién después abre la sesión, así Ready y
// Connect llegan a los listeners.
func connect(gw gateway, router *discordrouter.Router) error {
	router.Handlers(gw)
	if err := gw.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	return nil
}
