package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DiscordToken     string `env:"DISCORD_BOT_TOKEN"`
	DiscordGuild     string `env:"DISCORD_GUILD_ID"` // vacío = comandos globales
	DiscordAppID     string `env:"DISCORD_APP_ID"`
	DiscordPublicKey string `env:"DISCORD_PUBLIC_KEY"`

	DatabaseURL string `env:"DATABASE_URL"` // opcional, sin DB no hay journal ni cache
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	JournalRetention     time.Duration `env:"JOURNAL_RETENTION" envDefault:"168h"`
	JournalPruneSchedule string        `env:"JOURNAL_PRUNE_SCHEDULE" envDefault:"@hourly"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelInsecure bool   `env:"OTEL_INSECURE"`

	MemberRoleName string `env:"MEMBER_ROLE_NAME" envDefault:"Member"`
}

// ErrMissing is returned by Require when a needed variable is empty.
var ErrMissing = errors.New("missing env")

// Load lee el entorno. Las variables obligatorias dependen del binario, ver Require.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JournalRetention < 0 {
		return Config{}, errors.New("parse env: JOURNAL_RETENTION must not be negative")
	}
	return cfg, nil
}

// Require checks that every named variable has a value.
func (c Config) Require(names ...string) error {
	values := map[string]string{
		"DISCORD_BOT_TOKEN":  c.DiscordToken,
		"DISCORD_GUILD_ID":   c.DiscordGuild,
		"DISCORD_APP_ID":     c.DiscordAppID,
		"DISCORD_PUBLIC_KEY": c.DiscordPublicKey,
		"DATABASE_URL":       c.DatabaseURL,
	}
	var missing []string
	for _, n := range names {
		if strings.TrimSpace(values[n]) == "" {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w %s", ErrMissing, strings.Join(missing, ", "))
	}
	return nil
}

// BotAuth returns the token with the "Bot " prefix discordgo expects.
func (c Config) BotAuth() string {
	auth := strings.TrimSpace(c.DiscordToken)
	if !strings.HasPrefix(strings.ToLower(auth), "bot ") {
		auth = "Bot " + auth
	}
	return auth
}
