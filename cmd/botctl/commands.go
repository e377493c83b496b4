package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	discordrouter "github.com/jose-valero/zephyr-bot/internal/adapters/discord"
	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
	"github.com/jose-valero/zephyr-bot/internal/infra/storage"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Print the command definitions that would be published, as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, logger, err := loadConfig()
		if err != nil {
			return err
		}
		reg, rep := dispatch.BuildCommands(logger, commandProviders()...)
		if rep.Failed > 0 {
			fmt.Fprintf(os.Stderr, "%d command(s) failed validation\n", rep.Failed)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dispatch.Definitions(logger, reg))
	},
}

var forcePublish bool

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the command definitions to Discord",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig("DISCORD_BOT_TOKEN", "DISCORD_APP_ID")
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		s, err := discordgo.New(cfg.BotAuth())
		if err != nil {
			return err
		}
		opts := []discordrouter.PublisherOption{discordrouter.WithPublisherLogger(logger)}
		if forcePublish {
			opts = append(opts, discordrouter.WithForce())
		}
		if cfg.DatabaseURL != "" {
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			opts = append(opts, discordrouter.WithPublicationStore(storage.NewPublicationRepo(db)))
		}

		reg, _ := dispatch.BuildCommands(logger, commandProviders()...)
		pub := discordrouter.NewPublisher(s, cfg.DiscordAppID, cfg.DiscordGuild, opts...)
		return pub.Publish(ctx, dispatch.Definitions(logger, reg))
	},
}

func init() {
	publishCmd.Flags().BoolVar(&forcePublish, "force", false, "overwrite even when the publication cache matches")
}
