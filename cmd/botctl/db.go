package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jose-valero/zephyr-bot/internal/infra/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig("DATABASE_URL")
		if err != nil {
			return err
		}
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := storage.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var pruneRetention time.Duration

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete dispatch journal entries older than the retention",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig("DATABASE_URL")
		if err != nil {
			return err
		}
		retention := cfg.JournalRetention
		if pruneRetention > 0 {
			retention = pruneRetention
		}
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := storage.PruneOnce(cmd.Context(), storage.NewJournalRepo(db), retention, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries older than %s\n", n, retention)
		return nil
	},
}

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show the most recent dispatches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig("DATABASE_URL")
		if err != nil {
			return err
		}
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := storage.NewJournalRepo(db).Recent(cmd.Context(), journalLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RECEIVED\tKIND\tKEY\tGUILD\tOUTCOME\tDURATION\tERROR")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ReceivedAt.Format(time.RFC3339), e.Kind, e.Key, e.GuildID, e.Outcome, e.Duration, e.Error)
		}
		return w.Flush()
	},
}

func init() {
	pruneCmd.Flags().DurationVar(&pruneRetention, "older-than", 0, "override JOURNAL_RETENTION")
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "number of entries")
}
