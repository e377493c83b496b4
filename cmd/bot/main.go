package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/zephyr-bot/internal/adapters/discord"
	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
	"github.com/jose-valero/zephyr-bot/internal/app/handlers"
	"github.com/jose-valero/zephyr-bot/internal/infra/config"
	"github.com/jose-valero/zephyr-bot/internal/infra/observability"
	"github.com/jose-valero/zephyr-bot/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Require("DISCORD_BOT_TOKEN"); err != nil {
		log.Fatal(err)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	tracing, err := observability.NewTracerSetup(ctx, cfg.OTelEndpoint, cfg.OTelInsecure)
	if err != nil {
		log.Fatal("tracing: ", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(sctx)
	}()

	// DB (opcional): cache de publicación + journal
	var (
		db       *sql.DB
		journal  discordrouter.Journal
		pubStore discordrouter.PublicationStore
	)
	if cfg.DatabaseURL != "" {
		db, err = storage.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		if err := storage.Migrate(db); err != nil {
			log.Fatal("migrate: ", err)
		}
		journalRepo := storage.NewJournalRepo(db)
		journal = journalRepo
		pubStore = storage.NewPublicationRepo(db)

		stopRetention, err := storage.StartRetention(ctx, cfg.JournalPruneSchedule, cfg.JournalRetention, journalRepo, logger.With("component", "retention"))
		if err != nil {
			log.Fatal(err)
		}
		defer stopRetention()
		logger.Info("database ready")
	} else {
		logger.Warn("DATABASE_URL empty; running without journal or publication cache")
	}

	// Discord session (sin abrir todavía)
	s, err := discordgo.New(cfg.BotAuth())
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	appID := cfg.DiscordAppID
	if appID == "" {
		me, err := s.User("@me", discordgo.WithContext(ctx))
		if err != nil {
			log.Fatal("resolve application id: ", err)
		}
		appID = me.ID
	}

	// Build: comandos -> publicación -> listeners
	publisher := discordrouter.NewPublisher(s, appID, cfg.DiscordGuild,
		discordrouter.WithPublicationStore(pubStore),
		discordrouter.WithPublisherLogger(logger.With("component", "publisher")),
		discordrouter.WithPublisherMetrics(metrics),
	)
	startup := dispatch.Start(ctx, dispatch.Plan{
		Commands:  []dispatch.CommandProvider{handlers.Greetings{}},
		Listeners: []dispatch.ListenerProvider{handlers.NewMemberEvents(s, cfg.MemberRoleName, logger.With("component", "members"))},
		Publisher: publisher,
		Logger:    logger.With("component", "dispatch"),
	})
	d, sum, err := startup.Wait(ctx)
	if d == nil {
		log.Fatal("startup: ", err)
	}
	if err != nil {
		logger.Error("command publication failed; serving with the local registry", "err", err)
	}
	metrics.RecordBuild("commands", sum.Commands.Succeeded, sum.Commands.Failed)
	metrics.RecordBuild("events", sum.Events.Succeeded, sum.Events.Failed)

	// Serving: handlers antes de Open para no perder READY
	router := discordrouter.NewRouter(d,
		discordrouter.WithLogger(logger.With("component", "router")),
		discordrouter.WithMetrics(metrics),
		discordrouter.WithTracer(tracing.Tracer()),
		discordrouter.WithJournal(journal),
	)
	if err := connect(s, router); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	logger.Info("connected", "user", s.State.User.Username, "id", s.State.User.ID)

	checks := []observability.HealthCheck{{
		Name: "gateway",
		Check: func(context.Context) error {
			if !s.DataReady {
				return errors.New("gateway not ready")
			}
			return nil
		},
	}}
	if db != nil {
		checks = append(checks, observability.HealthCheck{
			Name:  "database",
			Check: func(ctx context.Context) error { return storage.Ping(ctx, db) },
		})
	}
	go func() {
		if err := observability.Serve(ctx, cfg.HTTPAddr, observability.Handler(metrics, logger, checks...), logger); err != nil {
			logger.Error("http server", "err", err)
		}
	}()

	logger.Info("serving", "commands", d.Commands().Len(), "events", d.Events().Len())
	<-ctx.Done()
	logger.Info("shutting down")
}
