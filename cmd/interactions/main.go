package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	discordrouter "github.com/jose-valero/zephyr-bot/internal/adapters/discord"
	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
	"github.com/jose-valero/zephyr-bot/internal/app/handlers"
	"github.com/jose-valero/zephyr-bot/internal/infra/config"
	"github.com/jose-valero/zephyr-bot/internal/infra/observability"
	"github.com/jose-valero/zephyr-bot/internal/infra/storage"
)

var (
	server *discordrouter.InteractionServer
	logger *slog.Logger
)

// El registry se construye en el cold start. La publicación de comandos la
// hace cmd/bot o botctl publish, no esta Lambda.
func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Require("DISCORD_PUBLIC_KEY"); err != nil {
		log.Fatal(err)
	}
	logger = observability.NewLogger(cfg.LogLevel, "json").With("component", "interactions")

	// Por HTTP sólo llegan interacciones: no hay listeners de eventos.
	d, _, err := dispatch.Build(context.Background(), dispatch.Plan{
		Commands: []dispatch.CommandProvider{handlers.Greetings{}},
		Logger:   logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	opts := []discordrouter.RouterOption{discordrouter.WithLogger(logger)}
	if cfg.DatabaseURL != "" {
		db, err := storage.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Warn("database unavailable; journal disabled", "err", err)
		} else {
			opts = append(opts, discordrouter.WithJournal(storage.NewJournalRepo(db)))
		}
	}

	server, err = discordrouter.NewInteractionServer(cfg.DiscordPublicKey, discordrouter.NewRouter(d, opts...), logger)
	if err != nil {
		log.Fatal(err)
	}
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		dec, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: `{"error":"invalid base64"}`}, nil
		}
		body = dec
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, "/interactions", bytes.NewReader(body))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest}, nil
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}

	code, out := server.Respond(r)
	logger.Debug("interaction handled", "status", code, "ip", req.RequestContext.HTTP.SourceIP, "ua", strings.TrimSpace(req.RequestContext.HTTP.UserAgent))
	return events.APIGatewayV2HTTPResponse{
		StatusCode: code,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(out),
	}, nil
}

func main() { lambda.Start(handler) }
