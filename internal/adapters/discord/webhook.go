package discord

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
)

const maxInteractionBody = 1 << 20

var errAlreadyReplied = errors.New("interaction already answered")

// InteractionServer is the outgoing-webhook flavour of the gateway: Discord
// POSTs each interaction and the reply travels back in the HTTP response.
type InteractionServer struct {
	key    ed25519.PublicKey
	router *Router
	log    *slog.Logger
	mux    *http.ServeMux
}

// NewInteractionServer takes the application's hex encoded public key.
func NewInteractionServer(publicKey string, router *Router, log *slog.Logger) (*InteractionServer, error) {
	raw, err := hex.DecodeString(publicKey)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, errors.New("invalid public key")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &InteractionServer{key: ed25519.PublicKey(raw), router: router, log: log, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

func (s *InteractionServer) routes() {
	s.mux.HandleFunc("POST /interactions", func(w http.ResponseWriter, r *http.Request) {
		code, body := s.Respond(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write(body)
	})
}

func (s *InteractionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

// Respond verifies and handles one interaction request and returns the
// status and JSON body to send back.
func (s *InteractionServer) Respond(r *http.Request) (int, []byte) {
	if !discordgo.VerifyInteraction(r, s.key) {
		return http.StatusUnauthorized, errorBody("invalid request signature")
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxInteractionBody))
	if err != nil {
		return http.StatusBadRequest, errorBody("unreadable body")
	}

	var it discordgo.Interaction
	if err := json.Unmarshal(body, &it); err != nil {
		s.log.Warn("interaction decode failed", "err", err)
		return http.StatusBadRequest, errorBody("invalid interaction")
	}

	var resp *discordgo.InteractionResponse
	switch it.Type {
	case discordgo.InteractionPing:
		resp = &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}
	case discordgo.InteractionApplicationCommand:
		br := &bufferedResponder{}
		s.router.HandleInteraction(r.Context(), &discordgo.InteractionCreate{Interaction: &it}, br)
		resp = br.response()
	default:
		return http.StatusBadRequest, errorBody("unsupported interaction type")
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return http.StatusInternalServerError, errorBody("encode response")
	}
	return http.StatusOK, out
}

func errorBody(msg string) []byte {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return b
}

// bufferedResponder keeps the single reply an HTTP interaction allows. When
// the handler does not reply the interaction is deferred.
type bufferedResponder struct {
	mu   sync.Mutex
	resp *discordgo.InteractionResponse
}

func (b *bufferedResponder) Reply(_ context.Context, _ *dispatch.Invocation, content string) error {
	return b.set(content, 0)
}

func (b *bufferedResponder) replyEphemeral(_ context.Context, content string) error {
	return b.set(content, discordgo.MessageFlagsEphemeral)
}

func (b *bufferedResponder) set(content string, flags discordgo.MessageFlags) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resp != nil {
		return errAlreadyReplied
	}
	b.resp = &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: flags},
	}
	return nil
}

func (b *bufferedResponder) response() *discordgo.InteractionResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resp == nil {
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	}
	return b.resp
}
