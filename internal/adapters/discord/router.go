package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace"

	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
	"github.com/jose-valero/zephyr-bot/internal/infra/observability"
	"github.com/jose-valero/zephyr-bot/internal/infra/storage"
)

const (
	kindCommand = "command"
	kindEvent   = "event"

	outcomePanic = "panic"
	outcomeError = "error"

	panicReply    = "⚠️ Ocurrió un error inesperado."
	notReadyReply = "⏳ El bot todavía está arrancando, probá de nuevo en unos segundos."
)

// Router feeds gateway traffic into the dispatcher. It owns everything the
// dispatcher leaves to the host: panic recovery, replies on failure,
// metrics, spans and the dispatch journal.
type Router struct {
	d       *dispatch.Dispatcher
	log     *slog.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
	journal Journal
	timeout time.Duration
}

type RouterOption func(*Router)

func WithLogger(l *slog.Logger) RouterOption { return func(r *Router) { r.log = l } }

func WithMetrics(m *observability.Metrics) RouterOption { return func(r *Router) { r.metrics = m } }

func WithTracer(t trace.Tracer) RouterOption { return func(r *Router) { r.tracer = t } }

// WithJournal records every dispatch; write failures are logged only.
func WithJournal(j Journal) RouterOption { return func(r *Router) { r.journal = j } }

// WithTimeout bounds the context handed to handlers. Zero means no deadline.
func WithTimeout(d time.Duration) RouterOption { return func(r *Router) { r.timeout = d } }

func NewRouter(d *dispatch.Dispatcher, opts ...RouterOption) *Router {
	r := &Router{d: d, timeout: 12 * time.Second}
	for _, o := range opts {
		o(r)
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	if r.tracer == nil {
		r.tracer = (*observability.TracerSetup)(nil).Tracer()
	}
	return r
}

// Handlers attaches the router to the session. Call it once the build phase
// is over and before the session opens; READY is delivered inside Open.
func (r *Router) Handlers(s HandlerRegistrar) {
	s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		r.HandleInteraction(context.Background(), ic, newSessionResponder(s, ic))
	})
	s.AddHandler(func(_ *discordgo.Session, evt interface{}) {
		r.HandleEvent(context.Background(), evt)
	})
}

// replier is a responder that can also send adapter-level notices.
type replier interface {
	dispatch.Responder
	replyEphemeral(ctx context.Context, content string) error
}

// HandleInteraction dispatches one application command interaction.
func (r *Router) HandleInteraction(ctx context.Context, ic *discordgo.InteractionCreate, rp replier) {
	inv := dispatch.NewInvocation(ic, rp)
	log := r.log.With("command", inv.Name, "guild", inv.GuildID, "user", inv.UserID())

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	ctx, span := r.startSpan(ctx, kindCommand, inv.Name)
	defer span.End()

	start := time.Now()
	outcome := dispatch.OutcomeIgnored.String()
	var herr error

	defer func() {
		if rec := recover(); rec != nil {
			outcome = outcomePanic
			herr = fmt.Errorf("panic: %v", rec)
			log.Error("panic in command", "panic", rec)
			_ = rp.replyEphemeral(ctx, panicReply)
		}
		r.finish(ctx, span, storage.JournalEntry{
			Kind:    kindCommand,
			Key:     inv.Name,
			GuildID: inv.GuildID,
			UserID:  inv.UserID(),
			Outcome: outcome,
		}, herr, time.Since(start))
	}()

	out, err := r.d.DispatchCommand(ctx, inv)
	outcome = out.String()
	switch {
	case errors.Is(err, dispatch.ErrNotReady):
		_ = rp.replyEphemeral(ctx, notReadyReply)
	case err != nil:
		outcome = outcomeError
		log.Error("command failed", "err", err)
	default:
		log.Debug("command dispatched", "outcome", outcome)
	}
	herr = err
}

// HandleEvent dispatches one gateway event. Events without a listener are
// neither journaled nor traced.
func (r *Router) HandleEvent(ctx context.Context, evt any) {
	if r.d == nil {
		return
	}
	if _, ok := r.d.Events().Lookup(evt); !ok {
		return
	}
	key := eventKey(evt)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	ctx, span := r.startSpan(ctx, kindEvent, key)
	defer span.End()

	start := time.Now()
	outcome := dispatch.OutcomeIgnored.String()
	var herr error

	defer func() {
		if rec := recover(); rec != nil {
			outcome = outcomePanic
			herr = fmt.Errorf("panic: %v", rec)
			r.log.Error("panic in event listener", "event", key, "panic", rec)
		}
		r.finish(ctx, span, storage.JournalEntry{
			Kind:    kindEvent,
			Key:     key,
			GuildID: eventGuild(evt),
			Outcome: outcome,
		}, herr, time.Since(start))
	}()

	out, err := r.d.DispatchEvent(ctx, evt)
	outcome = out.String()
	if err != nil {
		outcome = outcomeError
		r.log.Error("event listener failed", "event", key, "err", err)
	}
	herr = err
}

func (r *Router) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *Router) finish(ctx context.Context, span trace.Span, e storage.JournalEntry, err error, took time.Duration) {
	r.metrics.RecordDispatch(e.Kind, e.Key, e.Outcome, took)
	endSpan(span, e.Outcome, err)

	if r.journal == nil {
		return
	}
	e.Duration = took
	if err != nil {
		e.Error = err.Error()
	}
	// El ctx del handler puede estar vencido; el journal usa uno propio.
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := r.journal.Record(jctx, e); err != nil {
		r.log.Warn("journal write failed", "kind", e.Kind, "key", e.Key, "err", err)
	}
}

// eventKey is the bare type name, e.g. "GuildMemberAdd".
func eventKey(evt any) string {
	t := reflect.TypeOf(evt)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func eventGuild(evt any) string {
	switch e := evt.(type) {
	case *discordgo.GuildMemberAdd:
		if e.Member != nil {
			return e.GuildID
		}
	case *discordgo.GuildMemberRemove:
		if e.Member != nil {
			return e.GuildID
		}
	case *discordgo.MessageCreate:
		if e.Message != nil {
			return e.GuildID
		}
	case *discordgo.InteractionCreate:
		if e.Interaction != nil {
			return e.GuildID
		}
	case *discordgo.GuildRoleCreate:
		if e.GuildRole != nil {
			return e.GuildID
		}
	}
	return ""
}
