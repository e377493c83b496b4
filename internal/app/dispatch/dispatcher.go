package dispatch

import (
	"context"
	"log/slog"
	"reflect"
)

// UnsupportedCommandReply is sent back for command names with no binding.
const UnsupportedCommandReply = "This command isn't supported"

// Outcome tells the host what the dispatcher did with a request.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeUnsupported
	OutcomeHandled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeUnsupported:
		return "unsupported"
	case OutcomeHandled:
		return "handled"
	default:
		return "unknown"
	}
}

// Dispatcher resolves incoming invocations and events against the frozen
// registries and calls the bound handlers. It holds no mutable state, so
// any number of goroutines may dispatch at once.
type Dispatcher struct {
	commands *CommandRegistry
	events   *EventRegistry
	log      *slog.Logger
}

type DispatcherOption func(*Dispatcher)

func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = l }
}

func NewDispatcher(commands *CommandRegistry, events *EventRegistry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{commands: commands, events: events}
	for _, o := range opts {
		o(d)
	}
	d.log = orDiscard(d.log)
	return d
}

func (d *Dispatcher) Commands() *CommandRegistry { return d.commands }
func (d *Dispatcher) Events() *EventRegistry     { return d.events }

// DispatchCommand runs the handler bound to inv.Name.
//
// Invocations outside a guild are dropped without a reply. Unknown names get
// UnsupportedCommandReply. Argument errors fail only this invocation. An
// error returned by the handler comes back wrapped in *HandlerError; a panic
// is not recovered here.
func (d *Dispatcher) DispatchCommand(ctx context.Context, inv *Invocation) (Outcome, error) {
	if d == nil {
		return OutcomeIgnored, ErrNotReady
	}
	if inv == nil || !inv.GuildPresent() {
		return OutcomeIgnored, nil
	}

	b, ok := d.commands.Lookup(inv.Name)
	if !ok {
		d.log.Debug("unsupported command", "command", inv.Name, "guild", inv.GuildID)
		return OutcomeUnsupported, inv.Reply(ctx, UnsupportedCommandReply)
	}

	args, err := arguments(ctx, inv, b)
	if err != nil {
		return OutcomeHandled, err
	}
	if err := call(b.fn, args); err != nil {
		return OutcomeHandled, &HandlerError{Key: b.Name, Err: err}
	}
	return OutcomeHandled, nil
}

// DispatchEvent runs the listener bound to the concrete type of evt, if any.
func (d *Dispatcher) DispatchEvent(ctx context.Context, evt any) (Outcome, error) {
	if d == nil {
		return OutcomeIgnored, ErrNotReady
	}
	b, ok := d.events.Lookup(evt)
	if !ok {
		return OutcomeIgnored, nil
	}
	if err := call(b.fn, []reflect.Value{reflect.ValueOf(evt)}); err != nil {
		return OutcomeHandled, &HandlerError{Key: b.Name, Err: err}
	}
	return OutcomeHandled, nil
}

func call(fn reflect.Value, args []reflect.Value) error {
	out := fn.Call(args)
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}
