package dispatch

import (
	"log/slog"
	"reflect"
	"sort"
)

// CommandBinding is a validated command ready to be invoked.
type CommandBinding struct {
	Name        string
	Description string
	Params      []ParamSpec
	fn          reflect.Value
}

// EventBinding is a validated listener for one concrete event type.
type EventBinding struct {
	EventType reflect.Type
	Name      string
	fn        reflect.Value
}

// BuildReport summarizes one registry scan.
type BuildReport struct {
	Succeeded int
	Failed    int
	Errors    []error
}

func (r *BuildReport) fail(err error) {
	r.Failed++
	r.Errors = append(r.Errors, err)
}

// CommandRegistry maps command names to bindings. It is filled once by
// BuildCommands and only read afterwards, so lookups need no locking.
type CommandRegistry struct {
	byName map[string]*CommandBinding
}

// Lookup returns the binding registered under name.
func (r *CommandRegistry) Lookup(name string) (*CommandBinding, bool) {
	if r == nil {
		return nil, false
	}
	b, ok := r.byName[name]
	return b, ok
}

// Len returns the number of distinct command names.
func (r *CommandRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byName)
}

// All returns the bindings sorted by name.
func (r *CommandRegistry) All() []*CommandBinding {
	if r == nil {
		return nil
	}
	out := make([]*CommandBinding, 0, len(r.byName))
	for _, b := range r.byName {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BuildCommands validates every command of every provider. An invalid
// command is logged and counted; it never stops the others. A later command
// with an already registered name replaces the earlier binding.
func BuildCommands(log *slog.Logger, providers ...CommandProvider) (*CommandRegistry, BuildReport) {
	log = orDiscard(log)
	reg := &CommandRegistry{byName: map[string]*CommandBinding{}}
	var rep BuildReport

	for _, p := range providers {
		if p == nil {
			continue
		}
		for _, c := range p.Commands() {
			b, err := compileCommand(c)
			if err != nil {
				log.Error("failed to register command", "command", c.Name, "err", err)
				rep.fail(err)
				continue
			}
			if _, dup := reg.byName[b.Name]; dup {
				log.Warn("command registered twice, replacing previous binding", "command", b.Name)
			}
			reg.byName[b.Name] = b
			rep.Succeeded++
		}
	}

	log.Info("registered commands", "ok", rep.Succeeded, "failed", rep.Failed)
	return reg, rep
}

// EventRegistry maps concrete event types to their single listener.
type EventRegistry struct {
	byType map[reflect.Type]*EventBinding
}

// Lookup returns the listener bound to the concrete type of evt.
func (r *EventRegistry) Lookup(evt any) (*EventBinding, bool) {
	if r == nil || evt == nil {
		return nil, false
	}
	b, ok := r.byType[reflect.TypeOf(evt)]
	return b, ok
}

func (r *EventRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byType)
}

// BuildEvents validates every listener of every provider. Only one listener
// per event type is reachable: the most recently scanned one wins.
func BuildEvents(log *slog.Logger, providers ...ListenerProvider) (*EventRegistry, BuildReport) {
	log = orDiscard(log)
	reg := &EventRegistry{byType: map[reflect.Type]*EventBinding{}}
	var rep BuildReport

	for _, p := range providers {
		if p == nil {
			continue
		}
		for _, l := range p.Listeners() {
			b, err := compileListener(l)
			if err != nil {
				log.Error("failed to register event listener", "listener", l.Name, "err", err)
				rep.fail(err)
				continue
			}
			if prev, dup := reg.byType[b.EventType]; dup {
				log.Warn("event listener replaced", "event", b.EventType.String(), "previous", prev.Name, "listener", b.Name)
			}
			reg.byType[b.EventType] = b
			rep.Succeeded++
		}
	}

	log.Info("registered event listeners", "ok", rep.Succeeded, "failed", rep.Failed)
	return reg, rep
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log != nil {
		return log
	}
	return slog.New(slog.DiscardHandler)
}
