package dispatch

import (
	"context"
	"fmt"
	"log/slog"
)

// Plan lists everything the build phase consumes.
type Plan struct {
	Commands  []CommandProvider
	Listeners []ListenerProvider
	// Publisher is optional; without it commands are only registered locally.
	Publisher Publisher
	Logger    *slog.Logger
}

// Summary reports both registry scans.
type Summary struct {
	Commands BuildReport
	Events   BuildReport
}

// Build runs the build phase on the calling goroutine: command scan,
// publication, listener scan. A publication error is returned together with
// a usable dispatcher; the host decides whether to serve anyway.
func Build(ctx context.Context, p Plan) (*Dispatcher, Summary, error) {
	log := orDiscard(p.Logger)
	var sum Summary

	commands, rep := BuildCommands(log, p.Commands...)
	sum.Commands = rep

	var pubErr error
	if p.Publisher != nil {
		if err := p.Publisher.Publish(ctx, Definitions(log, commands)); err != nil {
			pubErr = fmt.Errorf("publish commands: %w", err)
		}
	}

	events, rep := BuildEvents(log, p.Listeners...)
	sum.Events = rep

	return NewDispatcher(commands, events, WithLogger(log)), sum, pubErr
}

// Startup is the handle to a build phase running in the background. Hosts
// start it early and attach gateway handlers once Wait returns.
type Startup struct {
	ready chan struct{}
	d     *Dispatcher
	sum   Summary
	err   error
}

// Start launches Build on its own goroutine.
func Start(ctx context.Context, p Plan) *Startup {
	s := &Startup{ready: make(chan struct{})}
	go func() {
		defer close(s.ready)
		s.d, s.sum, s.err = Build(ctx, p)
	}()
	return s
}

// Ready is closed when the build phase has finished.
func (s *Startup) Ready() <-chan struct{} { return s.ready }

// Wait blocks until the build phase finishes or ctx is done.
func (s *Startup) Wait(ctx context.Context) (*Dispatcher, Summary, error) {
	select {
	case <-s.ready:
		return s.d, s.sum, s.err
	case <-ctx.Done():
		return nil, Summary{}, ctx.Err()
	}
}

// Dispatcher returns the built dispatcher, or nil while still building.
func (s *Startup) Dispatcher() *Dispatcher {
	select {
	case <-s.ready:
		return s.d
	default:
		return nil
	}
}
