package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

type fakePublisher struct {
	got  []*discordgo.ApplicationCommand
	err  error
	gate chan struct{}
}

func (f *fakePublisher) Publish(ctx context.Context, defs []*discordgo.ApplicationCommand) error {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.got = defs
	return f.err
}

func TestBuild_PublishesRegisteredCommands(t *testing.T) {
	pub := &fakePublisher{}
	d, sum, err := Build(context.Background(), Plan{
		Commands:  []CommandProvider{&greeter{}},
		Listeners: []ListenerProvider{listeners(Listener{Name: "ready", Handler: func(*discordgo.Ready) {}})},
		Publisher: pub,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Commands.Succeeded != 2 || sum.Events.Succeeded != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(pub.got) != 2 || pub.got[0].Name != "hello" || pub.got[1].Name != "ping" {
		t.Fatalf("published = %v", pub.got)
	}
	if d.Commands().Len() != 2 || d.Events().Len() != 1 {
		t.Fatalf("dispatcher registries = %d/%d", d.Commands().Len(), d.Events().Len())
	}
}

func TestBuild_InvalidCommandIsNotPublished(t *testing.T) {
	pub := &fakePublisher{}
	_, sum, err := Build(context.Background(), Plan{
		Commands: []CommandProvider{
			&greeter{},
			commands(Command{Name: "bad", Params: []Param{Opt("at", "")}, Handler: func(time.Time) {}}),
		},
		Publisher: pub,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Commands.Failed != 1 || len(pub.got) != 2 {
		t.Fatalf("summary = %+v published = %d", sum, len(pub.got))
	}
	for _, def := range pub.got {
		if def.Name == "bad" {
			t.Fatal("invalid command was published")
		}
	}
}

func TestBuild_PublishErrorKeepsDispatcher(t *testing.T) {
	boom := errors.New("gateway down")
	d, _, err := Build(context.Background(), Plan{
		Commands:  []CommandProvider{&greeter{}},
		Publisher: &fakePublisher{err: boom},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if d == nil || d.Commands().Len() != 2 {
		t.Fatal("dispatcher must stay usable after a publish failure")
	}
}

func TestBuild_WithoutPublisher(t *testing.T) {
	d, _, err := Build(context.Background(), Plan{Commands: []CommandProvider{&greeter{}}})
	if err != nil || d.Commands().Len() != 2 {
		t.Fatalf("d = %v, err = %v", d, err)
	}
}

func TestStartup_DispatcherAvailableAfterReady(t *testing.T) {
	pub := &fakePublisher{gate: make(chan struct{})}
	s := Start(context.Background(), Plan{Commands: []CommandProvider{&greeter{}}, Publisher: pub})

	if s.Dispatcher() != nil {
		t.Fatal("dispatcher visible before build finished")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, _, err := s.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait err = %v, want deadline exceeded", err)
	}

	close(pub.gate)
	d, sum, err := s.Wait(context.Background())
	if err != nil || d == nil || sum.Commands.Succeeded != 2 {
		t.Fatalf("Wait = %v, %+v, %v", d, sum, err)
	}
	select {
	case <-s.Ready():
	default:
		t.Fatal("Ready not closed after Wait returned")
	}
	if s.Dispatcher() != d {
		t.Fatal("Dispatcher() differs from Wait result")
	}
}
