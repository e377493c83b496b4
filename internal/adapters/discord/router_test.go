package discord

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
	"github.com/jose-valero/zephyr-bot/internal/infra/observability"
)

func TestRouter_HandleInteraction(t *testing.T) {
	var joined []string
	m := observability.NewMetrics()
	j := &memoryJournal{}
	r := NewRouter(testDispatcher(&joined), WithMetrics(m), WithJournal(j))

	tests := []struct {
		name      string
		ic        *discordgo.InteractionCreate
		outcome   string
		reply     string
		ephemeral bool
	}{
		{"hello", commandInteraction("hello", "g1", stringOption("name", "World")), "handled", "Hello World", false},
		{"unknown", commandInteraction("pong", "g1"), "unsupported", dispatch.UnsupportedCommandReply, false},
		{"handler error", commandInteraction("fail", "g1"), outcomeError, "", false},
		{"panic", commandInteraction("explode", "g1"), outcomePanic, panicReply, true},
		{"direct message", commandInteraction("hello", "", stringOption("name", "x")), "ignored", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeInteractions{}
			r.HandleInteraction(context.Background(), tt.ic, newSessionResponder(api, tt.ic))

			if tt.reply == "" {
				if len(api.responses) != 0 {
					t.Fatalf("unexpected responses: %v", api.responses)
				}
			} else {
				if len(api.responses) != 1 || api.responses[0].Data.Content != tt.reply {
					t.Fatalf("responses = %+v", api.responses)
				}
				eph := api.responses[0].Data.Flags&discordgo.MessageFlagsEphemeral != 0
				if eph != tt.ephemeral {
					t.Fatalf("ephemeral = %v, want %v", eph, tt.ephemeral)
				}
			}

			entries := j.all()
			last := entries[len(entries)-1]
			if last.Outcome != tt.outcome || last.Kind != kindCommand {
				t.Fatalf("journal = %+v, want outcome %s", last, tt.outcome)
			}
			key := tt.ic.ApplicationCommandData().Name
			if got := testutil.ToFloat64(m.DispatchTotal.WithLabelValues(kindCommand, key, tt.outcome)); got < 1 {
				t.Fatalf("dispatch metric for %s/%s = %v", key, tt.outcome, got)
			}
		})
	}

	entries := j.all()
	if entries[0].UserID != "u1" || entries[0].GuildID != "g1" {
		t.Fatalf("first entry = %+v", entries[0])
	}
	if entries[2].Error == "" {
		t.Fatal("handler error not journaled")
	}
}

func TestRouter_NotReady(t *testing.T) {
	r := NewRouter(nil)
	api := &fakeInteractions{}
	ic := commandInteraction("hello", "g1")
	r.HandleInteraction(context.Background(), ic, newSessionResponder(api, ic))

	if len(api.responses) != 1 || api.responses[0].Data.Content != notReadyReply {
		t.Fatalf("responses = %+v", api.responses)
	}
	r.HandleEvent(context.Background(), &discordgo.Ready{})
}

func TestRouter_HandleEvent(t *testing.T) {
	var joined []string
	j := &memoryJournal{}
	r := NewRouter(testDispatcher(&joined), WithJournal(j))

	r.HandleEvent(context.Background(), &discordgo.GuildMemberAdd{Member: &discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: "u7"}}})
	r.HandleEvent(context.Background(), &discordgo.MessageCreate{Message: &discordgo.Message{GuildID: "g1"}})

	if len(joined) != 1 || joined[0] != "u7" {
		t.Fatalf("joined = %v", joined)
	}
	entries := j.all()
	if len(entries) != 1 {
		t.Fatalf("journal entries = %d, want only the bound event", len(entries))
	}
	if e := entries[0]; e.Kind != kindEvent || e.Key != "GuildMemberAdd" || e.GuildID != "g1" || e.Outcome != "handled" {
		t.Fatalf("entry = %+v", e)
	}
}

func TestRouter_EventPanicRecovered(t *testing.T) {
	ls := dispatch.ListenerFunc(func() []dispatch.Listener {
		return []dispatch.Listener{{Name: "bad", Handler: func(*discordgo.Ready) { panic("nope") }}}
	})
	d, _, _ := dispatch.Build(context.Background(), dispatch.Plan{Listeners: []dispatch.ListenerProvider{ls}})
	j := &memoryJournal{}
	r := NewRouter(d, WithJournal(j))

	r.HandleEvent(context.Background(), &discordgo.Ready{})
	if entries := j.all(); len(entries) != 1 || entries[0].Outcome != outcomePanic {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestSessionResponder_SecondReplyIsFollowup(t *testing.T) {
	api := &fakeInteractions{}
	ic := commandInteraction("hello", "g1")
	rp := newSessionResponder(api, ic)

	if err := rp.Reply(context.Background(), nil, "one"); err != nil {
		t.Fatal(err)
	}
	if err := rp.Reply(context.Background(), nil, "two"); err != nil {
		t.Fatal(err)
	}
	if len(api.responses) != 1 || len(api.followups) != 1 || api.followups[0].Content != "two" {
		t.Fatalf("responses=%d followups=%+v", len(api.responses), api.followups)
	}
}

func TestSessionResponder_AlreadyAcknowledged(t *testing.T) {
	api := &fakeInteractions{respondErr: &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: codeAlreadyAcknowledged, Message: "already acknowledged"},
	}}
	ic := commandInteraction("hello", "g1")
	rp := newSessionResponder(api, ic)

	if err := rp.Reply(context.Background(), nil, "late"); err != nil {
		t.Fatal(err)
	}
	if len(api.followups) != 1 || api.followups[0].Content != "late" {
		t.Fatalf("followups = %+v", api.followups)
	}
}
