package discord

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
	"github.com/jose-valero/zephyr-bot/internal/infra/storage"
)

type fakeInteractions struct {
	mu         sync.Mutex
	responses  []*discordgo.InteractionResponse
	followups  []*discordgo.WebhookParams
	respondErr error
}

func (f *fakeInteractions) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.respondErr != nil {
		err := f.respondErr
		f.respondErr = nil
		return err
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeInteractions) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, data)
	return &discordgo.Message{Content: data.Content}, nil
}

type fakeCommands struct {
	calls [][]*discordgo.ApplicationCommand
	err   error
}

func (f *fakeCommands) ApplicationCommandBulkOverwrite(_, _ string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, cmds)
	return cmds, nil
}

type memoryStore struct {
	byScope map[string]map[string]string
	err     error
}

func (m *memoryStore) Hashes(_ context.Context, scope string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]string{}
	for k, v := range m.byScope[scope] {
		out[k] = v
	}
	return out, nil
}

func (m *memoryStore) Replace(_ context.Context, scope string, hashes map[string]string) error {
	if m.byScope == nil {
		m.byScope = map[string]map[string]string{}
	}
	m.byScope[scope] = hashes
	return nil
}

type memoryJournal struct {
	mu      sync.Mutex
	entries []storage.JournalEntry
}

func (j *memoryJournal) Record(_ context.Context, e storage.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *memoryJournal) all() []storage.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]storage.JournalEntry(nil), j.entries...)
}

var errBoom = errors.New("boom")

// testDispatcher binds a small command set: hello(name), fail, explode and
// a member-join listener.
func testDispatcher(joined *[]string) *dispatch.Dispatcher {
	cmds := dispatch.CommandFunc(func() []dispatch.Command {
		return []dispatch.Command{
			{
				Name:   "hello",
				Params: []dispatch.Param{dispatch.Opt("name", "Your Name"), dispatch.Context()},
				Handler: func(name string, inv *dispatch.Invocation) error {
					return inv.Reply(context.Background(), "Hello "+name)
				},
			},
			{Name: "fail", Handler: func() error { return errBoom }},
			{Name: "explode", Handler: func() { panic("kaboom") }},
		}
	})
	ls := dispatch.ListenerFunc(func() []dispatch.Listener {
		return []dispatch.Listener{{
			Name: "onMemberJoin",
			Handler: func(e *discordgo.GuildMemberAdd) {
				*joined = append(*joined, e.User.ID)
			},
		}}
	})
	d, _, _ := dispatch.Build(context.Background(), dispatch.Plan{
		Commands:  []dispatch.CommandProvider{cmds},
		Listeners: []dispatch.ListenerProvider{ls},
	})
	return d
}

func commandInteraction(name, guildID string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "i1",
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Member:  &discordgo.Member{User: &discordgo.User{ID: "u1"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: opts,
		},
	}}
}

func stringOption(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: v}
}
