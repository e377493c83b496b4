package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/zephyr-bot/internal/app/dispatch"
)

var ErrRoleNotFound = errors.New("role not found")

// MemberEvents grants a default role to every member that joins a guild.
type MemberEvents struct {
	api      GuildAPI
	roleName string
	log      *slog.Logger
}

func NewMemberEvents(api GuildAPI, roleName string, log *slog.Logger) *MemberEvents {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &MemberEvents{api: api, roleName: roleName, log: log}
}

func (m *MemberEvents) Listeners() []dispatch.Listener {
	return []dispatch.Listener{{Name: "onMemberJoin", Handler: m.onMemberJoin}}
}

func (m *MemberEvents) onMemberJoin(e *discordgo.GuildMemberAdd) error {
	if e.Member == nil || e.User == nil {
		return nil
	}
	role, err := m.findRole(e.GuildID)
	if err != nil {
		return err
	}
	if err := m.api.GuildMemberRoleAdd(e.GuildID, e.User.ID, role.ID); err != nil {
		return fmt.Errorf("add role %s to %s: %w", role.ID, e.User.ID, err)
	}
	m.log.Info("role granted", "guild", e.GuildID, "user", e.User.ID, "role", role.Name)
	return nil
}

// findRole matches by name ignoring case; the first match wins.
func (m *MemberEvents) findRole(guildID string) (*discordgo.Role, error) {
	roles, err := m.api.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild roles: %w", err)
	}
	for _, r := range roles {
		if r != nil && strings.EqualFold(r.Name, m.roleName) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in guild %s", ErrRoleNotFound, m.roleName, guildID)
}
