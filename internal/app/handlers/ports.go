package handlers

import "github.com/bwmarrin/discordgo"

// Lo implementa *discordgo.Session
type GuildAPI interface {
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}
