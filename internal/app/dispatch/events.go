package dispatch

import (
	"reflect"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// gatewayEvents lists the event types a listener may subscribe to. Values
// are delivered by the session as these exact pointer types.
var gatewayEvents = typeSet(
	(*discordgo.Connect)(nil),
	(*discordgo.Disconnect)(nil),
	(*discordgo.RateLimit)(nil),
	(*discordgo.Ready)(nil),
	(*discordgo.Resumed)(nil),
	(*discordgo.ChannelCreate)(nil),
	(*discordgo.ChannelUpdate)(nil),
	(*discordgo.ChannelDelete)(nil),
	(*discordgo.ChannelPinsUpdate)(nil),
	(*discordgo.ThreadCreate)(nil),
	(*discordgo.ThreadUpdate)(nil),
	(*discordgo.ThreadDelete)(nil),
	(*discordgo.GuildCreate)(nil),
	(*discordgo.GuildUpdate)(nil),
	(*discordgo.GuildDelete)(nil),
	(*discordgo.GuildBanAdd)(nil),
	(*discordgo.GuildBanRemove)(nil),
	(*discordgo.GuildMemberAdd)(nil),
	(*discordgo.GuildMemberUpdate)(nil),
	(*discordgo.GuildMemberRemove)(nil),
	(*discordgo.GuildMembersChunk)(nil),
	(*discordgo.GuildRoleCreate)(nil),
	(*discordgo.GuildRoleUpdate)(nil),
	(*discordgo.GuildRoleDelete)(nil),
	(*discordgo.GuildEmojisUpdate)(nil),
	(*discordgo.GuildIntegrationsUpdate)(nil),
	(*discordgo.MessageCreate)(nil),
	(*discordgo.MessageUpdate)(nil),
	(*discordgo.MessageDelete)(nil),
	(*discordgo.MessageDeleteBulk)(nil),
	(*discordgo.MessageReactionAdd)(nil),
	(*discordgo.MessageReactionRemove)(nil),
	(*discordgo.MessageReactionRemoveAll)(nil),
	(*discordgo.PresenceUpdate)(nil),
	(*discordgo.TypingStart)(nil),
	(*discordgo.UserUpdate)(nil),
	(*discordgo.VoiceStateUpdate)(nil),
	(*discordgo.VoiceServerUpdate)(nil),
	(*discordgo.WebhooksUpdate)(nil),
	(*discordgo.InteractionCreate)(nil),
	(*discordgo.InviteCreate)(nil),
	(*discordgo.InviteDelete)(nil),
)

func typeSet(vals ...any) map[reflect.Type]struct{} {
	out := make(map[reflect.Type]struct{}, len(vals))
	for _, v := range vals {
		out[reflect.TypeOf(v)] = struct{}{}
	}
	return out
}

// IsGatewayEvent reports whether t is a type listeners can subscribe to.
func IsGatewayEvent(t reflect.Type) bool {
	_, ok := gatewayEvents[t]
	return ok
}

func compileListener(l Listener) (*EventBinding, error) {
	name := l.Name
	fn := reflect.ValueOf(l.Handler)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, &MalformedListenerError{Listener: name, Reason: "handler is not a func"}
	}
	ft := fn.Type()
	if name == "" {
		name = ft.String()
	}
	if ft.NumIn() != 1 || ft.IsVariadic() {
		return nil, &MalformedListenerError{Listener: name, Reason: "expected 1 parameter, found " + strconv.Itoa(ft.NumIn())}
	}
	if !validReturns(ft) {
		return nil, &MalformedListenerError{Listener: name, Reason: ErrHandlerSignature.Error()}
	}
	evt := ft.In(0)
	if !IsGatewayEvent(evt) {
		return nil, &MalformedListenerError{Listener: name, Reason: "parameter " + evt.String() + " is not an event"}
	}
	return &EventBinding{EventType: evt, Name: name, fn: fn}, nil
}
