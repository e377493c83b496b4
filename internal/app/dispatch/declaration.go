package dispatch

import "github.com/bwmarrin/discordgo"

// Command declares one slash command. Params is aligned by position with the
// parameters of Handler, which must be a func (usually a method value, so the
// provider instance travels with it) returning nothing or an error.
type Command struct {
	Name        string
	Description string
	Params      []Param
	Handler     any
}

// Listener declares one gateway event listener. Handler must be a func with a
// single parameter whose type is a known gateway event, e.g.
// func(*discordgo.GuildMemberAdd) error.
type Listener struct {
	Name    string
	Handler any
}

// CommandProvider groups related commands.
type CommandProvider interface {
	Commands() []Command
}

// ListenerProvider groups related event listeners.
type ListenerProvider interface {
	Listeners() []Listener
}

// Param is the raw metadata for one handler parameter. A zero Param (or
// Context()) is a pass-through that receives the invocation itself.
type Param struct {
	name        string
	description string
	optional    bool
	named       bool
}

// Opt binds a handler parameter to the named command option.
func Opt(name, description string) Param {
	return Param{name: name, description: description, named: true}
}

// Context marks a handler parameter as a pass-through. It accepts
// *Invocation, *discordgo.InteractionCreate or context.Context.
func Context() Param { return Param{} }

// Optional marks a named option as not required.
func (p Param) Optional() Param {
	p.optional = true
	return p
}

// Named reports whether the parameter is bound to a command option.
func (p Param) Named() bool { return p.named }

// Mentionable is the resolved value of a mentionable option: either a user
// (with member data when the gateway sent it) or a role.
type Mentionable struct {
	ID     string
	User   *discordgo.User
	Member *discordgo.Member
	Role   *discordgo.Role
}

// IsRole reports whether the mention resolved to a role.
func (m *Mentionable) IsRole() bool { return m != nil && m.Role != nil }

// CommandFunc and ListenerFunc adapt plain slices into providers, which is
// handy for small bots and tests.
type CommandFunc func() []Command

func (f CommandFunc) Commands() []Command { return f() }

type ListenerFunc func() []Listener

func (f ListenerFunc) Listeners() []Listener { return f() }
