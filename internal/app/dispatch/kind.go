package dispatch

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Kind is the semantic kind of a handler parameter. The set is closed: every
// switch over Kind in this package lists all of them.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInteger
	KindBoolean
	KindNumber
	KindUser
	KindChannel
	KindMentionable
	KindAttachment
	KindContext
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindUser:
		return "user"
	case KindChannel:
		return "channel"
	case KindMentionable:
		return "mentionable"
	case KindAttachment:
		return "attachment"
	case KindContext:
		return "context"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// OptionType returns the gateway wire enumeration for a named kind.
// KindContext has no wire form.
func (k Kind) OptionType() (discordgo.ApplicationCommandOptionType, bool) {
	switch k {
	case KindString:
		return discordgo.ApplicationCommandOptionString, true
	case KindInteger:
		return discordgo.ApplicationCommandOptionInteger, true
	case KindBoolean:
		return discordgo.ApplicationCommandOptionBoolean, true
	case KindNumber:
		return discordgo.ApplicationCommandOptionNumber, true
	case KindUser:
		return discordgo.ApplicationCommandOptionUser, true
	case KindChannel:
		return discordgo.ApplicationCommandOptionChannel, true
	case KindMentionable:
		return discordgo.ApplicationCommandOptionMentionable, true
	case KindAttachment:
		return discordgo.ApplicationCommandOptionAttachment, true
	case KindContext, KindInvalid:
		return 0, false
	}
	return 0, false
}

// Width narrows a kind to the concrete host representation the handler
// declared: the numeric width for KindNumber, user vs member for KindUser,
// and the pass-through target for KindContext.
type Width int

const (
	WidthDefault Width = iota
	WidthFloat
	WidthDouble
	WidthLong
	WidthMember
	WidthRawInteraction
	WidthContext
)

func (w Width) String() string {
	switch w {
	case WidthFloat:
		return "float"
	case WidthDouble:
		return "double"
	case WidthLong:
		return "long"
	case WidthMember:
		return "member"
	case WidthRawInteraction:
		return "interaction"
	case WidthContext:
		return "context"
	default:
		return "default"
	}
}
