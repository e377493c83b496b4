package dispatch

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrNotHandler       = errors.New("handler is not a func")
	ErrParamCount       = errors.New("param metadata does not match handler arity")
	ErrHandlerSignature = errors.New("handler must return nothing or a single error")
	ErrDuplicateOption  = errors.New("duplicate option name")
	ErrEmptyName        = errors.New("empty name")
	ErrNotReady         = errors.New("dispatcher not ready")
	ErrUnresolved       = errors.New("option value not found in resolved data")
)

// UnsupportedParameterTypeError is returned at build time when a handler
// parameter's host type has no semantic kind.
type UnsupportedParameterTypeError struct {
	Command  string
	Position int
	TypeName string
}

func (e *UnsupportedParameterTypeError) Error() string {
	return fmt.Sprintf("command %q: parameter %d: option of type %q is not supported", e.Command, e.Position, e.TypeName)
}

// MalformedListenerError is returned at build time for a listener that does
// not take exactly one known event.
type MalformedListenerError struct {
	Listener string
	Reason   string
}

func (e *MalformedListenerError) Error() string {
	return fmt.Sprintf("event listener %q: %s", e.Listener, e.Reason)
}

// NumberConversionError fails a single invocation whose number option cannot
// be converted to the type the handler declared.
type NumberConversionError struct {
	Option string
	Target string
	Value  any
}

func (e *NumberConversionError) Error() string {
	return fmt.Sprintf("option %q: cannot convert %v (%T) to %s", e.Option, e.Value, e.Value, e.Target)
}

// OptionTypeMismatchError is returned when the wire type of an option does
// not match the kind registered for it.
type OptionTypeMismatchError struct {
	Option string
	Want   Kind
	Got    discordgo.ApplicationCommandOptionType
}

func (e *OptionTypeMismatchError) Error() string {
	return fmt.Sprintf("option %q: expected %s, got wire type %d", e.Option, e.Want, e.Got)
}

// MissingOptionError is returned when a required option is absent.
type MissingOptionError struct {
	Option string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("required option %q missing", e.Option)
}

// HandlerError wraps an error returned from inside a handler body.
type HandlerError struct {
	Key string
	Err error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s: %v", e.Key, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
