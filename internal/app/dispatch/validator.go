package dispatch

import (
	"context"
	"fmt"
	"reflect"

	"github.com/bwmarrin/discordgo"
)

// ParamSpec is the compiled shape of one handler parameter.
type ParamSpec struct {
	Kind        Kind
	Width       Width
	HostType    reflect.Type
	OptionName  string
	Description string
	Required    bool
}

// Named reports whether the parameter reads a command option.
func (p ParamSpec) Named() bool { return p.OptionName != "" }

// target names the host type an option converts to.
func (p ParamSpec) target() string {
	if p.HostType == nil {
		return p.Width.String()
	}
	return p.HostType.String()
}

type hostKind struct {
	kind  Kind
	width Width
}

var (
	invocationType  = reflect.TypeOf((*Invocation)(nil))
	interactionType = reflect.TypeOf((*discordgo.InteractionCreate)(nil))
	contextType     = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
)

// scalarTypes are the value types a named option may be declared as. A
// pointer to any of them is accepted too and makes the option optional.
var scalarTypes = map[reflect.Type]hostKind{
	reflect.TypeOf(""):         {KindString, WidthDefault},
	reflect.TypeOf(int(0)):     {KindInteger, WidthDefault},
	reflect.TypeOf(int32(0)):   {KindInteger, WidthDefault},
	reflect.TypeOf(false):      {KindBoolean, WidthDefault},
	reflect.TypeOf(float32(0)): {KindNumber, WidthFloat},
	reflect.TypeOf(float64(0)): {KindNumber, WidthDouble},
	reflect.TypeOf(int64(0)):   {KindNumber, WidthLong},
}

var entityTypes = map[reflect.Type]hostKind{
	reflect.TypeOf((*discordgo.User)(nil)):              {KindUser, WidthDefault},
	reflect.TypeOf((*discordgo.Member)(nil)):            {KindUser, WidthMember},
	reflect.TypeOf((*discordgo.Channel)(nil)):           {KindChannel, WidthDefault},
	reflect.TypeOf((*Mentionable)(nil)):                 {KindMentionable, WidthDefault},
	reflect.TypeOf((*discordgo.MessageAttachment)(nil)): {KindAttachment, WidthDefault},
}

// classify maps a host type to its kind. nullable is true when the type
// itself is a nullability marker: a pointer to a scalar or an entity.
func classify(t reflect.Type) (hk hostKind, nullable bool, ok bool) {
	if hk, ok := scalarTypes[t]; ok {
		return hk, false, true
	}
	if t.Kind() == reflect.Pointer {
		if hk, ok := scalarTypes[t.Elem()]; ok {
			return hk, true, true
		}
	}
	if hk, ok := entityTypes[t]; ok {
		return hk, true, true
	}
	return hostKind{}, false, false
}

func compileCommand(c Command) (*CommandBinding, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("command: %w", ErrEmptyName)
	}
	fn := reflect.ValueOf(c.Handler)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("command %q: %w", c.Name, ErrNotHandler)
	}
	ft := fn.Type()
	if !validReturns(ft) {
		return nil, fmt.Errorf("command %q: %w", c.Name, ErrHandlerSignature)
	}
	if ft.IsVariadic() || ft.NumIn() != len(c.Params) {
		return nil, fmt.Errorf("command %q: %w (handler takes %d, declared %d)", c.Name, ErrParamCount, ft.NumIn(), len(c.Params))
	}

	specs, err := compileParams(c.Name, c.Params, ft)
	if err != nil {
		return nil, err
	}
	return &CommandBinding{
		Name:        c.Name,
		Description: c.Description,
		Params:      specs,
		fn:          fn,
	}, nil
}

func compileParams(command string, params []Param, ft reflect.Type) ([]ParamSpec, error) {
	seen := make(map[string]struct{}, len(params))
	specs := make([]ParamSpec, 0, len(params))
	for i, p := range params {
		spec, err := compileParam(command, i, p, ft.In(i))
		if err != nil {
			return nil, err
		}
		if spec.Named() {
			if _, dup := seen[spec.OptionName]; dup {
				return nil, fmt.Errorf("command %q: %w %q", command, ErrDuplicateOption, spec.OptionName)
			}
			seen[spec.OptionName] = struct{}{}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func compileParam(command string, pos int, p Param, t reflect.Type) (ParamSpec, error) {
	unsupported := &UnsupportedParameterTypeError{Command: command, Position: pos, TypeName: t.String()}

	if p.named && p.name == "" {
		return ParamSpec{}, fmt.Errorf("command %q: parameter %d: %w", command, pos, ErrEmptyName)
	}
	if !p.Named() {
		spec := ParamSpec{Kind: KindContext, HostType: t}
		switch t {
		case invocationType:
			spec.Width = WidthDefault
		case interactionType:
			spec.Width = WidthRawInteraction
		case contextType:
			spec.Width = WidthContext
		default:
			return ParamSpec{}, unsupported
		}
		return spec, nil
	}

	hk, nullable, ok := classify(t)
	if !ok {
		return ParamSpec{}, unsupported
	}
	return ParamSpec{
		Kind:        hk.kind,
		Width:       hk.width,
		HostType:    t,
		OptionName:  p.name,
		Description: p.description,
		Required:    !(p.optional || nullable),
	}, nil
}

func validReturns(ft reflect.Type) bool {
	switch ft.NumOut() {
	case 0:
		return true
	case 1:
		return ft.Out(0) == errorType
	default:
		return false
	}
}
