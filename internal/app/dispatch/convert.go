package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/bwmarrin/discordgo"
)

// arguments assembles the positional argument list for b, in declared order.
func arguments(ctx context.Context, inv *Invocation, b *CommandBinding) ([]reflect.Value, error) {
	args := make([]reflect.Value, 0, len(b.Params))
	for _, spec := range b.Params {
		if !spec.Named() {
			args = append(args, passThrough(ctx, inv, spec))
			continue
		}
		opt, ok := inv.Option(spec.OptionName)
		if !ok {
			if spec.Required {
				return nil, &MissingOptionError{Option: spec.OptionName}
			}
			args = append(args, reflect.Zero(spec.HostType))
			continue
		}
		v, err := convertOption(spec, opt, inv.Resolved)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func passThrough(ctx context.Context, inv *Invocation, spec ParamSpec) reflect.Value {
	switch spec.Width {
	case WidthRawInteraction:
		if inv.Interaction == nil {
			return reflect.Zero(interactionType)
		}
		return reflect.ValueOf(inv.Interaction)
	case WidthContext:
		if ctx == nil {
			ctx = context.Background()
		}
		return reflect.ValueOf(&ctx).Elem()
	default:
		return reflect.ValueOf(inv)
	}
}

// convertOption turns one wire option into the host value the handler
// declared for it.
func convertOption(spec ParamSpec, opt *discordgo.ApplicationCommandInteractionDataOption, res *discordgo.ApplicationCommandInteractionDataResolved) (reflect.Value, error) {
	want, _ := spec.Kind.OptionType()
	if opt.Type != want {
		return reflect.Value{}, &OptionTypeMismatchError{Option: spec.OptionName, Want: spec.Kind, Got: opt.Type}
	}

	var v any
	switch spec.Kind {
	case KindString:
		s, ok := opt.Value.(string)
		if !ok {
			return reflect.Value{}, &OptionTypeMismatchError{Option: spec.OptionName, Want: spec.Kind, Got: opt.Type}
		}
		v = s
	case KindInteger:
		n, ok := wireInt(opt.Value)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return reflect.Value{}, &NumberConversionError{Option: spec.OptionName, Target: spec.target(), Value: opt.Value}
		}
		v = n
	case KindBoolean:
		b, ok := opt.Value.(bool)
		if !ok {
			return reflect.Value{}, &OptionTypeMismatchError{Option: spec.OptionName, Want: spec.Kind, Got: opt.Type}
		}
		v = b
	case KindNumber:
		n, err := convertNumber(spec, opt.Value)
		if err != nil {
			return reflect.Value{}, err
		}
		v = n
	case KindUser, KindChannel, KindMentionable, KindAttachment:
		ent, err := resolveEntity(spec, opt.Value, res)
		if err != nil {
			return reflect.Value{}, err
		}
		v = ent
	case KindContext, KindInvalid:
		return reflect.Value{}, fmt.Errorf("option %q: kind %s has no wire value", spec.OptionName, spec.Kind)
	}
	return hostValue(spec.HostType, v), nil
}

func convertNumber(spec ParamSpec, raw any) (any, error) {
	f, ok := wireFloat(raw)
	if !ok {
		return nil, &NumberConversionError{Option: spec.OptionName, Target: spec.target(), Value: raw}
	}
	switch spec.Width {
	case WidthFloat:
		return float32(f), nil
	case WidthDouble:
		return f, nil
	case WidthLong:
		return int64(f), nil
	default:
		return nil, &NumberConversionError{Option: spec.OptionName, Target: spec.target(), Value: raw}
	}
}

func resolveEntity(spec ParamSpec, raw any, res *discordgo.ApplicationCommandInteractionDataResolved) (any, error) {
	id, _ := raw.(string)
	if id == "" || res == nil {
		return nil, fmt.Errorf("option %q: %w", spec.OptionName, ErrUnresolved)
	}

	var found any
	switch spec.Kind {
	case KindUser:
		if spec.Width == WidthMember {
			if m, ok := res.Members[id]; ok && m != nil {
				if m.User == nil {
					m.User = res.Users[id]
				}
				found = m
			}
		} else if u, ok := res.Users[id]; ok && u != nil {
			found = u
		}
	case KindChannel:
		if ch, ok := res.Channels[id]; ok && ch != nil {
			found = ch
		}
	case KindMentionable:
		if u, ok := res.Users[id]; ok && u != nil {
			found = &Mentionable{ID: id, User: u, Member: res.Members[id]}
		} else if r, ok := res.Roles[id]; ok && r != nil {
			found = &Mentionable{ID: id, Role: r}
		}
	case KindAttachment:
		if a, ok := res.Attachments[id]; ok && a != nil {
			found = a
		}
	}
	if found == nil {
		return nil, fmt.Errorf("option %q (%s): %w", spec.OptionName, id, ErrUnresolved)
	}
	return found, nil
}

// hostValue converts v to t. A pointer-to-scalar host type receives a fresh
// pointer so handlers can tell "set" from "absent".
func hostValue(t reflect.Type, v any) reflect.Value {
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if t.Kind() == reflect.Pointer && rv.Kind() != reflect.Pointer {
		p := reflect.New(t.Elem())
		p.Elem().Set(rv.Convert(t.Elem()))
		return p
	}
	return rv.Convert(t)
}

// wireInt accepts the shapes an integer takes after JSON decoding (float64)
// or when built in code.
func wireInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func wireFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
