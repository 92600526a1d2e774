package flow

import "strings"

// UsageBuilder renders the usage line for the deepest command in ctx.
type UsageBuilder interface {
	Usage(ctx *Context) string
}

// UsageFunc adapts a function to UsageBuilder.
type UsageFunc func(ctx *Context) string

func (f UsageFunc) Usage(ctx *Context) string {
	return f(ctx)
}

// DefaultUsageBuilder renders "label sub <required> [optional] <rest...>".
type DefaultUsageBuilder struct{}

func (DefaultUsageBuilder) Usage(ctx *Context) string {
	command := ctx.Command()
	if command == nil {
		return ""
	}
	words := ctx.Labels()
	if args := RenderPart(command.Part()); args != "" {
		words = append(words, args)
	}
	return strings.Join(words, " ")
}

type consumer interface {
	ConsumesAll() bool
}

// RenderPart renders the argument syntax of p.
func RenderPart(p Part) string {
	return render(p, false)
}

func render(p Part, optional bool) string {
	switch p := p.(type) {
	case nil:
		return ""
	case *SequencePart:
		var words []string
		for _, child := range p.parts {
			if w := render(child, optional); w != "" {
				words = append(words, w)
			}
		}
		return strings.Join(words, " ")
	case *OptionalPart:
		return render(p.part, true)
	case *FirstMatchingPart:
		var alts []string
		for _, alt := range p.alternatives {
			if w := render(alt, false); w != "" {
				alts = append(alts, w)
			}
		}
		switch {
		case len(alts) == 0:
			return ""
		case optional:
			return "[" + strings.Join(alts, " | ") + "]"
		case len(alts) == 1:
			return alts[0]
		}
		return "(" + strings.Join(alts, " | ") + ")"
	case *SubCommandPart:
		names := make([]string, 0, len(p.commands))
		for _, c := range p.commands {
			names = append(names, c.Name())
		}
		return wrap(strings.Join(names, "|"), optional || p.optional)
	default:
		label := p.Name()
		if c, ok := p.(consumer); ok && c.ConsumesAll() {
			label += "..."
		}
		return wrap(label, optional || p.Optional())
	}
}

func wrap(s string, optional bool) string {
	if s == "" {
		return ""
	}
	if optional {
		return "[" + s + "]"
	}
	return "<" + s + ">"
}
