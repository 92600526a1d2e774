package flow

import (
	"strings"

	"github.com/cristianoliveira/commandflow/pkg/stack"
)

// SubCommandHandler picks the child command a discriminator token names.
type SubCommandHandler interface {
	Resolve(ctx *Context, token string, candidates []*Command) *Command
}

// SubCommandHandlerFunc adapts a function to SubCommandHandler.
type SubCommandHandlerFunc func(ctx *Context, token string, candidates []*Command) *Command

func (f SubCommandHandlerFunc) Resolve(ctx *Context, token string, candidates []*Command) *Command {
	return f(ctx, token, candidates)
}

// DefaultSubCommandHandler matches names first, then aliases, ignoring case.
var DefaultSubCommandHandler SubCommandHandler = SubCommandHandlerFunc(resolveByName)

func resolveByName(_ *Context, token string, candidates []*Command) *Command {
	for _, c := range candidates {
		if strings.EqualFold(c.Name(), token) {
			return c
		}
	}
	for _, c := range candidates {
		for _, alias := range c.aliases {
			if strings.EqualFold(alias, token) {
				return c
			}
		}
	}
	return nil
}

// SubCommandPart consumes a discriminator token and descends into the
// child command it names.
type SubCommandPart struct {
	name     string
	key      Key
	commands []*Command
	optional bool
	handler  SubCommandHandler
}

// SubCommands builds a subcommand part over commands. A nil handler means
// DefaultSubCommandHandler.
func SubCommands(name string, commands []*Command, optional bool, handler SubCommandHandler) *SubCommandPart {
	if handler == nil {
		handler = DefaultSubCommandHandler
	}
	children := make([]*Command, len(commands))
	copy(children, commands)
	return &SubCommandPart{
		name:     name,
		key:      Key(name),
		commands: children,
		optional: optional,
		handler:  handler,
	}
}

func (s *SubCommandPart) Name() string { return s.name }

func (s *SubCommandPart) Key() Key { return s.key }

func (s *SubCommandPart) Optional() bool { return s.optional }

// Commands returns the child commands in declaration order.
func (s *SubCommandPart) Commands() []*Command {
	out := make([]*Command, len(s.commands))
	copy(out, s.commands)
	return out
}

func (s *SubCommandPart) Parse(ctx *Context, st *stack.Stack) (Bindings, error) {
	token, err := st.Peek()
	if err != nil {
		if s.optional {
			return Bindings{}, nil
		}
		return Bindings{}, err
	}

	child := s.handler.Resolve(ctx, token, s.commands)
	if child == nil {
		if s.optional {
			return Bindings{}, nil
		}
		return Bindings{}, &stack.ParseError{
			Kind:     stack.KindUnknownSubcommand,
			Token:    token,
			Target:   s.name,
			Position: st.Position(),
		}
	}
	_ = st.Skip()

	inv := Invocation{Command: child, Label: token}
	if !ctx.Authorized(child.Permission()) {
		return Bindings{}, annotate(NewNotAuthorizedError(child), inv)
	}

	b := BindCommand(child, token)
	if child.part == nil {
		return b, nil
	}
	scratch := ctx.Fork()
	scratch.Apply(b)
	cb, err := child.part.Parse(scratch, st)
	if err != nil {
		return Bindings{}, annotate(err, inv)
	}
	return b.Merge(cb), nil
}

func (s *SubCommandPart) Suggestions(ctx *Context, st *stack.Stack) []string {
	switch st.Remaining() {
	case 0:
		return nil
	case 1:
		prefix, _ := st.Peek()
		var names []string
		for _, c := range s.commands {
			if !ctx.Authorized(c.Permission()) {
				continue
			}
			names = append(names, c.Names()...)
		}
		return completions(prefix, names)
	}

	token, _ := st.Next()
	child := s.handler.Resolve(ctx, token, s.commands)
	if child == nil || child.part == nil || !ctx.Authorized(child.Permission()) {
		return nil
	}
	scratch := ctx.Fork()
	scratch.SetCommand(child, token)
	return child.part.Suggestions(scratch, st)
}
