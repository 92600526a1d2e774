package flow

import (
	"errors"
	"fmt"
	"strings"
)

// Action runs a parsed command. Returning false asks the caller to show
// usage.
type Action interface {
	Execute(ctx *Context) (bool, error)
}

// ActionFunc adapts a function to Action.
type ActionFunc func(ctx *Context) (bool, error)

func (f ActionFunc) Execute(ctx *Context) (bool, error) {
	return f(ctx)
}

// Command is an immutable node of the command tree.
type Command struct {
	name              string
	aliases           []string
	description       string
	permission        string
	permissionMessage string
	part              Part
	action            Action
}

func (c *Command) Name() string { return c.name }

// Aliases returns the alternative names in declaration order.
func (c *Command) Aliases() []string {
	out := make([]string, len(c.aliases))
	copy(out, c.aliases)
	return out
}

// Names returns the name followed by the aliases.
func (c *Command) Names() []string {
	return append([]string{c.name}, c.aliases...)
}

func (c *Command) Description() string { return c.description }

// Permission is the permission required to run the command; empty means
// anyone may.
func (c *Command) Permission() string { return c.permission }

func (c *Command) PermissionMessage() string { return c.permissionMessage }

// Part returns the root argument part.
func (c *Command) Part() Part { return c.part }

// Action returns the action, or nil.
func (c *Command) Action() Action { return c.action }

func (c *Command) String() string { return c.name }

// Builder assembles a Command.
type Builder struct {
	name              string
	aliases           []string
	description       string
	permission        string
	permissionMessage string
	parts             []Part
	action            Action
	subcommands       []*Command
	subHandler        SubCommandHandler
	optionalSub       bool
	argsOrSub         bool
}

// NewCommand starts a builder for a command called name.
func NewCommand(name string) *Builder {
	return &Builder{name: name}
}

func (b *Builder) Aliases(aliases ...string) *Builder {
	b.aliases = append(b.aliases, aliases...)
	return b
}

func (b *Builder) Description(description string) *Builder {
	b.description = description
	return b
}

func (b *Builder) Permission(permission string) *Builder {
	b.permission = permission
	return b
}

// PermissionMessage overrides the error text shown to unauthorized callers.
func (b *Builder) PermissionMessage(message string) *Builder {
	b.permissionMessage = message
	return b
}

// AddPart appends argument parts, parsed in order.
func (b *Builder) AddPart(parts ...Part) *Builder {
	b.parts = append(b.parts, parts...)
	return b
}

func (b *Builder) Action(action Action) *Builder {
	b.action = action
	return b
}

// Handler sets the action from a function.
func (b *Builder) Handler(fn func(ctx *Context) (bool, error)) *Builder {
	b.action = ActionFunc(fn)
	return b
}

// SubCommands adds child commands, selected by a discriminator token after
// the command's own parts.
func (b *Builder) SubCommands(commands ...*Command) *Builder {
	b.subcommands = append(b.subcommands, commands...)
	return b
}

// SubCommandHandler replaces the default name/alias matching.
func (b *Builder) SubCommandHandler(handler SubCommandHandler) *Builder {
	b.subHandler = handler
	return b
}

// OptionalSubCommand lets the command run without a subcommand.
func (b *Builder) OptionalSubCommand() *Builder {
	b.optionalSub = true
	return b
}

// ArgumentsOrSubCommand makes the command's own parts and its subcommands
// alternatives: the parts are tried first, then the subcommands.
func (b *Builder) ArgumentsOrSubCommand() *Builder {
	b.argsOrSub = true
	return b
}

// Build validates the definition and returns the command.
func (b *Builder) Build() (*Command, error) {
	name := strings.TrimSpace(b.name)
	if name == "" {
		return nil, errors.New("command name cannot be empty")
	}
	if strings.ContainsAny(name, " \t\n") {
		return nil, fmt.Errorf("command name %q contains whitespace", name)
	}
	for _, alias := range b.aliases {
		if strings.TrimSpace(alias) == "" || strings.ContainsAny(alias, " \t\n") {
			return nil, fmt.Errorf("command %q: invalid alias %q", name, alias)
		}
	}

	seen := make(map[string]bool, len(b.subcommands))
	for _, sub := range b.subcommands {
		if sub == nil {
			return nil, fmt.Errorf("command %q: nil subcommand", name)
		}
		key := strings.ToLower(sub.Name())
		if seen[key] {
			return nil, fmt.Errorf("command %q: duplicate subcommand %q", name, sub.Name())
		}
		seen[key] = true
	}

	var args Part
	switch len(b.parts) {
	case 0:
	case 1:
		args = b.parts[0]
	default:
		args = Sequence(name, b.parts...)
	}

	var root Part
	switch {
	case len(b.subcommands) == 0:
		root = args
	case b.argsOrSub:
		sub := SubCommands("subcommand", b.subcommands, b.optionalSub, b.subHandler)
		if args == nil {
			root = sub
		} else {
			root = FirstMatching("subcommand|arguments", args, sub)
		}
	default:
		sub := SubCommands("subcommand", b.subcommands, b.optionalSub, b.subHandler)
		root = Sequence(name, append(append([]Part{}, b.parts...), sub)...)
	}
	if root == nil {
		root = Sequence(name)
	}

	return &Command{
		name:              name,
		aliases:           append([]string(nil), b.aliases...),
		description:       b.description,
		permission:        b.permission,
		permissionMessage: b.permissionMessage,
		part:              root,
		action:            b.action,
	}, nil
}

// MustBuild is Build that panics on an invalid definition.
func (b *Builder) MustBuild() *Command {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
