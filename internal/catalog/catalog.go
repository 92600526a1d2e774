// Package catalog builds command trees from TOML definitions.
//
// A catalog file holds one [[command]] table per root command:
//
//	[[command]]
//	name = "greet"
//	aliases = ["hi"]
//	action = "echo"
//
//	  [[command.arg]]
//	  name = "name"
//	  optional = true
//	  default = "world"
//
//	  [[command.sub]]
//	  name = "loud"
//	  action = "echo"
//
// Actions are referenced by name and resolved through an Actions table.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cristianoliveira/commandflow/pkg/dispatch"
	"github.com/cristianoliveira/commandflow/pkg/flow"
	"github.com/cristianoliveira/commandflow/pkg/stack"
	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultCatalog []byte

// Argument types accepted in [[command.arg]] tables.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeInt64  = "int64"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeChoice = "choice"
)

// File is the decoded form of a catalog.
type File struct {
	Commands []CommandSpec `toml:"command"`
}

// CommandSpec describes one command and, recursively, its subcommands.
type CommandSpec struct {
	Name                  string        `toml:"name"`
	Aliases               []string      `toml:"aliases"`
	Description           string        `toml:"description"`
	Permission            string        `toml:"permission"`
	PermissionMessage     string        `toml:"permission_message"`
	Action                string        `toml:"action"`
	OptionalSubCommand    bool          `toml:"optional_subcommand"`
	ArgumentsOrSubCommand bool          `toml:"arguments_or_subcommand"`
	Args                  []ArgSpec     `toml:"arg"`
	Subs                  []CommandSpec `toml:"sub"`
}

// ArgSpec describes one argument part.
type ArgSpec struct {
	Name       string   `toml:"name"`
	Key        string   `toml:"key"`
	Type       string   `toml:"type"`
	Choices    []string `toml:"choices"`
	Optional   bool     `toml:"optional"`
	Default    any      `toml:"default"`
	ConsumeAll bool     `toml:"consume_all"`
}

// Default returns the embedded catalog shipped with the binary.
func Default() []byte {
	return append([]byte(nil), defaultCatalog...)
}

// Decode parses catalog TOML. Unknown fields are rejected.
func Decode(r io.Reader) (File, error) {
	var f File
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return File{}, describeDecodeError(err)
	}
	return f, nil
}

func describeDecodeError(err error) error {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Errorf("catalog: line %d column %d: %s", row, col, decodeErr.Error())
	}
	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) {
		return fmt.Errorf("catalog: unknown field: %s", strings.TrimSpace(strictErr.String()))
	}
	return fmt.Errorf("catalog: %w", err)
}

// Parse decodes data and builds its commands.
func Parse(data []byte, actions Actions) ([]*flow.Command, error) {
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return f.Build(actions)
}

// Load reads the catalog at path. An empty path loads the embedded default.
func Load(path string, actions Actions) ([]*flow.Command, error) {
	if path == "" {
		return Parse(defaultCatalog, actions)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(data, actions)
}

// Build turns every command spec into a command.
func (f File) Build(actions Actions) ([]*flow.Command, error) {
	commands := make([]*flow.Command, 0, len(f.Commands))
	for _, spec := range f.Commands {
		cmd, err := spec.Build(actions)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

// Build turns s into a command.
func (s CommandSpec) Build(actions Actions) (*flow.Command, error) {
	return s.build(actions, nil)
}

func (s CommandSpec) build(actions Actions, path []string) (*flow.Command, error) {
	path = append(path, s.Name)
	where := "command " + strings.Join(path, " > ")

	b := flow.NewCommand(s.Name).
		Aliases(s.Aliases...).
		Description(s.Description).
		Permission(s.Permission).
		PermissionMessage(s.PermissionMessage)

	if s.Action != "" {
		action, ok := actions.Lookup(s.Action)
		if !ok {
			return nil, fmt.Errorf("catalog: %s: unknown action %q", where, s.Action)
		}
		b.Action(action)
	}

	for _, arg := range s.Args {
		part, err := arg.Part()
		if err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", where, err)
		}
		b.AddPart(part)
	}

	for _, sub := range s.Subs {
		child, err := sub.build(actions, path)
		if err != nil {
			return nil, err
		}
		b.SubCommands(child)
	}
	if s.OptionalSubCommand {
		b.OptionalSubCommand()
	}
	if s.ArgumentsOrSubCommand {
		b.ArgumentsOrSubCommand()
	}

	cmd, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", where, err)
	}
	return cmd, nil
}

// Part builds the argument part, wrapped in Optional when requested.
func (a ArgSpec) Part() (flow.Part, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return nil, errors.New("argument name cannot be empty")
	}
	key := flow.Key(name)
	if a.Key != "" {
		key = flow.Key(a.Key)
	}

	var part flow.Part
	switch strings.ToLower(a.Type) {
	case "", TypeString:
		part = primitive(flow.String(name), key, a.ConsumeAll)
	case TypeInt:
		part = primitive(flow.Int(name), key, a.ConsumeAll)
	case TypeInt64:
		part = primitive(flow.Int64(name), key, a.ConsumeAll)
	case TypeFloat:
		part = primitive(flow.Float(name), key, a.ConsumeAll)
	case TypeBool:
		part = primitive(flow.Bool(name), key, a.ConsumeAll)
	case TypeChoice:
		if len(a.Choices) == 0 {
			return nil, fmt.Errorf("argument %q: choice needs at least one value", name)
		}
		part = primitive(flow.Choice(name, a.Choices...), key, a.ConsumeAll)
	default:
		return nil, fmt.Errorf("argument %q: unknown type %q", name, a.Type)
	}

	if a.Default != nil && !a.Optional {
		return nil, fmt.Errorf("argument %q: default requires optional = true", name)
	}
	if !a.Optional {
		return part, nil
	}
	defaults, err := parseDefaults(part, a.Default, a.ConsumeAll)
	if err != nil {
		return nil, fmt.Errorf("argument %q: default: %w", name, err)
	}
	return flow.Optional(part, defaults...), nil
}

func primitive[T any](p *flow.Primitive[T], key flow.Key, consumeAll bool) flow.Part {
	p = p.WithKey(key)
	if consumeAll {
		p = p.ConsumeAll()
	}
	return p
}

// parseDefaults runs the default through the part itself so defaults obey
// the same conversion and domain rules as typed input.
func parseDefaults(part flow.Part, raw any, consumeAll bool) ([]any, error) {
	if raw == nil {
		return nil, nil
	}
	var tokens []string
	switch v := raw.(type) {
	case []any:
		if !consumeAll {
			return nil, errors.New("a list default needs consume_all = true")
		}
		for _, item := range v {
			tokens = append(tokens, fmt.Sprint(item))
		}
	default:
		tokens = []string{fmt.Sprint(v)}
	}

	st := stack.New(tokens)
	bindings, err := part.Parse(flow.NewContext(flow.NewNamespace(), tokens), st)
	if err != nil {
		return nil, err
	}
	if st.HasNext() {
		return nil, fmt.Errorf("unexpected value %q", st.RemainingTokens()[0])
	}
	values, _ := bindings.Values(part.Key())
	return values, nil
}

// Install registers commands with m, stopping at the first failure.
func Install(m *dispatch.Manager, commands []*flow.Command) error {
	if err := m.Register(commands...); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}
