package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cristianoliveira/commandflow/pkg/dispatch"
	"github.com/cristianoliveira/commandflow/pkg/flow"
	"github.com/cristianoliveira/commandflow/pkg/stack"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultManager(t *testing.T) *dispatch.Manager {
	t.Helper()
	commands, err := Load("", Builtins())
	require.NoError(t, err)
	m := dispatch.New()
	require.NoError(t, Install(m, commands))
	return m
}

func run(t *testing.T, m *dispatch.Manager, tokens ...string) (string, bool, error) {
	t.Helper()
	var out bytes.Buffer
	ns := flow.NewNamespace()
	ns.Set(OutputKey, &out)
	ok, err := m.Execute(ns, tokens)
	return strings.TrimSpace(out.String()), ok, err
}

func TestDefaultCatalogDispatch(t *testing.T) {
	m := newDefaultManager(t)

	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{name: "defaults", tokens: []string{"greet"}, want: "greet name=world times=1"},
		{name: "alias and values", tokens: []string{"hi", "bob", "3"}, want: "hi name=bob times=3"},
		{name: "optional int rewinds", tokens: []string{"greet", "bob", "many"}, want: "greet name=bob times=1"},
		{name: "consume all floats", tokens: []string{"calc", "add", "1", "2.5"}, want: "calc add operands=1,2.5"},
		{name: "choice canonicalized", tokens: []string{"calc", "round", "2.5", "UP"}, want: "calc round mode=up value=2.5"},
		{name: "choice default", tokens: []string{"calc", "round", "2.5"}, want: "calc round mode=nearest value=2.5"},
		{name: "nested subcommand", tokens: []string{"cfg", "SET", "theme", "dark", "mode"}, want: "cfg SET key=theme value=dark,mode"},
		{name: "bool", tokens: []string{"config", "debug", "TRUE"}, want: "config debug enabled=true"},
		{name: "arguments first", tokens: []string{"repeat", "2", "hello", "there"}, want: "repeat count=2 message=hello,there"},
		{name: "subcommand second", tokens: []string{"repeat", "modes"}, want: "repeat modes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok, err := run(t, m, tt.tokens...)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestDefaultCatalogUsage(t *testing.T) {
	m := newDefaultManager(t)

	tests := []struct {
		tokens []string
		usage  string
	}{
		{tokens: []string{"calc"}, usage: "calc <add|round>"},
		{tokens: []string{"calc", "round", "x"}, usage: "calc round <value> [mode]"},
		{tokens: []string{"config", "set"}, usage: "config set <key> <value...>"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.tokens, " "), func(t *testing.T) {
			_, ok, err := run(t, m, tt.tokens...)
			assert.False(t, ok)
			var usageErr *dispatch.UsageError
			require.ErrorAs(t, err, &usageErr)
			assert.Equal(t, tt.usage, usageErr.Usage)
		})
	}
}

func TestHelpAction(t *testing.T) {
	m := newDefaultManager(t)

	out, ok, err := run(t, m, "help")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out, "greet (hello, hi)")
	assert.Contains(t, out, "Greet someone, optionally several times")
	assert.Contains(t, out, "config (cfg)")
}

func TestHelpHidesUnauthorized(t *testing.T) {
	commands, err := Load("", Builtins())
	require.NoError(t, err)
	m := dispatch.New(dispatch.WithAuthorizer(flow.AuthorizerFunc(func(_ *flow.Namespace, p string) bool {
		return p != "config"
	})))
	require.NoError(t, Install(m, commands))

	out, _, err := run(t, m, "help")
	require.NoError(t, err)
	assert.NotContains(t, out, "config")
}

func TestHelpWithoutManager(t *testing.T) {
	ctx := flow.NewContext(flow.NewNamespace(), nil)
	ok, err := Builtins()["help"].Execute(ctx)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		want    string
	}{
		{
			name:    "unknown action",
			catalog: "[[command]]\nname = \"x\"\naction = \"nope\"\n",
			want:    `command x: unknown action "nope"`,
		},
		{
			name:    "unknown type",
			catalog: "[[command]]\nname = \"x\"\n[[command.arg]]\nname = \"a\"\ntype = \"date\"\n",
			want:    `unknown type "date"`,
		},
		{
			name:    "choice without values",
			catalog: "[[command]]\nname = \"x\"\n[[command.arg]]\nname = \"a\"\ntype = \"choice\"\n",
			want:    "choice needs at least one value",
		},
		{
			name:    "default on required argument",
			catalog: "[[command]]\nname = \"x\"\n[[command.arg]]\nname = \"a\"\ndefault = \"b\"\n",
			want:    "default requires optional = true",
		},
		{
			name:    "invalid default",
			catalog: "[[command]]\nname = \"x\"\n[[command.arg]]\nname = \"a\"\ntype = \"int\"\noptional = true\ndefault = \"abc\"\n",
			want:    `argument "a": default`,
		},
		{
			name:    "list default without consume_all",
			catalog: "[[command]]\nname = \"x\"\n[[command.arg]]\nname = \"a\"\noptional = true\ndefault = [\"b\"]\n",
			want:    "consume_all",
		},
		{
			name:    "nested path in error",
			catalog: "[[command]]\nname = \"x\"\n[[command.sub]]\nname = \"y\"\naction = \"nope\"\n",
			want:    "command x > y",
		},
		{
			name:    "duplicate subcommand",
			catalog: "[[command]]\nname = \"x\"\n[[command.sub]]\nname = \"y\"\n[[command.sub]]\nname = \"Y\"\n",
			want:    "duplicate subcommand",
		},
		{
			name:    "empty name",
			catalog: "[[command]]\nname = \" \"\n",
			want:    "command name cannot be empty",
		},
		{
			name:    "unknown field",
			catalog: "[[command]]\nname = \"x\"\ncolour = \"red\"\n",
			want:    "colour",
		},
		{
			name:    "syntax error",
			catalog: "[[command]\nname = \"x\"\n",
			want:    "line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.catalog), Builtins())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestArgSpecDefaults(t *testing.T) {
	tests := []struct {
		name string
		spec ArgSpec
		want []any
	}{
		{name: "int from toml integer", spec: ArgSpec{Name: "n", Type: "int", Optional: true, Default: int64(3)}, want: []any{3}},
		{name: "int64", spec: ArgSpec{Name: "n", Type: "int64", Optional: true, Default: int64(9)}, want: []any{int64(9)}},
		{name: "float", spec: ArgSpec{Name: "f", Type: "float", Optional: true, Default: 0.5}, want: []any{0.5}},
		{name: "bool", spec: ArgSpec{Name: "b", Type: "bool", Optional: true, Default: true}, want: []any{true}},
		{name: "choice canonical", spec: ArgSpec{Name: "c", Type: "choice", Choices: []string{"up", "down"}, Optional: true, Default: "UP"}, want: []any{"up"}},
		{name: "list", spec: ArgSpec{Name: "l", Optional: true, ConsumeAll: true, Default: []any{"a", "b"}}, want: []any{"a", "b"}},
		{name: "custom key", spec: ArgSpec{Name: "n", Key: "other", Optional: true, Default: "v"}, want: []any{"v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part, err := tt.spec.Part()
			require.NoError(t, err)

			b, err := part.Parse(flow.NewContext(flow.NewNamespace(), nil), stack.New(nil))
			require.NoError(t, err)
			got, ok := b.Values(part.Key())
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("defaults mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArgSpecKey(t *testing.T) {
	part, err := ArgSpec{Name: "n", Key: "other"}.Part()
	require.NoError(t, err)
	assert.Equal(t, "n", part.Name())
	assert.Equal(t, flow.Key("other"), part.Key())
}

func TestInstallDuplicate(t *testing.T) {
	commands, err := Parse([]byte("[[command]]\nname = \"a\"\n[[command]]\nname = \"A\"\n"), Builtins())
	require.NoError(t, err)

	err = Install(dispatch.New(), commands)
	var dup *dispatch.DuplicateCommandError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A", dup.Name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[command]]\nname = \"ping\"\naction = \"noop\"\n"), 0o644))

	commands, err := Load(path, Builtins())
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, "ping", commands[0].Name())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"), Builtins())
	assert.Error(t, err)
}

func TestDefaultIsACopy(t *testing.T) {
	data := Default()
	data[0] = 'X'
	assert.NotEqual(t, data[0], Default()[0])
}

func TestActions(t *testing.T) {
	actions := Builtins()

	_, ok := actions.Lookup("ECHO")
	assert.True(t, ok)
	_, ok = actions.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"echo", "fail", "help", "noop"}, actions.Names())

	extended := actions.With(Actions{"ping": flow.ActionFunc(func(*flow.Context) (bool, error) { return true, nil })})
	assert.Len(t, extended, 5)
	assert.Len(t, actions, 4, "With does not modify the receiver")
}

func TestFailActionIsUsage(t *testing.T) {
	commands, err := Parse([]byte("[[command]]\nname = \"broken\"\naction = \"fail\"\n"), Builtins())
	require.NoError(t, err)
	m := dispatch.New()
	require.NoError(t, Install(m, commands))

	_, _, err = run(t, m, "broken")
	var usageErr *dispatch.UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Equal(t, "broken", usageErr.Usage)
}
