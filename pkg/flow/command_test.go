package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/commandflow/pkg/stack"
)

func greetTree(t *testing.T) *Command {
	t.Helper()
	hello := NewCommand("hello").
		Aliases("hi").
		AddPart(String("name"), Optional(Int("times"), 1)).
		MustBuild()
	help := NewCommand("help").
		AddPart(Optional(String("topic"))).
		MustBuild()
	admin := NewCommand("admin").
		Permission("greet.admin").
		PermissionMessage("admins only").
		AddPart(Choice("mode", "on", "off")).
		MustBuild()
	root, err := NewCommand("greet").SubCommands(hello, help, admin).Build()
	require.NoError(t, err)
	return root
}

func TestBuildRejectsInvalidDefinitions(t *testing.T) {
	_, err := NewCommand("  ").Build()
	assert.Error(t, err)

	_, err = NewCommand("two words").Build()
	assert.Error(t, err)

	_, err = NewCommand("x").Aliases("").Build()
	assert.Error(t, err)

	a := NewCommand("a").MustBuild()
	_, err = NewCommand("x").SubCommands(a, NewCommand("A").MustBuild()).Build()
	assert.Error(t, err)

	assert.Panics(t, func() { NewCommand("").MustBuild() })
}

func TestCommandWithoutParts(t *testing.T) {
	c := NewCommand("ping").MustBuild()
	require.NotNil(t, c.Part())

	_, _, err := parse(t, c.Part())
	assert.NoError(t, err)
	assert.Equal(t, []string{"ping"}, c.Names())
}

func TestSubCommandResolvesCaseInsensitively(t *testing.T) {
	root := greetTree(t)

	for _, label := range []string{"hello", "HeLLo", "HI"} {
		t.Run(label, func(t *testing.T) {
			ctx, st, err := parse(t, root.Part(), label, "bob")
			require.NoError(t, err)
			require.NotNil(t, ctx.Command())
			assert.Equal(t, "hello", ctx.Command().Name())
			assert.Equal(t, label, ctx.Label())
			assert.Equal(t, "bob", GetOr(ctx, "name", ""))
			assert.Equal(t, 1, GetOr(ctx, "times", 0))
			assert.False(t, st.HasNext())
		})
	}
}

func TestSubCommandFailures(t *testing.T) {
	root := greetTree(t)

	_, _, err := parse(t, root.Part())
	assert.ErrorIs(t, err, stack.ErrOutOfArguments)

	_, _, err = parse(t, root.Part(), "bye")
	var parseErr *stack.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, stack.KindUnknownSubcommand, parseErr.Kind)
	assert.Equal(t, "bye", parseErr.Token)
	assert.Empty(t, FailedChain(err))
}

func TestOptionalSubCommand(t *testing.T) {
	sub := NewCommand("list").MustBuild()
	root := NewCommand("files").AddPart(Optional(String("dir"))).SubCommands(sub).OptionalSubCommand().MustBuild()

	ctx, _, err := parse(t, root.Part())
	require.NoError(t, err)
	assert.Nil(t, ctx.Command())

	ctx, st, err := parse(t, root.Part(), "home", "nope")
	require.NoError(t, err)
	assert.Equal(t, "home", GetOr(ctx, "dir", ""))
	assert.Equal(t, 1, st.Position(), "an unresolved optional subcommand consumes nothing")
}

func TestFailureInsideSubCommandCarriesChain(t *testing.T) {
	leaf := NewCommand("set").AddPart(Int("value")).MustBuild()
	mid := NewCommand("config").SubCommands(leaf).MustBuild()
	root := NewCommand("app").SubCommands(mid).MustBuild()

	_, _, err := parse(t, root.Part(), "config", "SET", "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, stack.ErrTypeMismatch)

	chain := FailedChain(err)
	require.Len(t, chain, 2)
	assert.Equal(t, "config", chain[0].Command.Name())
	assert.Equal(t, "SET", chain[1].Label)

	var parseErr *stack.ParseError
	require.True(t, errors.As(Cause(err), &parseErr))
	assert.Equal(t, 2, parseErr.Position)
}

func TestSubCommandPermission(t *testing.T) {
	root := greetTree(t)

	ctx := NewContext(nil, nil)
	ctx.SetAuthorizer(AuthorizerFunc(func(_ *Namespace, permission string) bool {
		return permission != "greet.admin"
	}))
	_, err := root.Part().Parse(ctx, stack.New([]string{"admin", "on"}))

	var denied *NotAuthorizedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "admins only", denied.Error())
	assert.Equal(t, "greet.admin", denied.Permission)

	ctx.SetAuthorizer(AllowAll)
	b, err := root.Part().Parse(ctx, stack.New([]string{"admin", "ON"}))
	require.NoError(t, err)
	ctx.Apply(b)
	assert.Equal(t, "on", GetOr(ctx, "mode", ""))
}

func TestArgumentsOrSubCommand(t *testing.T) {
	show := NewCommand("show").MustBuild()
	root := NewCommand("item").
		AddPart(Int("id")).
		SubCommands(show).
		ArgumentsOrSubCommand().
		MustBuild()

	ctx, _, err := parse(t, root.Part(), "7")
	require.NoError(t, err)
	assert.Equal(t, 7, GetOr(ctx, "id", 0))
	assert.Nil(t, ctx.Command())

	ctx, _, err = parse(t, root.Part(), "show")
	require.NoError(t, err)
	assert.Equal(t, "show", ctx.Command().Name())
	assert.False(t, ctx.Has("id"))

	_, _, err = parse(t, root.Part(), "nope")
	assert.ErrorIs(t, err, stack.ErrUnknownSubcommand, "the subcommand alternative fails last")
}

func TestSubCommandSuggestions(t *testing.T) {
	root := greetTree(t)

	assert.Equal(t, []string{"hello", "help"}, suggest(root.Part(), "he"))
	assert.Equal(t, []string{"admin", "hello", "help", "hi"}, suggest(root.Part(), ""))
	assert.Nil(t, suggest(root.Part(), "zz"))
	assert.Nil(t, suggest(root.Part()))
	assert.Equal(t, []string{"off", "on"}, suggest(root.Part(), "admin", "o"))
	assert.Nil(t, suggest(root.Part(), "unknown", "o"))

	ctx := NewContext(nil, nil)
	ctx.SetAuthorizer(AuthorizerFunc(func(*Namespace, string) bool { return false }))
	got := root.Part().Suggestions(ctx, stack.New([]string{""}))
	assert.Equal(t, []string{"hello", "help", "hi"}, got)
	assert.Nil(t, root.Part().Suggestions(ctx, stack.New([]string{"admin", "o"})))
}

func TestCustomSubCommandHandler(t *testing.T) {
	first := NewCommand("first").MustBuild()
	second := NewCommand("second").MustBuild()
	byIndex := SubCommandHandlerFunc(func(_ *Context, token string, candidates []*Command) *Command {
		if token == "2" {
			return candidates[1]
		}
		return nil
	})
	root := NewCommand("pick").SubCommands(first, second).SubCommandHandler(byIndex).MustBuild()

	ctx, _, err := parse(t, root.Part(), "2")
	require.NoError(t, err)
	assert.Equal(t, "second", ctx.Command().Name())
}

func TestDefaultUsageBuilder(t *testing.T) {
	root := greetTree(t)
	hello := root.Part().(*SequencePart).Parts()[0].(*SubCommandPart).Commands()[0]

	ctx := NewContext(nil, nil)
	ctx.SetCommand(root, "greet")
	assert.Equal(t, "greet <hello|help|admin>", DefaultUsageBuilder{}.Usage(ctx))

	ctx.SetCommand(hello, "hi")
	assert.Equal(t, "greet hi <name> [times]", DefaultUsageBuilder{}.Usage(ctx))

	assert.Equal(t, "", DefaultUsageBuilder{}.Usage(NewContext(nil, nil)))
}

func TestRenderPart(t *testing.T) {
	tests := []struct {
		name string
		part Part
		want string
	}{
		{name: "nil", part: nil, want: ""},
		{name: "consume all", part: String("words").ConsumeAll(), want: "<words...>"},
		{name: "optional consume all", part: Optional(String("words").ConsumeAll()), want: "[words...]"},
		{name: "sequence", part: Sequence("s", Int("a"), Optional(Int("b"))), want: "<a> [b]"},
		{name: "choice of alternatives", part: FirstMatching("f", Int("n"), String("s")), want: "(<n> | <s>)"},
		{
			name: "optional subcommand",
			part: SubCommands("sub", []*Command{NewCommand("x").MustBuild(), NewCommand("y").MustBuild()}, true, nil),
			want: "[x|y]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderPart(tt.part))
		})
	}
}

func TestNamespace(t *testing.T) {
	ns := NewNamespace()
	ns.Set("user", "alice")
	ns.Set("level", 3)

	user, ok := NamespaceValue[string](ns, "user")
	require.True(t, ok)
	assert.Equal(t, "alice", user)

	_, ok = NamespaceValue[string](ns, "level")
	assert.False(t, ok)
	assert.Equal(t, []string{"level", "user"}, ns.Keys())

	ns.Delete("user")
	_, ok = ns.Get("user")
	assert.False(t, ok)

	var empty *Namespace
	_, ok = empty.Get("x")
	assert.False(t, ok)
}
