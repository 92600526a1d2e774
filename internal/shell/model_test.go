package shell

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/commandflow/internal/catalog"
	cferrors "github.com/cristianoliveira/commandflow/internal/errors"
	"github.com/cristianoliveira/commandflow/internal/history"
	"github.com/cristianoliveira/commandflow/pkg/dispatch"
	"github.com/cristianoliveira/commandflow/pkg/tokenize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecorder struct {
	mock.Mock
}

func (r *mockRecorder) Record(ctx context.Context, e history.Entry) (int64, error) {
	args := r.Called(ctx, e)
	return int64(args.Int(0)), args.Error(1)
}

func (r *mockRecorder) Lines(ctx context.Context, limit int) ([]string, error) {
	args := r.Called(ctx, limit)
	lines, _ := args.Get(0).([]string)
	return lines, args.Error(1)
}

func newManager(t *testing.T, opts ...dispatch.Option) *dispatch.Manager {
	t.Helper()
	commands, err := catalog.Load("", catalog.Builtins())
	require.NoError(t, err)
	m := dispatch.New(opts...)
	require.NoError(t, catalog.Install(m, commands))
	return m
}

func newModel(t *testing.T, opts Options) *Model {
	t.Helper()
	return New(context.Background(), newManager(t), nil, opts)
}

func newQuotedModel(t *testing.T, opts Options) *Model {
	t.Helper()
	return New(context.Background(), newManager(t, dispatch.WithTokenizer(tokenize.Quoted{})), nil, opts)
}

func press(m *Model, t tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: t})
	return cmd
}

func texts(msgs []cferrors.Message) []string {
	out := make([]string, len(msgs))
	for i, msg := range msgs {
		out[i] = msg.Text
	}
	return out
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		want        string
		suggestions []string
	}{
		{name: "single command", line: "gr", want: "greet "},
		{name: "shared prefix", line: "he", want: "hel", suggestions: []string{"hello", "help"}},
		{name: "subcommand", line: "calc r", want: "calc round "},
		{name: "next token choices", line: "calc round 2.5 ", want: "calc round 2.5 ", suggestions: []string{"down", "nearest", "up"}},
		{name: "no match", line: "zz", want: "zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, Options{})
			m.setValue(tt.line)

			press(m, tea.KeyTab)

			assert.Equal(t, tt.want, m.Value())
			assert.Equal(t, tt.suggestions, m.Suggestions())
		})
	}
}

func TestCompleteQuotedTokens(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		want        string
		suggestions []string
	}{
		{name: "quoted partial extends to shared prefix", line: `"he"`, want: "hel", suggestions: []string{"hello", "help"}},
		{name: "quoted subcommand", line: `'calc' "r"`, want: "'calc' round "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newQuotedModel(t, Options{})
			m.setValue(tt.line)

			press(m, tea.KeyTab)

			assert.Equal(t, tt.want, m.Value())
			assert.Equal(t, tt.suggestions, m.Suggestions())
		})
	}
}

func TestCompleteRespectsSuggestLimit(t *testing.T) {
	m := newModel(t, Options{SuggestLimit: 1})
	m.setValue("he")

	press(m, tea.KeyTab)

	assert.Equal(t, "hello ", m.Value())
}

func TestTypingClearsSuggestions(t *testing.T) {
	m := newModel(t, Options{})
	m.setValue("he")
	press(m, tea.KeyTab)
	require.NotEmpty(t, m.Suggestions())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	assert.Empty(t, m.Suggestions())
}

func TestSubmitRecordsHistory(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("Lines", mock.Anything, 0).Return([]string(nil), nil)
	rec.On("Record", mock.Anything, mock.MatchedBy(func(e history.Entry) bool {
		return e.Line == "greet bob" && e.Command == "greet" && e.Outcome == history.OutcomeOK && e.Message == ""
	})).Return(1, nil)

	m := newModel(t, Options{Recorder: rec})
	m.setValue("  greet bob ")
	press(m, tea.KeyEnter)

	assert.Equal(t, "", m.Value())
	assert.Equal(t, []string{"> greet bob", "greet name=bob times=1"}, texts(m.Messages()))
	rec.AssertExpectations(t)
}

func TestSubmitRecordsCommandOfQuotedLabel(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		output string
	}{
		{name: "double quoted name", line: `"greet" bob`, output: "greet name=bob times=1"},
		{name: "single quoted alias", line: `'hi' "bo b"`, output: "hi name=bo b times=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &mockRecorder{}
			rec.On("Lines", mock.Anything, 0).Return([]string(nil), nil)
			rec.On("Record", mock.Anything, mock.MatchedBy(func(e history.Entry) bool {
				return e.Line == tt.line && e.Command == "greet" && e.Outcome == history.OutcomeOK
			})).Return(1, nil)

			m := newQuotedModel(t, Options{Recorder: rec})
			m.setValue(tt.line)
			press(m, tea.KeyEnter)

			assert.Equal(t, []string{"> " + tt.line, tt.output}, texts(m.Messages()))
			rec.AssertExpectations(t)
		})
	}
}

func TestSubmitUnknownQuotedCommandHintsUnquotedToken(t *testing.T) {
	m := newQuotedModel(t, Options{DidYouMean: true})
	m.setValue(`"gret" bob`)
	press(m, tea.KeyEnter)

	latest := m.Messages()[len(m.Messages())-1]
	assert.Equal(t, `unknown command "gret"; did you mean "greet"?`, latest.Text)
}

func TestSubmitUsageError(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("Lines", mock.Anything, 0).Return([]string(nil), nil)
	rec.On("Record", mock.Anything, mock.MatchedBy(func(e history.Entry) bool {
		return e.Command == "calc" && e.Outcome == history.OutcomeUsage && strings.Contains(e.Message, "usage: calc <add|round>")
	})).Return(1, nil)

	m := newModel(t, Options{Recorder: rec})
	m.setValue("calc")
	press(m, tea.KeyEnter)

	msgs := m.Messages()
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, cferrors.MessageTypeWarning, last.Type)
	assert.Equal(t, "usage: calc <add|round>", last.Text)
	rec.AssertExpectations(t)
}

func TestSubmitUnknownCommandHints(t *testing.T) {
	m := newModel(t, Options{DidYouMean: true})
	m.setValue("helo")
	press(m, tea.KeyEnter)

	latest := m.Messages()[len(m.Messages())-1]
	assert.Equal(t, cferrors.MessageTypeWarning, latest.Type)
	assert.Equal(t, `unknown command "helo"; did you mean "hello", "help" or "hi"?`, latest.Text)

	m = newModel(t, Options{DidYouMean: false})
	m.setValue("helo")
	press(m, tea.KeyEnter)
	latest = m.Messages()[len(m.Messages())-1]
	assert.Equal(t, `unknown command "helo"`, latest.Text)
}

func TestSubmitRecordFailureWarns(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("Lines", mock.Anything, 0).Return([]string(nil), nil)
	rec.On("Record", mock.Anything, mock.Anything).Return(0, errors.New("disk full"))

	m := newModel(t, Options{Recorder: rec})
	m.setValue("greet")
	press(m, tea.KeyEnter)

	latest := m.Messages()[len(m.Messages())-1]
	assert.Equal(t, "history: disk full", latest.Text)
}

func TestBlankSubmitDoesNothing(t *testing.T) {
	m := newModel(t, Options{})
	m.setValue("   ")
	press(m, tea.KeyEnter)
	assert.Empty(t, m.Messages())
}

func TestHistoryBrowsing(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("Lines", mock.Anything, 5).Return([]string{"b", "a"}, nil)

	m := newModel(t, Options{Recorder: rec, HistoryLimit: 5})
	m.setValue("draft")

	press(m, tea.KeyUp)
	assert.Equal(t, "b", m.Value())
	press(m, tea.KeyUp)
	assert.Equal(t, "a", m.Value())
	press(m, tea.KeyUp)
	assert.Equal(t, "a", m.Value(), "stays on the oldest line")
	press(m, tea.KeyDown)
	assert.Equal(t, "b", m.Value())
	press(m, tea.KeyDown)
	assert.Equal(t, "draft", m.Value())
	press(m, tea.KeyDown)
	assert.Equal(t, "draft", m.Value())
}

func TestSubmittedLineMovesToFront(t *testing.T) {
	m := newModel(t, Options{HistoryLimit: 2})
	for _, line := range []string{"greet a", "greet b", "greet a", "greet c"} {
		m.setValue(line)
		press(m, tea.KeyEnter)
	}
	assert.Equal(t, []string{"greet c", "greet a"}, m.lines)
}

func TestHistoryLoadFailureWarns(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("Lines", mock.Anything, 0).Return(nil, errors.New("locked"))

	m := newModel(t, Options{Recorder: rec})
	assert.Equal(t, []string{"history unavailable: locked"}, texts(m.Messages()))
}

func TestClearAndQuit(t *testing.T) {
	m := newModel(t, Options{})
	m.setValue("greet")
	press(m, tea.KeyEnter)
	require.NotEmpty(t, m.Messages())

	press(m, tea.KeyCtrlL)
	assert.Empty(t, m.Messages())

	cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestScrollbackLimit(t *testing.T) {
	m := newModel(t, Options{Scrollback: 2})
	m.setValue("greet")
	press(m, tea.KeyEnter)
	m.setValue("greet x")
	press(m, tea.KeyEnter)

	assert.Equal(t, []string{"> greet x", "greet name=x times=1"}, texts(m.Messages()))
}

func TestView(t *testing.T) {
	m := newModel(t, Options{Prompt: "cf> "})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.setValue("he")
	press(m, tea.KeyTab)

	view := m.View()
	assert.Contains(t, view, "cf> ")
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "complete")
}

func TestTokenHelpers(t *testing.T) {
	quoted := newManager(t, dispatch.WithTokenizer(tokenize.Quoted{}))
	assert.Equal(t, "greet", firstToken(quoted, `"greet" bob`))
	assert.Equal(t, "", firstToken(quoted, `"greet`))
	assert.Equal(t, "greet", commandName(quoted, `'hello' bob`))
	assert.Equal(t, "", commandName(quoted, "bogus"))
	assert.Equal(t, `"greet"`, firstToken(newManager(t), `"greet" bob`))
	assert.Equal(t, "hel", commonPrefix([]string{"hello", "HELP"}))
	assert.Equal(t, "", commonPrefix([]string{"a", "b"}))
}
