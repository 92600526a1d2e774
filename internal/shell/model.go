// Package shell is an interactive prompt over a dispatch.Manager with tab
// completion and persistent history.
package shell

import (
	"bytes"
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/commandflow/internal/catalog"
	"github.com/cristianoliveira/commandflow/internal/errors"
	"github.com/cristianoliveira/commandflow/internal/hint"
	"github.com/cristianoliveira/commandflow/internal/history"
	"github.com/cristianoliveira/commandflow/pkg/dispatch"
	"github.com/cristianoliveira/commandflow/pkg/flow"
)

const (
	defaultPrompt     = "> "
	defaultScrollback = 200
	defaultSuggest    = 50
	hintLimit         = 3
)

// Recorder persists dispatched lines.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
	Lines(ctx context.Context, limit int) ([]string, error)
}

// Options configures the shell.
type Options struct {
	Prompt       string
	SuggestLimit int
	HistoryLimit int
	Scrollback   int
	DidYouMean   bool
	Recorder     Recorder
}

// Model is the bubbletea model of the shell.
type Model struct {
	ctx      context.Context
	manager  *dispatch.Manager
	accessor *flow.Namespace
	recorder Recorder
	opts     Options

	input   textinput.Model
	keys    KeyMap
	help    help.Model
	handler *errors.TUIHandler
	out     bytes.Buffer

	suggestions []string
	lines       []string // newest first
	cursor      int      // -1 when not browsing history
	draft       string
	width       int
}

// New creates a shell dispatching through manager on behalf of accessor.
func New(ctx context.Context, manager *dispatch.Manager, accessor *flow.Namespace, opts Options) *Model {
	if opts.Prompt == "" {
		opts.Prompt = defaultPrompt
	}
	if opts.Scrollback <= 0 {
		opts.Scrollback = defaultScrollback
	}
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = defaultSuggest
	}
	if accessor == nil {
		accessor = flow.NewNamespace()
	}

	ti := textinput.New()
	ti.Prompt = opts.Prompt
	ti.Placeholder = "type a command, tab to complete"
	ti.CharLimit = 1024
	ti.Focus()

	m := &Model{
		ctx:      ctx,
		manager:  manager,
		accessor: accessor,
		recorder: opts.Recorder,
		opts:     opts,
		input:    ti,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		handler:  errors.NewTUIHandler(nil),
		cursor:   -1,
	}
	m.handler.SetLimit(opts.Scrollback)
	accessor.Set(catalog.OutputKey, &m.out)
	m.loadHistory()
	return m
}

func (m *Model) loadHistory() {
	if m.recorder == nil {
		return
	}
	lines, err := m.recorder.Lines(m.ctx, m.opts.HistoryLimit)
	if err != nil {
		m.handler.Warning("history unavailable: " + err.Error())
		return
	}
	m.lines = lines
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.opts.Prompt)-1, 10)
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Complete):
		m.complete()
		return nil, true
	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return nil, true
	case key.Matches(msg, m.keys.Prev):
		m.browse(1)
		return nil, true
	case key.Matches(msg, m.keys.Next):
		m.browse(-1)
		return nil, true
	case key.Matches(msg, m.keys.Clear):
		m.handler.Clear()
		m.suggestions = nil
		return nil, true
	}
	m.suggestions = nil
	return nil, false
}

// complete replaces the token under the cursor with the single suggestion,
// or with the longest prefix shared by all suggestions.
func (m *Model) complete() {
	line := m.input.Value()
	suggestions := m.manager.SuggestionsLine(m.accessor, line)
	if len(suggestions) > m.opts.SuggestLimit {
		suggestions = suggestions[:m.opts.SuggestLimit]
	}
	m.suggestions = nil
	partial, start := m.manager.LastToken(line)

	switch len(suggestions) {
	case 0:
		return
	case 1:
		m.setValue(line[:start] + suggestions[0] + " ")
	default:
		if prefix := commonPrefix(suggestions); len(prefix) > len(partial) {
			m.setValue(line[:start] + prefix)
		}
		m.suggestions = suggestions
	}
}

func (m *Model) submit() {
	line := strings.TrimSpace(m.input.Value())
	m.setValue("")
	m.suggestions = nil
	m.cursor = -1
	if line == "" {
		return
	}

	m.handler.Info(m.opts.Prompt + line)
	ok, err := m.manager.ExecuteLine(m.accessor, line)
	m.flushOutput()

	message := ""
	switch {
	case err != nil:
		errors.Report(m.handler, err)
		message = err.Error()
	case !ok:
		token := firstToken(m.manager, line)
		var matches []string
		if m.opts.DidYouMean {
			matches = hint.For(m.manager, token, hintLimit)
		}
		message = hint.Message(token, matches)
		m.handler.Warning(message)
	}

	m.remember(line)
	if m.recorder == nil {
		return
	}
	entry := history.Entry{
		Line:    line,
		Command: commandName(m.manager, line),
		Outcome: history.OutcomeOf(ok, err),
		Message: message,
	}
	if _, recErr := m.recorder.Record(m.ctx, entry); recErr != nil {
		m.handler.Warning("history: " + recErr.Error())
	}
}

func (m *Model) flushOutput() {
	out := strings.TrimRight(m.out.String(), "\n")
	m.out.Reset()
	if out == "" {
		return
	}
	for _, l := range strings.Split(out, "\n") {
		m.handler.Success(l)
	}
}

func (m *Model) remember(line string) {
	lines := []string{line}
	for _, l := range m.lines {
		if l != line {
			lines = append(lines, l)
		}
	}
	if m.opts.HistoryLimit > 0 && len(lines) > m.opts.HistoryLimit {
		lines = lines[:m.opts.HistoryLimit]
	}
	m.lines = lines
}

// browse moves through history; step 1 is older, -1 newer.
func (m *Model) browse(step int) {
	if len(m.lines) == 0 {
		return
	}
	if m.cursor == -1 {
		if step < 0 {
			return
		}
		m.draft = m.input.Value()
	}
	next := m.cursor + step
	switch {
	case next < 0:
		m.cursor = -1
		m.setValue(m.draft)
	case next >= len(m.lines):
		return
	default:
		m.cursor = next
		m.setValue(m.lines[next])
	}
}

func (m *Model) setValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// Value returns the current input line.
func (m *Model) Value() string { return m.input.Value() }

// Suggestions returns the completions shown below the prompt.
func (m *Model) Suggestions() []string { return m.suggestions }

// Messages returns the scrollback.
func (m *Model) Messages() []errors.Message { return m.handler.GetAll() }

func firstToken(manager *dispatch.Manager, line string) string {
	tokens, err := manager.Tokenize(line)
	if err != nil || len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

func commandName(manager *dispatch.Manager, line string) string {
	if c, ok := manager.Command(firstToken(manager, line)); ok {
		return c.Name()
	}
	return ""
}

func commonPrefix(words []string) string {
	if len(words) == 0 {
		return ""
	}
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(strings.ToLower(w), strings.ToLower(prefix)) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
