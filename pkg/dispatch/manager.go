// Package dispatch owns the command registry and drives parsing,
// execution and suggestions for a line of input.
package dispatch

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cristianoliveira/commandflow/pkg/flow"
	"github.com/cristianoliveira/commandflow/pkg/stack"
	"github.com/cristianoliveira/commandflow/pkg/tokenize"
)

// ManagerKey is the accessor namespace key under which a dispatch stores
// the manager handling it.
const ManagerKey = "commandflow.manager"

// Logger is the subset of a structured logger the manager writes to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithAuthorizer sets the permission check. Without one every permission
// is granted.
func WithAuthorizer(authorizer flow.Authorizer) Option {
	return func(m *Manager) {
		m.authorizer = authorizer
	}
}

// WithTokenizer sets the tokenizer used by ExecuteLine and SuggestionsLine.
func WithTokenizer(tokenizer tokenize.Tokenizer) Option {
	return func(m *Manager) {
		if tokenizer != nil {
			m.tokenizer = tokenizer
		}
	}
}

// WithExecutor replaces DefaultExecutor.
func WithExecutor(executor Executor) Option {
	return func(m *Manager) {
		if executor != nil {
			m.executor = executor
		}
	}
}

// WithUsageBuilder replaces flow.DefaultUsageBuilder.
func WithUsageBuilder(usage flow.UsageBuilder) Option {
	return func(m *Manager) {
		if usage != nil {
			m.usage = usage
		}
	}
}

// Manager is a command registry. Registration is not synchronized: callers
// that register from several goroutines must serialize. Dispatches against
// a registry that is no longer changing are independent of each other as
// long as each uses its own accessor: every dispatch writes ManagerKey into
// the accessor it is given, and a flow.Namespace is not safe for concurrent
// use.
type Manager struct {
	commands   map[string]*flow.Command
	order      []*flow.Command
	authorizer flow.Authorizer
	tokenizer  tokenize.Tokenizer
	executor   Executor
	usage      flow.UsageBuilder
	logger     Logger
}

// New returns an empty manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		commands:  make(map[string]*flow.Command),
		tokenizer: tokenize.Space{},
		executor:  DefaultExecutor{},
		usage:     flow.DefaultUsageBuilder{},
		logger:    noopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds commands in order. A name already taken by any registered
// name or alias is an error; an alias that is already taken is skipped.
// Commands before the failing one stay registered.
func (m *Manager) Register(commands ...*flow.Command) error {
	for _, c := range commands {
		if c == nil {
			return errors.New("cannot register nil command")
		}
		key := strings.ToLower(c.Name())
		if existing, ok := m.commands[key]; ok {
			m.logger.Warn("duplicate command", "name", c.Name(), "existing", existing.Name())
			return &DuplicateCommandError{Name: c.Name(), Existing: existing}
		}
		m.commands[key] = c
		for _, alias := range c.Aliases() {
			aliasKey := strings.ToLower(alias)
			if holder, taken := m.commands[aliasKey]; taken {
				m.logger.Debug("alias already taken", "alias", alias, "command", c.Name(), "holder", holder.Name())
				continue
			}
			m.commands[aliasKey] = c
		}
		m.order = append(m.order, c)
		m.logger.Debug("registered command", "name", c.Name(), "aliases", c.Aliases())
	}
	return nil
}

// MustRegister is Register that panics on error.
func (m *Manager) MustRegister(commands ...*flow.Command) {
	if err := m.Register(commands...); err != nil {
		panic(err)
	}
}

// Unregister removes the command registered under name (or alias) along
// with every key that points at it.
func (m *Manager) Unregister(name string) bool {
	c, ok := m.commands[strings.ToLower(name)]
	if !ok {
		return false
	}
	for key, holder := range m.commands {
		if holder == c {
			delete(m.commands, key)
		}
	}
	for i, registered := range m.order {
		if registered == c {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.logger.Debug("unregistered command", "name", c.Name())
	return true
}

// UnregisterAll empties the registry.
func (m *Manager) UnregisterAll() {
	m.commands = make(map[string]*flow.Command)
	m.order = nil
}

// Commands returns the registered commands in registration order.
func (m *Manager) Commands() []*flow.Command {
	out := make([]*flow.Command, len(m.order))
	copy(out, m.order)
	return out
}

// Exists reports whether name is a registered name or alias.
func (m *Manager) Exists(name string) bool {
	_, ok := m.commands[strings.ToLower(name)]
	return ok
}

// Command looks up a command by name or alias, ignoring case.
func (m *Manager) Command(name string) (*flow.Command, bool) {
	c, ok := m.commands[strings.ToLower(name)]
	return c, ok
}

// Labels returns every registered name and alias as spelled at
// registration, sorted.
func (m *Manager) Labels() []string {
	var labels []string
	for _, c := range m.order {
		for _, n := range c.Names() {
			if m.commands[strings.ToLower(n)] == c {
				labels = append(labels, n)
			}
		}
	}
	sort.Strings(labels)
	return labels
}

// Parse resolves tokens into a populated context without running the
// action. It returns false with a nil error when the input names no
// command.
func (m *Manager) Parse(accessor *flow.Namespace, tokens []string) (*flow.Context, bool, error) {
	if len(tokens) == 0 {
		return nil, false, nil
	}
	command, ok := m.Command(tokens[0])
	if !ok {
		m.logger.Debug("no command matched", "label", tokens[0])
		return nil, false, nil
	}

	accessor = m.bindAccessor(accessor)
	if !flow.Allowed(m.authorizer, accessor, command.Permission()) {
		m.logger.Info("dispatch denied", "command", command.Name(), "permission", command.Permission())
		return nil, false, flow.NewNotAuthorizedError(command)
	}

	ctx := m.newContext(accessor, tokens, command)
	st := stack.New(tokens[1:])
	b, err := command.Part().Parse(ctx, st)
	if err != nil {
		var denied *flow.NotAuthorizedError
		if errors.As(err, &denied) {
			m.logger.Info("dispatch denied", "command", denied.Command.Name(), "permission", denied.Permission)
			return nil, false, denied
		}
		for _, inv := range flow.FailedChain(err) {
			ctx.SetCommand(inv.Command, inv.Label)
		}
		cause := flow.Cause(err)
		m.logger.Debug("parse failed", "command", ctx.Command().Name(), "error", cause.Error())
		return nil, false, &UsageError{
			Usage:   m.usage.Usage(ctx),
			Command: ctx.Command(),
			Err:     cause,
		}
	}
	ctx.Apply(b)
	if st.HasNext() {
		m.logger.Debug("ignoring trailing tokens", "command", ctx.Command().Name(), "tokens", st.RemainingTokens())
	}
	return ctx, true, nil
}

// Execute parses tokens and hands the context to the executor. It returns
// false with a nil error when the input names no command.
func (m *Manager) Execute(accessor *flow.Namespace, tokens []string) (bool, error) {
	ctx, ok, err := m.Parse(accessor, tokens)
	if err != nil || !ok {
		return false, err
	}
	m.logger.Debug("executing", "command", ctx.Command().Name(), "label", ctx.Label())
	return m.executor.Execute(ctx, m.usage)
}

// Tokenize splits line the way ExecuteLine and SuggestionsLine do.
func (m *Manager) Tokenize(line string) ([]string, error) {
	return m.tokenizer.Tokenize(line)
}

// LastToken returns the token SuggestionsLine completes for line and the
// byte offset where its raw text starts.
func (m *Manager) LastToken(line string) (string, int) {
	return tokenize.Last(m.tokenizer, line)
}

// ExecuteLine tokenizes line and executes it.
func (m *Manager) ExecuteLine(accessor *flow.Namespace, line string) (bool, error) {
	tokens, err := m.Tokenize(line)
	if err != nil {
		return false, fmt.Errorf("tokenize: %w", err)
	}
	return m.Execute(accessor, tokens)
}

// Suggestions returns completions for the last of tokens. It never fails:
// anything unexpected yields no suggestions.
func (m *Manager) Suggestions(accessor *flow.Namespace, tokens []string) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("suggestions panicked", "panic", fmt.Sprint(r), "tokens", tokens)
			out = nil
		}
	}()

	switch len(tokens) {
	case 0:
		return nil
	case 1:
		return m.commandSuggestions(m.bindAccessor(accessor), tokens[0])
	}

	command, ok := m.Command(tokens[0])
	if !ok {
		return nil
	}
	accessor = m.bindAccessor(accessor)
	if !flow.Allowed(m.authorizer, accessor, command.Permission()) {
		return nil
	}
	ctx := m.newContext(accessor, tokens, command)
	return command.Part().Suggestions(ctx, stack.New(tokens[1:]))
}

// SuggestionsLine tokenizes line and returns completions. A line ending in
// whitespace completes the next, still empty, token.
func (m *Manager) SuggestionsLine(accessor *flow.Namespace, line string) []string {
	tokens, err := m.Tokenize(line)
	if err != nil {
		return nil
	}
	if len(tokens) == 0 || tokenize.EndsWithSpace(line) {
		tokens = append(tokens, "")
	}
	return m.Suggestions(accessor, tokens)
}

func (m *Manager) commandSuggestions(accessor *flow.Namespace, prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, c := range m.order {
		if !flow.Allowed(m.authorizer, accessor, c.Permission()) {
			continue
		}
		for _, n := range c.Names() {
			if m.commands[strings.ToLower(n)] != c {
				continue
			}
			if strings.HasPrefix(strings.ToLower(n), prefix) {
				out = append(out, n)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (m *Manager) bindAccessor(accessor *flow.Namespace) *flow.Namespace {
	if accessor == nil {
		accessor = flow.NewNamespace()
	}
	accessor.Set(ManagerKey, m)
	return accessor
}

func (m *Manager) newContext(accessor *flow.Namespace, tokens []string, command *flow.Command) *flow.Context {
	ctx := flow.NewContext(accessor, tokens)
	ctx.SetAuthorizer(m.authorizer)
	ctx.SetCommand(command, tokens[0])
	return ctx
}

// FromNamespace returns the manager stored in accessor by a dispatch.
func FromNamespace(accessor *flow.Namespace) (*Manager, bool) {
	return flow.NamespaceValue[*Manager](accessor, ManagerKey)
}
