package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cristianoliveira/commandflow/internal/catalog"
	"github.com/cristianoliveira/commandflow/internal/colors"
	"github.com/cristianoliveira/commandflow/internal/config"
	"github.com/cristianoliveira/commandflow/internal/hint"
	"github.com/cristianoliveira/commandflow/internal/history"
	"github.com/cristianoliveira/commandflow/internal/logging"
	"github.com/cristianoliveira/commandflow/internal/shell"
	"github.com/cristianoliveira/commandflow/internal/version"
	"github.com/cristianoliveira/commandflow/pkg/dispatch"
	"github.com/cristianoliveira/commandflow/pkg/flow"
	"github.com/cristianoliveira/commandflow/pkg/tokenize"
)

// hintLimit caps the did-you-mean candidates shown for an unknown command.
const hintLimit = 3

// errHistoryDisabled is returned by history operations when history_enabled
// is off or the store could not be opened.
var errHistoryDisabled = errors.New("history is disabled")

// client wires the catalog, manager and history store for the CLI. Loading
// is deferred to first use so help and version never touch the disk.
type client struct {
	catalogPath func() string

	once     sync.Once
	err      error
	manager  *dispatch.Manager
	store    *history.Store
	grants   *grantAuthorizer
	commands []*flow.Command
}

func newClient(catalogPath func() string) *client {
	return &client{catalogPath: catalogPath}
}

func (c *client) load() error {
	c.once.Do(func() {
		c.err = c.init()
	})
	return c.err
}

func (c *client) init() error {
	path, err := resolveCatalogPath(c.catalogFlag(), config.Get("catalog_path", ""))
	if err != nil {
		return err
	}
	commands, err := catalog.Load(path, catalog.Builtins())
	if err != nil {
		return err
	}
	tokenizer, err := tokenize.ByName(config.Get("tokenizer", "quoted"))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.grants = newGrantAuthorizer(config.GetList("permissions"))
	c.manager = dispatch.New(
		dispatch.WithLogger(logging.GetGlobal()),
		dispatch.WithAuthorizer(c.grants),
		dispatch.WithTokenizer(tokenizer),
	)
	if err := catalog.Install(c.manager, commands); err != nil {
		return err
	}
	c.commands = commands
	logging.Debug("catalog loaded", "path", path, "commands", len(commands))

	if config.GetBool("history_enabled", true) {
		store, err := history.Open(config.Get("history_path", ""))
		if err != nil {
			colors.Warning("history unavailable:", err.Error())
		} else {
			c.store = store
		}
	}
	return nil
}

func (c *client) catalogFlag() string {
	if c.catalogPath == nil {
		return ""
	}
	return c.catalogPath()
}

// resolveCatalogPath picks the catalog file. An explicit path must exist;
// a configured one that is missing falls back to the embedded default.
func resolveCatalogPath(flagPath, configured string) (string, error) {
	if flagPath != "" {
		if _, err := os.Stat(flagPath); err != nil {
			return "", fmt.Errorf("catalog: %w", err)
		}
		return flagPath, nil
	}
	if configured == "" {
		return "", nil
	}
	if _, err := os.Stat(configured); err != nil {
		return "", nil
	}
	return configured, nil
}

// accessor returns a fresh accessor whose action output goes to out.
func (c *client) accessor(out io.Writer) *flow.Namespace {
	ns := flow.NewNamespace()
	if out != nil {
		ns.Set(catalog.OutputKey, out)
	}
	return ns
}

// Execute dispatches tokens and records the outcome.
func (c *client) Execute(ctx context.Context, out io.Writer, tokens []string) (bool, error) {
	if err := c.load(); err != nil {
		return false, err
	}
	ok, err := c.manager.Execute(c.accessor(out), tokens)
	c.record(ctx, strings.Join(tokens, " "), tokens, ok, err)
	return ok, err
}

// ExecuteLine tokenizes line, dispatches it and records the outcome.
func (c *client) ExecuteLine(ctx context.Context, out io.Writer, line string) (bool, error) {
	if err := c.load(); err != nil {
		return false, err
	}
	ok, err := c.manager.ExecuteLine(c.accessor(out), line)
	tokens, _ := c.manager.Tokenize(line)
	c.record(ctx, line, tokens, ok, err)
	return ok, err
}

// Tokenize splits line with the configured tokenizer.
func (c *client) Tokenize(line string) ([]string, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.manager.Tokenize(line)
}

func (c *client) record(ctx context.Context, line string, tokens []string, ok bool, err error) {
	if c.store == nil || strings.TrimSpace(line) == "" {
		return
	}
	entry := history.Entry{Line: line, Outcome: history.OutcomeOf(ok, err)}
	if len(tokens) > 0 {
		if command, found := c.manager.Command(tokens[0]); found {
			entry.Command = command.Name()
		}
	}
	if err != nil {
		entry.Message = err.Error()
	}
	if _, recErr := c.store.Record(ctx, entry); recErr != nil {
		colors.Warning("history:", recErr.Error())
	}
}

// Hints returns the command labels closest to token.
func (c *client) Hints(token string) []string {
	if !config.GetBool("did_you_mean", true) || c.load() != nil {
		return nil
	}
	return hint.For(c.manager, token, hintLimit)
}

// Suggestions completes the last of tokens.
func (c *client) Suggestions(tokens []string) ([]string, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return limit(c.manager.Suggestions(c.accessor(nil), tokens)), nil
}

// SuggestionsLine completes the last token of line.
func (c *client) SuggestionsLine(line string) ([]string, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return limit(c.manager.SuggestionsLine(c.accessor(nil), line)), nil
}

func limit(suggestions []string) []string {
	n := config.GetInt("suggest_limit", 50)
	if n > 0 && len(suggestions) > n {
		return suggestions[:n]
	}
	return suggestions
}

// Commands returns the catalog commands the configured grants allow.
func (c *client) Commands() ([]*flow.Command, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	visible := make([]*flow.Command, 0, len(c.commands))
	for _, command := range c.manager.Commands() {
		if flow.Allowed(c.grants, nil, command.Permission()) {
			visible = append(visible, command)
		}
	}
	return visible, nil
}

// Shell builds the interactive shell model.
func (c *client) Shell(ctx context.Context) (*shell.Model, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	opts := shell.Options{
		Prompt:       config.Get("prompt", "> "),
		SuggestLimit: config.GetInt("suggest_limit", 50),
		HistoryLimit: config.GetInt("history_limit", 20),
		DidYouMean:   config.GetBool("did_you_mean", true),
	}
	if c.store != nil {
		opts.Recorder = c.store
	}
	return shell.New(ctx, c.manager, flow.NewNamespace(), opts), nil
}

// Recent returns the newest history entries.
func (c *client) Recent(ctx context.Context, n int) ([]history.Entry, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	if c.store == nil {
		return nil, errHistoryDisabled
	}
	return c.store.Recent(ctx, n)
}

// ClearHistory deletes every history entry.
func (c *client) ClearHistory(ctx context.Context) (int64, error) {
	if err := c.load(); err != nil {
		return 0, err
	}
	if c.store == nil {
		return 0, errHistoryDisabled
	}
	return c.store.Clear(ctx)
}

// Version returns the build version.
func (c *client) Version() string {
	return version.String()
}

// Close releases the history store.
func (c *client) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
