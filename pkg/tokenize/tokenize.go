// Package tokenize splits a command line into the tokens a dispatch
// consumes.
package tokenize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/mattn/go-shellwords"
)

var (
	// ErrUnterminatedQuote is returned by Quoted for a line that opens a
	// quote, or starts an escape, it never closes.
	ErrUnterminatedQuote = errors.New("unterminated quote or escape")
	// ErrOperator is returned by Quoted for an unquoted ; & | < or >.
	ErrOperator = errors.New("unquoted shell operator")
)

// Tokenizer turns a line into tokens.
type Tokenizer interface {
	Tokenize(line string) ([]string, error)
}

// Func adapts a function to Tokenizer.
type Func func(line string) ([]string, error)

func (f Func) Tokenize(line string) ([]string, error) {
	return f(line)
}

// Space splits on runs of whitespace. It never fails.
type Space struct{}

func (Space) Tokenize(line string) ([]string, error) {
	return strings.Fields(line), nil
}

// Quoted splits a line with POSIX shell word rules: single- or
// double-quoted runs stay together and a backslash escapes the next rune
// outside single quotes. Environment and backtick expansion are off.
type Quoted struct{}

func (Quoted) Tokenize(line string) ([]string, error) {
	p := shellwords.NewParser()
	tokens, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnterminatedQuote, err)
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("%w at offset %d", ErrOperator, p.Position)
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return tokens, nil
}

// EndsWithSpace reports whether line ends in whitespace, meaning the caller
// has finished the last token and wants the next one completed.
func EndsWithSpace(line string) bool {
	if line == "" {
		return false
	}
	r := []rune(line)
	return unicode.IsSpace(r[len(r)-1])
}

// Last returns the last token of line as t reads it, and the byte offset
// where its raw text starts. A line ending in whitespace has an empty last
// token at len(line). A line t rejects falls back to its last
// whitespace-separated field.
func Last(t Tokenizer, line string) (string, int) {
	if line == "" || EndsWithSpace(line) {
		return "", len(line)
	}
	tokens, err := t.Tokenize(line)
	if err != nil || len(tokens) == 0 {
		start := strings.LastIndexFunc(line, unicode.IsSpace) + 1
		return line[start:], start
	}

	want := len(tokens) - 1
	for i := len(line) - 1; i > 0; i-- {
		if !isBlank(line[i-1]) {
			continue
		}
		head, err := t.Tokenize(line[:i])
		if err == nil && len(head) == want {
			return tokens[want], i
		}
	}
	return tokens[want], 0
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// ByName returns the tokenizer registered under name ("space" or "quoted").
func ByName(name string) (Tokenizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "space":
		return Space{}, nil
	case "quoted":
		return Quoted{}, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", name)
	}
}
