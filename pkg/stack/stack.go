// Package stack provides the token cursor consumed by command parts.
//
// A Stack is a position over an ordered sequence of tokens. Typed Next*
// methods consume exactly one token and report position-aware errors; Mark
// and Reset let callers rewind after a failed attempt.
package stack

import (
	"strconv"
	"strings"
)

// Checkpoint is a saved cursor position returned by Mark.
type Checkpoint struct {
	position int
}

// Stack is a cursor over tokens. It is not safe for concurrent use; every
// dispatch owns its own Stack.
type Stack struct {
	tokens   []string
	position int
}

// New returns a stack positioned before the first of tokens. The slice is copied.
func New(tokens []string) *Stack {
	copied := make([]string, len(tokens))
	copy(copied, tokens)
	return &Stack{tokens: copied}
}

// HasNext reports whether at least one token remains.
func (s *Stack) HasNext() bool {
	return s.position < len(s.tokens)
}

// Remaining returns the number of unconsumed tokens.
func (s *Stack) Remaining() int {
	return len(s.tokens) - s.position
}

// Position returns the index of the next token.
func (s *Stack) Position() int {
	return s.position
}

// Len returns the total number of tokens.
func (s *Stack) Len() int {
	return len(s.tokens)
}

// Tokens returns a copy of every token, consumed or not.
func (s *Stack) Tokens() []string {
	copied := make([]string, len(s.tokens))
	copy(copied, s.tokens)
	return copied
}

// RemainingTokens returns a copy of the unconsumed tokens.
func (s *Stack) RemainingTokens() []string {
	rest := make([]string, s.Remaining())
	copy(rest, s.tokens[s.position:])
	return rest
}

// Last returns the final token of the stack regardless of position.
func (s *Stack) Last() (string, bool) {
	if len(s.tokens) == 0 {
		return "", false
	}
	return s.tokens[len(s.tokens)-1], true
}

// Peek returns the next token without consuming it.
func (s *Stack) Peek() (string, error) {
	if !s.HasNext() {
		return "", &OutOfArgumentsError{Position: s.position}
	}
	return s.tokens[s.position], nil
}

// Next consumes and returns the next token.
func (s *Stack) Next() (string, error) {
	token, err := s.Peek()
	if err != nil {
		return "", err
	}
	s.position++
	return token, nil
}

// Skip consumes the next token, discarding it.
func (s *Stack) Skip() error {
	_, err := s.Next()
	return err
}

// NextInt consumes the next token as a base-10 int.
func (s *Stack) NextInt() (int, error) {
	return nextTyped(s, "int", strconv.Atoi)
}

// NextInt64 consumes the next token as a base-10 int64.
func (s *Stack) NextInt64() (int64, error) {
	return nextTyped(s, "int64", func(token string) (int64, error) {
		return strconv.ParseInt(token, 10, 64)
	})
}

// NextFloat consumes the next token as a float64.
func (s *Stack) NextFloat() (float64, error) {
	return nextTyped(s, "float", func(token string) (float64, error) {
		return strconv.ParseFloat(token, 64)
	})
}

// NextBool consumes the next token as a bool. Only "true" and "false" are
// accepted, in any letter case.
func (s *Stack) NextBool() (bool, error) {
	return nextTyped(s, "bool", parseBool)
}

// Mark snapshots the cursor position.
func (s *Stack) Mark() Checkpoint {
	return Checkpoint{position: s.position}
}

// Reset rewinds (or advances) the cursor to a checkpoint taken on this stack.
func (s *Stack) Reset(c Checkpoint) {
	position := c.position
	if position < 0 {
		position = 0
	}
	if position > len(s.tokens) {
		position = len(s.tokens)
	}
	s.position = position
}

// nextTyped converts the next token with parse. The cursor only advances
// when the conversion succeeds.
func nextTyped[T any](s *Stack, target string, parse func(string) (T, error)) (T, error) {
	var zero T
	token, err := s.Peek()
	if err != nil {
		return zero, err
	}
	value, err := parse(token)
	if err != nil {
		return zero, &ParseError{
			Kind:     KindTypeMismatch,
			Token:    token,
			Target:   target,
			Position: s.position,
			Err:      err,
		}
	}
	s.position++
	return value, nil
}

func parseBool(token string) (bool, error) {
	switch strings.ToLower(token) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, strconv.ErrSyntax
	}
}
