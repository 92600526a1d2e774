package stack

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfArguments is matched by every OutOfArgumentsError.
	ErrOutOfArguments = errors.New("out of arguments")
	// ErrTypeMismatch is matched by parse errors of kind KindTypeMismatch.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnknownSubcommand is matched by parse errors of kind KindUnknownSubcommand.
	ErrUnknownSubcommand = errors.New("unknown subcommand")
)

// Kind classifies a ParseError.
type Kind int

const (
	// KindTypeMismatch means a token was present but could not be converted.
	KindTypeMismatch Kind = iota
	// KindUnknownSubcommand means a discriminator token matched no child command.
	KindUnknownSubcommand
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type mismatch"
	case KindUnknownSubcommand:
		return "unknown subcommand"
	default:
		return "unknown"
	}
}

// OutOfArgumentsError is returned when a value was required but the stack was exhausted.
type OutOfArgumentsError struct {
	// Position is the cursor position at which a token was expected.
	Position int
}

func (e *OutOfArgumentsError) Error() string {
	return fmt.Sprintf("missing argument at position %d", e.Position)
}

// Is reports whether target is ErrOutOfArguments.
func (e *OutOfArgumentsError) Is(target error) bool {
	return target == ErrOutOfArguments
}

// ParseError is returned when a token is present but cannot be used.
type ParseError struct {
	Kind Kind
	// Token is the offending token as typed.
	Token string
	// Target names what the token was converted into ("int", "bool", a subcommand set...).
	Target string
	// Position is the index of Token in the stack.
	Position int
	// Err is the underlying conversion error, if any.
	Err error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindUnknownSubcommand:
		return fmt.Sprintf("unknown subcommand %q at position %d", e.Token, e.Position)
	default:
		return fmt.Sprintf("invalid %s %q at position %d", e.Target, e.Token, e.Position)
	}
}

// Unwrap returns the underlying conversion error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *ParseError) Is(target error) bool {
	switch e.Kind {
	case KindTypeMismatch:
		return target == ErrTypeMismatch
	case KindUnknownSubcommand:
		return target == ErrUnknownSubcommand
	}
	return false
}
