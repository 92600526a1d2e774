package dispatch

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/commandflow/pkg/flow"
)

// NotAuthorizedError is returned when the accessor lacks a command's
// permission.
type NotAuthorizedError = flow.NotAuthorizedError

// DuplicateCommandError is returned by Register when a command name is
// already taken, case-insensitively, by a name or alias.
type DuplicateCommandError struct {
	Name     string
	Existing *flow.Command
}

func (e *DuplicateCommandError) Error() string {
	if e.Existing != nil && !strings.EqualFold(e.Existing.Name(), e.Name) {
		return fmt.Sprintf("command %q is already registered as an alias of %q", e.Name, e.Existing.Name())
	}
	return fmt.Sprintf("command %q is already registered", e.Name)
}

// UsageError is returned when the input names a command but its arguments
// do not parse. Usage is the rendered syntax of the deepest command
// reached. Err is nil when the action itself asked for usage.
type UsageError struct {
	Usage   string
	Command *flow.Command
	Err     error
}

func (e *UsageError) Error() string {
	if e.Err == nil {
		return "usage: " + e.Usage
	}
	return fmt.Sprintf("%v\nusage: %s", e.Err, e.Usage)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
