// Package flow holds the command tree and the argument parts that turn a
// token stack into typed values.
//
// Every part implements Part. Parse either returns the complete Bindings it
// promises or an error; it never writes into the Context it is given. The
// caller decides when bindings are committed, which is how ordered choice
// rolls back a failed alternative exactly.
package flow

import (
	"errors"
	"sort"
	"strings"

	"github.com/cristianoliveira/commandflow/pkg/stack"
)

// Part is one node of a command's argument tree.
type Part interface {
	// Name is the human-facing label used in usage strings.
	Name() string
	// Key is the identity under which the part's values are bound.
	Key() Key
	// Optional reports whether usage should render the part as optional.
	Optional() bool
	// Parse consumes tokens from st and returns the values produced.
	// Earlier values are readable from ctx. On error the stack position is
	// unspecified; callers that retry must Reset.
	Parse(ctx *Context, st *stack.Stack) (Bindings, error)
	// Suggestions returns candidate completions for the last token of st.
	// It may advance st.
	Suggestions(ctx *Context, st *stack.Stack) []string
}

// commandError marks a failure that happened inside a subcommand. The
// chain lists every command entered on the way down, outermost first.
type commandError struct {
	chain []Invocation
	err   error
}

func (e *commandError) Error() string {
	return e.err.Error()
}

func (e *commandError) Unwrap() error {
	return e.err
}

func annotate(err error, inv Invocation) error {
	if ce, ok := err.(*commandError); ok {
		chain := make([]Invocation, 0, len(ce.chain)+1)
		chain = append(chain, inv)
		chain = append(chain, ce.chain...)
		return &commandError{chain: chain, err: ce.err}
	}
	return &commandError{chain: []Invocation{inv}, err: err}
}

// FailedChain returns the subcommands that were entered before err was
// raised, outermost first. It is empty when the failure happened in the
// root command's own parts.
func FailedChain(err error) []Invocation {
	var ce *commandError
	if !errors.As(err, &ce) {
		return nil
	}
	out := make([]Invocation, len(ce.chain))
	copy(out, ce.chain)
	return out
}

// Cause strips subcommand annotations from err.
func Cause(err error) error {
	for {
		ce, ok := err.(*commandError)
		if !ok {
			return err
		}
		err = ce.err
	}
}

// completions returns the members of candidates that start with prefix,
// ignoring letter case, sorted and without duplicates.
func completions(prefix string, candidates []string) []string {
	prefix = strings.ToLower(prefix)
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if seen[c] || !strings.HasPrefix(strings.ToLower(c), prefix) {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// union appends lists in order, dropping repeats.
func union(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
