package flow

import (
	"strings"

	"github.com/cristianoliveira/commandflow/pkg/stack"
)

// Primitive is a leaf part that converts tokens into values of type T.
// With ConsumeAll it takes every remaining token and binds them as a list.
type Primitive[T any] struct {
	name       string
	key        Key
	typeName   string
	consumeAll bool
	take       func(st *stack.Stack) (T, error)
	domain     []string
}

func newPrimitive[T any](name, typeName string, take func(*stack.Stack) (T, error)) *Primitive[T] {
	return &Primitive[T]{name: name, key: Key(name), typeName: typeName, take: take}
}

// String binds the next token verbatim.
func String(name string) *Primitive[string] {
	return newPrimitive(name, "string", (*stack.Stack).Next)
}

// Int binds the next token as an int.
func Int(name string) *Primitive[int] {
	return newPrimitive(name, "int", (*stack.Stack).NextInt)
}

// Int64 binds the next token as an int64.
func Int64(name string) *Primitive[int64] {
	return newPrimitive(name, "int64", (*stack.Stack).NextInt64)
}

// Float binds the next token as a float64.
func Float(name string) *Primitive[float64] {
	return newPrimitive(name, "float", (*stack.Stack).NextFloat)
}

// Bool binds the next token as a bool. It suggests "true" and "false".
func Bool(name string) *Primitive[bool] {
	p := newPrimitive(name, "bool", (*stack.Stack).NextBool)
	p.domain = []string{"true", "false"}
	return p
}

// Choice binds the next token when it matches one of values, ignoring case.
// The bound value is the canonical spelling from values.
func Choice(name string, values ...string) *Primitive[string] {
	domain := make([]string, len(values))
	copy(domain, values)
	target := "one of " + strings.Join(domain, "|")
	p := newPrimitive(name, "choice", func(st *stack.Stack) (string, error) {
		token, err := st.Peek()
		if err != nil {
			return "", err
		}
		for _, v := range domain {
			if strings.EqualFold(v, token) {
				_ = st.Skip()
				return v, nil
			}
		}
		return "", &stack.ParseError{
			Kind:     stack.KindTypeMismatch,
			Token:    token,
			Target:   target,
			Position: st.Position(),
		}
	})
	p.domain = domain
	return p
}

// ConsumeAll returns a copy of p that takes every remaining token.
func (p *Primitive[T]) ConsumeAll() *Primitive[T] {
	cp := *p
	cp.consumeAll = true
	return &cp
}

// WithKey returns a copy of p that binds under key.
func (p *Primitive[T]) WithKey(key Key) *Primitive[T] {
	cp := *p
	cp.key = key
	return &cp
}

func (p *Primitive[T]) Name() string { return p.name }

func (p *Primitive[T]) Key() Key { return p.key }

func (p *Primitive[T]) Optional() bool { return false }

// Type names the value type, as used in error messages.
func (p *Primitive[T]) Type() string { return p.typeName }

// ConsumesAll reports whether the part takes every remaining token.
func (p *Primitive[T]) ConsumesAll() bool { return p.consumeAll }

// Domain returns the finite set of accepted spellings, if any.
func (p *Primitive[T]) Domain() []string {
	out := make([]string, len(p.domain))
	copy(out, p.domain)
	return out
}

func (p *Primitive[T]) Parse(_ *Context, st *stack.Stack) (Bindings, error) {
	if !p.consumeAll {
		value, err := p.take(st)
		if err != nil {
			return Bindings{}, err
		}
		return Bind(p.key, value), nil
	}

	values := make([]any, 0, st.Remaining())
	for st.HasNext() {
		value, err := p.take(st)
		if err != nil {
			return Bindings{}, err
		}
		values = append(values, value)
	}
	return Bind(p.key, values...), nil
}

func (p *Primitive[T]) Suggestions(_ *Context, st *stack.Stack) []string {
	if len(p.domain) == 0 || !st.HasNext() {
		return nil
	}
	if !p.consumeAll && st.Remaining() != 1 {
		return nil
	}
	prefix, _ := st.Last()
	return completions(prefix, p.domain)
}
