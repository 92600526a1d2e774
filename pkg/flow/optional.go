package flow

import "github.com/cristianoliveira/commandflow/pkg/stack"

// OptionalPart wraps a part that may be absent. When the inner part fails,
// or succeeds without consuming a token while defaults are set, the stack is
// rewound and the defaults are bound instead.
type OptionalPart struct {
	part     Part
	defaults []any
}

// Optional makes part optional.
func Optional(part Part, defaults ...any) *OptionalPart {
	d := make([]any, len(defaults))
	copy(d, defaults)
	return &OptionalPart{part: part, defaults: d}
}

func (o *OptionalPart) Name() string { return o.part.Name() }

func (o *OptionalPart) Key() Key { return o.part.Key() }

func (o *OptionalPart) Optional() bool { return true }

// Inner returns the wrapped part.
func (o *OptionalPart) Inner() Part { return o.part }

// Defaults returns the values bound when the inner part is absent.
func (o *OptionalPart) Defaults() []any {
	out := make([]any, len(o.defaults))
	copy(out, o.defaults)
	return out
}

func (o *OptionalPart) Parse(ctx *Context, st *stack.Stack) (Bindings, error) {
	mark := st.Mark()
	start := st.Position()
	b, err := o.part.Parse(ctx, st)
	if err == nil && (st.Position() > start || len(o.defaults) == 0) {
		return b, nil
	}
	st.Reset(mark)
	if len(o.defaults) == 0 {
		return Bindings{}, nil
	}
	return Bind(o.part.Key(), o.defaults...), nil
}

func (o *OptionalPart) Suggestions(ctx *Context, st *stack.Stack) []string {
	return o.part.Suggestions(ctx, st)
}
