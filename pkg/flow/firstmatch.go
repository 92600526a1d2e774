package flow

import "github.com/cristianoliveira/commandflow/pkg/stack"

// FirstMatchingPart tries its alternatives in order and keeps the first
// one that parses. A failed alternative leaves no trace: its position is
// rewound and its values are never committed.
type FirstMatchingPart struct {
	name         string
	key          Key
	alternatives []Part
}

// FirstMatching builds an ordered choice between alternatives.
func FirstMatching(name string, alternatives ...Part) *FirstMatchingPart {
	alts := make([]Part, 0, len(alternatives))
	for _, p := range alternatives {
		if p != nil {
			alts = append(alts, p)
		}
	}
	return &FirstMatchingPart{name: name, key: Key(name), alternatives: alts}
}

func (f *FirstMatchingPart) Name() string { return f.name }

func (f *FirstMatchingPart) Key() Key { return f.key }

// Optional reports true when any alternative is optional.
func (f *FirstMatchingPart) Optional() bool {
	for _, p := range f.alternatives {
		if p.Optional() {
			return true
		}
	}
	return false
}

// Alternatives returns the alternatives in trial order.
func (f *FirstMatchingPart) Alternatives() []Part {
	out := make([]Part, len(f.alternatives))
	copy(out, f.alternatives)
	return out
}

// Parse returns the bindings of the first alternative that succeeds. When
// all of them fail the error of the last one is returned.
func (f *FirstMatchingPart) Parse(ctx *Context, st *stack.Stack) (Bindings, error) {
	var lastErr error
	for _, alt := range f.alternatives {
		mark := st.Mark()
		b, err := alt.Parse(ctx.Fork(), st)
		if err == nil {
			return b, nil
		}
		st.Reset(mark)
		lastErr = err
	}
	return Bindings{}, lastErr
}

func (f *FirstMatchingPart) Suggestions(ctx *Context, st *stack.Stack) []string {
	mark := st.Mark()
	var out []string
	for _, alt := range f.alternatives {
		out = union(out, alt.Suggestions(ctx.Fork(), st))
		st.Reset(mark)
	}
	return out
}
