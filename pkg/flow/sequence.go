package flow

import "github.com/cristianoliveira/commandflow/pkg/stack"

// SequencePart parses its children in order. Each child sees the values
// bound by the children before it.
type SequencePart struct {
	name  string
	key   Key
	parts []Part
}

// Sequence groups parts under name.
func Sequence(name string, parts ...Part) *SequencePart {
	children := make([]Part, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			children = append(children, p)
		}
	}
	return &SequencePart{name: name, key: Key(name), parts: children}
}

func (s *SequencePart) Name() string { return s.name }

func (s *SequencePart) Key() Key { return s.key }

// Optional reports true when every child is optional.
func (s *SequencePart) Optional() bool {
	for _, p := range s.parts {
		if !p.Optional() {
			return false
		}
	}
	return true
}

// Parts returns the children in parse order.
func (s *SequencePart) Parts() []Part {
	out := make([]Part, len(s.parts))
	copy(out, s.parts)
	return out
}

func (s *SequencePart) Parse(ctx *Context, st *stack.Stack) (Bindings, error) {
	scratch := ctx.Fork()
	var out Bindings
	for _, p := range s.parts {
		b, err := p.Parse(scratch, st)
		if err != nil {
			return Bindings{}, err
		}
		scratch.Apply(b)
		out = out.Merge(b)
	}
	return out, nil
}

// Suggestions hands the request to the child that fails, that is left
// holding the last token, or that comes last. An optional child that could also take the last
// token contributes its own suggestions to whatever follows it.
func (s *SequencePart) Suggestions(ctx *Context, st *stack.Stack) []string {
	scratch := ctx.Fork()
	var pending []string
	for i, p := range s.parts {
		mark := st.Mark()
		before := st.Position()
		b, err := p.Parse(scratch, st)
		if err != nil || !st.HasNext() {
			st.Reset(mark)
			return union(pending, p.Suggestions(scratch, st))
		}
		if st.Position() == before && p.Optional() && st.Remaining() == 1 {
			pending = union(pending, p.Suggestions(scratch, st))
			st.Reset(mark)
		}
		// The last child stopped short of the final token; it may still
		// complete it (a nested subcommand's own arguments, for one).
		if i == len(s.parts)-1 && st.Position() > before {
			st.Reset(mark)
			return union(pending, p.Suggestions(scratch, st))
		}
		scratch.Apply(b)
	}
	return pending
}
