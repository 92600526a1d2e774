package flow

// Key identifies the values a part binds into a Context. Keys are assigned
// when the part tree is built; by default a part's key is its name.
type Key string

type binding struct {
	key    Key
	values []any
}

// Bindings is the outcome of a successful Parse: every value the part
// produced plus any command it descended into. Nothing is visible in a
// Context until the caller applies the bindings, which is what makes a
// failed alternative indistinguishable from one that was never tried.
type Bindings struct {
	values []binding
	chain  []Invocation
}

// Bind returns bindings holding values under key. Binding zero values is
// meaningful: the key is present with an empty list.
func Bind(key Key, values ...any) Bindings {
	copied := make([]any, len(values))
	copy(copied, values)
	return Bindings{values: []binding{{key: key, values: copied}}}
}

// BindCommand returns bindings that descend into command under label.
func BindCommand(command *Command, label string) Bindings {
	return Bindings{chain: []Invocation{{Command: command, Label: label}}}
}

// Merge returns b followed by other. Later bindings of the same key win
// when applied.
func (b Bindings) Merge(other Bindings) Bindings {
	if other.Empty() {
		return b
	}
	if b.Empty() {
		return other
	}
	merged := Bindings{
		values: make([]binding, 0, len(b.values)+len(other.values)),
		chain:  make([]Invocation, 0, len(b.chain)+len(other.chain)),
	}
	merged.values = append(merged.values, b.values...)
	merged.values = append(merged.values, other.values...)
	merged.chain = append(merged.chain, b.chain...)
	merged.chain = append(merged.chain, other.chain...)
	return merged
}

// Empty reports whether the bindings carry neither values nor commands.
func (b Bindings) Empty() bool {
	return len(b.values) == 0 && len(b.chain) == 0
}

// Values returns the values bound to key, honouring last-write-wins.
func (b Bindings) Values(key Key) ([]any, bool) {
	for i := len(b.values) - 1; i >= 0; i-- {
		if b.values[i].key == key {
			return b.values[i].values, true
		}
	}
	return nil, false
}

// Keys returns the bound keys in binding order, without duplicates.
func (b Bindings) Keys() []Key {
	seen := make(map[Key]bool, len(b.values))
	keys := make([]Key, 0, len(b.values))
	for _, v := range b.values {
		if seen[v.key] {
			continue
		}
		seen[v.key] = true
		keys = append(keys, v.key)
	}
	return keys
}

// Commands returns the commands descended into, outermost first.
func (b Bindings) Commands() []Invocation {
	out := make([]Invocation, len(b.chain))
	copy(out, b.chain)
	return out
}
