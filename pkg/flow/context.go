package flow

import "sort"

// Invocation is one level of the resolved command chain: the command and
// the label (name or alias) that was typed for it.
type Invocation struct {
	Command *Command
	Label   string
}

// Context is the per-dispatch scratch space. Parts read earlier values from
// it; the manager applies the bindings of a successful parse into it and
// hands it to the executor.
type Context struct {
	accessor   *Namespace
	arguments  []string
	chain      []Invocation
	values     map[Key][]any
	authorizer Authorizer
}

// NewContext returns an empty context for accessor. arguments is the full
// token line, kept for actions and usage builders.
func NewContext(accessor *Namespace, arguments []string) *Context {
	if accessor == nil {
		accessor = NewNamespace()
	}
	args := make([]string, len(arguments))
	copy(args, arguments)
	return &Context{
		accessor:  accessor,
		arguments: args,
		values:    make(map[Key][]any),
	}
}

// Accessor returns the caller identity.
func (c *Context) Accessor() *Namespace {
	return c.accessor
}

// Arguments returns the tokens the dispatch started from.
func (c *Context) Arguments() []string {
	out := make([]string, len(c.arguments))
	copy(out, c.arguments)
	return out
}

// SetCommand records that command was resolved from label, one level
// deeper than the current command.
func (c *Context) SetCommand(command *Command, label string) {
	c.chain = append(c.chain, Invocation{Command: command, Label: label})
}

// Command returns the deepest resolved command, or nil.
func (c *Context) Command() *Command {
	if len(c.chain) == 0 {
		return nil
	}
	return c.chain[len(c.chain)-1].Command
}

// Label returns the label typed for the deepest resolved command.
func (c *Context) Label() string {
	if len(c.chain) == 0 {
		return ""
	}
	return c.chain[len(c.chain)-1].Label
}

// Chain returns every resolved command, outermost first.
func (c *Context) Chain() []Invocation {
	out := make([]Invocation, len(c.chain))
	copy(out, c.chain)
	return out
}

// Labels returns the typed label of every resolved command, outermost first.
func (c *Context) Labels() []string {
	labels := make([]string, len(c.chain))
	for i, inv := range c.chain {
		labels[i] = inv.Label
	}
	return labels
}

// SetAuthorizer installs the authorizer used by subcommand parts.
func (c *Context) SetAuthorizer(authorizer Authorizer) {
	c.authorizer = authorizer
}

// Authorizer returns the installed authorizer, or nil.
func (c *Context) Authorizer() Authorizer {
	return c.authorizer
}

// Authorized reports whether the accessor holds permission.
func (c *Context) Authorized(permission string) bool {
	return Allowed(c.authorizer, c.accessor, permission)
}

// Fork returns an independent copy. Writes to the copy never reach c.
func (c *Context) Fork() *Context {
	values := make(map[Key][]any, len(c.values))
	for k, v := range c.values {
		values[k] = v
	}
	chain := make([]Invocation, len(c.chain))
	copy(chain, c.chain)
	return &Context{
		accessor:   c.accessor,
		arguments:  c.arguments,
		chain:      chain,
		values:     values,
		authorizer: c.authorizer,
	}
}

// Apply commits bindings into the context.
func (c *Context) Apply(b Bindings) {
	for _, v := range b.values {
		c.values[v.key] = v.values
	}
	c.chain = append(c.chain, b.chain...)
}

// Has reports whether key was bound, even to an empty list.
func (c *Context) Has(key Key) bool {
	_, ok := c.values[key]
	return ok
}

// Values returns every value bound to key.
func (c *Context) Values(key Key) []any {
	values := c.values[key]
	out := make([]any, len(values))
	copy(out, values)
	return out
}

// Value returns the first value bound to key.
func (c *Context) Value(key Key) (any, bool) {
	values := c.values[key]
	if len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

// Keys returns every bound key in sorted order.
func (c *Context) Keys() []Key {
	keys := make([]Key, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Get returns the first value bound to key if it has type T.
func Get[T any](c *Context, key Key) (T, bool) {
	var zero T
	value, ok := c.Value(key)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// GetOr is Get with a fallback.
func GetOr[T any](c *Context, key Key, fallback T) T {
	if value, ok := Get[T](c, key); ok {
		return value
	}
	return fallback
}

// GetAll returns the values bound to key that have type T.
func GetAll[T any](c *Context, key Key) []T {
	values := c.values[key]
	out := make([]T, 0, len(values))
	for _, v := range values {
		if typed, ok := v.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}
