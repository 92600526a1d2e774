package flow

import "sort"

// Namespace is the opaque identity of whoever issued a command. The core
// never inspects it; authorizers, actions and usage builders read whatever
// the caller stored in it.
type Namespace struct {
	values map[string]any
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]any)}
}

// Set stores value under key.
func (n *Namespace) Set(key string, value any) {
	if n.values == nil {
		n.values = make(map[string]any)
	}
	n.values[key] = value
}

// Get returns the value stored under key.
func (n *Namespace) Get(key string) (any, bool) {
	if n == nil || n.values == nil {
		return nil, false
	}
	value, ok := n.values[key]
	return value, ok
}

// Delete removes key.
func (n *Namespace) Delete(key string) {
	if n == nil || n.values == nil {
		return
	}
	delete(n.values, key)
}

// Keys returns the stored keys in sorted order.
func (n *Namespace) Keys() []string {
	if n == nil {
		return nil
	}
	keys := make([]string, 0, len(n.values))
	for k := range n.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NamespaceValue returns the value stored under key if it has type T.
func NamespaceValue[T any](n *Namespace, key string) (T, bool) {
	var zero T
	value, ok := n.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
