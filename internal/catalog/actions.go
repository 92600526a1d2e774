package catalog

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cristianoliveira/commandflow/pkg/dispatch"
	"github.com/cristianoliveira/commandflow/pkg/flow"
)

// OutputKey is the accessor namespace key holding the io.Writer built-in
// actions print to. Without it they print to stdout.
const OutputKey = "catalog.output"

// Actions maps action names used in a catalog to implementations.
type Actions map[string]flow.Action

// Lookup finds an action by name, ignoring case.
func (a Actions) Lookup(name string) (flow.Action, bool) {
	if action, ok := a[name]; ok {
		return action, true
	}
	for key, action := range a {
		if strings.EqualFold(key, name) {
			return action, true
		}
	}
	return nil, false
}

// Names returns the registered action names in sorted order.
func (a Actions) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of a extended by extra. Entries in extra win.
func (a Actions) With(extra Actions) Actions {
	out := make(Actions, len(a)+len(extra))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Builtins returns the actions every catalog can reference:
//
//	echo  prints the resolved labels followed by key=value bindings
//	noop  succeeds without output
//	fail  reports a usage error
//	help  lists the commands registered with the dispatching manager
func Builtins() Actions {
	return Actions{
		"echo": flow.ActionFunc(echo),
		"noop": flow.ActionFunc(func(*flow.Context) (bool, error) { return true, nil }),
		"fail": flow.ActionFunc(func(*flow.Context) (bool, error) { return false, nil }),
		"help": flow.ActionFunc(help),
	}
}

// Output returns the writer stored in the accessor, or stdout.
func Output(ctx *flow.Context) io.Writer {
	if w, ok := flow.NamespaceValue[io.Writer](ctx.Accessor(), OutputKey); ok && w != nil {
		return w
	}
	return os.Stdout
}

// Echo renders ctx the way the echo action prints it.
func Echo(ctx *flow.Context) string {
	parts := []string{strings.Join(ctx.Labels(), " ")}
	for _, key := range ctx.Keys() {
		values := ctx.Values(key)
		rendered := make([]string, len(values))
		for i, v := range values {
			rendered[i] = fmt.Sprint(v)
		}
		parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(rendered, ",")))
	}
	return strings.Join(parts, " ")
}

func echo(ctx *flow.Context) (bool, error) {
	_, err := fmt.Fprintln(Output(ctx), Echo(ctx))
	return true, err
}

func help(ctx *flow.Context) (bool, error) {
	m, ok := dispatch.FromNamespace(ctx.Accessor())
	if !ok {
		return false, fmt.Errorf("help: no manager in context")
	}
	w := tabwriter.NewWriter(Output(ctx), 0, 4, 2, ' ', 0)
	for _, cmd := range m.Commands() {
		if !ctx.Authorized(cmd.Permission()) {
			continue
		}
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(w, "%s\t%s\n", name, cmd.Description())
	}
	return true, w.Flush()
}
