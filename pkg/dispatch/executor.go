package dispatch

import (
	"github.com/cristianoliveira/commandflow/pkg/flow"
)

// Executor runs a successfully parsed context.
type Executor interface {
	Execute(ctx *flow.Context, usage flow.UsageBuilder) (bool, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx *flow.Context, usage flow.UsageBuilder) (bool, error)

func (f ExecutorFunc) Execute(ctx *flow.Context, usage flow.UsageBuilder) (bool, error) {
	return f(ctx, usage)
}

// DefaultExecutor runs the action of the deepest resolved command. A
// missing action, or one that returns false, becomes a UsageError.
type DefaultExecutor struct{}

func (DefaultExecutor) Execute(ctx *flow.Context, usage flow.UsageBuilder) (bool, error) {
	command := ctx.Command()
	if command == nil {
		return false, nil
	}
	action := command.Action()
	if action == nil {
		return false, &UsageError{Usage: usage.Usage(ctx), Command: command}
	}
	ok, err := action.Execute(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, &UsageError{Usage: usage.Usage(ctx), Command: command}
	}
	return true, nil
}
