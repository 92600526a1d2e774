// Package errors routes dispatch outcomes to the console or the shell.
package errors

import (
	stderrors "errors"
	"strings"
	"sync"

	"github.com/cristianoliveira/commandflow/pkg/dispatch"
)

// ErrorHandler receives user-facing messages.
// Different implementations can handle errors differently based on context.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the console surface used by CLIHandler.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler prints messages to stdout/stderr through a ColorOutput.
type CLIHandler struct {
	colors     ColorOutput
	mu         sync.Mutex
	inHandling bool
}

// NewCLIHandler creates a CLI handler writing to colors.
func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	if h.inHandling {
		h.mu.Unlock()
		h.colors.Error(msg)
		return
	}
	h.inHandling = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.inHandling = false
		h.mu.Unlock()
	}()

	h.colors.Error(msg)
}

func (h *CLIHandler) Warning(msg string) {
	h.colors.Warning(msg)
}

func (h *CLIHandler) Info(msg string) {
	h.colors.Info(msg)
}

func (h *CLIHandler) Success(msg string) {
	h.colors.Success(msg)
}

// Report translates a dispatch error into handler messages. Usage errors
// print their cause (when present) as an error followed by the usage line;
// authorization failures print only their message. A nil err reports
// nothing. Report returns whether anything was reported.
func Report(h ErrorHandler, err error) bool {
	if err == nil {
		return false
	}

	var denied *dispatch.NotAuthorizedError
	if stderrors.As(err, &denied) {
		h.Error(denied.Error())
		return true
	}

	var usage *dispatch.UsageError
	if stderrors.As(err, &usage) {
		if usage.Err != nil {
			h.Error(usage.Err.Error())
		}
		h.Warning("usage: " + usage.Usage)
		return true
	}

	h.Error(strings.TrimSpace(err.Error()))
	return true
}
