// Package errors routes user-facing errors and notices to the console or
// to the reader's status line.
package errors

import "sync"

// ErrorHandler is the interface for error handling.
// Different implementations can handle errors differently based on context.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the console surface CLIHandler writes to.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler handles errors by printing to stdout/stderr using the colors package.
type CLIHandler struct {
	colors ColorOutput

	mu          sync.Mutex
	fatalIssued bool
}

var _ ErrorHandler = (*CLIHandler)(nil)

func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

func (h *CLIHandler) Error(msg string) {
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

// Fatal reports a fatal error. Only the first fatal error of a process is
// printed; it returns false for the ones that were swallowed.
func (h *CLIHandler) Fatal(err error) bool {
	if err == nil {
		return false
	}
	h.mu.Lock()
	if h.fatalIssued {
		h.mu.Unlock()
		return false
	}
	h.fatalIssued = true
	h.mu.Unlock()

	h.colors.Error(err.Error())
	return true
}
