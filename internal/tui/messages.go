package tui

import "github.com/cristianoliveira/hnreader/internal/errors"

// RepaintMsg asks the model to redraw from the screen.
type RepaintMsg struct{}

// StartedMsg is sent once the first page has been requested.
type StartedMsg struct{}

// StatusMsg shows a message on the status line.
type StatusMsg struct {
	Message errors.Message
}

// SessionDoneMsg ends the program. Err is set when the session failed.
type SessionDoneMsg struct {
	Err error
}

type clearStatusMsg struct {
	seq int
}
