package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Program is the part of a bubbletea program the session talks to.
type Program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// ProgramFactory creates the program for a model.
type ProgramFactory func(model tea.Model) Program

// NewDefaultProgram runs model on the alternate screen.
func NewDefaultProgram(model tea.Model) Program {
	return tea.NewProgram(model, tea.WithAltScreen())
}
