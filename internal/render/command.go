// Package render paints story pages and moves the highlight on behalf of the
// orchestrator. A single consumer goroutine applies commands handed over
// through a Slot.
package render

import "fmt"

// Command is an instruction for the consumer. The set of commands is closed.
type Command interface {
	command()
}

// ShowPage paints the buffer slots in [Begin, End) and highlights the first
// one, or the target of a SelectStory that arrives while painting.
type ShowPage struct {
	Begin, End int
	// Page is 1-based.
	Page  int
	Total int
}

// SelectStory moves the highlight to the slot at Index if it is painted.
type SelectStory struct {
	Index int
}

// Quit stops the consumer.
type Quit struct{}

func (ShowPage) command()    {}
func (SelectStory) command() {}
func (Quit) command()        {}

func (c ShowPage) String() string {
	return fmt.Sprintf("ShowPage[%d,%d) %d/%d", c.Begin, c.End, c.Page, c.Total)
}

func (c SelectStory) String() string {
	return fmt.Sprintf("SelectStory(%d)", c.Index)
}

func (Quit) String() string {
	return "Quit"
}
