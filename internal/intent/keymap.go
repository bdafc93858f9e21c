package intent

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap binds keys to intents.
type KeyMap struct {
	NextStory     key.Binding
	NextStorySkip key.Binding
	PrevStory     key.Binding
	PrevStorySkip key.Binding
	NextPage      key.Binding
	NextPageSkip  key.Binding
	PrevPage      key.Binding
	PrevPageSkip  key.Binding
	Open          key.Binding
	OpenComments  key.Binding
	Refresh       key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the standard bindings. Lower and upper case letters
// are treated alike.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextStory:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next story")),
		NextStorySkip: key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "skip, next story")),
		PrevStory:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous story")),
		PrevStorySkip: key.NewBinding(key.WithKeys("p", "P"), key.WithHelp("p", "skip, previous story")),
		NextPage:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		NextPageSkip:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "skip page, next page")),
		PrevPage:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous page")),
		PrevPageSkip:  key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "skip page, previous page")),
		Open:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open story")),
		OpenComments:  key.NewBinding(key.WithKeys("c", "C"), key.WithHelp("c", "open comments")),
		Refresh:       key.NewBinding(key.WithKeys("f5", "r", "R"), key.WithHelp("f5/r", "refresh")),
		Quit:          key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Bindings returns every binding paired with its intent, in display order.
func (k KeyMap) Bindings() []Binding {
	return []Binding{
		{NextStory, k.NextStory},
		{PrevStory, k.PrevStory},
		{NextStorySkip, k.NextStorySkip},
		{PrevStorySkip, k.PrevStorySkip},
		{NextPage, k.NextPage},
		{PrevPage, k.PrevPage},
		{NextPageSkip, k.NextPageSkip},
		{PrevPageSkip, k.PrevPageSkip},
		{Open, k.Open},
		{OpenComments, k.OpenComments},
		{Refresh, k.Refresh},
		{Quit, k.Quit},
	}
}

// Binding pairs an intent with its keys.
type Binding struct {
	Intent Intent
	Key    key.Binding
}

// Classify returns the intent bound to msg.
func (k KeyMap) Classify(msg tea.KeyMsg) (Intent, bool) {
	for _, b := range k.Bindings() {
		if key.Matches(msg, b.Key) {
			return b.Intent, true
		}
	}
	return 0, false
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextStory, k.PrevStory, k.NextStorySkip, k.NextPage, k.PrevPage, k.Open, k.OpenComments, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextStory, k.PrevStory, k.NextStorySkip, k.PrevStorySkip},
		{k.NextPage, k.PrevPage, k.NextPageSkip, k.PrevPageSkip},
		{k.Open, k.OpenComments, k.Refresh, k.Quit},
	}
}
