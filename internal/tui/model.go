package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/hnreader/internal/errors"
	"github.com/cristianoliveira/hnreader/internal/intent"
	"github.com/cristianoliveira/hnreader/internal/render"
	draw "github.com/cristianoliveira/hnreader/internal/tui/render"
)

const (
	headerLines           = 2
	defaultViewportWidth  = 80
	defaultViewportHeight = 24
	statusClearDuration   = 5 * time.Second
	emptyMessage          = "Nothing left to read. Skipped stories stay hidden."
)

var helpKey = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "all keys"))

// Model shows the screen and queues intents for the session. Update never
// blocks on the session.
type Model struct {
	screen  *Screen
	intents *intent.Queue
	keys    intent.KeyMap

	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model

	frame         Frame
	width, height int
	started       bool
	quitting      bool

	status    errors.Message
	hasStatus bool
	statusSeq int

	err error
}

// NewModel creates a model showing screen and pushing intents into queue.
func NewModel(screen *Screen, queue *intent.Queue, keys intent.KeyMap) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := &Model{
		screen:   screen,
		intents:  queue,
		keys:     keys,
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight),
		spinner:  s,
		help:     help.New(),
		frame:    Frame{Highlighted: render.NoRegion},
		width:    defaultViewportWidth,
		height:   defaultViewportHeight,
	}
	m.resize()
	return m
}

// Init starts the loading spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.refresh()
	case RepaintMsg:
		m.frame = m.screen.Snapshot()
		m.refresh()
	case StartedMsg:
		m.started = true
	case StatusMsg:
		m.status = msg.Message
		m.hasStatus = msg.Message.Text != ""
		m.statusSeq++
		seq := m.statusSeq
		return m, tea.Tick(statusClearDuration, func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		})
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.hasStatus = false
		}
	case SessionDoneMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, helpKey) {
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		m.refresh()
		return m, nil
	}

	in, ok := m.keys.Classify(msg)
	if !ok || m.quitting {
		return m, nil
	}
	if in == intent.Quit {
		m.quitting = true
		if !m.started {
			// Nothing reads intents before the session starts.
			return m, tea.Quit
		}
	}
	m.intents.Push(in)
	return m, nil
}

// Err returns the error the session ended with.
func (m *Model) Err() error {
	return m.err
}

// View renders the TUI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(draw.Header())
	s.WriteString("\n\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")
	s.WriteString(m.footer())
	return s.String()
}

func (m *Model) footer() string {
	return draw.Footer(draw.FooterState{
		Page:       m.frame.Page,
		Total:      m.frame.Total,
		Loading:    !m.frame.Positioned(),
		Spinner:    m.spinner.View(),
		Status:     m.status.Text,
		StatusType: m.status.Type,
		HasStatus:  m.hasStatus,
		Help:       m.help.View(m.keys),
		Width:      m.width,
	})
}

func (m *Model) resize() {
	m.help.Width = m.width
	footerHeight := 1 + lipgloss.Height(m.help.View(m.keys))
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-headerLines-footerHeight, draw.RowLines)
}

// refresh rebuilds the viewport from the last frame and keeps the highlighted
// story in view.
func (m *Model) refresh() {
	var content strings.Builder
	for i, row := range m.frame.Rows {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(draw.Row(draw.StoryRow{
			Title:    row.Title,
			Score:    row.Score,
			Host:     row.Host,
			Comments: row.Comments,
			Selected: render.Region(i) == m.frame.Highlighted,
			Width:    m.width,
		}))
	}
	if len(m.frame.Rows) == 0 && m.frame.Positioned() {
		content.WriteString(emptyMessage)
	}
	m.viewport.SetContent(content.String())

	if m.frame.Highlighted == render.NoRegion {
		m.viewport.GotoTop()
		return
	}
	top := int(m.frame.Highlighted) * draw.RowLines
	bottom := top + draw.RowLines - 1
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height + 1)
	}
}
