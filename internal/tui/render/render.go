// Package render draws story rows, the header and the footer of the reader.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/hnreader/internal/colors"
	"github.com/cristianoliveira/hnreader/internal/errors"
	"github.com/mattn/go-runewidth"
)

const (
	marker        = "▌"
	marginWidth   = 2
	defaultWidth  = 80
	ellipsis      = "…"
	addendumSep   = " · "
	headerTitle   = "Hacker News"
	headerSubline = "top stories"
)

// RowLines is the number of terminal lines one story occupies.
const RowLines = 2

// StoryRow defines the inputs needed to render a story.
type StoryRow struct {
	Title    string
	Score    int
	Host     string
	Comments *int
	Selected bool
	Width    int
}

// FooterState defines the inputs needed to render the footer.
type FooterState struct {
	Page, Total int
	Loading     bool
	Spinner     string
	Status      string
	StatusType  errors.MessageType
	HasStatus   bool
	Help        string
	Width       int
}

var (
	titleStyle    = lipgloss.NewStyle()
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	markerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	addendumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow)))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	pageStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Cyan)))
)

// Header renders the title bar.
func Header() string {
	return headerStyle.Render(headerTitle) + " " + addendumStyle.Render(headerSubline)
}

// Row renders a story as a title line and a dim addendum line. The selected
// story carries a margin marker and emphasis.
func Row(row StoryRow) string {
	width := row.Width
	if width <= 0 {
		width = defaultWidth
	}
	textWidth := max(width-marginWidth, 1)

	margin := strings.Repeat(" ", marginWidth)
	style := titleStyle
	if row.Selected {
		margin = markerStyle.Render(marker) + " "
		style = selectedStyle
	}

	title := margin + style.Render(truncate(row.Title, textWidth))
	addendum := strings.Repeat(" ", marginWidth) + addendumStyle.Render(truncate(Addendum(row.Score, row.Host, row.Comments), textWidth))
	return title + "\n" + addendum
}

// Addendum describes score, host and comment count. Comments is nil when the
// count is hidden.
func Addendum(score int, host string, comments *int) string {
	parts := []string{plural(score, "point")}
	if host != "" {
		parts = append(parts, host)
	}
	if comments != nil {
		parts = append(parts, plural(*comments, "comment"))
	}
	return strings.Join(parts, addendumSep)
}

// PagePosition renders the page indicator.
func PagePosition(page, total int) string {
	return fmt.Sprintf("Page %d of %d", page, total)
}

// Footer renders the page indicator, the status line and the key help.
func Footer(state FooterState) string {
	var lines []string

	var left string
	switch {
	case state.Loading:
		left = state.Spinner + " Loading stories..."
	case state.Total > 0:
		left = pageStyle.Render(PagePosition(state.Page, state.Total))
	}
	if state.HasStatus && state.Status != "" {
		left = strings.TrimSpace(left + "  " + statusStyle(state.StatusType).Render(truncate(state.Status, state.Width)))
	}
	lines = append(lines, left)

	if state.Help != "" {
		lines = append(lines, helpStyle.Render(state.Help))
	}
	return strings.Join(lines, "\n")
}

func statusStyle(t errors.MessageType) lipgloss.Style {
	var c string
	switch t {
	case errors.MessageTypeError:
		c = colors.Red
	case errors.MessageTypeWarning:
		c = colors.Yellow
	case errors.MessageTypeSuccess:
		c = colors.Green
	default:
		c = colors.Blue
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(c)))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// truncate cuts s to width display cells.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
