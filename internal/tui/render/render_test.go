package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/cristianoliveira/hnreader/internal/colors"
	"github.com/cristianoliveira/hnreader/internal/errors"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func strip(s string) string { return ansiSeq.ReplaceAllString(s, "") }

func intPtr(n int) *int { return &n }

func TestAddendum(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		host     string
		comments *int
		want     string
	}{
		{name: "full", score: 120, host: "example.com", comments: intPtr(45), want: "120 points · example.com · 45 comments"},
		{name: "singular", score: 1, host: "example.com", comments: intPtr(1), want: "1 point · example.com · 1 comment"},
		{name: "self post", score: 7, comments: intPtr(3), want: "7 points · 3 comments"},
		{name: "hidden comments", score: 7, host: "example.com", want: "7 points · example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Addendum(tt.score, tt.host, tt.comments))
		})
	}
}

func TestRowMarksSelection(t *testing.T) {
	plain := strip(Row(StoryRow{Title: "Show HN: a thing", Score: 3, Host: "thing.dev", Width: 60}))
	selected := strip(Row(StoryRow{Title: "Show HN: a thing", Score: 3, Host: "thing.dev", Width: 60, Selected: true}))

	lines := strings.Split(plain, "\n")
	require.Len(t, lines, RowLines)
	assert.Equal(t, "  Show HN: a thing", lines[0])
	assert.Equal(t, "  3 points · thing.dev", lines[1])

	assert.True(t, strings.HasPrefix(selected, marker+" Show HN"))
}

func TestRowTruncatesByDisplayWidth(t *testing.T) {
	title := strings.Repeat("日本語", 10)
	row := strip(Row(StoryRow{Title: title, Width: 20}))
	first := strings.Split(row, "\n")[0]

	assert.LessOrEqual(t, runewidth.StringWidth(first), 20)
	assert.True(t, strings.HasSuffix(first, ellipsis))
}

func TestFooter(t *testing.T) {
	out := strip(Footer(FooterState{Page: 2, Total: 5, Help: "q quit", Width: 80}))
	assert.Equal(t, "Page 2 of 5\nq quit", out)

	out = strip(Footer(FooterState{Loading: true, Spinner: "*", Page: 2, Total: 5, Width: 80}))
	assert.Equal(t, "* Loading stories...", out)

	out = strip(Footer(FooterState{Page: 1, Total: 1, HasStatus: true, Status: "could not open", StatusType: errors.MessageTypeError, Width: 80}))
	assert.Equal(t, "Page 1 of 1  could not open", out)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Hacker News top stories", strip(Header()))
}

func TestAnsiColorNumber(t *testing.T) {
	assert.Equal(t, "34", ansiColorNumber(colors.Blue))
	assert.Equal(t, "33", ansiColorNumber(colors.Yellow))
	assert.Equal(t, "", ansiColorNumber("x"))
}
