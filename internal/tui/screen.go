// Package tui is the terminal front end: a render surface painted by the
// render consumer and a bubbletea model that shows it and turns key presses
// into intents.
package tui

import (
	"sync"
	"sync/atomic"

	"github.com/cristianoliveira/hnreader/internal/render"
)

// Row is a painted story.
type Row struct {
	Title    string
	Score    int
	Host     string
	Comments *int
}

// Frame is a snapshot of the screen.
type Frame struct {
	Rows        []Row
	Highlighted render.Region
	Page, Total int
}

// Positioned reports whether the page indicator has been painted, which
// happens once every story of the page is shown.
func (f Frame) Positioned() bool {
	return f.Total > 0
}

// Screen is the render surface. The consumer paints into it from its own
// goroutine; the bubbletea model reads snapshots.
type Screen struct {
	mu    sync.Mutex
	frame Frame

	dirty    atomic.Bool
	onChange func()
}

var _ render.Surface = (*Screen)(nil)

// NewScreen returns a cleared screen.
func NewScreen() *Screen {
	return &Screen{frame: Frame{Highlighted: render.NoRegion}}
}

// OnChange registers fn to be called after a paint. Calls are coalesced until
// the next Snapshot.
func (s *Screen) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Screen) ClearScreen() {
	s.update(func(f *Frame) {
		*f = Frame{Highlighted: render.NoRegion}
	})
}

func (s *Screen) ShowStory(title string, score int, host string, comments *int) render.Region {
	var region render.Region
	s.update(func(f *Frame) {
		f.Rows = append(f.Rows, Row{Title: title, Score: score, Host: host, Comments: comments})
		region = render.Region(len(f.Rows) - 1)
	})
	return region
}

func (s *Screen) ShowPagePosition(page, total int) {
	s.update(func(f *Frame) {
		f.Page, f.Total = page, total
	})
}

// SwapHighlight moves emphasis to to. The model scrolls it into view.
func (s *Screen) SwapHighlight(from, to render.Region) {
	s.update(func(f *Frame) {
		if int(to) < len(f.Rows) {
			f.Highlighted = to
		}
	})
}

// Snapshot returns a copy of the current frame.
func (s *Screen) Snapshot() Frame {
	s.dirty.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frame
	f.Rows = append([]Row(nil), s.frame.Rows...)
	return f
}

func (s *Screen) update(fn func(*Frame)) {
	s.mu.Lock()
	fn(&s.frame)
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil && s.dirty.CompareAndSwap(false, true) {
		notify()
	}
}
