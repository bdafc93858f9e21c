package tui

import (
	"sync/atomic"
	"testing"

	"github.com/cristianoliveira/hnreader/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenPaintsAFrame(t *testing.T) {
	s := NewScreen()
	n := 12

	first := s.ShowStory("first", 10, "example.com", &n)
	second := s.ShowStory("second", 3, "", nil)
	s.ShowPagePosition(2, 4)
	s.SwapHighlight(render.NoRegion, second)

	f := s.Snapshot()
	require.Len(t, f.Rows, 2)
	assert.Equal(t, render.Region(0), first)
	assert.Equal(t, render.Region(1), second)
	assert.Equal(t, 12, *f.Rows[0].Comments)
	assert.Nil(t, f.Rows[1].Comments)
	assert.Equal(t, second, f.Highlighted)
	assert.True(t, f.Positioned())
	assert.Equal(t, 2, f.Page)

	s.SwapHighlight(second, first)
	assert.Equal(t, first, s.Snapshot().Highlighted)

	s.ClearScreen()
	f = s.Snapshot()
	assert.Empty(t, f.Rows)
	assert.False(t, f.Positioned())
	assert.Equal(t, render.NoRegion, f.Highlighted)
}

func TestScreenIgnoresUnknownRegion(t *testing.T) {
	s := NewScreen()
	s.ShowStory("only", 1, "", nil)
	s.SwapHighlight(render.NoRegion, 5)
	assert.Equal(t, render.NoRegion, s.Snapshot().Highlighted)
}

func TestScreenSnapshotIsACopy(t *testing.T) {
	s := NewScreen()
	s.ShowStory("a", 1, "", nil)
	f := s.Snapshot()
	f.Rows[0].Title = "changed"
	assert.Equal(t, "a", s.Snapshot().Rows[0].Title)
}

func TestScreenCoalescesChangeNotifications(t *testing.T) {
	s := NewScreen()
	var calls atomic.Int32
	s.OnChange(func() { calls.Add(1) })

	s.ClearScreen()
	s.ShowStory("a", 1, "", nil)
	s.ShowStory("b", 1, "", nil)
	assert.Equal(t, int32(1), calls.Load())

	s.Snapshot()
	s.ShowPagePosition(1, 1)
	assert.Equal(t, int32(2), calls.Load())
}
