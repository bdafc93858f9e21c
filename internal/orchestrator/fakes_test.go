package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/cristianoliveira/hnreader/internal/fetchpool"
	"github.com/cristianoliveira/hnreader/internal/render"
	"github.com/cristianoliveira/hnreader/internal/story"
	"github.com/stretchr/testify/mock"
)

type fakeFeed struct {
	ids []story.ID
	err error
}

func (f fakeFeed) FetchTopStoryIDs(ctx context.Context) ([]story.ID, error) {
	return f.ids, f.err
}

type fakeSkips struct {
	ids story.IDSet
	err error
}

func (f fakeSkips) LoadSkipSet(ctx context.Context) (story.IDSet, error) {
	return f.ids, f.err
}

// fakeFetcher answers every item from a goroutine. Ids in fail are reported
// as failures; while hold is set, items are parked until release is called.
type fakeFetcher struct {
	mu      sync.Mutex
	fail    map[story.ID]bool
	stories map[story.ID]story.Story
	hold    bool
	parked  []func()
	batches [][]fetchpool.Item
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{fail: map[story.ID]bool{}, stories: map[story.ID]story.Story{}}
}

func storyFor(id story.ID) story.Story {
	return story.Story{
		ID:    id,
		Title: fmt.Sprintf("story %d", id),
		URL:   fmt.Sprintf("https://example.com/%d", id),
		Score: int(id),
	}
}

func (f *fakeFetcher) FetchStories(items []fetchpool.Item, onSuccess func(story.Story, int), onFailure func(int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, items)
	for _, it := range items {
		failed := f.fail[it.ID]
		st, ok := f.stories[it.ID]
		if !ok {
			st = storyFor(it.ID)
		}
		run := func() {
			if failed {
				onFailure(it.Slot)
				return
			}
			onSuccess(st, it.Slot)
		}
		if f.hold {
			f.parked = append(f.parked, run)
			continue
		}
		go run()
	}
}

func (f *fakeFetcher) release() {
	f.mu.Lock()
	parked := f.parked
	f.parked = nil
	f.hold = false
	f.mu.Unlock()
	for _, run := range parked {
		go run()
	}
}

func (f *fakeFetcher) submitted() []fetchpool.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []fetchpool.Item
	for _, b := range f.batches {
		all = append(all, b...)
	}
	return all
}

// fakeSurface tracks the painted page the way a terminal would.
type fakeSurface struct {
	mu          sync.Mutex
	rows        []string
	page, total int
	highlight   render.Region
	swaps       int
}

func (f *fakeSurface) ClearScreen() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = nil
	f.page, f.total = 0, 0
	f.highlight = render.NoRegion
}

func (f *fakeSurface) ShowStory(title string, score int, host string, comments *int) render.Region {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, title)
	return render.Region(len(f.rows) - 1)
}

func (f *fakeSurface) ShowPagePosition(page, total int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.page, f.total = page, total
}

func (f *fakeSurface) SwapHighlight(from, to render.Region) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.highlight = to
	f.swaps++
}

type view struct {
	rows        []string
	page, total int
	highlighted string
	swaps       int
}

func (f *fakeSurface) view() view {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := view{rows: append([]string(nil), f.rows...), page: f.page, total: f.total, swaps: f.swaps}
	if f.highlight >= 0 && int(f.highlight) < len(f.rows) {
		v.highlighted = f.rows[f.highlight]
	}
	return v
}

type mockViewer struct {
	mock.Mock
}

func (m *mockViewer) Open(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}
