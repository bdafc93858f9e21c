package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	hnerrors "github.com/cristianoliveira/hnreader/internal/errors"
	"github.com/cristianoliveira/hnreader/internal/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t       *testing.T
	o       *Orchestrator
	fetcher *fakeFetcher
	surface *fakeSurface
	viewer  *mockViewer
	tui     *hnerrors.TUIHandler
}

func ids(from, n int) []story.ID {
	out := make([]story.ID, n)
	for i := range out {
		out[i] = story.ID(from + i)
	}
	return out
}

func newFixture(t *testing.T, top []story.ID, skipped story.IDSet, setup ...func(*fixture)) *fixture {
	t.Helper()

	f := &fixture{
		t:       t,
		fetcher: newFakeFetcher(),
		surface: &fakeSurface{},
		viewer:  &mockViewer{},
		tui:     hnerrors.NewTUIHandler(nil),
	}
	for _, fn := range setup {
		fn(f)
	}
	if skipped == nil {
		skipped = story.NewIDSet()
	}
	f.o = New(Deps{
		Feed:     fakeFeed{ids: top},
		Skips:    fakeSkips{ids: skipped},
		Fetcher:  f.fetcher,
		Surface:  f.surface,
		Viewer:   f.viewer,
		Reporter: f.tui,
	})
	require.NoError(t, f.o.Start(context.Background()))
	t.Cleanup(f.o.Quit)
	return f
}

// settle waits until the surface shows page with title highlighted.
func (f *fixture) settle(page, total int, highlighted string) {
	f.t.Helper()
	require.Eventually(f.t, func() bool {
		v := f.surface.view()
		return v.page == page && v.total == total && v.highlighted == highlighted
	}, 2*time.Second, time.Millisecond, "surface stuck at %+v", f.surface.view())
}

func title(id int) string {
	return fmt.Sprintf("story %d", id)
}

func TestStartDiffsSkippedStories(t *testing.T) {
	f := newFixture(t, []story.ID{1, 2, 3, 4, 5}, story.NewIDSet(2, 4, 99))

	f.settle(1, 1, title(1))
	assert.Equal(t, []string{title(1), title(3), title(5)}, f.surface.view().rows)

	skip := f.o.SkipSet()
	assert.Equal(t, []story.ID{2, 4}, skip.Sorted(), "ids no longer in the feed are forgotten")
	for _, item := range f.fetcher.submitted() {
		assert.False(t, skip.Has(item.ID))
	}
}

func TestStartFailures(t *testing.T) {
	tests := []struct {
		name  string
		feed  fakeFeed
		skips fakeSkips
	}{
		{name: "feed", feed: fakeFeed{err: errors.New("dial tcp: refused")}, skips: fakeSkips{ids: story.NewIDSet()}},
		{name: "storage", feed: fakeFeed{ids: ids(1, 3)}, skips: fakeSkips{err: errors.New("database is locked")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(Deps{Feed: tt.feed, Skips: tt.skips, Fetcher: newFakeFetcher(), Surface: &fakeSurface{}})
			require.Error(t, o.Start(context.Background()))

			o.NextPage(false)
			o.NextStory(false)
			o.OpenSelected(context.Background(), false)
			o.Quit()
			assert.Equal(t, 0, o.Page())
		})
	}
}

func TestStartWithEmptyFeed(t *testing.T) {
	f := newFixture(t, nil, nil)

	require.Eventually(t, func() bool { return f.surface.view().page == 1 }, time.Second, time.Millisecond)
	f.o.NextStory(false)
	f.o.NextPage(false)
	assert.Equal(t, 0, f.o.Selected())
	assert.Equal(t, 1, f.o.PageCount())
}

func TestNextPageScenario(t *testing.T) {
	f := newFixture(t, ids(1, 25), nil)
	f.settle(1, 3, title(1))

	f.o.NextPage(false)
	f.settle(2, 3, title(11))
	assert.Equal(t, 1, f.o.Page())
	assert.Equal(t, 10, f.o.Selected())
	assert.Len(t, f.surface.view().rows, 10)

	f.o.NextPage(false)
	f.settle(3, 3, title(21))
	assert.Len(t, f.surface.view().rows, 5)
}

func TestOutOfRangePagesAreIgnored(t *testing.T) {
	f := newFixture(t, ids(1, 25), nil)
	f.settle(1, 3, title(1))

	for _, page := range []int{-1, 3, 100} {
		f.o.GotoPage(page, false)
		assert.Equal(t, 0, f.o.Page())
		assert.Equal(t, 0, f.o.Selected())
	}
	f.o.PrevPage(false)
	assert.Equal(t, 0, f.o.Page())
}

func TestPrevStoryAtStartIsIgnored(t *testing.T) {
	f := newFixture(t, ids(1, 25), nil)
	f.settle(1, 3, title(1))

	f.o.PrevStory(false)
	assert.Equal(t, 0, f.o.Selected())
	f.o.SelectStory(25, false)
	assert.Equal(t, 0, f.o.Selected())
}

func TestSelectWithinPage(t *testing.T) {
	f := newFixture(t, ids(1, 12), nil)
	f.settle(1, 2, title(1))

	f.o.NextStory(false)
	f.o.NextStory(false)
	f.settle(1, 2, title(3))
	assert.Equal(t, 2, f.o.Selected())

	before := f.surface.view().swaps
	f.o.SelectStory(2, false)
	f.o.SelectStory(2, false)
	require.Eventually(t, func() bool { return f.surface.view().swaps == before+2 }, time.Second, time.Millisecond)
	assert.Equal(t, title(3), f.surface.view().highlighted, "selecting twice is the same as once")
}

func TestSelectSuppressedUntilPageLoads(t *testing.T) {
	f := newFixture(t, ids(1, 5), nil, func(f *fixture) { f.fetcher.hold = true })

	f.o.NextStory(false)
	assert.Equal(t, 0, f.o.Selected(), "the page has not loaded yet")

	f.fetcher.release()
	f.settle(1, 1, title(1))

	f.o.NextStory(false)
	assert.Equal(t, 1, f.o.Selected())
	f.settle(1, 1, title(2))
}

func TestSelectAcrossPageBoundary(t *testing.T) {
	f := newFixture(t, ids(1, 25), nil)
	f.settle(1, 3, title(1))

	for i := 0; i < 9; i++ {
		f.o.NextStory(false)
		f.settle(1, 3, title(i+2))
	}
	f.o.NextStory(false)
	f.settle(2, 3, title(11))
	assert.Equal(t, 1, f.o.Page())
	assert.Equal(t, 10, f.o.Selected())

	f.o.PrevStory(false)
	f.settle(1, 3, title(10))
	assert.Equal(t, 0, f.o.Page())
	assert.Equal(t, 9, f.o.Selected())
}

func TestFailedStoryDoesNotBlockOtherPages(t *testing.T) {
	f := newFixture(t, ids(1, 20), nil, func(f *fixture) { f.fetcher.fail[story.ID(3)] = true })

	require.Eventually(t, func() bool { return len(f.surface.view().rows) == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	v := f.surface.view()
	assert.Equal(t, 0, v.page, "a failed story holds its page")
	assert.Len(t, v.rows, 2)

	f.o.NextPage(false)
	f.settle(2, 2, title(11))

	submitted := 0
	for _, it := range f.fetcher.submitted() {
		if it.ID == 3 {
			submitted++
		}
	}
	assert.Equal(t, 1, submitted, "failed slots are never resubmitted")
}

func TestPagesAreFetchedOnce(t *testing.T) {
	f := newFixture(t, ids(1, 20), nil)
	f.settle(1, 2, title(1))

	f.o.NextPage(false)
	f.settle(2, 2, title(11))
	f.o.PrevPage(false)
	f.settle(1, 2, title(1))

	assert.Len(t, f.fetcher.submitted(), 20)
}

func TestSkipping(t *testing.T) {
	f := newFixture(t, ids(1, 25), nil)
	f.settle(1, 3, title(1))

	f.o.NextStory(true)
	assert.True(t, f.o.SkipSet().Has(2), "the story moved to is skipped")
	f.settle(1, 3, title(2))

	f.o.NextPage(true)
	f.settle(2, 3, title(11))
	skip := f.o.SkipSet()
	for id := 1; id <= 10; id++ {
		assert.True(t, skip.Has(story.ID(id)), "id %d", id)
	}
	assert.False(t, skip.Has(11))

	f.o.PrevStory(true)
	assert.Equal(t, 9, f.o.Selected())
	assert.Equal(t, 10, len(f.o.SkipSet()))
}

func TestSkipSetIsACopy(t *testing.T) {
	f := newFixture(t, ids(1, 3), nil)
	f.o.SkipSet().Add(1)
	assert.Empty(t, f.o.SkipSet())
}

func TestOpenSelected(t *testing.T) {
	f := newFixture(t, ids(1, 3), nil)
	f.settle(1, 1, title(1))

	f.viewer.On("Open", mock.Anything, "https://news.ycombinator.com/item?id=1").Return(nil).Once()
	f.o.OpenSelected(context.Background(), true)
	assert.False(t, f.o.SkipSet().Has(1), "reading comments does not skip")

	f.viewer.On("Open", mock.Anything, "https://example.com/1").Return(nil).Once()
	f.o.OpenSelected(context.Background(), false)
	assert.True(t, f.o.SkipSet().Has(1))

	f.viewer.AssertExpectations(t)
}

func TestOpenSelectedWithoutURLOpensComments(t *testing.T) {
	f := newFixture(t, ids(1, 1), nil, func(f *fixture) {
		f.fetcher.stories[1] = story.Story{ID: 1, Title: "Ask HN: anyone?"}
	})
	f.settle(1, 1, "Ask HN: anyone?")

	f.viewer.On("Open", mock.Anything, "https://news.ycombinator.com/item?id=1").Return(nil).Once()
	f.o.OpenSelected(context.Background(), false)

	f.viewer.AssertExpectations(t)
	assert.True(t, f.o.SkipSet().Has(1))
}

func TestOpenFailureIsReported(t *testing.T) {
	f := newFixture(t, ids(1, 2), nil)
	f.settle(1, 1, title(1))

	f.viewer.On("Open", mock.Anything, mock.Anything).Return(errors.New("no browser")).Once()
	f.o.OpenSelected(context.Background(), false)

	msg, ok := f.tui.GetLatest()
	require.True(t, ok)
	assert.Equal(t, hnerrors.MessageTypeError, msg.Type)
	assert.Contains(t, msg.Text, "no browser")

	f.o.NextStory(false)
	f.settle(1, 1, title(2))
}

func TestOptions(t *testing.T) {
	o := New(Deps{}, WithPageSize(3), WithItemURL("http://localhost/item?id="), WithCommentCount(true), WithPageSize(0))
	assert.Equal(t, 3, o.pageSize)
	assert.Equal(t, "http://localhost/item?id=", o.itemURL)
	assert.True(t, o.showComments)
}

func TestRapidNavigationNeverLosesTheLastSelect(t *testing.T) {
	f := newFixture(t, ids(1, 95), nil)
	f.settle(1, 10, title(1))

	moves := []func(bool){f.o.NextPage, f.o.NextStory, f.o.NextStory, f.o.NextPage, f.o.PrevStory, f.o.NextPage, f.o.PrevPage}
	for round := 0; round < 5; round++ {
		for _, move := range moves {
			move(false)
		}
	}

	require.Eventually(t, func() bool {
		v := f.surface.view()
		return v.page == f.o.Page()+1 && v.highlighted == title(f.o.Selected()+1)
	}, 3*time.Second, 5*time.Millisecond, "surface %+v, page %d, selected %d", f.surface.view(), f.o.Page(), f.o.Selected())
}
