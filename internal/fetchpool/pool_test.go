package fetchpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cristianoliveira/hnreader/internal/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchItem(ctx context.Context, id story.ID) (story.Story, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(story.Story), args.Error(1)
}

type outcome struct {
	slot  int
	story story.Story
	ok    bool
}

// collect returns callbacks that record outcomes and a function waiting for n of them.
func collect(t *testing.T) (func(story.Story, int), func(int), func(n int) []outcome) {
	t.Helper()

	ch := make(chan outcome, 64)
	onSuccess := func(s story.Story, slot int) { ch <- outcome{slot: slot, story: s, ok: true} }
	onFailure := func(slot int) { ch <- outcome{slot: slot} }
	wait := func(n int) []outcome {
		out := make([]outcome, 0, n)
		for len(out) < n {
			select {
			case o := <-ch:
				out = append(out, o)
			case <-time.After(5 * time.Second):
				t.Fatalf("timed out waiting for %d outcomes, got %d", n, len(out))
			}
		}
		select {
		case o := <-ch:
			t.Fatalf("unexpected extra outcome %+v", o)
		case <-time.After(20 * time.Millisecond):
		}
		return out
	}
	return onSuccess, onFailure, wait
}

func TestFetchStoriesSuccess(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchItem", mock.Anything, story.ID(10)).Return(story.Story{ID: 10, Title: "a"}, nil).Once()
	f.On("FetchItem", mock.Anything, story.ID(11)).Return(story.Story{ID: 11, Title: "b"}, nil).Once()

	p := New(context.Background(), f, WithBackoff(0))
	defer p.Close()
	onSuccess, onFailure, wait := collect(t)

	p.FetchStories([]Item{{ID: 10, Slot: 0}, {ID: 11, Slot: 1}}, onSuccess, onFailure)

	got := wait(2)
	titles := map[int]string{}
	for _, o := range got {
		require.True(t, o.ok)
		titles[o.slot] = o.story.Title
	}
	assert.Equal(t, map[int]string{0: "a", 1: "b"}, titles)
	f.AssertExpectations(t)
}

func TestFetchStoriesRetriesExactlyAttempts(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchItem", mock.Anything, story.ID(7)).Return(story.Story{}, errors.New("decode: unexpected EOF"))

	p := New(context.Background(), f, WithBackoff(0))
	defer p.Close()
	onSuccess, onFailure, wait := collect(t)

	p.FetchStories([]Item{{ID: 7, Slot: 3}}, onSuccess, onFailure)

	got := wait(1)
	assert.False(t, got[0].ok)
	assert.Equal(t, 3, got[0].slot)
	f.AssertNumberOfCalls(t, "FetchItem", DefaultAttempts)
}

func TestFetchStoriesSucceedsAfterTransientError(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchItem", mock.Anything, story.ID(7)).Return(story.Story{}, errors.New("connection reset")).Once()
	f.On("FetchItem", mock.Anything, story.ID(7)).Return(story.Story{ID: 7}, nil).Once()

	p := New(context.Background(), f, WithBackoff(time.Millisecond))
	defer p.Close()
	onSuccess, onFailure, wait := collect(t)

	p.FetchStories([]Item{{ID: 7, Slot: 0}}, onSuccess, onFailure)

	got := wait(1)
	assert.True(t, got[0].ok)
	f.AssertNumberOfCalls(t, "FetchItem", 2)
}

func TestWithAttempts(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchItem", mock.Anything, story.ID(1)).Return(story.Story{}, errors.New("boom"))

	p := New(context.Background(), f, WithAttempts(5), WithBackoff(0))
	defer p.Close()
	onSuccess, onFailure, wait := collect(t)

	p.FetchStories([]Item{{ID: 1, Slot: 0}}, onSuccess, onFailure)
	wait(1)
	f.AssertNumberOfCalls(t, "FetchItem", 5)
}

type blockingFetcher struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	release  chan struct{}
}

func (b *blockingFetcher) FetchItem(ctx context.Context, id story.ID) (story.Story, error) {
	n := b.inFlight.Add(1)
	defer b.inFlight.Add(-1)
	for {
		peak := b.peak.Load()
		if n <= peak || b.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	select {
	case <-b.release:
		return story.Story{ID: id}, nil
	case <-ctx.Done():
		return story.Story{}, ctx.Err()
	}
}

func TestWorkersBoundConcurrency(t *testing.T) {
	f := &blockingFetcher{release: make(chan struct{})}
	p := New(context.Background(), f, WithWorkers(2))
	defer p.Close()
	onSuccess, onFailure, wait := collect(t)

	items := make([]Item, 6)
	for i := range items {
		items[i] = Item{ID: story.ID(i + 1), Slot: i}
	}
	p.FetchStories(items, onSuccess, onFailure)

	require.Eventually(t, func() bool { return f.inFlight.Load() == 2 }, time.Second, time.Millisecond)
	close(f.release)

	for _, o := range wait(6) {
		assert.True(t, o.ok)
	}
	assert.Equal(t, int32(2), f.peak.Load())
}

func TestCloseFailsPendingItems(t *testing.T) {
	f := &blockingFetcher{release: make(chan struct{})}
	p := New(context.Background(), f, WithWorkers(1), WithBackoff(0))

	var mu sync.Mutex
	var failed []int
	onSuccess := func(story.Story, int) { t.Error("no item should succeed") }
	onFailure := func(slot int) {
		mu.Lock()
		failed = append(failed, slot)
		mu.Unlock()
	}

	p.FetchStories([]Item{{ID: 1, Slot: 0}, {ID: 2, Slot: 1}}, onSuccess, onFailure)
	require.Eventually(t, func() bool { return f.inFlight.Load() == 1 }, time.Second, time.Millisecond)

	p.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []int{0, 1}, failed)
}

func TestFetchAfterCloseFailsImmediately(t *testing.T) {
	f := &mockFetcher{}
	p := New(context.Background(), f)
	p.Close()

	var failed []int
	p.FetchStories([]Item{{ID: 1, Slot: 4}, {ID: 2, Slot: 5}},
		func(story.Story, int) { t.Error("unexpected success") },
		func(slot int) { failed = append(failed, slot) })

	assert.Equal(t, []int{4, 5}, failed)
	f.AssertNotCalled(t, "FetchItem", mock.Anything, mock.Anything)
}
