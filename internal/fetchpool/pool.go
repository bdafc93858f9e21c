// Package fetchpool fetches story bodies concurrently with a bounded number
// of in-flight requests and a fixed retry budget per story.
package fetchpool

import (
	"context"
	"sync"
	"time"

	"github.com/cristianoliveira/hnreader/internal/logging"
	"github.com/cristianoliveira/hnreader/internal/story"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultWorkers  = 5
	DefaultAttempts = 3
)

// ItemFetcher fetches one story by id.
type ItemFetcher interface {
	FetchItem(ctx context.Context, id story.ID) (story.Story, error)
}

// Item pairs a story id with the buffer slot it fills.
type Item struct {
	ID   story.ID
	Slot int
}

// Pool runs fetches. Exactly one of the callbacks passed to FetchStories is
// invoked per item, from a pool goroutine.
type Pool struct {
	fetcher  ItemFetcher
	sem      *semaphore.Weighted
	attempts int
	backoff  time.Duration
	log      logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers bounds the number of concurrent fetches.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithAttempts sets how many times an item is tried before it fails.
func WithAttempts(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.attempts = n
		}
	}
}

// WithBackoff sets the pause between attempts; it grows linearly.
func WithBackoff(d time.Duration) Option {
	return func(p *Pool) {
		p.backoff = d
	}
}

// WithLogger sets the logger used for retry and failure records.
func WithLogger(l logging.Logger) Option {
	return func(p *Pool) {
		p.log = l
	}
}

// New creates a pool bound to ctx. Cancelling ctx fails every pending item.
func New(ctx context.Context, fetcher ItemFetcher, opts ...Option) *Pool {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		fetcher:  fetcher,
		sem:      semaphore.NewWeighted(DefaultWorkers),
		attempts: DefaultAttempts,
		backoff:  250 * time.Millisecond,
		log:      logging.GetGlobal(),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchStories schedules items and returns immediately.
func (p *Pool) FetchStories(items []Item, onSuccess func(story.Story, int), onFailure func(int)) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		for _, it := range items {
			onFailure(it.Slot)
		}
		return
	}
	p.wg.Add(len(items))
	p.mu.Unlock()

	for _, it := range items {
		go func(it Item) {
			defer p.wg.Done()
			p.run(it, onSuccess, onFailure)
		}(it)
	}
}

func (p *Pool) run(it Item, onSuccess func(story.Story, int), onFailure func(int)) {
	if err := p.sem.Acquire(p.ctx, 1); err != nil {
		onFailure(it.Slot)
		return
	}
	defer p.sem.Release(1)

	for attempt := 1; attempt <= p.attempts; attempt++ {
		s, err := p.fetcher.FetchItem(p.ctx, it.ID)
		if err == nil {
			onSuccess(s, it.Slot)
			return
		}
		if p.ctx.Err() != nil {
			break
		}
		p.log.Debug("fetch attempt failed", "id", it.ID, "attempt", attempt, "error", err)
		if attempt < p.attempts && !p.sleep(time.Duration(attempt)*p.backoff) {
			break
		}
	}
	p.log.Warn("story fetch failed", "id", it.ID, "slot", it.Slot)
	onFailure(it.Slot)
}

func (p *Pool) sleep(d time.Duration) bool {
	if d <= 0 {
		return p.ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-p.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Close cancels in-flight fetches and waits for every callback to run.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}
