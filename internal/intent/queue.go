package intent

import (
	"context"
	"sync"
)

// Queue is an unbounded intent buffer. Push never blocks, so a UI event loop
// can hand intents over while the orchestrator is busy.
type Queue struct {
	mu      sync.Mutex
	pending []Intent
	ready   chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends in.
func (q *Queue) Push(in Intent) {
	q.mu.Lock()
	q.pending = append(q.pending, in)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// ReadIntents returns every queued intent in arrival order, blocking until
// there is at least one.
func (q *Queue) ReadIntents(ctx context.Context) ([]Intent, error) {
	for {
		q.mu.Lock()
		if len(q.pending) > 0 {
			batch := q.pending
			q.pending = nil
			q.mu.Unlock()
			return batch, nil
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
