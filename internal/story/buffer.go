package story

import (
	"sync"
	"sync/atomic"
)

// slot holds one story and its load status. The story is written before the
// status is published as Completed, so a reader that observes Completed also
// observes the story.
type slot struct {
	status atomic.Int32
	mu     sync.RWMutex
	story  Story
}

// Buffer is the paged story buffer: one slot per surviving top story id,
// index-stable for the whole session.
type Buffer struct {
	ids   []ID
	slots []slot
}

// NewBuffer sizes a buffer for the given surviving ids.
func NewBuffer(ids []ID) *Buffer {
	cp := make([]ID, len(ids))
	copy(cp, ids)
	return &Buffer{ids: cp, slots: make([]slot, len(ids))}
}

// Len returns the number of slots.
func (b *Buffer) Len() int {
	return len(b.ids)
}

// ID returns the story id backing slot i.
func (b *Buffer) ID(i int) ID {
	return b.ids[i]
}

// Status returns the load status of slot i.
func (b *Buffer) Status(i int) LoadStatus {
	return LoadStatus(b.slots[i].status.Load())
}

// Claim moves slot i from NotStarted to Started. It reports false when the
// slot was already claimed, so a slot is never submitted for fetching twice.
func (b *Buffer) Claim(i int) bool {
	return b.slots[i].status.CompareAndSwap(int32(NotStarted), int32(Started))
}

// Complete stores the fetched story and publishes slot i as Completed.
// A slot that already completed keeps its first story.
func (b *Buffer) Complete(i int, s Story) bool {
	sl := &b.slots[i]
	if LoadStatus(sl.status.Load()) == Completed {
		return false
	}
	sl.mu.Lock()
	sl.story = s
	sl.mu.Unlock()
	sl.status.Store(int32(Completed))
	return true
}

// Fail marks slot i as permanently failed for this session.
func (b *Buffer) Fail(i int) bool {
	return b.slots[i].status.CompareAndSwap(int32(Started), int32(Failed))
}

// Story returns the story in slot i and whether it has completed loading.
func (b *Buffer) Story(i int) (Story, bool) {
	sl := &b.slots[i]
	if LoadStatus(sl.status.Load()) != Completed {
		return Story{}, false
	}
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.story, true
}

// AllCompleted reports whether every slot in [begin, end) has completed.
func (b *Buffer) AllCompleted(begin, end int) bool {
	for i := begin; i < end; i++ {
		if b.Status(i) != Completed {
			return false
		}
	}
	return true
}
