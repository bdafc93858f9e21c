package render

import "sync"

// Slot hands commands from one producer to the consumer. A freshly installed
// command raises redo; the consumer lowers it once it has taken the command
// and signals the producer on the back channel. The producer never overwrites
// a command the consumer has not yet seen.
type Slot struct {
	mu      sync.Mutex
	primary *sync.Cond
	back    *sync.Cond

	cmd     Command
	redo    bool
	stopped bool
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	s := &Slot{}
	s.primary = sync.NewCond(&s.mu)
	s.back = sync.NewCond(&s.mu)
	return s
}

// Install waits until the previous command was observed, then hands cmd to
// the consumer. It does not wait once the consumer has stopped.
func (s *Slot) Install(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.redo && !s.stopped {
		s.back.Wait()
	}
	s.cmd = cmd
	s.redo = true
	s.primary.Broadcast()
}

// Notify wakes the consumer so it re-checks the slot it is waiting on.
// Callers publish the new state before calling Notify.
func (s *Slot) Notify() {
	s.mu.Lock()
	s.primary.Broadcast()
	s.mu.Unlock()
}

// Pending reports whether an installed command has not been observed yet.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redo && !s.stopped
}

// Stopped reports whether the consumer has applied Quit.
func (s *Slot) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// take lowers redo and releases a producer blocked in Install. Caller holds mu.
func (s *Slot) take() Command {
	s.redo = false
	s.back.Broadcast()
	return s.cmd
}
