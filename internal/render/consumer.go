package render

import (
	"github.com/cristianoliveira/hnreader/internal/logging"
	"github.com/cristianoliveira/hnreader/internal/story"
)

// Source is the read side of the story buffer.
type Source interface {
	Status(i int) story.LoadStatus
	Story(i int) (story.Story, bool)
}

// State is what the consumer is doing.
type State int

const (
	Idle State = iota
	ApplyingDisplayPage
	ApplyingSelect
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ApplyingDisplayPage:
		return "applying-display-page"
	case ApplyingSelect:
		return "applying-select"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Consumer owns the presentation state: which slots are painted and which
// one is highlighted. Only the consumer goroutine touches it.
type Consumer struct {
	slot         *Slot
	src          Source
	surface      Surface
	showComments bool
	log          logging.Logger

	state       State
	painted     map[int]Region
	highlighted int

	done chan struct{}
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithCommentCount shows the comment count of stories that have comments.
func WithCommentCount(show bool) Option {
	return func(c *Consumer) {
		c.showComments = show
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Consumer) {
		c.log = l
	}
}

// NewConsumer creates a consumer reading commands from slot.
func NewConsumer(slot *Slot, src Source, surface Surface, opts ...Option) *Consumer {
	c := &Consumer{
		slot:        slot,
		src:         src,
		surface:     surface,
		log:         logging.GetGlobal(),
		painted:     make(map[int]Region),
		highlighted: -1,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Done is closed when Run returns.
func (c *Consumer) Done() <-chan struct{} {
	return c.done
}

// Run applies commands until Quit.
func (c *Consumer) Run() {
	defer close(c.done)

	s := c.slot
	s.mu.Lock()
	for {
		switch cmd := s.take().(type) {
		case Quit:
			c.state = Stopped
			s.stopped = true
			s.back.Broadcast()
			s.mu.Unlock()
			c.log.Debug("render consumer stopped")
			return
		case ShowPage:
			c.state = ApplyingDisplayPage
			if !c.showPage(cmd) {
				c.log.Debug("page abandoned", "page", cmd.Page)
				continue
			}
		case SelectStory:
			c.state = ApplyingSelect
			c.selectStory(cmd.Index)
		}

		c.state = Idle
		for !s.redo {
			s.primary.Wait()
		}
	}
}

// showPage paints cmd's range with the slot lock held, releasing it while
// waiting for a story to load. It returns false when a ShowPage or Quit
// overrides the page; the override stays in the slot for Run to take.
func (c *Consumer) showPage(cmd ShowPage) bool {
	s := c.slot

	c.surface.ClearScreen()
	c.painted = make(map[int]Region, cmd.End-cmd.Begin)
	c.highlighted = -1
	target := cmd.Begin

	for i := cmd.Begin; i < cmd.End; i++ {
		for {
			if s.redo {
				sel, ok := s.cmd.(SelectStory)
				if !ok {
					return false
				}
				target = sel.Index
				s.take()
				continue
			}
			if c.src.Status(i) == story.Completed {
				break
			}
			s.primary.Wait()
		}
		c.paint(i)
	}

	c.surface.ShowPagePosition(cmd.Page, cmd.Total)
	if target < cmd.Begin || target >= cmd.End {
		target = cmd.Begin
	}
	c.selectStory(target)
	return true
}

func (c *Consumer) paint(i int) {
	st, _ := c.src.Story(i)
	var comments *int
	if c.showComments && st.Descendants > 0 {
		n := st.Descendants
		comments = &n
	}
	c.painted[i] = c.surface.ShowStory(st.Title, st.Score, st.Host(), comments)
}

func (c *Consumer) selectStory(index int) {
	to, ok := c.painted[index]
	if !ok {
		return
	}
	from := NoRegion
	if r, ok := c.painted[c.highlighted]; ok {
		from = r
	}
	c.surface.SwapHighlight(from, to)
	c.highlighted = index
}

// State returns the consumer's current activity.
func (c *Consumer) State() State {
	c.slot.mu.Lock()
	defer c.slot.mu.Unlock()
	return c.state
}
