// Package orchestrator owns navigation state and pagination. It turns
// navigation requests into fetch batches and render commands.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/hnreader/internal/errors"
	"github.com/cristianoliveira/hnreader/internal/fetchpool"
	"github.com/cristianoliveira/hnreader/internal/logging"
	"github.com/cristianoliveira/hnreader/internal/render"
	"github.com/cristianoliveira/hnreader/internal/story"
	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is the number of stories on a page.
const DefaultPageSize = 10

// TopStories lists the ranked story ids.
type TopStories interface {
	FetchTopStoryIDs(ctx context.Context) ([]story.ID, error)
}

// SkipLoader provides the persisted skip set.
type SkipLoader interface {
	LoadSkipSet(ctx context.Context) (story.IDSet, error)
}

// Fetcher loads story bodies asynchronously.
type Fetcher interface {
	FetchStories(items []fetchpool.Item, onSuccess func(story.Story, int), onFailure func(int))
}

// Viewer opens a URL outside the reader.
type Viewer interface {
	Open(ctx context.Context, url string) error
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Feed     TopStories
	Skips    SkipLoader
	Fetcher  Fetcher
	Surface  render.Surface
	Viewer   Viewer
	Reporter errors.ErrorHandler
}

// Orchestrator is driven by a single goroutine; its methods must not be
// called concurrently.
type Orchestrator struct {
	deps         Deps
	pageSize     int
	itemURL      string
	showComments bool
	log          logging.Logger

	slot     *render.Slot
	buf      *story.Buffer
	consumer *render.Consumer

	skipped  story.IDSet
	page     int
	selected int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPageSize sets the number of stories per page.
func WithPageSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithItemURL sets the prefix the story id is appended to for its comments page.
func WithItemURL(prefix string) Option {
	return func(o *Orchestrator) {
		if prefix != "" {
			o.itemURL = prefix
		}
	}
}

// WithCommentCount shows comment counts on the page.
func WithCommentCount(show bool) Option {
	return func(o *Orchestrator) {
		o.showComments = show
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) {
		o.log = l
	}
}

// New creates an Orchestrator. Start must be called before navigating.
func New(deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:     deps,
		pageSize: DefaultPageSize,
		itemURL:  "https://news.ycombinator.com/item?id=",
		log:      logging.GetGlobal(),
		slot:     render.NewSlot(),
		skipped:  story.NewIDSet(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start loads the skip set and the top stories concurrently, drops skipped
// stories, shows the first page and starts the render consumer.
func (o *Orchestrator) Start(ctx context.Context) error {
	var (
		skipped story.IDSet
		top     []story.ID
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := o.deps.Skips.LoadSkipSet(gctx)
		if err != nil {
			return fmt.Errorf("load skipped stories: %w", err)
		}
		skipped = s
		return nil
	})
	g.Go(func() error {
		ids, err := o.deps.Feed.FetchTopStoryIDs(gctx)
		if err != nil {
			return err
		}
		top = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	surviving, still := story.Diff(top, skipped)
	o.skipped = still
	o.buf = story.NewBuffer(surviving)
	o.consumer = render.NewConsumer(o.slot, o.buf, o.deps.Surface,
		render.WithCommentCount(o.showComments),
		render.WithLogger(o.log))
	o.log.Info("session started", "top", len(top), "surviving", len(surviving), "skipped", len(still))

	o.page, o.selected = 0, 0
	if o.buf.Len() == 0 {
		o.slot.Install(render.ShowPage{Page: 1, Total: 1})
	} else {
		o.GotoPage(0, false)
	}
	go o.consumer.Run()
	return nil
}

// GotoPage shows page (0-based). Out of range pages are ignored. With
// skipCurrent every story of the current page is added to the skip set.
func (o *Orchestrator) GotoPage(page int, skipCurrent bool) {
	if !o.started() {
		return
	}
	if skipCurrent {
		if begin, end, ok := o.pageIndices(o.page); ok {
			for i := begin; i < end; i++ {
				o.skipped.Add(o.buf.ID(i))
			}
		}
	}

	begin, end, ok := o.pageIndices(page)
	if !ok {
		return
	}
	o.fetch(begin, end)
	o.slot.Install(render.ShowPage{Begin: begin, End: end, Page: page + 1, Total: o.PageCount()})
	o.page = page
	o.selected = begin
}

// SelectStory highlights the story at index. With skipCurrent the story at
// index is added to the skip set. An index on another page shows that page
// first. Within the current page the move waits until the page has loaded.
func (o *Orchestrator) SelectStory(index int, skipCurrent bool) {
	if !o.started() || index < 0 || index >= o.buf.Len() {
		return
	}
	if skipCurrent {
		o.skipped.Add(o.buf.ID(index))
	}

	begin, end, _ := o.pageIndices(o.page)
	if index < begin || index >= end {
		o.GotoPage(index/o.pageSize, false)
	} else if o.selected >= begin && o.selected < end && !o.buf.AllCompleted(begin, end) {
		return
	}

	o.slot.Install(render.SelectStory{Index: index})
	o.selected = index
}

func (o *Orchestrator) NextStory(skip bool) { o.SelectStory(o.selected+1, skip) }
func (o *Orchestrator) PrevStory(skip bool) { o.SelectStory(o.selected-1, skip) }
func (o *Orchestrator) NextPage(skip bool)  { o.GotoPage(o.page+1, skip) }
func (o *Orchestrator) PrevPage(skip bool)  { o.GotoPage(o.page-1, skip) }

// OpenSelected opens the selected story, or its comments page when
// wantComments is set or the story has no URL. Opening the story itself
// marks it as read by skipping it. Viewer failures are reported.
func (o *Orchestrator) OpenSelected(ctx context.Context, wantComments bool) {
	if !o.started() || o.selected >= o.buf.Len() {
		return
	}
	st, ok := o.buf.Story(o.selected)
	if !ok {
		return
	}

	url := st.URL
	if wantComments || url == "" {
		url = st.CommentsURL(o.itemURL)
	}
	if !wantComments {
		o.skipped.Add(st.ID)
	}

	if err := o.deps.Viewer.Open(ctx, url); err != nil {
		o.log.Warn("open failed", "url", url, "error", err)
		if o.deps.Reporter != nil {
			o.deps.Reporter.Error(fmt.Sprintf("could not open %s: %v", url, err))
		}
	}
}

// Refresh is accepted and ignored.
func (o *Orchestrator) Refresh() {}

// Quit stops the render consumer and waits for it.
func (o *Orchestrator) Quit() {
	if o.consumer == nil {
		return
	}
	o.slot.Install(render.Quit{})
	<-o.consumer.Done()
}

// SkipSet returns a copy of the skip set to persist.
func (o *Orchestrator) SkipSet() story.IDSet {
	out := make(story.IDSet, len(o.skipped))
	for id := range o.skipped {
		out.Add(id)
	}
	return out
}

// Page returns the current 0-based page.
func (o *Orchestrator) Page() int { return o.page }

// Selected returns the absolute index of the selected story.
func (o *Orchestrator) Selected() int { return o.selected }

// PageCount returns the number of pages, at least one.
func (o *Orchestrator) PageCount() int {
	if o.buf == nil || o.buf.Len() == 0 {
		return 1
	}
	return (o.buf.Len() + o.pageSize - 1) / o.pageSize
}

func (o *Orchestrator) started() bool {
	return o.buf != nil
}

// pageIndices returns the half-open slot range of page.
func (o *Orchestrator) pageIndices(page int) (begin, end int, ok bool) {
	if page < 0 {
		return 0, 0, false
	}
	begin = page * o.pageSize
	if begin >= o.buf.Len() {
		return 0, 0, false
	}
	end = min(begin+o.pageSize, o.buf.Len())
	return begin, end, true
}

// fetch submits the slots of [begin, end) that were never requested.
func (o *Orchestrator) fetch(begin, end int) {
	var items []fetchpool.Item
	for i := begin; i < end; i++ {
		if o.buf.Claim(i) {
			items = append(items, fetchpool.Item{ID: o.buf.ID(i), Slot: i})
		}
	}
	if len(items) == 0 {
		return
	}
	o.deps.Fetcher.FetchStories(items, o.onFetched, o.onFailed)
}

func (o *Orchestrator) onFetched(s story.Story, slot int) {
	if o.buf.Complete(slot, s) {
		o.slot.Notify()
	}
}

func (o *Orchestrator) onFailed(slot int) {
	if o.buf.Fail(slot) {
		o.log.Warn("story unavailable", "id", o.buf.ID(slot), "slot", slot)
	}
}
