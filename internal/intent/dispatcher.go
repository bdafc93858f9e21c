package intent

import (
	"context"
	"errors"

	"github.com/cristianoliveira/hnreader/internal/logging"
)

// Source yields batches of intents. ReadIntents blocks until at least one
// intent is available or ctx is done.
type Source interface {
	ReadIntents(ctx context.Context) ([]Intent, error)
}

// Navigator is the orchestrator surface driven by intents.
type Navigator interface {
	NextStory(skip bool)
	PrevStory(skip bool)
	NextPage(skip bool)
	PrevPage(skip bool)
	OpenSelected(ctx context.Context, wantComments bool)
	Refresh()
	Quit()
}

// Dispatcher applies intents to a Navigator from a single goroutine.
type Dispatcher struct {
	src Source
	nav Navigator
	log logging.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(src Source, nav Navigator, log logging.Logger) *Dispatcher {
	if log == nil {
		log = logging.GetGlobal()
	}
	return &Dispatcher{src: src, nav: nav, log: log}
}

// Run reads and applies intents until a Quit intent, which is applied and
// ends the loop. Intents batched after a Quit are dropped. A read error quits
// the navigator too; cancellation of ctx is a clean exit.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		batch, err := d.src.ReadIntents(ctx)
		if err != nil {
			d.nav.Quit()
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		for _, in := range batch {
			d.log.Debug("intent", "intent", in.String())
			if in == Quit {
				d.nav.Quit()
				return nil
			}
			d.apply(ctx, in)
		}
	}
}

func (d *Dispatcher) apply(ctx context.Context, in Intent) {
	switch in {
	case NextStory:
		d.nav.NextStory(false)
	case NextStorySkip:
		d.nav.NextStory(true)
	case PrevStory:
		d.nav.PrevStory(false)
	case PrevStorySkip:
		d.nav.PrevStory(true)
	case NextPage:
		d.nav.NextPage(false)
	case NextPageSkip:
		d.nav.NextPage(true)
	case PrevPage:
		d.nav.PrevPage(false)
	case PrevPageSkip:
		d.nav.PrevPage(true)
	case Open:
		d.nav.OpenSelected(ctx, false)
	case OpenComments:
		d.nav.OpenSelected(ctx, true)
	case Refresh:
		d.nav.Refresh()
	}
}
