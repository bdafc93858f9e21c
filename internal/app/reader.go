// Package app wires the reader's components into use cases run by the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/hnreader/internal/colors"
	"github.com/cristianoliveira/hnreader/internal/config"
	"github.com/cristianoliveira/hnreader/internal/errors"
	"github.com/cristianoliveira/hnreader/internal/fetchpool"
	"github.com/cristianoliveira/hnreader/internal/hn"
	"github.com/cristianoliveira/hnreader/internal/intent"
	"github.com/cristianoliveira/hnreader/internal/logging"
	"github.com/cristianoliveira/hnreader/internal/orchestrator"
	"github.com/cristianoliveira/hnreader/internal/storage"
	"github.com/cristianoliveira/hnreader/internal/tui"
	"github.com/cristianoliveira/hnreader/internal/version"
	"github.com/cristianoliveira/hnreader/internal/viewer"
	"github.com/google/uuid"
)

// Feed is the remote story source.
type Feed interface {
	orchestrator.TopStories
	fetchpool.ItemFetcher
}

// ReaderDeps are the collaborators of a reading session. Nil fields are
// built from configuration.
type ReaderDeps struct {
	Feed    Feed
	Store   storage.SkipStore
	Viewer  orchestrator.Viewer
	Program tui.ProgramFactory
}

// ReaderUseCase runs one interactive reading session.
type ReaderUseCase struct {
	deps ReaderDeps
}

// NewReaderUseCase creates a reader use case.
func NewReaderUseCase(deps ReaderDeps) *ReaderUseCase {
	if deps.Program == nil {
		deps.Program = tui.NewDefaultProgram
	}
	return &ReaderUseCase{deps: deps}
}

type sessionResult struct {
	started bool
	err     error
}

// Execute runs the session until the user quits. Startup failures are
// returned without saving anything; otherwise the skip set is saved on exit.
func (u *ReaderUseCase) Execute(ctx context.Context) error {
	log := logging.With("session_id", uuid.NewString())
	log.Info("session starting", "version", version.String())

	store := u.deps.Store
	if store == nil {
		s, err := storage.NewFromConfig(ctx)
		if err != nil {
			return fmt.Errorf("open skip store: %w", err)
		}
		store = s
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("closing skip store", "error", err)
		}
	}()

	feed := u.deps.Feed
	if feed == nil {
		feed = hn.NewClient(config.Get("api_base_url", hn.DefaultBaseURL),
			hn.WithTimeout(config.GetDuration("request_timeout_seconds", hn.DefaultTimeout)),
			hn.WithRequestsPerSecond(config.GetInt("requests_per_second", hn.DefaultRequestsPerSecond)))
	}
	pool := fetchpool.New(ctx, feed,
		fetchpool.WithWorkers(config.GetInt("fetch_workers", fetchpool.DefaultWorkers)),
		fetchpool.WithAttempts(config.GetInt("fetch_attempts", fetchpool.DefaultAttempts)),
		fetchpool.WithLogger(log))

	screen := tui.NewScreen()
	queue := intent.NewQueue()
	program := u.deps.Program(tui.NewModel(screen, queue, intent.DefaultKeyMap()))
	screen.OnChange(func() { program.Send(tui.RepaintMsg{}) })
	status := errors.NewTUIHandler(func(msg errors.Message) {
		program.Send(tui.StatusMsg{Message: msg})
	})

	view := u.deps.Viewer
	if view == nil {
		view = viewer.New(
			viewer.WithCommand(config.Get("browser", "")),
			viewer.WithClipboardFallback(config.GetBool("clipboard_fallback", true)),
			viewer.WithNotifier(status),
			viewer.WithLogger(log))
	}

	orch := orchestrator.New(orchestrator.Deps{
		Feed:     feed,
		Skips:    store,
		Fetcher:  pool,
		Surface:  screen,
		Viewer:   view,
		Reporter: status,
	},
		orchestrator.WithPageSize(config.GetInt("page_size", orchestrator.DefaultPageSize)),
		orchestrator.WithItemURL(config.Get("item_page_url", "")),
		orchestrator.WithCommentCount(config.GetBool("show_comment_count", true)),
		orchestrator.WithLogger(log))

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan sessionResult, 1)
	go func() {
		done <- runSession(sessionCtx, orch, queue, program, log)
	}()

	colors.Silence(true)
	_, runErr := program.Run()
	colors.Silence(false)

	cancel()
	res := <-done
	pool.Close()

	if runErr != nil {
		return fmt.Errorf("run reader: %w", runErr)
	}
	if res.err != nil {
		return res.err
	}
	if !res.started {
		return nil
	}

	skipped := orch.SkipSet()
	if err := store.SaveSkipSet(context.WithoutCancel(ctx), skipped); err != nil {
		return fmt.Errorf("save skipped stories: %w", err)
	}
	log.Info("session finished", "skipped", len(skipped))
	return nil
}

// runSession starts the orchestrator and feeds it intents until Quit. It
// always ends the program.
func runSession(ctx context.Context, orch *orchestrator.Orchestrator, queue *intent.Queue, program tui.Program, log logging.Logger) sessionResult {
	if err := orch.Start(ctx); err != nil {
		if ctx.Err() != nil {
			// The user quit while the feed was loading.
			program.Send(tui.SessionDoneMsg{})
			return sessionResult{}
		}
		log.Error("session failed to start", "error", err)
		err = fmt.Errorf("start session: %w", err)
		program.Send(tui.SessionDoneMsg{Err: err})
		return sessionResult{err: err}
	}
	program.Send(tui.StartedMsg{})

	err := intent.NewDispatcher(queue, orch, log).Run(ctx)
	program.Send(tui.SessionDoneMsg{Err: err})
	return sessionResult{started: true, err: err}
}
