// Package viewer opens story links outside the terminal.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	hnerrors "github.com/cristianoliveira/hnreader/internal/errors"
	"github.com/cristianoliveira/hnreader/internal/logging"
)

// ErrNoURL is returned for an empty URL.
var ErrNoURL = errors.New("nothing to open")

// Launcher starts a program without waiting for it to exit.
type Launcher func(ctx context.Context, name string, args ...string) error

// Browser opens URLs with an external browser command. When the browser
// cannot be started the URL is copied to the clipboard instead.
type Browser struct {
	command   []string
	launch    Launcher
	clipboard bool
	copy      func(text string) error
	notify    hnerrors.ErrorHandler
	log       logging.Logger
}

// Option configures a Browser.
type Option func(*Browser)

// WithCommand sets the browser command line; the URL is appended as the last
// argument. An empty command selects the platform opener.
func WithCommand(command string) Option {
	return func(b *Browser) {
		if fields := strings.Fields(command); len(fields) > 0 {
			b.command = fields
		}
	}
}

// WithLauncher replaces the process launcher.
func WithLauncher(l Launcher) Option {
	return func(b *Browser) {
		b.launch = l
	}
}

// WithClipboardFallback enables copying the URL when no browser starts.
func WithClipboardFallback(enabled bool) Option {
	return func(b *Browser) {
		b.clipboard = enabled
	}
}

// WithNotifier receives a note when a URL was copied rather than opened.
func WithNotifier(h hnerrors.ErrorHandler) Option {
	return func(b *Browser) {
		b.notify = h
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(b *Browser) {
		b.log = l
	}
}

// New creates a Browser.
func New(opts ...Option) *Browser {
	b := &Browser{
		command: platformOpener(runtime.GOOS),
		launch:  startDetached,
		copy:    copyToClipboard,
		log:     logging.GetGlobal(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open starts the browser on url.
func (b *Browser) Open(ctx context.Context, url string) error {
	if url == "" {
		return ErrNoURL
	}
	args := append(append([]string{}, b.command[1:]...), url)
	err := b.launch(ctx, b.command[0], args...)
	if err == nil {
		b.log.Debug("opened url", "url", url, "browser", b.command[0])
		return nil
	}
	err = fmt.Errorf("start %s: %w", b.command[0], err)
	if !b.clipboard {
		return err
	}

	if copyErr := b.copy(url); copyErr != nil {
		return errors.Join(err, copyErr)
	}
	b.log.Info("browser unavailable, copied url", "url", url, "error", err)
	if b.notify != nil {
		b.notify.Info("No browser available, link copied to clipboard")
	}
	return nil
}

func platformOpener(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

// startDetached starts the command and reaps it in the background.
func startDetached(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
