package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/hnreader/internal/app"
	"github.com/cristianoliveira/hnreader/internal/storage"
	"github.com/spf13/cobra"
)

type storeOpener func(ctx context.Context) (storage.SkipStore, error)

func openSkipStore(ctx context.Context) (storage.SkipStore, error) {
	return storage.NewFromConfig(ctx)
}

// NewSkippedCmd creates the skipped command and its list, count and clear
// subcommands.
func NewSkippedCmd(open storeOpener) *cobra.Command {
	if open == nil {
		panic("NewSkippedCmd: store opener cannot be nil")
	}

	withUseCase := func(cmd *cobra.Command, fn func(*app.SkippedUseCase) error) error {
		store, err := open(cmd.Context())
		if err != nil {
			return fmt.Errorf("open skip store: %w", err)
		}
		defer store.Close()
		return fn(app.NewSkippedUseCase(store))
	}

	skippedCmd := &cobra.Command{
		Use:   "skipped",
		Short: "Inspect or reset skipped stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(cmd, func(u *app.SkippedUseCase) error {
				return u.Count(cmd.Context(), cmd.OutOrStdout())
			})
		},
	}

	skippedCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print skipped story ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(cmd, func(u *app.SkippedUseCase) error {
				return u.List(cmd.Context(), cmd.OutOrStdout())
			})
		},
	})

	skippedCmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print the number of skipped stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(cmd, func(u *app.SkippedUseCase) error {
				return u.Count(cmd.Context(), cmd.OutOrStdout())
			})
		},
	})

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget every skipped story",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirm func() bool
			if !yes {
				confirm = func() bool {
					return confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), "Show skipped stories again?")
				}
			}
			return withUseCase(cmd, func(u *app.SkippedUseCase) error {
				return u.Clear(cmd.Context(), confirm)
			})
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	skippedCmd.AddCommand(clearCmd)

	return skippedCmd
}

func confirmPrompt(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
