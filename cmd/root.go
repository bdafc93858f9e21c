// Package cmd implements the hnreader command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cristianoliveira/hnreader/internal/colors"
	"github.com/cristianoliveira/hnreader/internal/config"
	"github.com/cristianoliveira/hnreader/internal/errors"
	"github.com/cristianoliveira/hnreader/internal/logging"
	"github.com/cristianoliveira/hnreader/internal/version"
	"github.com/spf13/cobra"
)

const (
	appName     = "hnreader"
	description = "Read the Hacker News front page in your terminal."
)

// commandOrder is the order commands appear in the help text.
var commandOrder = []string{"read", "skipped", "keys", "version", "help"}

// NewRootCmd builds the command tree. Running the bare command starts the
// reader.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         description,
		Long:          description,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			colors.SetDebug(config.GetBool("debug", false))
			if err := logging.InitGlobal(); err != nil {
				colors.Warning(fmt.Sprintf("logging disabled: %v", err))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.ShutdownGlobal()
		},
	}
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	readCmd := NewReadCmd(newReader)
	rootCmd.RunE = readCmd.RunE
	rootCmd.AddCommand(
		readCmd,
		NewSkippedCmd(openSkipStore),
		NewKeysCmd(),
		NewVersionCmd(),
	)
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:   "help",
		Short: "Show this help message",
		Run: func(cmd *cobra.Command, args []string) {
			printHelpText(cmd.OutOrStdout(), cmd.Root())
		},
	})
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != cmd.Root() {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		printHelpText(cmd.OutOrStdout(), cmd)
	})
	return rootCmd
}

// Execute runs the command line and returns the process exit code. The
// first fatal error is reported once.
func Execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errors.NewDefaultCLIHandler().Fatal(err)
		return 1
	}
	return 0
}

func printHelpText(w io.Writer, root *cobra.Command) {
	var cmdLines []string
	for _, name := range commandOrder {
		if name == "help" {
			cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", "help", "Show this help message"))
			continue
		}
		for _, c := range root.Commands() {
			if c.Name() == name {
				cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", c.Name(), c.Short))
				break
			}
		}
	}

	fmt.Fprintf(w, `%s %s

%s

USAGE:
    %s [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
    -v, --version   Show version
`, appName, version.String(), description, appName, strings.Join(cmdLines, "\n"))
}
