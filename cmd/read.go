package cmd

import (
	"context"

	"github.com/cristianoliveira/hnreader/internal/app"
	"github.com/spf13/cobra"
)

type readClient interface {
	Execute(ctx context.Context) error
}

func newReader() readClient {
	return app.NewReaderUseCase(app.ReaderDeps{})
}

// NewReadCmd creates the read command. newClient is called after
// configuration has loaded.
func NewReadCmd(newClient func() readClient) *cobra.Command {
	if newClient == nil {
		panic("NewReadCmd: client factory cannot be nil")
	}

	return &cobra.Command{
		Use:   "read",
		Short: "Browse top stories (default command)",
		Long: `Browse the top stories page by page.

Skipped stories are hidden for good. Run "hnreader keys" for the key reference.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().Execute(cmd.Context())
		},
	}
}
