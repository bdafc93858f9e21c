package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/cristianoliveira/hnreader/internal/intent"
	"github.com/spf13/cobra"
)

const keysWordWrap = 80

// NewKeysCmd creates the keys command.
func NewKeysCmd() *cobra.Command {
	var raw bool

	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Show the key reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := keysMarkdown(intent.DefaultKeyMap())
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(keysWordWrap),
			)
			if err != nil {
				return fmt.Errorf("keys: renderer: %w", err)
			}
			out, err := r.Render(doc)
			if err != nil {
				return fmt.Errorf("keys: render: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	keysCmd.Flags().BoolVar(&raw, "markdown", false, "Print the Markdown source")
	return keysCmd
}

func keysMarkdown(km intent.KeyMap) string {
	var b strings.Builder
	b.WriteString("# Keys\n\n")
	b.WriteString("| Key | Action |\n|---|---|\n")
	for _, binding := range km.Bindings() {
		keys := make([]string, len(binding.Key.Keys()))
		for i, k := range binding.Key.Keys() {
			keys[i] = "`" + k + "`"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", strings.Join(keys, " "), binding.Key.Help().Desc)
	}
	b.WriteString("\nSkipping hides a story in every later session. Opening a story marks it as read the same way; opening its comments does not.\n")
	return b.String()
}
