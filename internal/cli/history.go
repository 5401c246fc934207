package cli

import (
	"fmt"

	"curator-cli/internal/store"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var kind string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the local journal of mutations (newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case "", "category", "topic", "group", "post":
			default:
				return writeErr(cmd, fmt.Errorf("kind must be category, topic, group or post, got %q", kind))
			}
			actions, err := store.Journal{}.Actions(cmd.Context(), kind, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": actions})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by entity kind (category|topic|group|post)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max entries to return (0 = all)")
	return cmd
}
