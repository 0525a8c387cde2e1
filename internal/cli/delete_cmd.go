package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete one recorded entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			matches := matchEntryIDs(app, args[0])

			switch len(matches) {
			case 0:
				fmt.Fprintf(out, "No entry matching %s.\n", args[0])
			case 1:
				if err := app.Store.Delete(context.Background(), matches[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted %s.\n", args[0])
			default:
				fmt.Fprintf(out, "Prefix %s is ambiguous (%d entries match); use a longer prefix.\n",
					args[0], len(matches))
			}
			return nil
		},
	}
	return cmd
}

// matchEntryIDs accepts either a full entry id or a prefix (the log
// table shows truncated ids). An exact id wins outright; otherwise all
// prefix matches are returned so the caller can report ambiguity.
func matchEntryIDs(app *App, arg string) []string {
	var matches []string
	for _, e := range app.Store.Entries() {
		if e.ID == arg {
			return []string{e.ID}
		}
		if strings.HasPrefix(e.ID, arg) {
			matches = append(matches, e.ID)
		}
	}
	return matches
}
