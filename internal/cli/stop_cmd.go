package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/stint/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStopCmd(app *App) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer and record an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.Store.Stop(context.Background(), notes)
			if err != nil {
				return err
			}
			if entry == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No timer running.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s.\n",
				formatter.FormatSeconds(entry.DurationSeconds), entry.JobNumber)
			return nil
		},
	}

	addNotesFlag(cmd.Flags(), &notes)
	return cmd
}
