package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/stint/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStartCmd(app *App) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:     "start <job-number>",
		Aliases: []string{"switch"},
		Short:   "Start timing a job (closes any running session first)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			wasRunning := app.Store.Running()

			session, err := app.Store.Start(ctx, args[0], notes)
			if err != nil {
				return err
			}
			if session == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing started: job number is empty.")
				return nil
			}

			out := cmd.OutOrStdout()
			if wasRunning {
				closed := app.Store.Entries()[0]
				fmt.Fprintf(out, "Closed %s after %s.\n",
					closed.JobNumber, formatter.FormatSeconds(closed.DurationSeconds))
			}
			fmt.Fprintf(out, "Timing %s since %s.\n",
				session.JobNumber, formatter.TimeOfDay(session.StartedAt))
			return nil
		},
	}

	addNotesFlag(cmd.Flags(), &notes)
	return cmd
}
