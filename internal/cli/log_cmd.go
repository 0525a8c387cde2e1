package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/stint/internal/aggregate"
	"github.com/alexanderramin/stint/internal/cli/formatter"
	"github.com/alexanderramin/stint/internal/domain"
	"github.com/spf13/cobra"
)

func newLogCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"today"},
		Short:   "Show today's entries with daily and per-job totals",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			entries := app.Store.Entries()

			if all {
				if len(entries) == 0 {
					fmt.Fprintln(out, "No entries recorded.")
					return nil
				}
				fmt.Fprint(out, renderEntryTable(entries, true))
				return nil
			}

			summary := aggregate.Summarize(entries, time.Now())
			if len(summary.Entries) == 0 {
				fmt.Fprintln(out, "No entries today.")
				return nil
			}

			fmt.Fprint(out, renderEntryTable(summary.Entries, false))
			fmt.Fprintf(out, "\nToday: %s\n", formatter.StyleBold.Render(formatter.FormatSeconds(summary.TotalSeconds)))
			fmt.Fprint(out, renderJobTotals(summary.JobTotals))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show all entries, not just today's")
	return cmd
}

func renderEntryTable(entries []domain.Entry, withDate bool) string {
	headers := []string{"ID", "JOB", "START", "END", "TIME", "NOTES"}
	if withDate {
		headers = []string{"ID", "JOB", "DATE", "START", "END", "TIME", "NOTES"}
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{formatter.TruncID(e.ID), e.JobNumber}
		if withDate {
			row = append(row, formatter.HumanDate(e.StartedAt))
		}
		row = append(row,
			formatter.TimeOfDay(e.StartedAt),
			formatter.TimeOfDay(e.EndedAt),
			formatter.FormatSeconds(e.DurationSeconds),
			e.Notes,
		)
		rows = append(rows, row)
	}
	return formatter.RenderTable(headers, rows)
}

func renderJobTotals(totals []aggregate.JobTotal) string {
	rows := make([][]string, 0, len(totals))
	for _, jt := range totals {
		rows = append(rows, []string{jt.JobNumber, formatter.FormatSeconds(jt.Seconds)})
	}
	return formatter.RenderTable([]string{"JOB", "TOTAL"}, rows)
}
