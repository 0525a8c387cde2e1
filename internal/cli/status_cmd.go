package cli

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alexanderramin/stint/internal/cli/formatter"
	"github.com/alexanderramin/stint/internal/clock"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running timer, if any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			session := app.Store.Active()
			if session == nil {
				fmt.Fprintf(out, "%s  elapsed %s\n", formatter.TimerPill(false), formatter.ClockFormat(0))
				return nil
			}

			fmt.Fprintf(out, "%s  %s since %s  elapsed %s\n",
				formatter.TimerPill(true),
				formatter.StyleBold.Render(session.JobNumber),
				formatter.TimeOfDay(session.StartedAt),
				formatter.ClockFormat(session.ElapsedSeconds(time.Now())))

			if !watch {
				return nil
			}

			// Live mode: print a reading per second until interrupted.
			// The clock is halted on every exit path.
			lc := clock.New()
			defer lc.Halt()
			readings := lc.Watch(*session)

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			defer signal.Stop(interrupt)

			for {
				select {
				case elapsed, ok := <-readings:
					if !ok {
						return nil
					}
					fmt.Fprintf(out, "\r%s  %s", session.JobNumber, formatter.ClockFormat(elapsed))
				case <-interrupt:
					fmt.Fprintln(out)
					return nil
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep printing elapsed time once per second")
	return cmd
}
