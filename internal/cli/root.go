package cli

import (
	"github.com/alexanderramin/stint/internal/store"
	"github.com/spf13/cobra"
)

// App holds everything CLI commands need: the state-owning TimeStore and
// environment checks injected by main.
type App struct {
	Store *store.TimeStore

	// IsInteractive reports whether stdin is a terminal. When true and no
	// subcommand is given, the root command opens the TUI dashboard.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "stint" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "stint",
		Short: "Single-user work timer with per-job daily totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runDashboard(app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newStartCmd(app),
		newStopCmd(app),
		newStatusCmd(app),
		newLogCmd(app),
		newDeleteCmd(app),
		newClearCmd(app),
	)

	return root
}
