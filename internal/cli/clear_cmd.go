package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all entries and discard any running session",
		Long: "Deletes every recorded entry. A running session is discarded without\n" +
			"being recorded — its elapsed time is lost.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed := yes
			if !confirmed {
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewConfirm().
							Title("Delete all entries?").
							Description(clearDescription(app)).
							Affirmative("Delete everything").
							Negative("Cancel").
							Value(&confirmed),
					),
				).WithTheme(stintHuhTheme()).WithShowHelp(false)
				if err := form.Run(); err != nil {
					return err
				}
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing cleared.")
				return nil
			}
			if err := app.Store.ClearAll(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All entries cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func clearDescription(app *App) string {
	n := len(app.Store.Entries())
	desc := fmt.Sprintf("%d recorded entries will be deleted.", n)
	if app.Store.Running() {
		desc += " The running session will be discarded without being recorded."
	}
	return desc
}
