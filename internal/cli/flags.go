package cli

import "github.com/spf13/pflag"

// addNotesFlag registers the shared --notes flag on a command's flag set.
// Start uses it as the closing note for a switched-away session; Stop as
// the note on the created entry.
func addNotesFlag(fs *pflag.FlagSet, notes *string) {
	fs.StringVarP(notes, "notes", "n", "", "Notes recorded on the closed entry")
}
