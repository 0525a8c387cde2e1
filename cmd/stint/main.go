package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/stint/internal/cli"
	"github.com/alexanderramin/stint/internal/db"
	"github.com/alexanderramin/stint/internal/repository"
	"github.com/alexanderramin/stint/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.stint/stint.db
	dbPath := os.Getenv("STINT_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".stint", "stint.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Restore timer state; corrupt stored records load as empty/idle.
	timeStore, err := store.New(context.Background(), repository.NewSQLiteStateRepo(database))
	if err != nil {
		return fmt.Errorf("restoring timer state: %w", err)
	}

	app := &cli.App{
		Store: timeStore,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
