package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/staffdesk/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  "Apply the embedded SQL migrations that have not run yet against DATABASE_URL (or --db-url).",
	RunE:  runMigrate,
}

var (
	migrateDatabaseURL string
	migrateList        bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "Only list the embedded migrations")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if migrateList {
		names, err := db.MigrationNames()
		if err != nil {
			return err
		}
		for _, name := range names {
			_, _ = fmt.Fprintln(out, name)
		}
		return nil
	}

	databaseURL := migrateDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL environment variable or use --db-url flag)")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	applied, err := database.Migrate(ctx)
	for _, name := range applied {
		_, _ = fmt.Fprintf(out, "applied %s\n", name)
	}
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		_, _ = fmt.Fprintln(out, "Database is up to date")
	}
	return nil
}
