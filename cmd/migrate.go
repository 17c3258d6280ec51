package cmd

import (
	"fmt"
	"strconv"

	"betboard/config"
	"betboard/database"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(config.Get())
		},
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.MigrateUp(config.Get().DatabaseURL)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed <= 0 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = parsed
			}
			return database.MigrateDown(config.Get().DatabaseURL, steps)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.MigrateStatus(config.Get().DatabaseURL)
		},
	})

	return migrateCmd
}
