package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the betboard command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "betboard",
		Short:         "Betboard ledger and bet lifecycle service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())

	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context())
		},
	}
}
