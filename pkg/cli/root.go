// Package cli implements the clingov command-line interface for
// running quality and contract validation locally and querying the
// lineage audit store.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "clingov",
		Short:         "Clinical data governance CLI",
		Long:          "Validate clinical datasets against quality rules and schema contracts, and query pipeline lineage.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newQualityCmd())
	rootCmd.AddCommand(newContractCmd())
	rootCmd.AddCommand(newLineageCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("clingov %s (commit %s)\n", version, commit)
		},
	}
}
