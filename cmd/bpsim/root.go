package main

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bpsim",
		Short: "bpsim runs two-level adaptive branch predictors.",
		Long: `bpsim runs GAg, GAp, GAs, SAs, and PAp branch predictors over ` +
			`random or recorded branch streams and reports their accuracy.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd(), newBenchCmd())

	return rootCmd
}

// Execute runs the root command. On failure it exits with status 1 after
// running the exit handlers, so trace writers still flush.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
