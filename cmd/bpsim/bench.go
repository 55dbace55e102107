package main

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/bpsim/benchmarks"
)

func newBenchCmd() *cobra.Command {
	var (
		csv     bool
		json    bool
		count   int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare every predictor variant on the standard workloads.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := benchmarks.DefaultConfig()
			config.Output = cmd.OutOrStdout()
			config.Verbose = verbose

			harness := benchmarks.NewHarness(config)
			harness.AddBenchmarks(benchmarks.GetStandardBenchmarks(count))

			results := harness.RunAll()

			switch {
			case json:
				return harness.PrintJSON(results)
			case csv:
				harness.PrintCSV(results)
			default:
				harness.PrintResults(results)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&csv, "csv", false, "output results as CSV")
	cmd.Flags().BoolVar(&json, "json", false, "output results as JSON")
	cmd.Flags().IntVar(&count, "count", 1000, "branches per benchmark")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "report progress while running")

	return cmd
}
