// Package benchmarks provides accuracy benchmark infrastructure for comparing
// branch predictor variants.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/bpsim/predictors"
	"github.com/sarchlab/bpsim/workload"
)

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Predictor is the name of the predictor variant
	Predictor string `json:"predictor"`

	// Branches is the number of branches fed to the predictor
	Branches uint64 `json:"branches"`

	Predictions     uint64  `json:"predictions"`
	Correct         uint64  `json:"correct"`
	Mispredictions  uint64  `json:"mispredictions"`
	AccuracyPercent float64 `json:"accuracy_percent"`

	// TableEntries is the number of counters materialized by the end of the run
	TableEntries int `json:"table_entries"`

	// Err is set when the run stopped early
	Err string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the benchmark
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark pairs a predictor with a workload.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Predictor builds a fresh predictor for each run
	Predictor func() *predictors.Predictor

	// Workload builds a fresh branch source for each run
	Workload func() workload.Source
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Count caps the number of branches per benchmark; 0 runs the whole workload
	Count int

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Count:   0,
		Output:  os.Stdout,
		Verbose: false,
	}
}

// Harness runs accuracy benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		results = append(results, result)

		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "ran %s (%s): %.1f%%\n",
				result.Name, result.Predictor, result.AccuracyPercent)
		}
	}

	return results
}

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	p := bench.Predictor()
	src := bench.Workload()

	start := time.Now()
	summary, err := workload.Run(p, src, h.config.Count)
	wallTime := time.Since(start)

	stats := p.Stats()
	result := BenchmarkResult{
		Name:            bench.Name,
		Description:     bench.Description,
		Predictor:       p.Name(),
		Branches:        summary.Total,
		Predictions:     stats.Predictions,
		Correct:         stats.Correct,
		Mispredictions:  stats.Mispredictions,
		AccuracyPercent: stats.Accuracy(),
		TableEntries:    p.Table().Len(),
		WallTime:        wallTime,
	}

	if err != nil {
		result.Err = err.Error()
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Branch Predictor Accuracy Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Predictor: %s\n", r.Predictor)
		_, _ = fmt.Fprintf(h.config.Output, "  Branches:        %d\n", r.Branches)
		_, _ = fmt.Fprintf(h.config.Output, "  Correct:         %d\n", r.Correct)
		_, _ = fmt.Fprintf(h.config.Output, "  Mispredictions:  %d\n", r.Mispredictions)
		_, _ = fmt.Fprintf(h.config.Output, "  Accuracy:        %.1f%%\n", r.AccuracyPercent)
		_, _ = fmt.Fprintf(h.config.Output, "  Table Entries:   %d\n", r.TableEntries)
		if r.Err != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Err)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,predictor,branches,correct,mispredictions,accuracy,table_entries")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%s,%d,%d,%d,%.3f,%d\n",
			r.Name,
			r.Predictor,
			r.Branches,
			r.Correct,
			r.Mispredictions,
			r.AccuracyPercent,
			r.TableEntries,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	TotalBenchmarks int    `json:"total_benchmarks"`
	TotalBranches   uint64 `json:"total_branches"`
	TotalCorrect    uint64 `json:"total_correct"`

	// AverageAccuracy is the unweighted mean of per-benchmark accuracy
	AverageAccuracy float64 `json:"average_accuracy_percent"`

	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// Summarize aggregates results.
func Summarize(results []BenchmarkResult) ReportSummary {
	s := ReportSummary{TotalBenchmarks: len(results)}

	var accuracy float64
	for _, r := range results {
		s.TotalBranches += r.Branches
		s.TotalCorrect += r.Correct
		s.TotalWallTime += r.WallTime
		accuracy += r.AccuracyPercent
	}

	if len(results) > 0 {
		s.AverageAccuracy = accuracy / float64(len(results))
	}

	return s
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	report := BenchmarkReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Results:   results,
		Summary:   Summarize(results),
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
