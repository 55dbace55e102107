package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/predictors"
	"github.com/sarchlab/bpsim/tracing"
	"github.com/sarchlab/bpsim/workload"
)

type runOptions struct {
	configPath string
	envPath    string

	kind          string
	historyWidth  int
	counterWidth  int
	addressWidth  int
	selectorWidth int

	count    int
	seed     int64
	taken    float64
	trace    string
	snapshot bool

	record string
	out    string

	verbose    bool
	cpuProfile string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one predictor over a branch stream.",
		Long: "`run` builds a predictor from the configuration file, the " +
			"environment, and flags, in that order, then feeds it random " +
			"branches or a trace file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "JSON predictor configuration file")
	f.StringVar(&opts.envPath, "env", "", "dotenv file with BPSIM_* settings")
	f.StringVar(&opts.kind, "kind", "", "predictor variant (GAg, GAp, GAs, SAs, PAp)")
	f.IntVar(&opts.historyWidth, "history-width", 0, "branch history width")
	f.IntVar(&opts.counterWidth, "counter-width", 0, "saturating counter width")
	f.IntVar(&opts.addressWidth, "address-width", 0, "address bits used to select tables")
	f.IntVar(&opts.selectorWidth, "selector-width", 0, "hashed selector width for GAs and SAs")
	f.IntVar(&opts.count, "count", 1000, "number of branches (0 runs the whole trace)")
	f.Int64Var(&opts.seed, "seed", 1, "seed for random branches")
	f.Float64Var(&opts.taken, "taken", 0.6, "probability that a random branch is taken")
	f.StringVar(&opts.trace, "trace", "", "read branches from this trace file instead")
	f.BoolVar(&opts.snapshot, "snapshot", false, "print the predictor state after the run")
	f.StringVar(&opts.record, "record", "", "record every operation: csv or sqlite")
	f.StringVar(&opts.out, "out", "", "record file name without extension (default: a unique name)")
	f.BoolVar(&opts.verbose, "verbose", false, "log every operation to stderr")
	f.StringVar(&opts.cpuProfile, "cpuprofile", "", "write cpu profile to file")

	return cmd
}

func (o *runOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.Default()

	if o.configPath != "" {
		var err error
		c, err = config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
	}

	if o.envPath != "" {
		if err := config.LoadEnvFile(o.envPath); err != nil {
			return nil, err
		}
	}

	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("kind") {
		c.Kind = config.Kind(o.kind)
	}
	if f.Changed("history-width") {
		c.HistoryWidth = o.historyWidth
	}
	if f.Changed("counter-width") {
		c.CounterWidth = o.counterWidth
	}
	if f.Changed("address-width") {
		c.AddressWidth = o.addressWidth
	}
	if f.Changed("selector-width") {
		c.SelectorWidth = o.selectorWidth
	}

	return c, nil
}

func (o *runOptions) source(c *config.Config) (workload.Source, error) {
	if o.trace != "" {
		branches, err := workload.LoadTrace(o.trace)
		if err != nil {
			return nil, err
		}
		return workload.NewSlice(branches), nil
	}

	if o.count <= 0 {
		return nil, fmt.Errorf("--count must be positive for random branches")
	}

	rc := workload.DefaultRandomConfig()
	rc.AddressWidth = c.AddressWidth
	rc.TakenProbability = o.taken

	return workload.NewRandom(o.seed, rc), nil
}

// fileWriter is a trace writer backed by a file.
type fileWriter interface {
	tracing.Writer
	Path() string
}

func (o *runOptions) writer() (fileWriter, error) {
	name := o.out
	if name != "" {
		name = filepath.Clean(name)
	}

	switch o.record {
	case "csv":
		return tracing.NewCSVWriter(name), nil
	case "sqlite":
		return tracing.NewSQLiteWriter(name), nil
	default:
		return nil, fmt.Errorf("unknown record format %q (want csv or sqlite)", o.record)
	}
}

func (o *runOptions) run(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	if o.cpuProfile != "" {
		f, err := os.Create(o.cpuProfile)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	c, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	var hookOpts []predictors.Option
	if o.verbose {
		logger := log.New(cmd.ErrOrStderr(), "", 0)
		hookOpts = append(hookOpts, predictors.WithHook(tracing.NewLogHook(logger)))
	}

	p, err := predictors.New(c, hookOpts...)
	if err != nil {
		return err
	}

	src, err := o.source(c)
	if err != nil {
		return err
	}

	var recorder *tracing.Recorder
	if o.record != "" {
		recorder, err = o.attachRecorder(out, p)
		if err != nil {
			return err
		}
	}

	summary, runErr := workload.Run(p, src, o.count)

	if recorder != nil {
		if err := recorder.Err(); err != nil && runErr == nil {
			runErr = fmt.Errorf("recording failed: %w", err)
		}
		if err := recorder.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}

	report(out, p, summary)

	if o.snapshot {
		_, _ = fmt.Fprintln(out, "")
		_, _ = fmt.Fprint(out, p.Dump())
	}

	return runErr
}

func (o *runOptions) attachRecorder(
	out io.Writer,
	p *predictors.Predictor,
) (*tracing.Recorder, error) {
	w, err := o.writer()
	if err != nil {
		return nil, err
	}

	if err := w.Init(); err != nil {
		return nil, err
	}

	recorder := tracing.NewRecorder(w)
	p.AcceptHook(recorder)

	_, _ = fmt.Fprintf(out, "Recording run %s to %s\n", recorder.RunID(), w.Path())

	return recorder, nil
}

func report(out io.Writer, p *predictors.Predictor, summary workload.Summary) {
	stats := p.Stats()

	_, _ = fmt.Fprintf(out, "Predictor:       %s\n", p.Name())
	_, _ = fmt.Fprintf(out, "Branches:        %d\n", summary.Total)
	_, _ = fmt.Fprintf(out, "Hits:            %d\n", summary.Hits)
	_, _ = fmt.Fprintf(out, "Mispredictions:  %d\n", stats.Mispredictions)
	_, _ = fmt.Fprintf(out, "Hit rate:        %.2f%%\n", summary.HitRate()*100)
	_, _ = fmt.Fprintf(out, "Table entries:   %d\n", p.Table().Len())
}
