package benchmarks

import (
	"github.com/sarchlab/bpsim/bits"
	"github.com/sarchlab/bpsim/predictors"
	"github.com/sarchlab/bpsim/workload"
)

// Variant names a predictor configuration used by the standard suite.
type Variant struct {
	Name string
	New  func() *predictors.Predictor
}

// GetVariants returns one small configuration of each predictor scheme.
// Addresses in the standard workloads are 4 bits wide.
func GetVariants() []Variant {
	return []Variant{
		{"GAg", func() *predictors.Predictor { return predictors.NewGAg(4, 2) }},
		{"GAp", func() *predictors.Predictor { return predictors.NewGAp(4, 2, 2) }},
		{"GAs", func() *predictors.Predictor { return predictors.NewGAs(4, 2, 4, 2) }},
		{"SAs", func() *predictors.Predictor { return predictors.NewSAs(4, 2, 4, 2) }},
		{"PAp", func() *predictors.Predictor { return predictors.NewPAp(4, 2, 4) }},
	}
}

func slice(p workload.Pattern) func() workload.Source {
	return func() workload.Source { return workload.NewSlice(p.Branches) }
}

// GetPatterns returns the deterministic workloads of the standard suite,
// each n branches long.
func GetPatterns(n int) []workload.Pattern {
	a := bits.MustParse("0110")
	b := bits.MustParse("1001")

	return []workload.Pattern{
		workload.AlwaysTaken(a, n),
		workload.Alternating(a, n),
		workload.Loop(a, 4, n),
		workload.Correlated(a, b, n),
	}
}

// GetStandardBenchmarks returns every variant crossed with every pattern,
// plus a seeded random workload.
func GetStandardBenchmarks(n int) []Benchmark {
	var benchmarks []Benchmark

	for _, p := range GetPatterns(n) {
		for _, v := range GetVariants() {
			benchmarks = append(benchmarks, Benchmark{
				Name:        p.Name,
				Description: p.Description,
				Predictor:   v.New,
				Workload:    slice(p),
			})
		}
	}

	for _, v := range GetVariants() {
		benchmarks = append(benchmarks, Benchmark{
			Name:        "random",
			Description: "seeded random branches, 60% taken",
			Predictor:   v.New,
			Workload: func() workload.Source {
				config := workload.DefaultRandomConfig()
				config.AddressWidth = 4
				return &limited{src: workload.NewRandom(1, config), left: n}
			},
		})
	}

	return benchmarks
}

// limited stops an endless source after a fixed number of branches.
type limited struct {
	src  workload.Source
	left int
}

func (l *limited) Next() (workload.Branch, bool) {
	if l.left <= 0 {
		return workload.Branch{}, false
	}
	l.left--
	return l.src.Next()
}
