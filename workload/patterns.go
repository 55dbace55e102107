package workload

import (
	"github.com/sarchlab/bpsim/bits"
	"github.com/sarchlab/bpsim/predictors"
)

// Pattern is a named, deterministic branch sequence.
type Pattern struct {
	Name        string
	Description string
	Branches    []Branch
}

func repeat(address bits.Vector, n int, outcome func(i int) predictors.Result) []Branch {
	branches := make([]Branch, n)
	for i := range branches {
		branches[i] = Branch{
			Instruction: predictors.Branch(address),
			Outcome:     outcome(i),
		}
	}
	return branches
}

// AlwaysTaken is one branch that is always taken.
func AlwaysTaken(address bits.Vector, n int) Pattern {
	return Pattern{
		Name:        "always_taken",
		Description: "a single branch that is always taken",
		Branches: repeat(address, n, func(int) predictors.Result {
			return predictors.Taken
		}),
	}
}

// Alternating is one branch that flips direction every time.
func Alternating(address bits.Vector, n int) Pattern {
	return Pattern{
		Name:        "alternating",
		Description: "a single branch alternating taken and not taken",
		Branches: repeat(address, n, func(i int) predictors.Result {
			return predictors.FromBit(bits.FromBool(i%2 == 0))
		}),
	}
}

// Loop is a loop back-edge taken trip-1 times and then not taken once.
func Loop(address bits.Vector, trip, n int) Pattern {
	return Pattern{
		Name:        "loop",
		Description: "a loop back-edge with a fixed trip count",
		Branches: repeat(address, n, func(i int) predictors.Result {
			return predictors.FromBit(bits.FromBool(i%trip != trip-1))
		}),
	}
}

// Correlated interleaves two branches where the second repeats the outcome of
// the first, and the first alternates.
func Correlated(first, second bits.Vector, n int) Pattern {
	branches := make([]Branch, 0, n)
	for i := 0; len(branches) < n; i++ {
		outcome := predictors.FromBit(bits.FromBool(i%2 == 0))
		branches = append(branches, Branch{
			Instruction: predictors.Branch(first),
			Outcome:     outcome,
		})
		if len(branches) < n {
			branches = append(branches, Branch{
				Instruction: predictors.Branch(second),
				Outcome:     outcome,
			})
		}
	}

	return Pattern{
		Name:        "correlated",
		Description: "two branches where the second follows the first",
		Branches:    branches,
	}
}
