// Package workload produces streams of resolved branches and drives
// predictors over them.
package workload

import (
	"fmt"

	"github.com/sarchlab/bpsim/predictors"
)

// Branch is a branch instruction together with its resolved direction.
type Branch struct {
	Instruction predictors.Instruction
	Outcome     predictors.Result
}

// Source yields branches until it is exhausted.
type Source interface {
	Next() (Branch, bool)
}

// Predictor is what Run drives.
type Predictor interface {
	PredictAndUpdate(inst predictors.Instruction, actual predictors.Result) (predictors.Result, error)
}

// Summary is the outcome of a run.
type Summary struct {
	Total uint64
	Hits  uint64
}

// HitRate returns the fraction of correct predictions in [0, 1].
func (s Summary) HitRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Total)
}

// Run feeds up to limit branches from src through p. A non-positive limit
// runs until src is exhausted.
func Run(p Predictor, src Source, limit int) (Summary, error) {
	var s Summary

	for limit <= 0 || s.Total < uint64(limit) {
		b, ok := src.Next()
		if !ok {
			break
		}

		predicted, err := p.PredictAndUpdate(b.Instruction, b.Outcome)
		if err != nil {
			return s, fmt.Errorf("branch %d at %s: %w", s.Total, b.Instruction.Address, err)
		}

		s.Total++
		if predicted == b.Outcome {
			s.Hits++
		}
	}

	return s, nil
}

// Slice is a Source over a fixed list of branches.
type Slice struct {
	branches []Branch
	pos      int
}

// NewSlice returns a Source that yields branches in order.
func NewSlice(branches []Branch) *Slice {
	return &Slice{branches: branches}
}

// Next returns the next branch.
func (s *Slice) Next() (Branch, bool) {
	if s.pos >= len(s.branches) {
		return Branch{}, false
	}
	b := s.branches[s.pos]
	s.pos++
	return b, true
}
