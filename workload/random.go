package workload

import (
	"math/rand"

	"github.com/sarchlab/bpsim/bits"
	"github.com/sarchlab/bpsim/predictors"
)

// RandomConfig shapes the branches produced by Random.
type RandomConfig struct {
	OpcodeWidth  int
	AddressWidth int
	TargetWidth  int
	// TakenProbability is the chance that a branch resolves as taken.
	TakenProbability float64
}

// DefaultRandomConfig returns 6-bit opcodes, 8-bit addresses, 16-bit targets,
// and a 60% taken rate.
func DefaultRandomConfig() RandomConfig {
	return RandomConfig{
		OpcodeWidth:      6,
		AddressWidth:     8,
		TargetWidth:      16,
		TakenProbability: 0.6,
	}
}

// Random is an endless Source of random branches. The same seed always
// yields the same sequence.
type Random struct {
	config RandomConfig
	rng    *rand.Rand
}

// NewRandom creates a Random source.
func NewRandom(seed int64, config RandomConfig) *Random {
	return &Random{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Next returns a new random branch. It never runs out.
func (r *Random) Next() (Branch, bool) {
	inst := predictors.Instruction{
		Opcode:  r.vector(r.config.OpcodeWidth),
		Address: r.vector(r.config.AddressWidth),
		Target:  r.vector(r.config.TargetWidth),
	}

	outcome := predictors.NotTaken
	if r.rng.Float64() < r.config.TakenProbability {
		outcome = predictors.Taken
	}

	return Branch{Instruction: inst, Outcome: outcome}, true
}

func (r *Random) vector(width int) bits.Vector {
	v := make(bits.Vector, width)
	for i := range v {
		v[i] = bits.FromBool(r.rng.Intn(2) == 1)
	}
	return v
}
