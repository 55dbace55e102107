package predictors

import (
	"fmt"
	"strings"

	"github.com/sarchlab/bpsim/bits"
)

// Result is the direction of a conditional branch.
type Result uint8

const (
	// NotTaken means execution falls through to the next instruction.
	NotTaken Result = iota
	// Taken means execution continues at the branch target.
	Taken
)

// FromBit maps One to Taken and Zero to NotTaken.
func FromBit(b bits.Bit) Result {
	if b.Bool() {
		return Taken
	}
	return NotTaken
}

// Bit maps Taken to One and NotTaken to Zero.
func (r Result) Bit() bits.Bit {
	return bits.FromBool(r == Taken)
}

func (r Result) String() string {
	if r == Taken {
		return "TAKEN"
	}
	return "NOT_TAKEN"
}

// ParseResult accepts TAKEN/NOT_TAKEN, T/N, and 1/0, case-insensitively.
func ParseResult(s string) (Result, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TAKEN", "T", "1":
		return Taken, nil
	case "NOT_TAKEN", "N", "0":
		return NotTaken, nil
	default:
		return NotTaken, fmt.Errorf("invalid branch result %q", s)
	}
}

// Instruction is one occurrence of a conditional branch. Only the address is
// used for prediction; the opcode and target are carried along opaquely.
type Instruction struct {
	Opcode  bits.Vector
	Address bits.Vector
	Target  bits.Vector
}

// Branch returns an instruction that only carries an address.
func Branch(address bits.Vector) Instruction {
	return Instruction{Address: address}
}
