package devices

import (
	"fmt"

	"github.com/sarchlab/bpsim/bits"
)

// ShiftRegister is a fixed-width serial-in, parallel-out register.
//
// Insert pushes a new bit into the most significant position and drops the
// least significant bit, so the contents read newest bit first.
type ShiftRegister struct {
	name string
	data bits.Vector
}

// NewShiftRegister creates a register of the given width. A nil initial value
// zero-fills the register. Otherwise the initial value is copied, truncated or
// zero-padded to the width.
func NewShiftRegister(name string, width int, initial bits.Vector) *ShiftRegister {
	r := &ShiftRegister{
		name: name,
		data: bits.Zeros(width),
	}
	copy(r.data, initial)
	return r
}

// Name returns the register name used in snapshots.
func (r *ShiftRegister) Name() string {
	return r.name
}

// Len returns the register width.
func (r *ShiftRegister) Len() int {
	return len(r.data)
}

// Read returns a copy of the register contents.
func (r *ShiftRegister) Read() bits.Vector {
	return r.data.Clone()
}

// Load overwrites the whole register. The value must have exactly the
// register width; otherwise the register is left unchanged.
func (r *ShiftRegister) Load(v bits.Vector) error {
	if len(v) != len(r.data) {
		return fmt.Errorf("load %d bits into %d-bit register %q: %w",
			len(v), len(r.data), r.name, ErrLengthMismatch)
	}
	copy(r.data, v)
	return nil
}

// Insert shifts every bit one position toward the least significant end and
// writes b into the most significant position.
func (r *ShiftRegister) Insert(b bits.Bit) {
	if len(r.data) == 0 {
		return
	}
	copy(r.data[1:], r.data[:len(r.data)-1])
	r.data[0] = b
}

// Clear zero-fills the register.
func (r *ShiftRegister) Clear() {
	for i := range r.data {
		r.data[i] = bits.Zero
	}
}

// Dump returns the register contents as a binary string.
func (r *ShiftRegister) Dump() string {
	return r.data.String()
}
