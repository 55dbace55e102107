package devices

import (
	"github.com/sarchlab/bpsim/bits"
)

// SaturatingCounter is a shift register read as an unsigned big-endian
// integer. Counting up from the maximum or down from zero has no effect.
//
// In hardware the counting logic is shared combinational logic next to the
// pattern table. Values read from a table are loaded into the counter, counted,
// and read back out before being written to the table again.
type SaturatingCounter struct {
	*ShiftRegister
}

// NewSaturatingCounter creates a counter of the given width. Widths above 64
// are not supported.
func NewSaturatingCounter(name string, width int, initial bits.Vector) *SaturatingCounter {
	return &SaturatingCounter{
		ShiftRegister: NewShiftRegister(name, width, initial),
	}
}

// Value returns the numeric counter value.
func (c *SaturatingCounter) Value() uint64 {
	return c.data.Uint()
}

// Max returns the largest representable value, 2^width - 1.
func (c *SaturatingCounter) Max() uint64 {
	if c.Len() >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<c.Len() - 1
}

// Insert counts up on One and down on Zero, saturating at the bounds.
func (c *SaturatingCounter) Insert(b bits.Bit) {
	if b.Bool() {
		c.Increment()
	} else {
		c.Decrement()
	}
}

// Increment adds one unless the counter is already at its maximum.
func (c *SaturatingCounter) Increment() {
	value := c.Value()
	if value == c.Max() {
		return
	}
	c.set(value + 1)
}

// Decrement subtracts one unless the counter is already zero.
func (c *SaturatingCounter) Decrement() {
	value := c.Value()
	if value == 0 {
		return
	}
	c.set(value - 1)
}

func (c *SaturatingCounter) set(value uint64) {
	// Same width by construction.
	_ = c.Load(bits.FromUint(value, c.Len()))
}
