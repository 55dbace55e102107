package devices

import "github.com/sarchlab/bpsim/bits"

// Fold reduces an address of any width to a width-bit selector. Address bit i
// is XOR-accumulated into output position i mod width. Slots that receive no
// address bit stay zero.
func Fold(address bits.Vector, width int) bits.Vector {
	if width <= 0 {
		return bits.Vector{}
	}

	out := bits.Zeros(width)

	for i, b := range address {
		j := i % width
		out[j] = out[j].Xor(b)
	}
	return out
}
