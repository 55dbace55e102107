// Package bits provides the binary logic cell and the fixed-width bit vectors
// that the predictor registers and tables are built from.
package bits

import (
	"fmt"
	"strings"
)

// Bit is a single binary logic value.
type Bit uint8

const (
	// Zero is the logic low value.
	Zero Bit = 0
	// One is the logic high value.
	One Bit = 1
)

// FromBool converts a boolean to a Bit.
func FromBool(b bool) Bit {
	if b {
		return One
	}
	return Zero
}

// Bool reports whether the bit is set.
func (b Bit) Bool() bool {
	return b == One
}

// Xor returns the exclusive or of two bits.
func (b Bit) Xor(other Bit) Bit {
	return FromBool(b.Bool() != other.Bool())
}

// String returns "0" or "1".
func (b Bit) String() string {
	if b.Bool() {
		return "1"
	}
	return "0"
}

// Vector is an ordered sequence of bits. Index 0 holds the most significant
// bit.
type Vector []Bit

// Zeros returns a zero-filled vector of width n.
func Zeros(n int) Vector {
	return make(Vector, n)
}

// Parse converts a string of '0' and '1' characters into a Vector.
func Parse(s string) (Vector, error) {
	v := make(Vector, len(s))
	for i, c := range s {
		switch c {
		case '0':
			v[i] = Zero
		case '1':
			v[i] = One
		default:
			return nil, fmt.Errorf("invalid bit %q at position %d", c, i)
		}
	}
	return v, nil
}

// MustParse is like Parse but panics on malformed input. It is meant for
// constants and tests.
func MustParse(s string) Vector {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FromUint encodes value as an unsigned big-endian vector of the given width.
// Bits above the width are discarded.
func FromUint(value uint64, width int) Vector {
	v := make(Vector, width)
	for i := width - 1; i >= 0; i-- {
		v[i] = Bit(value & 1)
		value >>= 1
	}
	return v
}

// Uint interprets the vector as an unsigned big-endian integer.
func (v Vector) Uint() uint64 {
	var result uint64
	for _, b := range v {
		result = result<<1 | uint64(b&1)
	}
	return result
}

// MSB returns the most significant bit. An empty vector reads as Zero.
func (v Vector) MSB() Bit {
	if len(v) == 0 {
		return Zero
	}
	return v[0]
}

// Clone returns a copy that does not share storage with v.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

// Equal reports whether both vectors hold the same bit sequence.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// Prefix returns a copy of the first n bits. If the vector is shorter than n,
// the whole vector is returned.
func (v Vector) Prefix(n int) Vector {
	if n > len(v) {
		n = len(v)
	}
	return v[:n].Clone()
}

// Suffix returns a copy of the bits from position from to the end.
func (v Vector) Suffix(from int) Vector {
	if from > len(v) {
		from = len(v)
	}
	return v[from:].Clone()
}

// String renders the vector as a binary string, most significant bit first.
// The result is the canonical key form used by the history tables.
func (v Vector) String() string {
	var sb strings.Builder
	sb.Grow(len(v))
	for _, b := range v {
		sb.WriteString(b.String())
	}
	return sb.String()
}

// Concat joins vectors into a new vector in argument order.
func Concat(vs ...Vector) Vector {
	n := 0
	for _, v := range vs {
		n += len(v)
	}

	out := make(Vector, 0, n)
	for _, v := range vs {
		out = append(out, v...)
	}
	return out
}
