package devices

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sarchlab/bpsim/bits"
)

// RegisterBank holds one shift register per selector, created zero-filled on
// first read.
type RegisterBank struct {
	name      string
	width     int
	registers map[string]*ShiftRegister
}

// NewRegisterBank creates an empty bank of width-bit registers.
func NewRegisterBank(name string, width int) *RegisterBank {
	return &RegisterBank{
		name:      name,
		width:     width,
		registers: make(map[string]*ShiftRegister),
	}
}

// Width returns the width of every register in the bank.
func (b *RegisterBank) Width() int {
	return b.width
}

// Len returns the number of materialized registers.
func (b *RegisterBank) Len() int {
	return len(b.registers)
}

// Read returns a copy of the register for selector, materializing a
// zero-filled register on first access. Changes to the returned register
// reach the bank only through Write.
func (b *RegisterBank) Read(selector bits.Vector) *ShiftRegister {
	key := selector.String()

	reg, ok := b.registers[key]
	if !ok {
		reg = NewShiftRegister(b.name+"["+key+"]", b.width, nil)
		b.registers[key] = reg
	}

	return NewShiftRegister(reg.Name(), b.width, reg.data)
}

// Write loads v into the register for selector. The register must have been
// materialized by a Read.
func (b *RegisterBank) Write(selector, v bits.Vector) error {
	reg, ok := b.registers[selector.String()]
	if !ok {
		return fmt.Errorf("no register in bank %q for selector %q: %w",
			b.name, selector, ErrNotAssociated)
	}
	return reg.Load(v)
}

// Clear discards every register.
func (b *RegisterBank) Clear() {
	clear(b.registers)
}

// Dump lists each register's contents by selector.
func (b *RegisterBank) Dump() string {
	var sb strings.Builder
	for _, key := range slices.Sorted(maps.Keys(b.registers)) {
		fmt.Fprintf(&sb, "%s[%s]: %s\n", b.name, key, b.registers[key].Dump())
	}
	return sb.String()
}
