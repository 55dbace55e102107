package predictors

import (
	"github.com/sarchlab/bpsim/bits"
	"github.com/sarchlab/bpsim/devices"
)

// historyStore is where a predictor keeps its branch history, either one
// global register or one register per selector.
type historyStore interface {
	devices.Dumper
	read(selector bits.Vector) bits.Vector
	advance(selector bits.Vector, b bits.Bit) error
	clear()
}

type globalHistory struct {
	bhr *devices.ShiftRegister
}

func (h *globalHistory) read(bits.Vector) bits.Vector {
	return h.bhr.Read()
}

func (h *globalHistory) advance(_ bits.Vector, b bits.Bit) error {
	h.bhr.Insert(b)
	return nil
}

func (h *globalHistory) clear() {
	h.bhr.Clear()
}

func (h *globalHistory) Dump() string {
	return "BHR: " + h.bhr.Dump() + "\n"
}

type bankedHistory struct {
	bank *devices.RegisterBank
}

func (h *bankedHistory) read(selector bits.Vector) bits.Vector {
	return h.bank.Read(selector).Read()
}

// advance shifts the outcome into the selected register and writes the
// register back into the bank.
func (h *bankedHistory) advance(selector bits.Vector, b bits.Bit) error {
	reg := h.bank.Read(selector)
	reg.Insert(b)
	return h.bank.Write(selector, reg.Read())
}

func (h *bankedHistory) clear() {
	h.bank.Clear()
}

func (h *bankedHistory) Dump() string {
	return h.bank.Dump()
}
