// Package predictors implements the two-level adaptive branch predictors
// (GAg, GAp, GAs, SAs, PAp) on top of the devices package.
//
// Every variant is a Predictor configured by a Scheme. A Scheme decides how a
// branch address becomes a table selector and whether the history register is
// global or kept per selector. The composite table key is always the selector
// followed by the selected history.
//
// A branch occurrence is handled in two steps. Predict reads the history,
// provisions a zero counter for an unseen key, loads it into the counter view,
// and returns the counter's most significant bit. Update must follow with the
// same address: it counts the actual outcome into the counter view, writes the
// counter back at the same key, and shifts the outcome into the history.
// Update without a preceding Predict is allowed and counts whatever the
// counter view last held, but on partitioned tables it fails with
// devices.ErrNotAssociated if the key's selector was never read.
//
// A Predictor is not safe for concurrent use.
package predictors

import (
	"fmt"
	"math"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/bits"
	"github.com/sarchlab/bpsim/devices"
)

// HookPosPredict marks a completed prediction.
var HookPosPredict = &sim.HookPos{Name: "Predict"}

// HookPosUpdate marks a completed update.
var HookPosUpdate = &sim.HookPos{Name: "Update"}

// HookPosClear marks that the predictor state was cleared.
var HookPosClear = &sim.HookPos{Name: "Clear"}

// Event is the hook item for HookPosPredict and HookPosUpdate. Counter is the
// counter block after the operation. Actual is only meaningful for updates.
type Event struct {
	Predictor string
	Address   bits.Vector
	Key       bits.Vector
	Counter   bits.Vector
	Predicted Result
	Actual    Result
}

// Scheme describes how a predictor variant composes its table key.
type Scheme struct {
	// Name labels snapshots and hook events.
	Name string

	// SelectorWidth is the number of selector bits in front of the history.
	// Zero means the variant uses a single shared table.
	SelectorWidth int

	// Selector derives the selector from a branch address. It must be pure.
	// Unused when SelectorWidth is zero.
	Selector func(address bits.Vector) bits.Vector

	// PerSelectorHistory keeps one history register per selector instead of
	// a single global register.
	PerSelectorHistory bool
}

// Option configures a Predictor.
type Option func(p *Predictor)

// WithHook registers a hook on the predictor.
func WithHook(hook sim.Hook) Option {
	return func(p *Predictor) {
		p.AcceptHook(hook)
	}
}

// WithName overrides the scheme name used in snapshots and events.
func WithName(name string) Option {
	return func(p *Predictor) {
		p.scheme.Name = name
	}
}

// Predictor is a two-level adaptive branch predictor.
type Predictor struct {
	*sim.HookableBase

	scheme  Scheme
	history historyStore
	counter *devices.SaturatingCounter
	table   devices.Cache
	stats   Stats
}

// NewPredictor builds a predictor for a scheme with historyWidth-bit history
// registers and counterWidth-bit saturating counters.
func NewPredictor(
	scheme Scheme,
	historyWidth, counterWidth int,
	opts ...Option,
) *Predictor {
	p := &Predictor{
		HookableBase: sim.NewHookableBase(),
		scheme:       scheme,
		counter:      devices.NewSaturatingCounter("sc", counterWidth, nil),
	}

	if scheme.PerSelectorHistory {
		p.history = &bankedHistory{
			bank: devices.NewRegisterBank("bhr", historyWidth),
		}
	} else {
		p.history = &globalHistory{
			bhr: devices.NewShiftRegister("bhr", historyWidth, nil),
		}
	}

	rows := rowsFor(historyWidth)
	if scheme.SelectorWidth == 0 {
		p.table = devices.NewHistoryTable(rows, counterWidth)
	} else {
		p.table = devices.NewPartitionedTable(scheme.SelectorWidth, rows, counterWidth)
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func rowsFor(historyWidth int) int {
	if historyWidth >= 62 {
		return math.MaxInt
	}
	return 1 << historyWidth
}

// Name returns the variant name.
func (p *Predictor) Name() string {
	return p.scheme.Name
}

// Table returns the pattern history table.
func (p *Predictor) Table() devices.Cache {
	return p.table
}

// Counter returns a copy of the counter view.
func (p *Predictor) Counter() bits.Vector {
	return p.counter.Read()
}

// History returns a copy of the history that applies to address.
func (p *Predictor) History(address bits.Vector) bits.Vector {
	return p.history.read(p.selector(address))
}

// Stats returns the predictor statistics.
func (p *Predictor) Stats() Stats {
	return p.stats
}

// ResetStats zeroes the statistics without touching predictor state.
func (p *Predictor) ResetStats() {
	p.stats = Stats{}
}

func (p *Predictor) selector(address bits.Vector) bits.Vector {
	if p.scheme.SelectorWidth == 0 || p.scheme.Selector == nil {
		return bits.Vector{}
	}
	return p.scheme.Selector(address)
}

// Key returns the composite table key for address under the current history.
func (p *Predictor) Key(address bits.Vector) bits.Vector {
	sel := p.selector(address)
	return bits.Concat(sel, p.history.read(sel))
}

// Predict returns the predicted direction for inst.
func (p *Predictor) Predict(inst Instruction) (Result, error) {
	key := p.Key(inst.Address)

	block, err := p.table.SetDefault(key, bits.Zeros(p.counter.Len()))
	if err != nil {
		return NotTaken, fmt.Errorf("%s predict at key %s: %w", p.scheme.Name, key, err)
	}

	if err := p.counter.Load(block); err != nil {
		return NotTaken, fmt.Errorf("%s predict at key %s: %w", p.scheme.Name, key, err)
	}

	result := FromBit(block.MSB())
	p.stats.Predictions++

	p.invoke(HookPosPredict, Event{
		Predictor: p.scheme.Name,
		Address:   inst.Address.Clone(),
		Key:       key,
		Counter:   block,
		Predicted: result,
	})

	return result, nil
}

// Update trains the predictor with the actual direction of inst.
func (p *Predictor) Update(inst Instruction, actual Result) error {
	sel := p.selector(inst.Address)
	key := bits.Concat(sel, p.history.read(sel))

	before := p.counter.Read()
	predicted := FromBit(before.MSB())

	p.counter.Insert(actual.Bit())
	after := p.counter.Read()

	if err := p.table.Put(key, after); err != nil {
		_ = p.counter.Load(before)
		return fmt.Errorf("%s update at key %s: %w", p.scheme.Name, key, err)
	}

	if err := p.history.advance(sel, actual.Bit()); err != nil {
		return fmt.Errorf("%s update history for selector %s: %w", p.scheme.Name, sel, err)
	}

	p.stats.Updates++
	if predicted == actual {
		p.stats.Correct++
	} else {
		p.stats.Mispredictions++
	}

	p.invoke(HookPosUpdate, Event{
		Predictor: p.scheme.Name,
		Address:   inst.Address.Clone(),
		Key:       key,
		Counter:   after,
		Predicted: predicted,
		Actual:    actual,
	})

	return nil
}

// PredictAndUpdate predicts inst and then trains with actual. It returns the
// prediction made before training.
func (p *Predictor) PredictAndUpdate(inst Instruction, actual Result) (Result, error) {
	predicted, err := p.Predict(inst)
	if err != nil {
		return predicted, err
	}

	if err := p.Update(inst, actual); err != nil {
		return predicted, err
	}

	return predicted, nil
}

// Clear resets history, counter, table, and statistics.
func (p *Predictor) Clear() {
	p.history.clear()
	p.counter.Clear()
	p.table.Clear()
	p.stats = Stats{}

	p.invoke(HookPosClear, nil)
}

// Dump returns a snapshot of the history, counter, and table contents.
func (p *Predictor) Dump() string {
	return fmt.Sprintf("%s predictor snapshot:\n%sSC: %s\n%s",
		p.scheme.Name, p.history.Dump(), p.counter.Dump(), p.table.Dump())
}

func (p *Predictor) invoke(pos *sim.HookPos, item interface{}) {
	p.InvokeHook(sim.HookCtx{
		Domain: p,
		Pos:    pos,
		Item:   item,
	})
}
