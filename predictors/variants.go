package predictors

import (
	"fmt"

	"github.com/sarchlab/bpsim/bits"
	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/devices"
)

// PrefixSelector selects with the first width bits of the address.
func PrefixSelector(width int) func(bits.Vector) bits.Vector {
	return func(address bits.Vector) bits.Vector {
		return address.Prefix(width)
	}
}

// HashedSelector folds the first addressWidth bits of the address into
// width bits.
func HashedSelector(addressWidth, width int) func(bits.Vector) bits.Vector {
	return func(address bits.Vector) bits.Vector {
		return devices.Fold(address.Prefix(addressWidth), width)
	}
}

// NewGAg creates a predictor with one global history register indexing one
// shared table.
func NewGAg(historyWidth, counterWidth int, opts ...Option) *Predictor {
	return NewPredictor(Scheme{Name: "GAg"}, historyWidth, counterWidth, opts...)
}

// NewGAp creates a predictor with a global history register and one table per
// value of the first prefixWidth address bits.
func NewGAp(historyWidth, counterWidth, prefixWidth int, opts ...Option) *Predictor {
	return NewPredictor(Scheme{
		Name:          "GAp",
		SelectorWidth: prefixWidth,
		Selector:      PrefixSelector(prefixWidth),
	}, historyWidth, counterWidth, opts...)
}

// NewGAs creates a predictor with a global history register and one table per
// set, where the set is the first addressWidth address bits folded into
// selectorWidth bits.
func NewGAs(
	historyWidth, counterWidth, addressWidth, selectorWidth int,
	opts ...Option,
) *Predictor {
	return NewPredictor(Scheme{
		Name:          "GAs",
		SelectorWidth: selectorWidth,
		Selector:      HashedSelector(addressWidth, selectorWidth),
	}, historyWidth, counterWidth, opts...)
}

// NewSAs creates a predictor whose history registers and tables are both
// per set, with the set derived as in NewGAs.
func NewSAs(
	historyWidth, counterWidth, addressWidth, selectorWidth int,
	opts ...Option,
) *Predictor {
	return NewPredictor(Scheme{
		Name:               "SAs",
		SelectorWidth:      selectorWidth,
		Selector:           HashedSelector(addressWidth, selectorWidth),
		PerSelectorHistory: true,
	}, historyWidth, counterWidth, opts...)
}

// NewPAp creates a predictor whose history registers and tables are both per
// address, selected by the first prefixWidth address bits. Its key is the
// address prefix followed by that address's history, so Key(address) starts
// with the prefix that picks the sub-table.
func NewPAp(historyWidth, counterWidth, prefixWidth int, opts ...Option) *Predictor {
	return NewPredictor(Scheme{
		Name:               "PAp",
		SelectorWidth:      prefixWidth,
		Selector:           PrefixSelector(prefixWidth),
		PerSelectorHistory: true,
	}, historyWidth, counterWidth, opts...)
}

// New creates the predictor described by c.
func New(c *config.Config, opts ...Option) (*Predictor, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid predictor config: %w", err)
	}

	switch c.Kind {
	case config.KindGAg:
		return NewGAg(c.HistoryWidth, c.CounterWidth, opts...), nil
	case config.KindGAp:
		return NewGAp(c.HistoryWidth, c.CounterWidth, c.AddressWidth, opts...), nil
	case config.KindGAs:
		return NewGAs(c.HistoryWidth, c.CounterWidth, c.AddressWidth, c.SelectorWidth, opts...), nil
	case config.KindSAs:
		return NewSAs(c.HistoryWidth, c.CounterWidth, c.AddressWidth, c.SelectorWidth, opts...), nil
	case config.KindPAp:
		return NewPAp(c.HistoryWidth, c.CounterWidth, c.AddressWidth, opts...), nil
	}

	return nil, fmt.Errorf("unknown predictor kind %q", c.Kind)
}
