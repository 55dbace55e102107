// Package devices models the storage elements shared by every predictor
// variant: shift registers, saturating counters, register banks, and the
// associative history tables that map composite keys to counter states.
//
// All devices are plain in-memory state owned by a single predictor. None of
// them is safe for concurrent use.
package devices

import "errors"

var (
	// ErrLengthMismatch is returned when a value's width disagrees with the
	// fixed width of the register or table block it is written to.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrNotAssociated is returned when writing to a selector whose
	// sub-table or sub-register has never been provisioned by a read.
	ErrNotAssociated = errors.New("selector not associated")

	// ErrNilDefault is returned when a default-insert is requested without a
	// default value.
	ErrNilDefault = errors.New("default block can not be nil")
)

// A Dumper can render a human-readable snapshot of its current contents.
// Dumping never mutates state.
type Dumper interface {
	Dump() string
}
