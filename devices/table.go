package devices

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sarchlab/bpsim/bits"
)

// Cache is an associative store from a bit-vector key to a fixed-width block.
type Cache interface {
	Dumper

	// Get returns a copy of the block stored at key.
	Get(key bits.Vector) (bits.Vector, bool)

	// Put stores value at key, replacing any previous block.
	Put(key, value bits.Vector) error

	// PutIfAbsent stores value at key only if key holds no block.
	PutIfAbsent(key, value bits.Vector) error

	// SetDefault returns the block stored at key. If there is none, def is
	// stored and returned.
	SetDefault(key, def bits.Vector) (bits.Vector, error)

	// Clear removes all entries.
	Clear()

	// Len returns the number of stored entries.
	Len() int
}

type tableEntry struct {
	key   bits.Vector
	value bits.Vector
}

// HistoryTable is a pattern history table keyed by the exact bit sequence of
// the key.
//
// The row count is sizing metadata only. The table does not check keys
// against it, so keys wider than log2(rows) simply add more entries.
type HistoryTable struct {
	rows       int
	blockWidth int
	entries    map[string]tableEntry
}

// NewHistoryTable creates an empty table whose blocks are blockWidth bits wide.
func NewHistoryTable(rows, blockWidth int) *HistoryTable {
	return &HistoryTable{
		rows:       rows,
		blockWidth: blockWidth,
		entries:    make(map[string]tableEntry),
	}
}

// Rows returns the advisory row count.
func (t *HistoryTable) Rows() int {
	return t.rows
}

// BlockWidth returns the width every stored block must have.
func (t *HistoryTable) BlockWidth() int {
	return t.blockWidth
}

// Len returns the number of stored entries.
func (t *HistoryTable) Len() int {
	return len(t.entries)
}

// Get returns a copy of the block stored at key.
func (t *HistoryTable) Get(key bits.Vector) (bits.Vector, bool) {
	e, ok := t.entries[key.String()]
	if !ok {
		return nil, false
	}
	return e.value.Clone(), true
}

// Put stores a copy of value at key.
func (t *HistoryTable) Put(key, value bits.Vector) error {
	if len(value) != t.blockWidth {
		return fmt.Errorf("invalid number of bits for cache block: got %d, want %d: %w",
			len(value), t.blockWidth, ErrLengthMismatch)
	}

	t.entries[key.String()] = tableEntry{
		key:   key.Clone(),
		value: value.Clone(),
	}
	return nil
}

// PutIfAbsent stores value at key only if key holds no block.
func (t *HistoryTable) PutIfAbsent(key, value bits.Vector) error {
	if _, ok := t.entries[key.String()]; ok {
		return nil
	}
	return t.Put(key, value)
}

// SetDefault returns the block at key, inserting def first if key is absent.
func (t *HistoryTable) SetDefault(key, def bits.Vector) (bits.Vector, error) {
	if def == nil {
		return nil, ErrNilDefault
	}

	if err := t.PutIfAbsent(key, def); err != nil {
		return nil, err
	}

	value, _ := t.Get(key)
	return value, nil
}

// Clear removes all entries.
func (t *HistoryTable) Clear() {
	clear(t.entries)
}

// Keys returns the stored keys in canonical string order.
func (t *HistoryTable) Keys() []bits.Vector {
	names := slices.Sorted(maps.Keys(t.entries))
	keys := make([]bits.Vector, 0, len(names))
	for _, name := range names {
		keys = append(keys, t.entries[name].key.Clone())
	}
	return keys
}

const tableRule = "+-----------------------------------+\n"

// Dump lists every entry in key order. Keys longer than 16 bits are shown by
// their last 16 bits.
func (t *HistoryTable) Dump() string {
	var sb strings.Builder
	sb.WriteString(tableRule)
	fmt.Fprintf(&sb, "| %-20s | %-10s |\n", "Address", "Block")
	sb.WriteString("|----------------------|------------|\n")

	for _, name := range slices.Sorted(maps.Keys(t.entries)) {
		address := name
		if len(address) > 16 {
			address = address[len(address)-16:]
		}
		fmt.Fprintf(&sb, "| %-20s | %-10s |\n", address, t.entries[name].value)
		sb.WriteString(tableRule)
	}

	return sb.String()
}
