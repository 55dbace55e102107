package devices

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sarchlab/bpsim/bits"
)

// PartitionedTable is a table of history tables. The first selectorWidth bits
// of a key pick a sub-table; the remaining bits index into it.
//
// Sub-tables are created only by PutIfAbsent and SetDefault, that is, when a
// prediction first reads a row. Put on a selector that was never read fails
// with ErrNotAssociated.
type PartitionedTable struct {
	selectorWidth int
	rowsPerTable  int
	blockWidth    int
	tables        map[string]*HistoryTable
}

// NewPartitionedTable creates an empty partitioned table.
func NewPartitionedTable(selectorWidth, rowsPerTable, blockWidth int) *PartitionedTable {
	return &PartitionedTable{
		selectorWidth: selectorWidth,
		rowsPerTable:  rowsPerTable,
		blockWidth:    blockWidth,
		tables:        make(map[string]*HistoryTable),
	}
}

// SelectorWidth returns the number of leading key bits that select a
// sub-table.
func (t *PartitionedTable) SelectorWidth() int {
	return t.selectorWidth
}

// BlockWidth returns the width every stored block must have.
func (t *PartitionedTable) BlockWidth() int {
	return t.blockWidth
}

// Tables returns the number of provisioned sub-tables.
func (t *PartitionedTable) Tables() int {
	return len(t.tables)
}

// Len returns the number of entries across all sub-tables.
func (t *PartitionedTable) Len() int {
	n := 0
	for _, table := range t.tables {
		n += table.Len()
	}
	return n
}

// Table returns the sub-table for a selector, if it has been provisioned.
func (t *PartitionedTable) Table(selector bits.Vector) (*HistoryTable, bool) {
	table, ok := t.tables[selector.String()]
	return table, ok
}

func (t *PartitionedTable) split(key bits.Vector) (string, bits.Vector) {
	return key.Prefix(t.selectorWidth).String(), key.Suffix(t.selectorWidth)
}

// Get returns the block at key. A key whose selector has no sub-table is
// absent.
func (t *PartitionedTable) Get(key bits.Vector) (bits.Vector, bool) {
	selector, index := t.split(key)

	table, ok := t.tables[selector]
	if !ok {
		return nil, false
	}
	return table.Get(index)
}

// Put stores value at key. The selector's sub-table must already exist.
func (t *PartitionedTable) Put(key, value bits.Vector) error {
	if len(value) != t.blockWidth {
		return fmt.Errorf("invalid number of bits for cache block: got %d, want %d: %w",
			len(value), t.blockWidth, ErrLengthMismatch)
	}

	selector, index := t.split(key)

	table, ok := t.tables[selector]
	if !ok {
		return fmt.Errorf("no history table for selector %q: %w",
			selector, ErrNotAssociated)
	}
	return table.Put(index, value)
}

// PutIfAbsent provisions the selector's sub-table if needed and stores value
// at key if key holds no block.
func (t *PartitionedTable) PutIfAbsent(key, value bits.Vector) error {
	if len(value) != t.blockWidth {
		return fmt.Errorf("invalid number of bits for cache block: got %d, want %d: %w",
			len(value), t.blockWidth, ErrLengthMismatch)
	}

	selector, index := t.split(key)

	table, ok := t.tables[selector]
	if !ok {
		table = NewHistoryTable(t.rowsPerTable, t.blockWidth)
		t.tables[selector] = table
	}
	return table.PutIfAbsent(index, value)
}

// SetDefault returns the block at key, provisioning the sub-table and
// inserting def first if needed.
func (t *PartitionedTable) SetDefault(key, def bits.Vector) (bits.Vector, error) {
	if def == nil {
		return nil, ErrNilDefault
	}

	if err := t.PutIfAbsent(key, def); err != nil {
		return nil, err
	}

	value, _ := t.Get(key)
	return value, nil
}

// Clear clears and discards every sub-table.
func (t *PartitionedTable) Clear() {
	for _, table := range t.tables {
		table.Clear()
	}
	clear(t.tables)
}

// Dump renders each sub-table under its selector, in selector order.
func (t *PartitionedTable) Dump() string {
	var sb strings.Builder
	for _, selector := range slices.Sorted(maps.Keys(t.tables)) {
		fmt.Fprintf(&sb, "PHT for selector: %s\n", selector)
		sb.WriteString(t.tables[selector].Dump())
		sb.WriteString("\n")
	}
	return sb.String()
}
