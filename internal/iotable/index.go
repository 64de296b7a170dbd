package iotable

import "github.com/KevinKickass/OpenPanelIO/internal/types"

// Index maps a device key to the positions of its rows in one channel table
// snapshot. Keys never change on re-assignment, so an index stays valid for
// every snapshot derived from the table it was built on.
type Index struct {
	positions map[string][]int
	size      int
}

func BuildIndex(table []types.ChannelAssignment) *Index {
	idx := &Index{
		positions: make(map[string][]int),
		size:      len(table),
	}
	for i, row := range table {
		idx.positions[row.DeviceKey] = append(idx.positions[row.DeviceKey], i)
	}
	return idx
}

// Positions returns the row positions for key in table order.
func (idx *Index) Positions(key string) []int {
	return idx.positions[key]
}

// Rows resolves key against table. table must be the indexed table or a
// re-assigned copy of it.
func (idx *Index) Rows(key string, table []types.ChannelAssignment) []types.ChannelAssignment {
	positions := idx.positions[key]
	rows := make([]types.ChannelAssignment, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, table[p])
	}
	return rows
}

func (idx *Index) Keys() int {
	return len(idx.positions)
}

// Covers reports whether the index was built for a table of this length.
func (idx *Index) Covers(table []types.ChannelAssignment) bool {
	return idx.size == len(table)
}
