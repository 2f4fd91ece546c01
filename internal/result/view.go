// Package result projects the global table into a sorted, read-only view.
package result

import (
	"sort"

	"github.com/dhartunian/1brcgo/internal/stats"
	"github.com/dhartunian/1brcgo/internal/table"
)

// Row is the summary for one key.
type Row struct {
	Key   string
	Min   float64
	Max   float64
	Mean  float64
	Count uint64
}

func rowOf(key string, acc stats.Accumulator) Row {
	return Row{Key: key, Min: acc.Min, Max: acc.Max, Mean: acc.Mean(), Count: acc.Count}
}

// View returns one row per key, ordered by the key's bytes.
func View(t *table.Table) []Row {
	rows := make([]Row, 0, t.Len())
	t.Each(func(key string, acc stats.Accumulator) {
		rows = append(rows, rowOf(key, acc))
	})
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})
	return rows
}
