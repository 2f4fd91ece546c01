// Package reduce combines the local tables produced by the scanners into one
// global table.
package reduce

import (
	"golang.org/x/sync/errgroup"

	"github.com/dhartunian/1brcgo/internal/scan"
	"github.com/dhartunian/1brcgo/internal/table"
)

// Strategy selects how local tables are combined.
type Strategy string

const (
	// StrategyFold merges every table into the largest one on the calling
	// goroutine.
	StrategyFold Strategy = "fold"
	// StrategyTree merges tables pairwise in parallel, halving their number
	// each round.
	StrategyTree Strategy = "tree"
)

func (s Strategy) Valid() bool {
	return s == StrategyFold || s == StrategyTree
}

// Reduce dispatches to Fold or Tree. The inputs are consumed.
func Reduce(results []scan.Result, s Strategy, workers int) (*table.Table, uint64) {
	if s == StrategyTree {
		return Tree(results, workers)
	}
	return Fold(results)
}

// Fold merges all results into the largest table, which becomes the global
// table. Min, max and count do not depend on the order; the sum may differ in
// its last bits.
func Fold(results []scan.Result) (*table.Table, uint64) {
	var total uint64
	base := -1
	for i, r := range results {
		total += r.Records
		if r.Table == nil {
			continue
		}
		if base < 0 || r.Table.Len() > results[base].Table.Len() {
			base = i
		}
	}
	if base < 0 {
		return table.New(0), total
	}

	global := results[base].Table
	for i, r := range results {
		if i != base {
			global.Merge(r.Table)
		}
	}
	return global, total
}

// Tree merges pairs of tables concurrently, at most workers merges at a time,
// until one table is left.
func Tree(results []scan.Result, workers int) (*table.Table, uint64) {
	var total uint64
	tables := make([]*table.Table, 0, len(results))
	for _, r := range results {
		total += r.Records
		if r.Table != nil {
			tables = append(tables, r.Table)
		}
	}
	if len(tables) == 0 {
		return table.New(0), total
	}

	for len(tables) > 1 {
		var g errgroup.Group
		g.SetLimit(max(workers, 1))
		half := (len(tables) + 1) / 2
		for i := 0; i+half < len(tables); i++ {
			dst, src := tables[i], tables[i+half]
			g.Go(func() error {
				dst.Merge(src)
				return nil
			})
		}
		_ = g.Wait()
		tables = tables[:half]
	}
	return tables[0], total
}
