package reduce

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhartunian/1brcgo/internal/scan"
	"github.com/dhartunian/1brcgo/internal/stats"
	"github.com/dhartunian/1brcgo/internal/table"
)

func localResults(n int) []scan.Result {
	results := make([]scan.Result, n)
	for i := range results {
		var data []byte
		for j := 0; j <= i; j++ {
			data = fmt.Appendf(data, "k%d;%d.5\nshared;%d\n", j, i, i)
		}
		results[i] = scan.Scan(data, scan.Default)
	}
	return results
}

func checkReduced(t *testing.T, n int, global *table.Table, total uint64) {
	t.Helper()
	// worker i contributes i+1 k-records and i+1 shared records
	assert.Equal(t, uint64(n*(n+1)), total)
	require.Equal(t, n+1, global.Len())

	shared, ok := global.Get("shared")
	require.True(t, ok)
	assert.Equal(t, uint64(n*(n+1)/2), shared.Count)
	assert.Equal(t, 0.0, shared.Min)
	assert.Equal(t, float64(n-1), shared.Max)

	k0, ok := global.Get("k0")
	require.True(t, ok)
	assert.Equal(t, uint64(n), k0.Count)
	assert.Equal(t, 0.5, k0.Min)
	assert.Equal(t, float64(n-1)+0.5, k0.Max)

	last, ok := global.Get(fmt.Sprintf("k%d", n-1))
	require.True(t, ok)
	assert.Equal(t, stats.New(float64(n-1)+0.5), last)
}

func TestFold(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			global, total := Fold(localResults(n))
			checkReduced(t, n, global, total)
		})
	}
}

func TestTree(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 16} {
		for _, workers := range []int{0, 1, 4} {
			t.Run(fmt.Sprintf("%d/%d", n, workers), func(t *testing.T) {
				global, total := Tree(localResults(n), workers)
				checkReduced(t, n, global, total)
			})
		}
	}
}

func TestReduceEmpty(t *testing.T) {
	for _, s := range []Strategy{StrategyFold, StrategyTree} {
		global, total := Reduce(nil, s, 4)
		assert.Equal(t, 0, global.Len())
		assert.Equal(t, uint64(0), total)
	}
}

func TestStrategiesAgree(t *testing.T) {
	fold, foldTotal := Reduce(localResults(9), StrategyFold, 4)
	tree, treeTotal := Reduce(localResults(9), StrategyTree, 4)
	assert.Equal(t, foldTotal, treeTotal)
	require.Equal(t, fold.Len(), tree.Len())
	fold.Each(func(key string, want stats.Accumulator) {
		got, ok := tree.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want.Min, got.Min)
		assert.Equal(t, want.Max, got.Max)
		assert.Equal(t, want.Count, got.Count)
		assert.InDelta(t, want.Sum, got.Sum, 1e-9)
	})
}

func TestStrategyValid(t *testing.T) {
	assert.True(t, StrategyFold.Valid())
	assert.True(t, StrategyTree.Valid())
	assert.False(t, Strategy("bogus").Valid())
}
