// Package linecount measures how fast the source can be read at all: it only
// counts terminators, which bounds what any scan can achieve.
package linecount

import (
	"bytes"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dhartunian/1brcgo/internal/segment"
)

// Count returns the number of terminator bytes in data, counted concurrently
// over the same segments the aggregation uses. workers <= 0 means
// GOMAXPROCS.
func Count(data []byte, workers int, terminator byte) uint64 {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var total atomic.Uint64
	var g errgroup.Group
	sep := []byte{terminator}
	for _, seg := range segment.Split(data, workers, terminator) {
		g.Go(func() error {
			total.Add(uint64(bytes.Count(seg.Bytes(data), sep)))
			return nil
		})
	}
	_ = g.Wait()
	return total.Load()
}
