// Package segment splits a corpus into terminator-aligned ranges, one per
// worker.
package segment

import "bytes"

// Segment is the half-open byte range [Start, End) of a corpus.
type Segment struct {
	Start int
	End   int
}

func (s Segment) Len() int { return s.End - s.Start }

// Bytes returns the part of data covered by s.
func (s Segment) Bytes(data []byte) []byte {
	return data[s.Start:s.End:s.End]
}

// Split partitions data into at most workers contiguous segments. Every
// interior boundary falls immediately after a terminator byte, so no record
// straddles two segments. Empty segments are dropped.
func Split(data []byte, workers int, terminator byte) []Segment {
	workers = max(workers, 1)
	n := len(data)
	if n == 0 {
		return nil
	}

	chunk := n / workers
	segments := make([]Segment, 0, workers)
	start := 0
	for i := 1; i <= workers && start < n; i++ {
		end := n
		if i < workers {
			end = alignForward(data, max(i*chunk, start), terminator)
		}
		if start < end {
			segments = append(segments, Segment{Start: start, End: end})
		}
		start = end
	}
	return segments
}

// alignForward returns the offset right after the first terminator at or
// past pos, or len(data) if there is none.
func alignForward(data []byte, pos int, terminator byte) int {
	if pos >= len(data) {
		return len(data)
	}
	idx := bytes.IndexByte(data[pos:], terminator)
	if idx < 0 {
		return len(data)
	}
	return pos + idx + 1
}
