// Package scan turns one segment of the corpus into a local table of
// per-key statistics.
package scan

import (
	"unicode/utf8"

	"github.com/dhartunian/1brcgo/internal/segment"
	"github.com/dhartunian/1brcgo/internal/table"
)

// Result is what a single scan produces. Records counts only the records that
// made it into Table.
type Result struct {
	Table   *table.Table
	Records uint64
}

// Scan parses every record in data. Malformed records (see Parser) and
// records whose key is not UTF-8 or whose value is not a finite number are
// skipped without being counted.
func Scan(data []byte, p Parser) Result {
	t := table.New(0)
	var records uint64
	for len(data) > 0 {
		key, value, n, ok := p.Next(data)
		data = data[n:]
		if !ok || !utf8.Valid(key) {
			continue
		}
		v, ok := ParseValue(value)
		if !ok {
			continue
		}
		t.Observe(key, v)
		records++
	}
	return Result{Table: t, Records: records}
}

// ScanSegment scans the part of data covered by seg.
func ScanSegment(data []byte, seg segment.Segment, p Parser) Result {
	return Scan(seg.Bytes(data), p)
}
