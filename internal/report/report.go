// Package report renders a result view for people.
package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dhartunian/1brcgo/internal/result"
)

type Format string

const (
	// FormatBRC prints "key=min/mean/max" with one decimal.
	FormatBRC Format = "brc"
	// FormatSummary prints one labelled line per key, with counts.
	FormatSummary Format = "summary"
)

func (f Format) Valid() bool {
	return f == FormatBRC || f == FormatSummary
}

// Write renders rows to w in the given format.
func Write(w io.Writer, rows []result.Row, f Format) error {
	if !f.Valid() {
		return fmt.Errorf("unknown report format %q", f)
	}
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		var err error
		switch f {
		case FormatSummary:
			_, err = fmt.Fprintf(bw, "City: %s, Min: %.2f, Max: %.2f, Average: %.2f, Count: %d\n",
				r.Key, r.Min, r.Max, r.Mean, r.Count)
		default:
			_, err = fmt.Fprintf(bw, "%s=%.1f/%.1f/%.1f\n", r.Key, r.Min, r.Mean, r.Max)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Stats summarizes a run.
type Stats struct {
	Records uint64
	Keys    int
	Bytes   int64
	Elapsed time.Duration
}

// WriteStats renders totals and throughput.
func WriteStats(w io.Writer, s Stats) error {
	secs := s.Elapsed.Seconds()
	var rate, bw float64
	if secs > 0 {
		rate = float64(s.Records) / secs
		bw = float64(s.Bytes) / secs
	}
	_, err := fmt.Fprintf(w,
		"Total lines processed: %s\nUnique keys: %s\nTotal time: %s\nProcessing rate: %s lines/second (%s/s)\n",
		humanize.Comma(int64(s.Records)),
		humanize.Comma(int64(s.Keys)),
		s.Elapsed.Round(time.Millisecond),
		humanize.Comma(int64(rate)),
		humanize.Bytes(uint64(bw)),
	)
	return err
}
