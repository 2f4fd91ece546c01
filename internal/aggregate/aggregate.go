// Package aggregate runs the fork-join pipeline: split the source into
// segments, scan each on its own goroutine, then reduce the local tables.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dhartunian/1brcgo/internal/metrics"
	"github.com/dhartunian/1brcgo/internal/reduce"
	"github.com/dhartunian/1brcgo/internal/result"
	"github.com/dhartunian/1brcgo/internal/scan"
	"github.com/dhartunian/1brcgo/internal/segment"
	"github.com/dhartunian/1brcgo/internal/source"
	"github.com/dhartunian/1brcgo/internal/table"
)

// ErrSourceFault is returned when reading the source faults, e.g. a mapped
// file was truncated while it was being scanned.
var ErrSourceFault = errors.New("source fault")

// Result is the global table and the number of records that went into it.
type Result struct {
	Table   *table.Table
	Records uint64
}

// Rows returns the sorted view of r.
func (r Result) Rows() []result.Row {
	return result.View(r.Table)
}

type Options struct {
	// Workers is the number of segments scanned concurrently. Zero means
	// GOMAXPROCS.
	Workers int
	// Reduce defaults to reduce.StrategyFold.
	Reduce reduce.Strategy
	// Parser defaults to scan.Default.
	Parser scan.Parser
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if !o.Reduce.Valid() {
		o.Reduce = reduce.StrategyFold
	}
	if o.Parser == nil {
		o.Parser = scan.Default
	}
	return o
}

// Aggregate computes per-key statistics of in-memory data with the given
// number of workers.
func Aggregate(data []byte, workers int) Result {
	res, err := run(context.Background(), data, Options{Workers: workers})
	if err != nil {
		// heap memory does not fault
		panic(err)
	}
	return res
}

// Run aggregates src. The only error is a fault while reading src; no partial
// result is returned in that case.
func Run(ctx context.Context, src source.Source, opts Options) (Result, error) {
	return run(ctx, src.Bytes(), opts)
}

// RunFile maps the named file and aggregates it.
func RunFile(ctx context.Context, path string, opts Options) (res Result, err error) {
	src, err := source.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Run(ctx, src, opts)
}

func run(ctx context.Context, data []byte, opts Options) (Result, error) {
	opts = opts.withDefaults()
	var segments []segment.Segment
	if err := guard(func() {
		segments = segment.Split(data, opts.Workers, opts.Parser.Terminator())
	}); err != nil {
		return Result{}, fmt.Errorf("split: %w", err)
	}
	slog.Debug("split source",
		slog.Int("bytes", len(data)),
		slog.Int("workers", opts.Workers),
		slog.Int("segments", len(segments)))

	results := make([]scan.Result, len(segments))
	var g errgroup.Group
	for i, seg := range segments {
		g.Go(func() error {
			return scanSegment(ctx, data, i, seg, opts.Parser, &results[i])
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	global, records := reduce.Reduce(results, opts.Reduce, opts.Workers)
	elapsed := time.Since(start)
	metrics.RecordReduce(ctx, string(opts.Reduce), elapsed)
	slog.Debug("reduced local tables",
		slog.String("strategy", string(opts.Reduce)),
		slog.Int("keys", global.Len()),
		slog.Uint64("records", records),
		slog.Duration("elapsed", elapsed))

	return Result{Table: global, Records: records}, nil
}

func scanSegment(ctx context.Context, data []byte, i int, seg segment.Segment, p scan.Parser, out *scan.Result) error {
	start := time.Now()
	if err := guard(func() { *out = scan.ScanSegment(data, seg, p) }); err != nil {
		return fmt.Errorf("segment %d [%d,%d): %w", i, seg.Start, seg.End, err)
	}
	elapsed := time.Since(start)
	metrics.RecordSegment(ctx, seg.Len(), out.Records, elapsed)
	slog.Debug("scanned segment",
		slog.Int("segment", i),
		slog.Int("start", seg.Start),
		slog.Int("end", seg.End),
		slog.Uint64("records", out.Records),
		slog.Int("keys", out.Table.Len()),
		slog.Duration("elapsed", elapsed))
	return nil
}

// guard runs fn on the current goroutine and turns a memory fault while
// reading the source into ErrSourceFault. Other panics propagate.
func guard(fn func()) (err error) {
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if fault, ok := r.(interface{ Addr() uintptr }); ok {
			err = fmt.Errorf("%w at %#x", ErrSourceFault, fault.Addr())
			return
		}
		panic(r)
	}()
	fn()
	return nil
}
