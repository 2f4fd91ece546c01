// Package metrics holds the OpenTelemetry instruments recorded by a run. They
// are no-ops until a MeterProvider is installed.
package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/dhartunian/1brcgo")

var (
	once sync.Once

	bytesScanned   metric.Int64Counter
	recordsScanned metric.Int64Counter
	segmentsRun    metric.Int64Counter
	scanDuration   metric.Float64Histogram
	reduceDuration metric.Float64Histogram
)

func setup() {
	var err error
	if bytesScanned, err = meter.Int64Counter(
		"brc.scan.bytes",
		metric.WithUnit("By"),
		metric.WithDescription("Bytes handed to record scanners"),
	); err != nil {
		slog.Warn("failed to create counter", slog.String("name", "brc.scan.bytes"), slog.Any("error", err))
	}
	if recordsScanned, err = meter.Int64Counter(
		"brc.scan.records",
		metric.WithDescription("Well-formed records aggregated"),
	); err != nil {
		slog.Warn("failed to create counter", slog.String("name", "brc.scan.records"), slog.Any("error", err))
	}
	if segmentsRun, err = meter.Int64Counter(
		"brc.scan.segments",
		metric.WithDescription("Segments scanned"),
	); err != nil {
		slog.Warn("failed to create counter", slog.String("name", "brc.scan.segments"), slog.Any("error", err))
	}
	if scanDuration, err = meter.Float64Histogram(
		"brc.scan.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Time spent scanning one segment"),
	); err != nil {
		slog.Warn("failed to create histogram", slog.String("name", "brc.scan.duration"), slog.Any("error", err))
	}
	if reduceDuration, err = meter.Float64Histogram(
		"brc.reduce.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Time spent merging local tables"),
	); err != nil {
		slog.Warn("failed to create histogram", slog.String("name", "brc.reduce.duration"), slog.Any("error", err))
	}
}

// RecordSegment records one finished scan.
func RecordSegment(ctx context.Context, bytes int, records uint64, elapsed time.Duration) {
	once.Do(setup)
	attrs := metric.WithAttributes(attribute.String("stage", "scan"))
	if bytesScanned != nil {
		bytesScanned.Add(ctx, int64(bytes), attrs)
	}
	if recordsScanned != nil {
		recordsScanned.Add(ctx, int64(records), attrs)
	}
	if segmentsRun != nil {
		segmentsRun.Add(ctx, 1, attrs)
	}
	if scanDuration != nil {
		scanDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

// RecordReduce records the merge phase of a run.
func RecordReduce(ctx context.Context, strategy string, elapsed time.Duration) {
	once.Do(setup)
	if reduceDuration != nil {
		reduceDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("strategy", strategy)))
	}
}
