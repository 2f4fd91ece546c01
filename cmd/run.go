package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhartunian/1brcgo/internal/aggregate"
	"github.com/dhartunian/1brcgo/internal/baseline"
	"github.com/dhartunian/1brcgo/internal/config"
	"github.com/dhartunian/1brcgo/internal/reduce"
	"github.com/dhartunian/1brcgo/internal/report"
)

func newRunCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "run <file>",
		Short: "Aggregate a measurements file and print the result per key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runAggregate(cmd, cfg, args[0])
		},
	}
	def := config.Default()
	c.Flags().Int("workers", def.Workers, "number of parallel scanners (0 = GOMAXPROCS)")
	c.Flags().String("reduce", def.Reduce, "how local tables are merged: fold or tree")
	c.Flags().String("format", def.Format, "output format: brc or summary")
	c.Flags().Bool("baseline", def.Baseline, "use the sequential line reader instead of the parallel engine")
	c.Flags().Bool("stats", def.Stats, "print totals and throughput to stderr")
	c.Flags().Bool("gc", def.GC, "leave the garbage collector on")
	return c
}

func runAggregate(cmd *cobra.Command, cfg *config.Config, path string) error {
	if !cfg.GC {
		debug.SetGCPercent(-1)
	}

	start := time.Now()
	var (
		res aggregate.Result
		err error
	)
	if cfg.Baseline {
		res, err = baseline.ReadFile(path)
	} else {
		res, err = aggregate.RunFile(cmd.Context(), path, aggregate.Options{
			Workers: cfg.Workers,
			Reduce:  reduce.Strategy(cfg.Reduce),
		})
	}
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", path, err)
	}
	elapsed := time.Since(start)

	rows := res.Rows()
	if err := report.Write(cmd.OutOrStdout(), rows, report.Format(cfg.Format)); err != nil {
		return err
	}

	slog.Debug("run complete",
		slog.String("file", path),
		slog.Bool("baseline", cfg.Baseline),
		slog.Uint64("records", res.Records),
		slog.Int("keys", len(rows)),
		slog.Duration("elapsed", elapsed))

	if cfg.Stats {
		size, err := fileSize(path)
		if err != nil {
			return err
		}
		return report.WriteStats(cmd.ErrOrStderr(), report.Stats{
			Records: res.Records,
			Keys:    len(rows),
			Bytes:   size,
			Elapsed: elapsed,
		})
	}
	return nil
}

func fileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
