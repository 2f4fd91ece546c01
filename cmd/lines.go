package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhartunian/1brcgo/internal/linecount"
	"github.com/dhartunian/1brcgo/internal/scan"
	"github.com/dhartunian/1brcgo/internal/source"
)

// how fast can we do just the io part?
func newLinesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "lines <file>",
		Short: "Count lines with the parallel reader only, as a throughput ceiling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return countLines(cmd.OutOrStdout(), args[0], cfg.Workers)
		},
	}
	c.Flags().Int("workers", 0, "number of parallel counters (0 = GOMAXPROCS)")
	return c
}

// countLines maps path, counts its lines and writes the count to w. Errors
// unmapping or closing the file are returned too.
func countLines(w io.Writer, path string, workers int) (err error) {
	start := time.Now()
	src, err := source.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	n := linecount.Count(src.Bytes(), workers, scan.Default.Terminator())
	slog.Debug("counted lines",
		slog.String("file", path),
		slog.Int("bytes", src.Len()),
		slog.Duration("elapsed", time.Since(start)))
	_, err = fmt.Fprintln(w, n)
	return err
}
