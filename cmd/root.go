package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhartunian/1brcgo/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brc",
		Short: "Per-key min/mean/max over key;value measurement files",
		Long: `Computes the minimum, mean and maximum value per key of a file of
"key;value" lines, scanning the memory-mapped file on every core.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file (default ./brc.yaml)")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	root.AddCommand(newRunCmd(), newLinesCmd())
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration for cmd and installs the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)).With(
		slog.String("service", "brc"),
	))
}
