// Package config loads run settings from flags, BRC_* environment variables
// and an optional brc.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dhartunian/1brcgo/internal/reduce"
	"github.com/dhartunian/1brcgo/internal/report"
)

type Config struct {
	// Workers is the number of segments scanned in parallel; 0 means
	// GOMAXPROCS.
	Workers  int    `mapstructure:"workers"`
	Reduce   string `mapstructure:"reduce"`
	Format   string `mapstructure:"format"`
	Baseline bool   `mapstructure:"baseline"`
	Stats    bool   `mapstructure:"stats"`
	// GC false switches the garbage collector off for the run.
	GC    bool `mapstructure:"gc"`
	Debug bool `mapstructure:"debug"`
}

func Default() Config {
	return Config{
		Reduce: string(reduce.StrategyFold),
		Format: string(report.FormatBRC),
		GC:     true,
	}
}

// Load merges, lowest precedence first: defaults, brc.yaml (or the file named
// by the "config" flag), BRC_* environment variables, then flags that were
// set explicitly. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	def := Default()
	v := viper.New()
	v.SetDefault("workers", def.Workers)
	v.SetDefault("reduce", def.Reduce)
	v.SetDefault("format", def.Format)
	v.SetDefault("baseline", def.Baseline)
	v.SetDefault("stats", def.Stats)
	v.SetDefault("gc", def.GC)
	v.SetDefault("debug", def.Debug)

	v.SetEnvPrefix("BRC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	explicit := false
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			explicit = true
		}
		flags.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" {
				return
			}
			_ = v.BindPFlag(f.Name, f)
		})
	}
	if !explicit {
		v.SetConfigName("brc")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &def
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if !reduce.Strategy(c.Reduce).Valid() {
		return fmt.Errorf("unknown reduce strategy %q (want %q or %q)", c.Reduce, reduce.StrategyFold, reduce.StrategyTree)
	}
	if !report.Format(c.Format).Valid() {
		return fmt.Errorf("unknown format %q (want %q or %q)", c.Format, report.FormatBRC, report.FormatSummary)
	}
	return nil
}
