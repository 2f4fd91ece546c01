package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.Int("workers", 0, "")
	fs.String("reduce", "fold", "")
	fs.String("format", "brc", "")
	fs.Bool("gc", true, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BRC_WORKERS", "12")
	t.Setenv("BRC_REDUCE", "tree")
	t.Setenv("BRC_GC", "false")

	cfg, err := Load(testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Workers)
	assert.Equal(t, "tree", cfg.Reduce)
	assert.False(t, cfg.GC)
	assert.Equal(t, "brc", cfg.Format)
}

func TestLoadFlagsBeatEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BRC_WORKERS", "12")

	cfg, err := Load(testFlags(t, "--workers=3", "--format=summary"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "summary", cfg.Format)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brc.yaml"), []byte("workers: 6\nstats: true\n"), 0o644))

	cfg, err := Load(testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Workers)
	assert.True(t, cfg.Stats)

	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("reduce: tree\n"), 0o644))
	cfg, err = Load(testFlags(t, "--config", other))
	require.NoError(t, err)
	assert.Equal(t, "tree", cfg.Reduce)
	assert.Equal(t, 0, cfg.Workers)

	_, err = Load(testFlags(t, "--config", filepath.Join(dir, "missing.yaml")))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		ok   bool
	}{
		{"default", func(*Config) {}, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, false},
		{"bad reduce", func(c *Config) { c.Reduce = "zigzag" }, false},
		{"bad format", func(c *Config) { c.Format = "xml" }, false},
		{"tree summary", func(c *Config) { c.Reduce = "tree"; c.Format = "summary" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mod(&c)
			if tt.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}
