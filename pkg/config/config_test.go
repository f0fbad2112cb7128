package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/negsel/pkg/detectors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 0.05, cfg.Radius)
	assert.Equal(t, 1000, cfg.Detectors)
	assert.Equal(t, "Iris-setosa", cfg.Classes.Positive)
	assert.Equal(t, []string{"Iris-versicolor"}, cfg.Classes.Negative)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "negsel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
radius: 0.1
detectors: 250
grid_resolution: 32
features:
  x: petal_width
classes:
  positive: normal
  negative: [scan, flood]
log:
  level: debug
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.1, cfg.Radius)
	assert.Equal(t, 250, cfg.Detectors)
	assert.Equal(t, 32, cfg.GridResolution)
	assert.Equal(t, Features{X: "petal_width", Y: "petal_length"}, cfg.Features)
	assert.Equal(t, Classes{Positive: "normal", Negative: []string{"scan", "flood"}}, cfg.Classes)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Console)
	assert.Equal(t, "model.json", cfg.Model)
}

func TestLoadPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "negsel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("radius: 0.1\ndetectors: 250\nseed: 3\n"), 0o644))

	t.Setenv("NEGSEL_DETECTORS", "300")
	t.Setenv("NEGSEL_SEED", "9")
	t.Setenv("NEGSEL_LOG_LEVEL", "warn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Float64("radius", 0.05, "")
	fs.Uint64("seed", 42, "")
	fs.String("log-level", "info", "")
	require.NoError(t, fs.Parse([]string{"--seed=11"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	// unchanged flag: file value wins over the flag default
	assert.Equal(t, 0.1, cfg.Radius)
	// env over file
	assert.Equal(t, 300, cfg.Detectors)
	// changed flag over env
	assert.Equal(t, uint64(11), cfg.Seed)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "read config")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("radius: [1, 2"), 0o644))
	_, err = Load(path, nil)
	assert.ErrorContains(t, err, "read config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"negative radius", func(c *Config) { c.Radius = -1 }, "invalid radius"},
		{"negative detectors", func(c *Config) { c.Detectors = -5 }, "invalid detectors"},
		{"negative grid", func(c *Config) { c.GridResolution = -1 }, "invalid grid_resolution"},
		{"missing feature", func(c *Config) { c.Features.Y = "" }, "features.x and features.y are required"},
		{"missing positive", func(c *Config) { c.Classes.Positive = "" }, "classes.positive is required"},
		{"overlapping classes", func(c *Config) { c.Classes.Negative = append(c.Classes.Negative, c.Classes.Positive) }, "both positive and negative"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	cfg := Default()
	cfg.Radius = -1
	var cfgErr *detectors.ConfigError
	assert.ErrorAs(t, cfg.Validate(), &cfgErr)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "negsel.yaml")

	want := Default()
	want.Radius = 0.2
	want.Classes.Negative = []string{"Iris-versicolor", "Iris-virginica"}
	want.Log.Path = "negsel.log"
	require.NoError(t, want.Write(path))

	got, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.True(t, os.IsExist(want.Write(path)))
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Seed = 7
	assert.Equal(t, detectors.Config{Radius: 0.05, Detectors: 1000, MaxAttempts: 100000, RandomSeed: 7}, cfg.Options())
}
