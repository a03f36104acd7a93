package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtxerr/equalizer/internal/errors"
	"github.com/xtxerr/equalizer/internal/resample"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30*time.Minute, cfg.Resample.BucketWidth.Duration())
	assert.Equal(t, "naive", cfg.Resample.Summation)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Positive(t, cfg.Batch.Workers)
	assert.NoError(t, cfg.Validate(), "default config should be valid")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"width does not divide a day", func(c *Config) { c.Resample.BucketWidth = Duration(7 * time.Minute) }},
		{"negative cap", func(c *Config) { c.Resample.MaxSynthetic = -1 }},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }},
		{"bad compression", func(c *Config) { c.Output.Compression = "brotli" }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.ExitUsage, errors.ExitCode(err))
		})
	}

	cfg := DefaultConfig()
	cfg.Resample.BucketWidth = Duration(7 * time.Minute)
	assert.ErrorIs(t, cfg.Validate(), errors.ErrInvalidBucketWidth)
}

func TestConfigValidateCollectsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resample.Summation = "pairwise"
	cfg.Output.Indent = "--"
	cfg.Batch.Workers = 0

	err := cfg.Validate()
	require.Error(t, err)

	var ve *errors.ValidationErrors
	require.True(t, errors.As(err, &ve), "expected ValidationErrors, got %T", err)
	assert.Equal(t, errors.ExitUsage, errors.ExitCode(err))
}

func TestBatchValidation(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Batch.Jobs = []JobConfig{
		{Input: "a.json", Output: "out.json"},
		{Input: "b.json", Output: "out.json"},
	}
	assert.Error(t, cfg.Batch.Validate(), "shared output")

	cfg.Batch.Jobs = []JobConfig{{Output: "x.json"}}
	assert.ErrorIs(t, cfg.Batch.Validate(), errors.ErrMissingField)

	cfg.Batch.Jobs = []JobConfig{{Name: "site north", Input: "a.json"}}
	assert.Error(t, cfg.Batch.Validate(), "job name with space")

	cfg.Batch.Jobs = []JobConfig{{Input: "a.json", Output: "./a.json"}}
	assert.Error(t, cfg.Batch.Validate(), "output overwriting input")

	cfg.Batch.Jobs = []JobConfig{{Name: "site-a", Input: "a.json"}, {Input: "b.json", Output: "b.parquet"}}
	assert.NoError(t, cfg.Batch.Validate())
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		hasError bool
	}{
		{"30m", 30 * time.Minute, false},
		{"1h", time.Hour, false},
		{"PT30M", 30 * time.Minute, false},
		{"pt15m", 15 * time.Minute, false},
		{"PT1H", time.Hour, false},
		{"", 0, true},
		{"thirty", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if tt.hasError {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}
}

func TestLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "equalizer.yaml")

	configContent := `
resample:
  bucket_width: PT1H
  max_synthetic: 1000
  summation: kahan
output:
  format: parquet
  compression: snappy
  report: /tmp/report.yaml
logging:
  level: debug
  json: true
batch:
  workers: 2
  jobs:
    - name: meter-a
      input: a.json
    - input: b.json
      output: b_resampled.json
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Resample.BucketWidth.Duration())
	assert.Equal(t, 1000, cfg.Resample.MaxSynthetic)
	assert.Equal(t, "parquet", cfg.Output.Format)
	// Unset keys keep their defaults
	assert.Equal(t, "  ", cfg.Output.Indent)
	assert.True(t, cfg.Logging.JSON)

	require.Len(t, cfg.Batch.Jobs, 2)
	assert.Equal(t, "meter-a", cfg.Batch.Jobs[0].Name)
	assert.Equal(t, "b_resampled.json", cfg.Batch.Jobs[1].Output)

	rc, err := cfg.Resample.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, resample.SummationKahan, rc.Summation)

	_, err = resample.New(rc)
	assert.NoError(t, err)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err, "empty config should load defaults")
	assert.Equal(t, 30*time.Minute, cfg.Resample.BucketWidth.Duration())
}

func TestLoadConfigUnknownKey(t *testing.T) {
	_, err := Parse([]byte("resample:\n  bucket: 30m\n"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err), "expected config error, got %v", err)
}
