// Package config loads the YAML configuration of the equalizer CLI.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sosodev/duration"
	"gopkg.in/yaml.v3"

	defaults "github.com/xtxerr/equalizer/config"
	"github.com/xtxerr/equalizer/internal/errors"
)

// Config represents the complete equalizer configuration.
type Config struct {
	// Resample configures the bucketing algorithm.
	Resample ResampleConfig `yaml:"resample"`

	// Output configures how results are written.
	Output OutputConfig `yaml:"output"`

	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Batch lists documents resampled together when no input is given
	// on the command line.
	Batch BatchConfig `yaml:"batch"`
}

// ResampleConfig configures the bucketing algorithm.
type ResampleConfig struct {
	// BucketWidth is the bucket width.
	// Format: "30m", "1h" or ISO-8601 "PT30M"
	BucketWidth Duration `yaml:"bucket_width"`

	// MaxSynthetic caps gap-filling insertions per document. 0 disables it.
	MaxSynthetic int `yaml:"max_synthetic"`

	// Summation is the accumulation mode: naive, kahan.
	Summation string `yaml:"summation"`
}

// OutputConfig configures how results are written.
type OutputConfig struct {
	// Format is the output encoding: json, parquet.
	Format string `yaml:"format"`

	// Indent is the JSON indentation. Empty writes compact JSON.
	Indent string `yaml:"indent"`

	// Compression is the Parquet codec: snappy, zstd, lz4, gzip, none.
	Compression string `yaml:"compression"`

	// Report is an optional path for a YAML run summary.
	Report string `yaml:"report"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `yaml:"level"`

	// JSON switches from text to JSON records.
	JSON bool `yaml:"json"`
}

// BatchConfig configures batch mode.
type BatchConfig struct {
	// Workers is the number of documents processed concurrently.
	Workers int `yaml:"workers"`

	// Jobs lists the documents to process.
	Jobs []JobConfig `yaml:"jobs"`
}

// JobConfig names one document to resample.
type JobConfig struct {
	// Name identifies the job in logs. Defaults to the input path.
	Name string `yaml:"name"`

	// Input is the input document path.
	Input string `yaml:"input"`

	// Output is the output path. Empty derives it from Input.
	Output string `yaml:"output"`
}

// Duration is a time.Duration that unmarshals from Go duration syntax or
// from an ISO-8601 duration.
type Duration time.Duration

// ParseDuration parses "30m" style or "PT30M" style durations.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	if s[0] == 'P' || s[0] == 'p' {
		iso, err := duration.Parse(strings.ToUpper(s))
		if err != nil {
			return 0, fmt.Errorf("parse ISO-8601 duration %q: %w", s, err)
		}
		return iso.ToTimeDuration(), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return d, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration().String(), nil
}

// Duration returns the value as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load loads configuration from a YAML file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read config", path, err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config file: %w: %w", errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Resample: ResampleConfig{
			BucketWidth:  Duration(defaults.DefaultBucketWidth),
			MaxSynthetic: defaults.DefaultMaxSynthetic,
			Summation:    defaults.DefaultSummation,
		},
		Output: OutputConfig{
			Format:      defaults.DefaultOutputFormat,
			Indent:      defaults.DefaultIndent,
			Compression: defaults.DefaultCompression,
		},
		Logging: LoggingConfig{
			Level: defaults.DefaultLogLevel,
		},
		Batch: BatchConfig{
			Workers: defaults.DefaultBatchWorkers,
		},
	}
}
