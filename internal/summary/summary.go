// Package summary computes run statistics over resampled bucket means.
package summary

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"
	"gopkg.in/yaml.v3"

	"github.com/xtxerr/equalizer/config"
	"github.com/xtxerr/equalizer/internal/resample"
)

// Stats maintains running statistics over bucket means.
// Percentiles come from a DDSketch; nil sketch disables them.
type Stats struct {
	count int64
	sum   float64
	min   float64
	max   float64

	sketch *ddsketch.DDSketch
}

// NewStats creates Stats with percentile tracking at the given relative
// accuracy. A non-positive accuracy disables percentiles.
func NewStats(accuracy float64) *Stats {
	s := &Stats{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}

	if accuracy > 0 {
		sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
		if err == nil {
			s.sketch = sketch
		}
	}

	return s
}

// Add adds a value.
func (s *Stats) Add(value float64) {
	s.count++
	s.sum += value

	if value < s.min {
		s.min = value
	}
	if value > s.max {
		s.max = value
	}

	// DDSketch rejects NaN and infinities.
	if s.sketch != nil && !math.IsNaN(value) && !math.IsInf(value, 0) {
		s.sketch.Add(value)
	}
}

// Count returns the number of values added.
func (s *Stats) Count() int64 {
	return s.count
}

// Quantile returns the value at quantile q, or false if percentiles are
// disabled or nothing was added.
func (s *Stats) Quantile(q float64) (float64, bool) {
	if s.sketch == nil || s.sketch.IsEmpty() {
		return 0, false
	}
	v, err := s.sketch.GetValueAtQuantile(q)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Values holds the distribution of emitted bucket means.
type Values struct {
	Min  float64  `yaml:"min"`
	Max  float64  `yaml:"max"`
	Mean float64  `yaml:"mean"`
	P50  *float64 `yaml:"p50,omitempty"`
	P90  *float64 `yaml:"p90,omitempty"`
	P99  *float64 `yaml:"p99,omitempty"`
}

// Summary describes one resampling run.
type Summary struct {
	Input            string        `yaml:"input,omitempty"`
	Output           string        `yaml:"output,omitempty"`
	BucketWidth      time.Duration `yaml:"bucket_width"`
	InputSamples     int           `yaml:"input_samples"`
	SyntheticSamples int           `yaml:"synthetic_samples"`
	Emitted          int           `yaml:"emitted_buckets"`
	Dropped          []time.Time   `yaml:"dropped_buckets,omitempty"`
	Values           *Values       `yaml:"values,omitempty"`
}

// FromResult builds the summary of res.
func FromResult(res *resample.Result) *Summary {
	return FromResultWithAccuracy(res, config.DefaultSketchAccuracy)
}

// FromResultWithAccuracy builds the summary of res with a custom percentile
// accuracy.
func FromResultWithAccuracy(res *resample.Result, accuracy float64) *Summary {
	sum := &Summary{
		BucketWidth:      res.BucketWidth,
		InputSamples:     res.InputSamples,
		SyntheticSamples: res.SyntheticSamples,
		Emitted:          len(res.Points),
		Dropped:          res.Dropped,
	}

	if len(res.Points) == 0 {
		return sum
	}

	stats := NewStats(accuracy)
	for _, p := range res.Points {
		stats.Add(p.Value)
	}

	sum.Values = &Values{
		Min:  stats.min,
		Max:  stats.max,
		Mean: stats.sum / float64(stats.count),
	}
	if v, ok := stats.Quantile(0.50); ok {
		sum.Values.P50 = &v
	}
	if v, ok := stats.Quantile(0.90); ok {
		sum.Values.P90 = &v
	}
	if v, ok := stats.Quantile(0.99); ok {
		sum.Values.P99 = &v
	}

	return sum
}

// DroppedCount returns the number of incomplete buckets dropped.
func (s *Summary) DroppedCount() int {
	return len(s.Dropped)
}

// Log writes the summary at info level.
func (s *Summary) Log(log *slog.Logger) {
	args := []any{
		"input_samples", s.InputSamples,
		"synthetic_samples", s.SyntheticSamples,
		"emitted", s.Emitted,
		"dropped", len(s.Dropped),
		"bucket_width", s.BucketWidth,
	}
	if s.Values != nil {
		args = append(args, "min", s.Values.Min, "max", s.Values.Max, "mean", s.Values.Mean)
		if s.Values.P50 != nil {
			args = append(args, "p50", *s.Values.P50)
		}
		if s.Values.P99 != nil {
			args = append(args, "p99", *s.Values.P99)
		}
	}
	log.Info("run summary", args...)
}

// WriteYAML writes the summary as a YAML report.
func (s *Summary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// Report is the YAML document written for one or more runs.
type Report struct {
	Runs []*Summary `yaml:"runs"`
}

// WriteYAML writes the report.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
