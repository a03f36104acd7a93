package resample

import (
	"log/slog"
	"time"

	"github.com/xtxerr/equalizer/config"
	"github.com/xtxerr/equalizer/internal/series"
)

// Config carries everything a run needs. The zero value resamples onto
// 30 minute buckets with naive summation and no synthetic cap.
type Config struct {
	// BucketWidth is the bucket width. Zero means 30 minutes.
	BucketWidth time.Duration

	// MaxSynthetic caps gap-filling insertions per run. Zero means no cap.
	MaxSynthetic int

	// Summation selects how weighted values are accumulated.
	Summation Summation

	// Logger receives bucket diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration matching the half-hour behaviour.
func DefaultConfig() Config {
	return Config{
		BucketWidth:  config.DefaultBucketWidth,
		MaxSynthetic: config.DefaultMaxSynthetic,
		Summation:    SummationNaive,
	}
}

// Resampler runs validation, gap filling and aggregation for one grid.
// It holds no per-run state and may be reused.
type Resampler struct {
	cfg  Config
	grid Grid
	log  *slog.Logger
}

// Result is the output of Run.
type Result struct {
	Points  []series.Point
	Dropped []time.Time

	BucketWidth      time.Duration
	InputSamples     int
	SyntheticSamples int
}

// New creates a Resampler from cfg.
func New(cfg Config) (*Resampler, error) {
	if cfg.BucketWidth == 0 {
		cfg.BucketWidth = config.DefaultBucketWidth
	}

	grid, err := NewGrid(cfg.BucketWidth)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = discardLogger()
	}

	return &Resampler{
		cfg:  cfg,
		grid: grid,
		log:  log,
	}, nil
}

// Grid returns the bucket grid.
func (r *Resampler) Grid() Grid {
	return r.grid
}

// FillGaps gap fills s on the resampler's grid.
func (r *Resampler) FillGaps(s series.Series) (series.Series, error) {
	return FillGaps(s, r.grid, r.cfg.MaxSynthetic)
}

// Run validates s, fills its gaps and aggregates it. Validation failures are
// returned before any aggregation work.
func (r *Resampler) Run(s series.Series) (*Result, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	enriched, err := r.FillGaps(s)
	if err != nil {
		return nil, err
	}

	synthetic := enriched.SyntheticCount()
	r.log.Debug("series enriched",
		"samples", len(s),
		"synthetic", synthetic,
		"first", s.First().Timestamp,
		"last", s.Last().Timestamp,
		"aligned_start", r.grid.OnBoundary(s.First().Timestamp))

	agg, err := r.Aggregate(enriched)
	if err != nil {
		return nil, err
	}

	return &Result{
		Points:           agg.Points,
		Dropped:          agg.Dropped,
		BucketWidth:      r.grid.Width(),
		InputSamples:     len(s),
		SyntheticSamples: synthetic,
	}, nil
}
