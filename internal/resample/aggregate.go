package resample

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/xtxerr/equalizer/internal/errors"
	"github.com/xtxerr/equalizer/internal/series"
)

// Aggregation is the outcome of one pass over an enriched series.
type Aggregation struct {
	// Points holds one entry per fully covered bucket, ascending.
	Points []series.Point

	// Dropped holds the start of every bucket closed with less than full
	// coverage.
	Dropped []time.Time
}

// Aggregate walks an enriched series once and emits the time-weighted mean of
// every bucket whose coverage equals the bucket width. The series must be
// strictly ascending and gap filled on the same grid.
func (r *Resampler) Aggregate(s series.Series) (*Aggregation, error) {
	agg := &Aggregation{}
	if len(s) < 2 {
		return agg, nil
	}

	width := r.grid.Width()
	bucketStart := r.grid.Floor(s[0].Timestamp)
	weighted := newAccumulator(r.cfg.Summation)
	var covered time.Duration

	for i := 1; i < len(s); i++ {
		start, end := s[i-1], s[i]

		elapsed := end.Timestamp.Sub(start.Timestamp)
		if elapsed <= 0 {
			return nil, fmt.Errorf("samples %d and %d are %v apart: %w",
				i-1, i, elapsed, errors.ErrNonPositiveElapsed)
		}

		weighted.Add(elapsed.Seconds() * start.Value)
		covered += elapsed

		if bucketStart.Add(width).After(end.Timestamp) {
			continue
		}

		switch {
		case covered < width:
			r.log.Warn("incomplete bucket dropped",
				"bucket_start", bucketStart,
				"covered", covered,
				"width", width,
				"error", errors.ErrIncompleteBucket)
			agg.Dropped = append(agg.Dropped, bucketStart)
		case covered > width:
			return nil, fmt.Errorf("bucket %s covered %v of %v: %w",
				bucketStart.Format(time.RFC3339), covered, width, errors.ErrBucketOverflow)
		default:
			mean := weighted.Sum() / width.Seconds()
			if math.IsInf(mean, 0) || math.IsNaN(mean) {
				return nil, fmt.Errorf("bucket %s mean is %v: %w",
					bucketStart.Format(time.RFC3339), mean, errors.ErrNonFiniteMean)
			}
			p := series.Point{
				BucketStart: bucketStart,
				Value:       mean,
			}
			r.log.Debug("bucket emitted", "bucket_start", p.BucketStart, "value", p.Value)
			agg.Points = append(agg.Points, p)
		}

		bucketStart = r.grid.Floor(end.Timestamp)
		weighted.Reset()
		covered = 0
	}

	return agg, nil
}

// discardLogger is used when a Resampler is built without a logger.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
