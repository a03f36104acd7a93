package series

import "time"

// Point is the output of a resampling run: the time-weighted mean of the
// signal over one fully covered bucket.
type Point struct {
	BucketStart time.Time
	Value       float64
}

// BucketStartMs returns the bucket start as Unix milliseconds.
func (p Point) BucketStartMs() int64 {
	return p.BucketStart.UnixMilli()
}

// BucketEnd returns the exclusive end of the bucket for the given width.
func (p Point) BucketEnd(width time.Duration) time.Time {
	return p.BucketStart.Add(width)
}

