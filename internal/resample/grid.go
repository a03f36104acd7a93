package resample

import (
	"fmt"
	"time"

	"github.com/xtxerr/equalizer/config"
	"github.com/xtxerr/equalizer/internal/errors"
)

const day = 24 * time.Hour

// Grid aligns instants to bucket boundaries of a fixed width.
type Grid struct {
	width time.Duration
}

// NewGrid returns a grid for the given bucket width. The width must be a
// positive whole number of seconds that divides a day evenly.
func NewGrid(width time.Duration) (Grid, error) {
	if err := ValidateWidth(width); err != nil {
		return Grid{}, err
	}
	return Grid{width: width}, nil
}

// HalfHourGrid returns the default 30 minute grid.
func HalfHourGrid() Grid {
	return Grid{width: config.DefaultBucketWidth}
}

// ValidateWidth reports whether width can be used as a bucket width.
func ValidateWidth(width time.Duration) error {
	switch {
	case width <= 0:
		return fmt.Errorf("%v: must be positive: %w", width, errors.ErrInvalidBucketWidth)
	case width%time.Second != 0:
		return fmt.Errorf("%v: must be a whole number of seconds: %w", width, errors.ErrInvalidBucketWidth)
	case day%width != 0:
		return fmt.Errorf("%v: must divide 24h evenly: %w", width, errors.ErrInvalidBucketWidth)
	}
	return nil
}

// Width returns the bucket width.
func (g Grid) Width() time.Duration {
	return g.width
}

// Floor returns the boundary at or before t. Floor(Floor(t)) == Floor(t).
func (g Grid) Floor(t time.Time) time.Time {
	return t.UTC().Truncate(g.width)
}

// ForceCeil returns the first boundary strictly after t, even when t is
// already on a boundary. Repeated application always moves forward.
func (g Grid) ForceCeil(t time.Time) time.Time {
	return g.Floor(t).Add(g.width)
}

// OnBoundary reports whether t lies exactly on a bucket boundary.
func (g Grid) OnBoundary(t time.Time) bool {
	return g.Floor(t).Equal(t)
}
