package resample

import (
	"fmt"
	"time"

	"github.com/xtxerr/equalizer/internal/errors"
	"github.com/xtxerr/equalizer/internal/series"
)

type instant struct {
	sec  int64
	nsec int
}

// Validate rejects series that cannot be resampled: fewer than two samples,
// or two samples sharing a timestamp. It neither sorts nor normalizes.
func Validate(s series.Series) error {
	if len(s) < 2 {
		return fmt.Errorf("got %d samples: %w", len(s), errors.ErrInsufficientData)
	}

	seen := make(map[instant]int, len(s))
	for i := range s {
		ts := s[i].Timestamp
		key := instant{sec: ts.Unix(), nsec: ts.Nanosecond()}
		if j, ok := seen[key]; ok {
			return fmt.Errorf("samples %d and %d at %s: %w",
				j, i, ts.UTC().Format(time.RFC3339Nano), errors.ErrDuplicateTimestamp)
		}
		seen[key] = i
	}

	return nil
}
