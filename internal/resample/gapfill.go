package resample

import (
	"fmt"
	"slices"
	"time"

	"github.com/xtxerr/equalizer/internal/errors"
	"github.com/xtxerr/equalizer/internal/series"
)

// FillGaps returns a new series in which every bucket boundary lying strictly
// inside a raw interval carries a synthetic sample holding the interval's
// starting value. The input is not modified.
//
// maxSynthetic caps the number of insertions; 0 means no cap.
func FillGaps(s series.Series, grid Grid, maxSynthetic int) (series.Series, error) {
	out := make(series.Series, 0, len(s))
	out = append(out, s...)

	inserted := 0
	for i := 1; i < len(s); i++ {
		start, end := s[i-1], s[i]
		if !end.Timestamp.After(start.Timestamp) {
			return nil, fmt.Errorf("sample %d (%s) does not follow sample %d (%s): %w",
				i, end, i-1, start, errors.ErrUnsortedInput)
		}

		for next := grid.ForceCeil(start.Timestamp); next.Before(end.Timestamp); next = grid.ForceCeil(next) {
			if maxSynthetic > 0 && inserted >= maxSynthetic {
				return nil, fmt.Errorf("more than %d boundaries between %s and %s: %w",
					maxSynthetic, s[0].Timestamp.UTC().Format(time.RFC3339),
					end.Timestamp.UTC().Format(time.RFC3339), errors.ErrSyntheticLimit)
			}
			out = append(out, series.Sample{
				Timestamp: next,
				Value:     start.Value,
				Synthetic: true,
			})
			inserted++
		}
	}

	slices.SortStableFunc(out, func(a, b series.Sample) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	for i := 1; i < len(out); i++ {
		if out[i].Timestamp.Equal(out[i-1].Timestamp) {
			return nil, fmt.Errorf("merged series repeats %s: %w",
				out[i].Timestamp.UTC().Format(time.RFC3339Nano), errors.ErrDuplicateTimestamp)
		}
	}

	return out, nil
}
