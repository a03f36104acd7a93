package series

import (
	"fmt"
	"time"
)

// Sample is a single reading. Its value is held constant until the
// timestamp of the next sample in the series (step-hold).
type Sample struct {
	Timestamp time.Time
	Value     float64

	// Synthetic marks samples inserted at bucket boundaries by gap filling.
	Synthetic bool
}

// FromMillis builds a raw sample from an epoch-millisecond timestamp.
func FromMillis(ms int64, value float64) Sample {
	return Sample{
		Timestamp: time.UnixMilli(ms).UTC(),
		Value:     value,
	}
}

// TimestampMs returns the timestamp as Unix milliseconds.
func (s Sample) TimestampMs() int64 {
	return s.Timestamp.UnixMilli()
}

// String implements fmt.Stringer.
func (s Sample) String() string {
	kind := "raw"
	if s.Synthetic {
		kind = "synthetic"
	}
	return fmt.Sprintf("%s=%g (%s)", s.Timestamp.Format(time.RFC3339Nano), s.Value, kind)
}

// Series is an ordered sequence of samples, ascending by timestamp.
type Series []Sample

// First returns the earliest sample. The series must not be empty.
func (s Series) First() Sample {
	return s[0]
}

// Last returns the latest sample. The series must not be empty.
func (s Series) Last() Sample {
	return s[len(s)-1]
}

// SyntheticCount returns how many samples were inserted by gap filling.
func (s Series) SyntheticCount() int {
	n := 0
	for i := range s {
		if s[i].Synthetic {
			n++
		}
	}
	return n
}
