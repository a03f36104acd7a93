package resample

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/xtxerr/equalizer/internal/series"
)

// at builds a raw sample sec seconds after the epoch.
func at(sec int64, value float64) series.Sample {
	return series.FromMillis(sec*1000, value)
}

// bufferLogger returns a logger writing text records into buf.
func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func millis(points []series.Point) []int64 {
	out := make([]int64, len(points))
	for i := range points {
		out[i] = points[i].BucketStartMs()
	}
	return out
}

func values(points []series.Point) []float64 {
	out := make([]float64, len(points))
	for i := range points {
		out[i] = points[i].Value
	}
	return out
}

func secs(ts []time.Time) []int64 {
	out := make([]int64, len(ts))
	for i := range ts {
		out[i] = ts[i].Unix()
	}
	return out
}
