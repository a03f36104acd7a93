package job

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtxerr/equalizer/internal/config"
	"github.com/xtxerr/equalizer/internal/document"
	"github.com/xtxerr/equalizer/internal/errors"
	"github.com/xtxerr/equalizer/internal/resample"
	"github.com/xtxerr/equalizer/internal/storage/parquet"
)

const gapDocument = `{"meter":"m-1","timeseries":[{"timestamp":0,"value":5},{"timestamp":5400000,"value":9}],"unit":"kW"}`

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newRunner(t *testing.T, format string) *Runner {
	t.Helper()
	r, err := NewRunner(Options{
		Resample: resample.DefaultConfig(),
		Format:   format,
		Indent:   "  ",
	})
	require.NoError(t, err)
	return r
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "meter.json", gapDocument)

	out, err := newRunner(t, "json").Run(context.Background(), Job{Input: input})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "meter_out.json"), out.Output)
	assert.Positive(t, out.Bytes)
	assert.Equal(t, 3, out.Summary.Emitted)
	assert.Equal(t, 2, out.Summary.SyntheticSamples)

	doc, err := document.LoadFile(out.Output)
	require.NoError(t, err)
	assert.Equal(t, []string{"meter", "timeseries", "unit"}, doc.Keys())

	s, err := doc.Series()
	require.NoError(t, err)
	require.Len(t, s, 3)
	for i, want := range []int64{0, 1800000, 3600000} {
		assert.Equal(t, want, s[i].TimestampMs())
		assert.Equal(t, 5.0, s[i].Value)
	}
}

func TestRunParquet(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "meter.json", gapDocument)

	out, err := newRunner(t, "parquet").Run(context.Background(), Job{Input: input})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "meter_out.parquet"), out.Output)

	r, err := parquet.NewPointReader(out.Output)
	require.NoError(t, err)
	defer r.Close()

	points, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, int64(3600000), points[2].BucketStartMs())
}

func TestRunValidationFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "dup.json",
		`{"timeseries":[{"timestamp":0,"value":1},{"timestamp":0,"value":2}]}`)

	_, err := newRunner(t, "json").Run(context.Background(), Job{Input: input})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDuplicateTimestamp)
	assert.Equal(t, errors.ExitValidation, errors.ExitCode(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the input should remain")
}

func TestRunMissingTimeseries(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "bad.json", `{"meter":"m-1"}`)

	_, err := newRunner(t, "json").Run(context.Background(), Job{Input: input})
	require.Error(t, err)
	assert.Equal(t, errors.ExitInputFormat, errors.ExitCode(err))
}

func TestRunMissingInput(t *testing.T) {
	_, err := newRunner(t, "json").Run(context.Background(), Job{Input: filepath.Join(t.TempDir(), "nope.json")})
	require.Error(t, err)
	assert.Equal(t, errors.ExitIO, errors.ExitCode(err))
}

func TestRunExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "meter.json", gapDocument)
	output := filepath.Join(dir, "custom.json")

	out, err := newRunner(t, "json").Run(context.Background(), Job{Input: input, Output: output})
	require.NoError(t, err)
	assert.Equal(t, output, out.Output)
	assert.FileExists(t, output)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t, "json").Run(ctx, Job{Input: "unused.json"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunnerRejectsBadOptions(t *testing.T) {
	_, err := NewRunner(Options{Resample: resample.Config{BucketWidth: 7 * time.Minute}})
	assert.ErrorIs(t, err, errors.ErrInvalidBucketWidth)

	_, err = NewRunner(Options{Resample: resample.DefaultConfig(), Format: "csv"})
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Resample.BucketWidth = config.Duration(15 * time.Minute)
	cfg.Resample.Summation = "kahan"
	cfg.Output.Format = "parquet"

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, opts.Resample.BucketWidth)
	assert.Equal(t, resample.SummationKahan, opts.Resample.Summation)
	assert.Equal(t, "parquet", opts.Format)
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "meter.json", gapDocument)

	out, err := newRunner(t, "json").Run(context.Background(), Job{Input: input})
	require.NoError(t, err)

	report := filepath.Join(dir, "report.yaml")
	require.NoError(t, WriteReport(report, []*Outcome{out, nil}))

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "emitted_buckets: 3")
	assert.Contains(t, string(data), "input: "+input)
}
