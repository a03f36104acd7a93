// Package job runs resampling jobs: load a document, resample its series,
// write the result and summarize the run.
package job

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/singleflight"

	defaults "github.com/xtxerr/equalizer/config"
	"github.com/xtxerr/equalizer/internal/config"
	"github.com/xtxerr/equalizer/internal/constants"
	"github.com/xtxerr/equalizer/internal/document"
	"github.com/xtxerr/equalizer/internal/errors"
	"github.com/xtxerr/equalizer/internal/logging"
	"github.com/xtxerr/equalizer/internal/resample"
	"github.com/xtxerr/equalizer/internal/storage/parquet"
	"github.com/xtxerr/equalizer/internal/summary"
	"github.com/xtxerr/equalizer/internal/validation"
)

// Options configures a Runner.
type Options struct {
	// Resample is the resampler configuration. Its Logger is replaced per job.
	Resample resample.Config

	// Format is the output encoding: json or parquet.
	Format string

	// Indent is the JSON indentation.
	Indent string

	// Compression is the Parquet codec name.
	Compression string

	// SketchAccuracy is the relative accuracy of summary percentiles.
	SketchAccuracy float64
}

// OptionsFromConfig builds runner options from a validated configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	rc, err := cfg.Resample.Build(nil)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Resample:       rc,
		Format:         cfg.Output.Format,
		Indent:         cfg.Output.Indent,
		Compression:    cfg.Output.Compression,
		SketchAccuracy: defaults.DefaultSketchAccuracy,
	}, nil
}

// Job names one document to resample.
type Job struct {
	Name   string
	Input  string
	Output string
}

// FromConfig converts configured batch jobs.
func FromConfig(jobs []config.JobConfig) []Job {
	out := make([]Job, len(jobs))
	for i, j := range jobs {
		out[i] = Job{Name: j.Name, Input: j.Input, Output: j.Output}
	}
	return out
}

func (j Job) name() string {
	if j.Name != "" {
		return j.Name
	}
	return j.Input
}

// Outcome describes a finished job.
type Outcome struct {
	Job     Job
	Output  string
	Bytes   int64
	Summary *summary.Summary
}

// Runner executes jobs. It is safe for concurrent use; jobs reading the same
// input share a single load.
type Runner struct {
	opts  Options
	loads singleflight.Group
}

// NewRunner creates a Runner, rejecting an unusable resample configuration
// up front.
func NewRunner(opts Options) (*Runner, error) {
	if _, err := resample.New(opts.Resample); err != nil {
		return nil, err
	}

	if opts.Format == "" {
		opts.Format = defaults.DefaultOutputFormat
	}
	if !constants.IsValidOutputFormat(opts.Format) {
		return nil, errors.NewInvalidValue("output.format", opts.Format,
			"must be one of: "+strings.Join(constants.ValidOutputFormats, ", "))
	}

	return &Runner{opts: opts}, nil
}

// Run resamples one document. Nothing is written when loading, validation or
// aggregation fails.
func (r *Runner) Run(ctx context.Context, j Job) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validation.ValidateOutputPath(j.Input, j.Output); err != nil {
		return nil, errors.NewValidation("output", err.Error())
	}

	ctx = logging.ContextWithJob(ctx, j.name())
	ctx = logging.ContextWithInput(ctx, j.Input)
	log := logging.WithContext(ctx).With("component", "resample")

	doc, err := r.load(j.Input)
	if err != nil {
		return nil, err
	}

	s, err := doc.Series()
	if err != nil {
		return nil, errors.Wrap(err, j.Input)
	}

	rc := r.opts.Resample
	rc.Logger = log
	rs, err := resample.New(rc)
	if err != nil {
		return nil, err
	}

	res, err := rs.Run(s)
	if err != nil {
		return nil, errors.Wrap(err, j.Input)
	}

	output := j.Output
	if output == "" {
		output = document.DefaultOutputPath(j.Input, r.opts.Format)
	}

	var n int64
	switch r.opts.Format {
	case constants.FormatParquet:
		n, err = r.writeParquet(output, res)
	default:
		n, err = r.writeJSON(output, doc, res)
	}
	if err != nil {
		return nil, err
	}

	sum := summary.FromResultWithAccuracy(res, r.opts.SketchAccuracy)
	sum.Input = j.Input
	sum.Output = output
	sum.Log(log)

	return &Outcome{
		Job:     j,
		Output:  output,
		Bytes:   n,
		Summary: sum,
	}, nil
}

func (r *Runner) load(path string) (*document.Document, error) {
	v, err, shared := r.loads.Do(path, func() (interface{}, error) {
		return document.LoadFile(path)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.Debug("document load shared", "input", path)
	}
	return v.(*document.Document), nil
}

func (r *Runner) writeJSON(path string, doc *document.Document, res *resample.Result) (int64, error) {
	out, err := doc.WithPoints(res.Points)
	if err != nil {
		return 0, err
	}
	return out.WriteFile(path, r.opts.Indent)
}

func (r *Runner) writeParquet(path string, res *resample.Result) (int64, error) {
	opts := parquet.DefaultOptions()
	opts.Compression = parquet.ParseCompressionType(r.opts.Compression)
	opts.BucketWidth = res.BucketWidth
	opts.Metadata = map[string]string{
		"bucket_width": res.BucketWidth.String(),
	}

	return document.WriteFileAtomic(path, func(w io.Writer) error {
		if err := parquet.WritePoints(w, res.Points, opts); err != nil {
			return errors.NewIO("encode", path, err)
		}
		return nil
	})
}

// WriteReport writes the YAML summary of outcomes to path. "-" writes to
// stdout.
func WriteReport(path string, outcomes []*Outcome) error {
	report := &summary.Report{}
	for _, o := range outcomes {
		if o != nil {
			report.Runs = append(report.Runs, o.Summary)
		}
	}

	if path == constants.ReportStdout {
		return report.WriteYAML(os.Stdout)
	}

	_, err := document.WriteFileAtomic(path, report.WriteYAML)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// logger returns the component logger for batch-level records.
func logger() *slog.Logger {
	return logging.Component("job")
}
