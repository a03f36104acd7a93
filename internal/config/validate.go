package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xtxerr/equalizer/internal/constants"
	"github.com/xtxerr/equalizer/internal/errors"
	"github.com/xtxerr/equalizer/internal/logging"
	"github.com/xtxerr/equalizer/internal/resample"
	"github.com/xtxerr/equalizer/internal/validation"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	v := errors.NewValidationErrors()

	v.Add(c.Resample.Validate())
	v.Add(c.Output.Validate())
	v.Add(c.Logging.Validate())
	v.Add(c.Batch.Validate())

	return v.Err()
}

// Validate checks the resample configuration.
func (c *ResampleConfig) Validate() error {
	v := errors.NewValidationErrors()

	if err := resample.ValidateWidth(c.BucketWidth.Duration()); err != nil {
		v.Add(fmt.Errorf("resample.bucket_width: %w", err))
	}

	if c.MaxSynthetic < 0 {
		v.AddField("resample.max_synthetic", "must be non-negative")
	}

	if _, err := resample.ParseSummation(c.Summation); err != nil {
		v.AddField("resample.summation", "must be one of: naive, kahan")
	}

	return v.Err()
}

// Build converts the section into a resample.Config using log for bucket
// diagnostics.
func (c *ResampleConfig) Build(log *slog.Logger) (resample.Config, error) {
	summation, err := resample.ParseSummation(c.Summation)
	if err != nil {
		return resample.Config{}, errors.NewInvalidValue("resample.summation", c.Summation, err.Error())
	}

	return resample.Config{
		BucketWidth:  c.BucketWidth.Duration(),
		MaxSynthetic: c.MaxSynthetic,
		Summation:    summation,
		Logger:       log,
	}, nil
}

// Validate checks the output configuration.
func (c *OutputConfig) Validate() error {
	v := errors.NewValidationErrors()

	if !constants.IsValidOutputFormat(c.Format) {
		v.AddField("output.format", "must be one of: "+strings.Join(constants.ValidOutputFormats, ", "))
	}

	if !constants.IsValidCompression(c.Compression) {
		v.AddField("output.compression", "must be one of: "+strings.Join(constants.ValidCompressions, ", "))
	}

	for _, r := range c.Indent {
		if r != ' ' && r != '\t' {
			v.AddField("output.indent", "may only contain spaces and tabs")
			break
		}
	}

	return v.Err()
}

// Validate checks the logging configuration.
func (c *LoggingConfig) Validate() error {
	if _, err := logging.ParseLevel(c.Level); err != nil {
		return errors.NewValidation("logging.level", err.Error())
	}
	return nil
}

// Validate checks the batch configuration.
func (c *BatchConfig) Validate() error {
	v := errors.NewValidationErrors()

	if c.Workers <= 0 {
		v.AddField("batch.workers", "must be positive")
	}

	outputs := make(map[string]int, len(c.Jobs))
	for i, job := range c.Jobs {
		if job.Input == "" {
			v.AddMissing(fmt.Sprintf("batch.jobs[%d].input", i))
		}
		if job.Name != "" {
			if err := validation.ValidateJobName(job.Name); err != nil {
				v.AddField(fmt.Sprintf("batch.jobs[%d].name", i), err.Error())
			}
		}
		if err := validation.ValidateOutputPath(job.Input, job.Output); err != nil {
			v.AddField(fmt.Sprintf("batch.jobs[%d].output", i), err.Error())
		}
		if job.Output == "" {
			continue
		}
		if j, ok := outputs[job.Output]; ok {
			v.AddField(fmt.Sprintf("batch.jobs[%d].output", i),
				fmt.Sprintf("same output as batch.jobs[%d]", j))
		}
		outputs[job.Output] = i
	}

	return v.Err()
}
