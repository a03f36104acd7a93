// Package config provides configuration defaults for equalizer.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via the YAML config file or CLI flags.
package config

import "time"

// =============================================================================
// Resampling Defaults
// =============================================================================

const (
	// DefaultBucketWidth is the bucket width used for billing intervals.
	// Boundaries fall on :00 and :30 of every UTC hour.
	// Override via config: resample.bucket_width, flag: -bucket
	DefaultBucketWidth = 30 * time.Minute

	// DefaultMaxSynthetic caps the synthetic samples gap filling may insert
	// in a single run. Ten million half-hour boundaries is roughly 570 years.
	// Zero disables the cap.
	// Override via config: resample.max_synthetic, flag: -max-synthetic
	DefaultMaxSynthetic = 10_000_000

	// DefaultSummation is the weighted-sum accumulation mode.
	// Override via config: resample.summation, flag: -summation
	DefaultSummation = "naive"
)

// =============================================================================
// Document Defaults
// =============================================================================

const (
	// TimeseriesField is the document field holding the samples.
	TimeseriesField = "timeseries"

	// OutputSuffix is appended to the input stem to build the default output path.
	OutputSuffix = "_out"

	// DefaultIndent is the JSON indentation of the output document.
	// Override via config: output.indent
	DefaultIndent = "  "

	// DefaultOutputFormat is the output encoding.
	// Override via config: output.format, flag: -format
	DefaultOutputFormat = "json"

	// DefaultCompression is the Parquet compression codec.
	// Override via config: output.compression
	DefaultCompression = "zstd"
)

// =============================================================================
// Batch Defaults
// =============================================================================

const (
	// DefaultBatchWorkers is the number of documents resampled concurrently
	// in batch mode.
	// Override via config: batch.workers
	DefaultBatchWorkers = 4
)

// =============================================================================
// Summary Defaults
// =============================================================================

const (
	// DefaultSketchAccuracy is the relative accuracy of bucket value
	// percentiles in the run summary (0.01 = 1% error).
	DefaultSketchAccuracy = 0.01
)

// =============================================================================
// Logging Defaults
// =============================================================================

const (
	// DefaultLogLevel is the minimum level logged.
	// Override via config: logging.level, flag: -log-level
	DefaultLogLevel = "info"
)
