// Package constants provides the enumerated option values shared by the
// config layer, the job runner and the CLI.
package constants

import "slices"

// =============================================================================
// Output Format
// =============================================================================

const (
	// FormatJSON writes the input document with its timeseries replaced
	FormatJSON = "json"

	// FormatParquet writes one row per bucket
	FormatParquet = "parquet"
)

// ValidOutputFormats contains all valid output formats
var ValidOutputFormats = []string{FormatJSON, FormatParquet}

// IsValidOutputFormat checks if a format is valid
func IsValidOutputFormat(format string) bool {
	return slices.Contains(ValidOutputFormats, format)
}

// =============================================================================
// Parquet Compression
// =============================================================================

const (
	CompressionSnappy = "snappy"
	CompressionZstd   = "zstd"
	CompressionLZ4    = "lz4"
	CompressionGzip   = "gzip"
	CompressionNone   = "none"
)

// ValidCompressions contains all valid compression names
var ValidCompressions = []string{
	CompressionSnappy,
	CompressionZstd,
	CompressionLZ4,
	CompressionGzip,
	CompressionNone,
}

// IsValidCompression checks if a compression name is valid.
// Empty means uncompressed.
func IsValidCompression(name string) bool {
	return name == "" || slices.Contains(ValidCompressions, name)
}

// =============================================================================
// Report
// =============================================================================

// ReportStdout as the report path writes the run summary to stdout.
const ReportStdout = "-"
