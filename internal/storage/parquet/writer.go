package parquet

import (
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/xtxerr/equalizer/internal/series"
)

// Options configures the Parquet writer.
type Options struct {
	// Compression algorithm
	Compression CompressionType

	// BucketWidth is recorded per row as bucket_end_ms - bucket_start_ms.
	BucketWidth time.Duration

	// Metadata is stored as key/value pairs in the file footer.
	Metadata map[string]string
}

// CompressionType represents a Parquet compression algorithm.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionSnappy
	CompressionZstd
	CompressionLZ4
	CompressionGzip
)

// DefaultOptions returns default Parquet options.
func DefaultOptions() Options {
	return Options{
		Compression: CompressionZstd,
		BucketWidth: 30 * time.Minute,
	}
}

// ParseCompressionType parses a compression type string.
func ParseCompressionType(s string) CompressionType {
	switch s {
	case "snappy":
		return CompressionSnappy
	case "zstd":
		return CompressionZstd
	case "lz4":
		return CompressionLZ4
	case "gzip":
		return CompressionGzip
	case "none", "":
		return CompressionNone
	default:
		return CompressionZstd
	}
}

// getCompression returns the parquet-go compression codec.
func getCompression(ct CompressionType) compress.Codec {
	switch ct {
	case CompressionSnappy:
		return &parquet.Snappy
	case CompressionZstd:
		return &parquet.Zstd
	case CompressionLZ4:
		return &parquet.Lz4Raw
	case CompressionGzip:
		return &parquet.Gzip
	default:
		return &parquet.Uncompressed
	}
}

// PointRow represents a bucket mean in Parquet format.
type PointRow struct {
	BucketStartMs int64   `parquet:"bucket_start_ms,delta"`
	BucketEndMs   int64   `parquet:"bucket_end_ms,delta"`
	Value         float64 `parquet:"value"`
}

// PointToRow converts a Point to a PointRow.
func PointToRow(p *series.Point, width time.Duration) PointRow {
	return PointRow{
		BucketStartMs: p.BucketStartMs(),
		BucketEndMs:   p.BucketEnd(width).UnixMilli(),
		Value:         p.Value,
	}
}

// RowToPoint converts a PointRow to a Point.
func RowToPoint(r *PointRow) series.Point {
	return series.Point{
		BucketStart: time.UnixMilli(r.BucketStartMs).UTC(),
		Value:       r.Value,
	}
}

// PointWriter writes bucket means to a Parquet stream. It is not safe for
// concurrent use; each job owns its writer.
type PointWriter struct {
	writer   *parquet.GenericWriter[PointRow]
	width    time.Duration
	rowCount int64
	closed   bool
}

// NewPointWriter creates a Parquet writer on w. Close flushes the footer but
// does not close w.
func NewPointWriter(w io.Writer, opts Options) *PointWriter {
	writerOpts := []parquet.WriterOption{
		parquet.Compression(getCompression(opts.Compression)),
	}
	for k, v := range opts.Metadata {
		writerOpts = append(writerOpts, parquet.KeyValueMetadata(k, v))
	}

	width := opts.BucketWidth
	if width <= 0 {
		width = DefaultOptions().BucketWidth
	}

	return &PointWriter{
		writer: parquet.NewGenericWriter[PointRow](w, writerOpts...),
		width:  width,
	}
}

// Write writes points to the Parquet stream.
func (w *PointWriter) Write(points []series.Point) error {
	if len(points) == 0 {
		return nil
	}

	if w.closed {
		return ErrWriterClosed
	}

	rows := make([]PointRow, len(points))
	for i := range points {
		rows[i] = PointToRow(&points[i], w.width)
	}

	n, err := w.writer.Write(rows)
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	w.rowCount += int64(n)
	return nil
}

// Close flushes buffered rows and writes the file footer.
func (w *PointWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}

// RowCount returns the number of rows written.
func (w *PointWriter) RowCount() int64 {
	return w.rowCount
}

// WritePoints writes all points to w as a complete Parquet file.
func WritePoints(w io.Writer, points []series.Point, opts Options) error {
	pw := NewPointWriter(w, opts)
	if err := pw.Write(points); err != nil {
		pw.Close()
		return err
	}
	return pw.Close()
}

// ErrWriterClosed is returned when writing to a closed writer.
var ErrWriterClosed = fmt.Errorf("parquet writer is closed")
