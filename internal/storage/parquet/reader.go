package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/xtxerr/equalizer/internal/series"
)

// PointReader reads bucket means from a Parquet file.
type PointReader struct {
	file   *os.File
	reader *parquet.GenericReader[PointRow]
	path   string
}

// NewPointReader opens a Parquet file of bucket means.
func NewPointReader(path string) (*PointReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	reader := parquet.NewGenericReader[PointRow](f)

	return &PointReader{
		file:   f,
		reader: reader,
		path:   path,
	}, nil
}

// ReadAll reads all points from the file.
func (r *PointReader) ReadAll() ([]series.Point, error) {
	rows := make([]PointRow, r.reader.NumRows())

	n, err := r.reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	points := make([]series.Point, n)
	for i := 0; i < n; i++ {
		points[i] = RowToPoint(&rows[i])
	}

	return points, nil
}

// NumRows returns the total number of rows in the file.
func (r *PointReader) NumRows() int64 {
	return r.reader.NumRows()
}

// Close closes the reader.
func (r *PointReader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// Path returns the file path.
func (r *PointReader) Path() string {
	return r.path
}
