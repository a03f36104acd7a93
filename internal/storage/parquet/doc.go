// Package parquet implements Parquet export of resampled bucket means.
//
// The package provides:
//   - PointWriter/PointReader for bucket means
//   - Support for multiple compression algorithms (snappy, zstd, lz4, gzip)
//   - Type conversion between series points and Parquet rows
package parquet
