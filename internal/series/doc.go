// Package series defines the data types that flow through a resampling run.
//
// Key types:
//   - Sample: a timestamped reading, either raw or synthetic (gap filled)
//   - Series: an ascending sequence of samples
//   - Point: the time-weighted mean of one fully covered bucket
package series
