// Package resample turns an irregular series into fixed-width bucket means.
//
// Interpolation is step-hold only: a sample's value applies unchanged from its
// timestamp until the next sample. A bucket's value is the integral of that
// step function over the bucket divided by the bucket width.
//
// A run has three stages:
//
//	Validate   reject series shorter than 2 samples or with repeated timestamps
//	FillGaps   insert step-held samples at every boundary strictly inside a raw
//	           interval, so no adjacent pair spans more than one boundary
//	Aggregate  one pass over the enriched series, emitting a Point for every
//	           bucket covered for exactly its width
//
// Buckets with less coverage are dropped with a warning (this is the normal
// outcome for a series starting mid-bucket). Coverage beyond the width aborts
// the run with ErrBucketOverflow. The trailing partial bucket is never emitted.
//
// Bucket boundaries lie on the UTC grid anchored at midnight. The width
// defaults to 30 minutes and must divide 24h evenly.
package resample
