// Package document reads and writes the JSON documents equalizer resamples.
//
// A document is a JSON object whose "timeseries" field lists samples:
//
//	{
//	  "meter": "A-17",
//	  "timeseries": [
//	    {"timestamp": 1700000000000, "value": 3.2},
//	    {"timestamp": 1700000900000, "value": 4.0}
//	  ]
//	}
//
// Timestamps are epoch milliseconds. Every other top-level field is opaque
// and copied to the output unchanged, in its original position. The output
// document has the same shape with "timeseries" replaced by one entry per
// bucket: the bucket start in epoch milliseconds and the bucket mean.
package document
