package stats

import "errors"

// ErrNoSamples is returned by ComputeStats when given an empty sample
// slice; the caller maps this onto the div_zero fault (§7).
var ErrNoSamples = errors.New("stats: zero samples")

// ErrInvalidHistogramRange is returned by BuildHistogram when max <= min
// or bins has zero length.
var ErrInvalidHistogramRange = errors.New("stats: invalid histogram range")
