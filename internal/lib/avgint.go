// Package lib holds small running-statistics primitives used to track
// collector-cycle statistics: bytes reclaimed per Run and cycle
// duration.
package lib

import "math"

// AverageInt64 tracks running min/max/total alongside mean and variance
// over a stream of int64 samples, folded in one at a time via Welford's
// algorithm rather than accumulated sum-of-squares. A collector that
// runs for days racks up enough Run cycles that a naive sum-of-squares
// term can lose precision (or, for large enough byte counts, overflow
// float64) well before the plain int64 total does; Welford's running
// mean/m2 update avoids that without giving up exactness on Total.
type AverageInt64 struct {
	n      int64
	minval int64
	maxval int64
	sum    int64
	mean   float64
	m2     float64
	init   bool
}

// Add folds one more sample into the running statistics.
func (av *AverageInt64) Add(sample int64) {
	av.n++
	av.sum += sample

	f := float64(sample)
	delta := f - av.mean
	av.mean += delta / float64(av.n)
	av.m2 += delta * (f - av.mean)

	if !av.init || sample < av.minval {
		av.minval = sample
		av.init = true
	}
	if sample > av.maxval {
		av.maxval = sample
	}
}

// Min sample seen so far.
func (av *AverageInt64) Min() int64 { return av.minval }

// Max sample seen so far.
func (av *AverageInt64) Max() int64 { return av.maxval }

// Samples returns the number of samples added.
func (av *AverageInt64) Samples() int64 { return av.n }

// Total returns the exact sum of all samples.
func (av *AverageInt64) Total() int64 { return av.sum }

// Mean of all samples added so far.
func (av *AverageInt64) Mean() int64 {
	if av.n == 0 {
		return 0
	}
	return av.sum / av.n
}

// Variance of all samples added so far, from the running m2 term.
func (av *AverageInt64) Variance() float64 {
	if av.n == 0 {
		return 0
	}
	return av.m2 / float64(av.n)
}

// Sd returns the standard deviation.
func (av *AverageInt64) Sd() float64 {
	return math.Sqrt(av.Variance())
}
