package ggc

import "time"

import "github.com/dustin/go-humanize"

import "github.com/prataprc/ggc/internal/lib"

// CycleStats tracks running statistics over every Run: bytes reclaimed
// per cycle and how long each cycle took.
type CycleStats struct {
	reclaimed lib.AverageInt64
	durations *lib.HistogramInt64
}

// durationBucketTill/Width bound the cycle-duration histogram at one
// second in 1ms buckets; collection cycles slower than that still land
// in the overflow bucket rather than panicking.
const (
	durationBucketTill  = int64(1000000)
	durationBucketWidth = int64(1000)
)

func newCycleStats() CycleStats {
	return CycleStats{durations: lib.NewHistogramInt64(0, durationBucketTill, durationBucketWidth)}
}

func (cs *CycleStats) observe(reclaimed int64, d time.Duration) {
	cs.reclaimed.Add(reclaimed)
	cs.durations.Add(d.Microseconds())
}

// Samples returns the number of Run cycles observed so far.
func (cs CycleStats) Samples() int64 { return cs.reclaimed.Samples() }

// Reclaimed returns the running average/min/max of bytes reclaimed
// per cycle.
func (cs CycleStats) Reclaimed() lib.AverageInt64 { return cs.reclaimed }

// Durations returns the histogram of cycle durations, in microseconds.
func (cs CycleStats) Durations() *lib.HistogramInt64 { return cs.durations }

// String renders a one-line human-readable summary.
func (cs CycleStats) String() string {
	return humanize.Comma(cs.reclaimed.Total()) + " bytes reclaimed over " +
		humanize.Comma(cs.reclaimed.Samples()) + " cycles"
}
