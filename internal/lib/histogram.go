package lib

import "strconv"

// HistogramInt64 buckets int64 samples into fixed-width bins between
// [from, till), used by stats.go to bucket the cycle-duration
// distribution.
type HistogramInt64 struct {
	AverageInt64
	histogram []int64
	from      int64
	till      int64
	width     int64
}

// NewHistogramInt64 creates a histogram with bins of width covering
// [from, till); samples outside that range land in the first/last bin.
func NewHistogramInt64(from, till, width int64) *HistogramInt64 {
	from = (from / width) * width
	till = (till / width) * width
	h := &HistogramInt64{from: from, till: till, width: width}
	h.histogram = make([]int64, 1+((till-from)/width)+1)
	return h
}

// Add a sample, updating both the running average and the bucket count.
func (h *HistogramInt64) Add(sample int64) {
	h.AverageInt64.Add(sample)
	switch {
	case sample < h.from:
		h.histogram[0]++
	case sample >= h.till:
		h.histogram[len(h.histogram)-1]++
	default:
		h.histogram[((sample-h.from)/h.width)+1]++
	}
}

// Stats returns a label -> count map of every non-empty bucket, labeled
// by the bucket's upper bound (">" for the overflow bucket).
func (h *HistogramInt64) Stats() map[string]int64 {
	data := make(map[string]int64)
	for i, count := range h.histogram {
		if count == 0 {
			continue
		}
		if i == len(h.histogram)-1 {
			data[">"] = count
			continue
		}
		bound := h.from + int64(i)*h.width
		data[strconv.FormatInt(bound, 10)] = count
	}
	return data
}
