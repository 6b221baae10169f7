package lib

import "testing"

func TestAverageInt64(t *testing.T) {
	var av AverageInt64
	samples := []int64{10, 20, 30, 40}
	for _, s := range samples {
		av.Add(s)
	}
	if av.Samples() != int64(len(samples)) {
		t.Fatalf("Samples() = %v, want %v", av.Samples(), len(samples))
	}
	if av.Total() != 100 {
		t.Fatalf("Total() = %v, want 100", av.Total())
	}
	if av.Mean() != 25 {
		t.Fatalf("Mean() = %v, want 25", av.Mean())
	}
	if av.Min() != 10 {
		t.Fatalf("Min() = %v, want 10", av.Min())
	}
	if av.Max() != 40 {
		t.Fatalf("Max() = %v, want 40", av.Max())
	}
}

func TestAverageInt64SingleSample(t *testing.T) {
	var av AverageInt64
	av.Add(7)
	if av.Min() != 7 || av.Max() != 7 || av.Mean() != 7 {
		t.Fatalf("single-sample stats wrong: min=%v max=%v mean=%v", av.Min(), av.Max(), av.Mean())
	}
	if av.Variance() != 0 || av.Sd() != 0 {
		t.Fatalf("single-sample variance/sd should be 0, got %v/%v", av.Variance(), av.Sd())
	}
}
