package ggc

import "testing"

func TestNewAllocationIndexBoundary(t *testing.T) {
	idx := NewAllocationIndex(8, 16, 0.5, 0.2, 0.8)
	if idx.minCapacity != 11 {
		t.Fatalf("minCapacity = %v, want 11", idx.minCapacity)
	}
	if idx.capacity != 17 {
		t.Fatalf("capacity = %v, want 17", idx.capacity)
	}
	if idx.sweepLimit != 8 {
		t.Fatalf("sweepLimit = %v, want 8", idx.sweepLimit)
	}

	idx2 := NewAllocationIndex(8, 4, 0.5, 0.2, 0.8)
	if idx2.minCapacity != 11 {
		t.Fatalf("minCapacity = %v, want 11", idx2.minCapacity)
	}
	if idx2.capacity != 11 {
		t.Fatalf("capacity = %v, want 11", idx2.capacity)
	}
	if idx2.sweepLimit != 5 {
		t.Fatalf("sweepLimit = %v, want 5", idx2.sweepLimit)
	}
}

func TestAllocationIndexPutGetRemove(t *testing.T) {
	idx := NewAllocationIndex(8, 8, 0.5, 0.2, 0.8)

	r := idx.Put(0x1000, 64, nil)
	if r.Ptr != 0x1000 || r.Size != 64 {
		t.Fatalf("unexpected record: %+v", r)
	}
	if got := idx.Get(0x1000); got != r {
		t.Fatalf("Get returned %+v, want %+v", got, r)
	}
	if idx.Size() != 1 {
		t.Fatalf("Size() = %v, want 1", idx.Size())
	}

	// Put again with same ptr updates in place, no duplicate.
	r2 := idx.Put(0x1000, 128, nil)
	if r2 != r || r2.Size != 128 {
		t.Fatalf("re-Put did not update in place: %+v", r2)
	}
	if idx.Size() != 1 {
		t.Fatalf("Size() after re-Put = %v, want 1", idx.Size())
	}

	removed := idx.Remove(0x1000, false)
	if removed == nil || removed.Ptr != 0x1000 {
		t.Fatalf("Remove returned %+v", removed)
	}
	if idx.Size() != 0 {
		t.Fatalf("Size() after Remove = %v, want 0", idx.Size())
	}
	if idx.Get(0x1000) != nil {
		t.Fatalf("Get after Remove should be nil")
	}
}

func TestAllocationIndexRemoveUnknown(t *testing.T) {
	idx := NewAllocationIndex(8, 8, 0.5, 0.2, 0.8)
	if idx.Remove(0xdead, false) != nil {
		t.Fatalf("Remove of unknown ptr should return nil")
	}
}

func TestAllocationIndexRemoveCallsFinalizer(t *testing.T) {
	idx := NewAllocationIndex(8, 8, 0.5, 0.2, 0.8)
	var called uintptr
	idx.Put(0x2000, 16, func(ptr uintptr) { called = ptr })
	idx.Remove(0x2000, true)
	if called != 0x2000 {
		t.Fatalf("finalizer not invoked with correct ptr, got %x", called)
	}
}

func TestAllocationIndexResizeUpAndDown(t *testing.T) {
	idx := NewAllocationIndex(8, 8, 0.5, 0.2, 0.8)
	startCap := idx.Capacity()

	// Push load well past upsizeFactor to force a resize.
	n := int(float64(startCap)*idx.upsizeFactor) + 4
	for i := 0; i < n; i++ {
		idx.Put(uintptr(0x10000+i*8), 32, nil)
	}
	if idx.Capacity() <= startCap {
		t.Fatalf("expected capacity to grow past %v, got %v", startCap, idx.Capacity())
	}
	if int64(n) != idx.Size() {
		t.Fatalf("Size() = %v, want %v", idx.Size(), n)
	}

	grownCap := idx.Capacity()
	for i := 0; i < n; i++ {
		idx.Remove(uintptr(0x10000+i*8), false)
	}
	if idx.Capacity() >= grownCap {
		t.Fatalf("expected capacity to shrink below %v, got %v", grownCap, idx.Capacity())
	}
	if idx.Capacity() < idx.minCapacity {
		t.Fatalf("capacity %v fell below floor %v", idx.Capacity(), idx.minCapacity)
	}
}

func TestAllocationIndexAllBucketsNilAtZeroSize(t *testing.T) {
	idx := NewAllocationIndex(8, 8, 0.5, 0.2, 0.8)
	idx.Put(0x3000, 8, nil)
	idx.Remove(0x3000, false)
	for i, head := range idx.buckets {
		if head != nil {
			t.Fatalf("bucket %v not nil after all records removed", i)
		}
	}
}

// TestAllocationIndexCollisionsWithResizeDisabled: with downsize disabled
// and upsize/sweep thresholds unreachably high, 64 distinct pointers
// inserted into a small prime-capacity index guarantee chain collisions
// but every invariant still holds.
func TestAllocationIndexCollisionsWithResizeDisabled(t *testing.T) {
	idx := NewAllocationIndex(32, 32, 100.0, 0.0, 100.0)
	startCap := idx.Capacity()

	for i := 0; i < 64; i++ {
		idx.Put(uintptr(0x9000+i*8), 8, nil)
	}
	if idx.Size() != 64 {
		t.Fatalf("Size() = %v, want 64", idx.Size())
	}
	if idx.Capacity() != startCap {
		t.Fatalf("capacity changed from %v to %v though resize was disabled", startCap, idx.Capacity())
	}

	for i := 0; i < 64; i++ {
		idx.Put(uintptr(0x9000+i*8), 8, func(uintptr) {})
	}
	if idx.Size() != 64 {
		t.Fatalf("Size() after updating finalizers = %v, want 64", idx.Size())
	}

	for i := 0; i < 64; i++ {
		idx.Remove(uintptr(0x9000+i*8), false)
	}
	if idx.Size() != 0 {
		t.Fatalf("Size() after removing all = %v, want 0", idx.Size())
	}
	for i, head := range idx.buckets {
		if head != nil {
			t.Fatalf("bucket %v not nil after removing all records", i)
		}
	}
}

func TestAllocationIndexEach(t *testing.T) {
	idx := NewAllocationIndex(8, 8, 0.5, 0.2, 0.8)
	want := map[uintptr]bool{0x100: true, 0x108: true, 0x110: true}
	for ptr := range want {
		idx.Put(ptr, 8, nil)
	}
	seen := map[uintptr]bool{}
	idx.Each(func(r *AllocationRecord) { seen[r.Ptr] = true })
	if len(seen) != len(want) {
		t.Fatalf("Each visited %v records, want %v", len(seen), len(want))
	}
	for ptr := range want {
		if !seen[ptr] {
			t.Fatalf("Each did not visit %x", ptr)
		}
	}
}
