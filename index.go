package ggc

import "github.com/prataprc/ggc/internal/sysmem"

// AllocationIndex is an open hash table from managed base address to
// AllocationRecord, separately chained, resized on load factor. Not
// safe for concurrent use.
type AllocationIndex struct {
	capacity       int64
	minCapacity    int64
	size           int64
	downsizeFactor float64
	upsizeFactor   float64
	sweepFactor    float64
	sweepLimit     int64
	buckets        []*AllocationRecord
}

// NewAllocationIndex creates an index sized from initialCapacity and
// minCapacity.
//
// Both capacities are first raised to NextPrime. The stored capacity is
// the larger of the two resulting primes. The stored floor (minCapacity,
// below which the table never downsizes) is always NextPrime(initialCapacity)
// — not NextPrime(minCapacity) — so that a caller-supplied floor can only
// ever raise the working capacity, never lower the point the table is
// willing to shrink back to:
//
//	NewAllocationIndex(8, 16, 0.5, 0.2, 0.8)  => minCapacity=11, capacity=17
//	NewAllocationIndex(8, 4,  0.5, 0.2, 0.8)  => minCapacity=11, capacity=11
func NewAllocationIndex(
	initialCapacity, minCapacity int64,
	sweepFactor, downsizeFactor, upsizeFactor float64,
) *AllocationIndex {
	primeInitial := NextPrime(initialCapacity)
	primeMin := NextPrime(minCapacity)
	capacity := primeInitial
	if primeMin > capacity {
		capacity = primeMin
	}
	idx := &AllocationIndex{
		capacity:       capacity,
		minCapacity:    primeInitial,
		downsizeFactor: downsizeFactor,
		upsizeFactor:   upsizeFactor,
		sweepFactor:    sweepFactor,
		buckets:        make([]*AllocationRecord, capacity),
	}
	idx.sweepLimit = sweeplimit(capacity, sweepFactor)
	return idx
}

func sweeplimit(capacity int64, factor float64) int64 {
	limit := int64(float64(capacity) * factor)
	if limit < 1 {
		limit = 1
	}
	return limit
}

// hashptr mixes a managed address into a bucket index. A raw pointer
// value makes a poor hash key on its own — allocator alignment means the
// low bits rarely vary — so the address is run through MurmurHash3's
// 64-bit finalizer (fmix64), a cheap avalanche, before reducing mod
// capacity.
func hashptr(ptr uintptr, capacity int64) int64 {
	h := uint64(ptr)
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return int64(h % uint64(capacity))
}

// Capacity returns the current bucket count.
func (idx *AllocationIndex) Capacity() int64 { return idx.capacity }

// Size returns the number of live records.
func (idx *AllocationIndex) Size() int64 { return idx.size }

// SweepLimit returns the size threshold that triggers an automatic cycle.
func (idx *AllocationIndex) SweepLimit() int64 { return idx.sweepLimit }

// Destroy releases the bucket array. Does not free managed blocks or
// invoke finalizers — the sweeper owns that.
func (idx *AllocationIndex) Destroy() {
	idx.buckets = nil
}

// Put inserts or updates the record for ptr. If a record for ptr already
// exists its size and finalizer are updated in place, its tag preserved,
// and the existing record is returned. Otherwise a new record is
// inserted at the head of its bucket chain.
func (idx *AllocationIndex) Put(ptr uintptr, size int64, finalizer Finalizer) *AllocationRecord {
	h := hashptr(ptr, idx.capacity)
	for r := idx.buckets[h]; r != nil; r = r.next {
		if r.Ptr == ptr {
			r.Size = size
			r.finalizer = finalizer
			return r
		}
	}
	r := &AllocationRecord{Ptr: ptr, Size: size, finalizer: finalizer, next: idx.buckets[h]}
	idx.buckets[h] = r
	idx.size++
	idx.maybeResize()
	return r
}

// putPool is Put plus the sysmem.Pool handle, used internally by the
// façade so that Free/Realloc can route back to the owning size-class
// pool.
func (idx *AllocationIndex) putPool(ptr uintptr, size int64, finalizer Finalizer, pool sysmem.Pool) *AllocationRecord {
	r := idx.Put(ptr, size, finalizer)
	r.pool = pool
	return r
}

// Get looks up the record for ptr, or nil if ptr is not managed.
func (idx *AllocationIndex) Get(ptr uintptr) *AllocationRecord {
	h := hashptr(ptr, idx.capacity)
	for r := idx.buckets[h]; r != nil; r = r.next {
		if r.Ptr == ptr {
			return r
		}
	}
	return nil
}

// Remove unlinks and returns the record for ptr, or nil if ptr is not
// managed. If callFinalizer is true and the record has a finalizer, it
// is invoked before Remove returns; the underlying managed block itself
// is released by the caller, not by Remove — this lets callers use
// Remove safely while tearing down the whole index (stop/sweep), where
// the block might already be gone.
func (idx *AllocationIndex) Remove(ptr uintptr, callFinalizer bool) *AllocationRecord {
	h := hashptr(ptr, idx.capacity)
	var prev *AllocationRecord
	for r := idx.buckets[h]; r != nil; r = r.next {
		if r.Ptr == ptr {
			if prev == nil {
				idx.buckets[h] = r.next
			} else {
				prev.next = r.next
			}
			idx.size--
			if callFinalizer && r.finalizer != nil {
				r.finalizer(r.Ptr)
			}
			r.next = nil
			idx.maybeResize()
			return r
		}
		prev = r
	}
	return nil
}

// Each walks every live record in the index, in unspecified order.
// Mutating the index from within fn is not safe.
func (idx *AllocationIndex) Each(fn func(*AllocationRecord)) {
	for _, head := range idx.buckets {
		for r := head; r != nil; r = r.next {
			fn(r)
		}
	}
}

// sweepPass walks every bucket chain once. Records with neither MARK nor
// ROOT set are unlinked, counted out of size, and passed to onUnmarked
// (which is expected to finalize and free the underlying block). Records
// that survive have their MARK bit cleared so the next cycle starts from
// a clean slate. Triggers no resize of its own — a bulk sweep already
// walks every bucket once, so folding a resize in here would just
// duplicate that work; the next Put or Remove picks up any load-factor
// change instead.
func (idx *AllocationIndex) sweepPass(onUnmarked func(*AllocationRecord)) {
	for h, head := range idx.buckets {
		var prev, next *AllocationRecord
		for r := head; r != nil; r = next {
			next = r.next
			if !r.HasTag(TagMark) && !r.HasTag(TagRoot) {
				if prev == nil {
					idx.buckets[h] = next
				} else {
					prev.next = next
				}
				idx.size--
				r.next = nil
				onUnmarked(r)
				continue
			}
			r.clearTag(TagMark)
			prev = r
		}
	}
}

func (idx *AllocationIndex) maybeResize() {
	if idx.capacity == 0 {
		return
	}
	load := float64(idx.size) / float64(idx.capacity)
	if load > idx.upsizeFactor {
		idx.resize(NextPrime(idx.capacity * 2))
		return
	}
	if load < idx.downsizeFactor {
		candidate := idx.capacity / 2
		if candidate < idx.minCapacity {
			candidate = idx.minCapacity
		}
		candidate = NextPrime(candidate)
		if candidate < idx.capacity {
			idx.resize(candidate)
		}
	}
}

func (idx *AllocationIndex) resize(newCapacity int64) {
	newBuckets := make([]*AllocationRecord, newCapacity)
	for _, head := range idx.buckets {
		for r := head; r != nil; {
			next := r.next
			h := hashptr(r.Ptr, newCapacity)
			r.next = newBuckets[h]
			newBuckets[h] = r
			r = next
		}
	}
	idx.capacity = newCapacity
	idx.buckets = newBuckets
	idx.sweepLimit = sweeplimit(newCapacity, idx.sweepFactor)
}
