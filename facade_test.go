package ggc

import "testing"
import "unsafe"

func testContext(t *testing.T) (*CollectorContext, func()) {
	var sentinel int
	bos := uintptr(unsafe.Pointer(&sentinel))
	ctx := StartExt(bos, ExtSettings(61, 61, 0.0, 100.0, 100.0))
	return ctx, func() { ctx.Stop() }
}

func TestMallocBasic(t *testing.T) {
	ctx, done := testContext(t)
	defer done()

	ptr := ctx.Malloc(64)
	if ptr == 0 {
		t.Fatalf("Malloc returned 0")
	}
	r := ctx.index.Get(ptr)
	if r == nil || r.Size != 64 {
		t.Fatalf("unexpected record after Malloc: %+v", r)
	}
}

func TestCallocZerosMemory(t *testing.T) {
	ctx, done := testContext(t)
	defer done()

	ptr := ctx.Calloc(8, 8)
	if ptr == 0 {
		t.Fatalf("Calloc returned 0")
	}
	buf := viewbytes(ptr, 64)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %v not zeroed: %v", i, b)
		}
	}
}

func TestMallocExtFinalizerCalledOnFree(t *testing.T) {
	ctx, done := testContext(t)
	defer done()

	var called uintptr
	ptr := ctx.MallocExt(32, func(p uintptr) { called = p })
	ctx.Free(ptr)
	if called != ptr {
		t.Fatalf("finalizer not invoked on Free, called=%x want=%x", called, ptr)
	}
	if ctx.index.Get(ptr) != nil {
		t.Fatalf("record still present after Free")
	}
}

func TestFreeUnknownIsNoop(t *testing.T) {
	ctx, done := testContext(t)
	defer done()
	ctx.Free(0xdeadbeef) // must not panic
}

func TestDoubleFreeIsNoop(t *testing.T) {
	ctx, done := testContext(t)
	defer done()

	ptr := ctx.Malloc(16)
	ctx.Free(ptr)
	ctx.Free(ptr) // second call is a no-op, must not panic
}

func TestReallocNullActsAsMalloc(t *testing.T) {
	ctx, done := testContext(t)
	defer done()

	ptr := ctx.Realloc(0, 42)
	if ptr == 0 {
		t.Fatalf("Realloc(0, 42) returned 0")
	}
	r := ctx.index.Get(ptr)
	if r == nil || r.Size != 42 {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestReallocUnmanagedReturnsZero(t *testing.T) {
	ctx, done := testContext(t)
	defer done()

	if got := ctx.Realloc(0x12345, 16); got != 0 {
		t.Fatalf("Realloc of unmanaged ptr = %x, want 0", got)
	}
}

func TestReallocGrowsAcrossSizeClassPreservesData(t *testing.T) {
	ctx, done := testContext(t)
	defer done()

	ptr := ctx.Malloc(8)
	buf := viewbytes(ptr, 8)
	copy(buf, []byte("12345678"))

	grown := ctx.Realloc(ptr, 4096)
	if grown == 0 {
		t.Fatalf("Realloc to 4096 returned 0")
	}
	got := viewbytes(grown, 8)
	if string(got) != "12345678" {
		t.Fatalf("data not preserved across realloc: %q", got)
	}
	if ctx.index.Get(grown).Size != 4096 {
		t.Fatalf("record size not updated after realloc")
	}
}

func TestReallocPreservesRootTag(t *testing.T) {
	ctx, done := testContext(t)
	defer done()

	ptr := ctx.MallocStatic(8, nil)
	grown := ctx.Realloc(ptr, 4096)
	r := ctx.index.Get(grown)
	if r == nil || !r.HasTag(TagRoot) {
		t.Fatalf("ROOT tag not preserved across relocating realloc")
	}
}

func TestStrdup(t *testing.T) {
	ctx, done := testContext(t)
	defer done()

	s := "This is a string"
	ptr := ctx.Strdup(s)
	if ptr == 0 {
		t.Fatalf("Strdup returned 0")
	}
	r := ctx.index.Get(ptr)
	if r == nil || r.Size != int64(len(s))+1 {
		t.Fatalf("unexpected record size: %+v", r)
	}
	buf := viewbytes(ptr, r.Size)
	if string(buf[:len(s)]) != s || buf[len(s)] != 0 {
		t.Fatalf("strdup did not copy byte-for-byte including terminator: %q", buf)
	}
}

func TestMakeStaticSetsRootTag(t *testing.T) {
	ctx, done := testContext(t)
	defer done()

	ptr := ctx.Malloc(16)
	ctx.MakeStatic(ptr)
	if !ctx.index.Get(ptr).HasTag(TagRoot) {
		t.Fatalf("MakeStatic did not set ROOT tag")
	}
}
