package ggc

import "testing"
import "unsafe"

func TestStartDefaultsThenStopReclaimsAll(t *testing.T) {
	var sentinel int
	ctx := Start(uintptr(unsafe.Pointer(&sentinel)))

	n := 8
	for i := 0; i < n; i++ {
		ctx.Malloc(32)
	}
	reclaimed := ctx.Stop()
	if reclaimed != int64(n*32) {
		t.Fatalf("Stop() reclaimed %v, want %v", reclaimed, n*32)
	}
}

func TestPauseDisablesAutomaticTrigger(t *testing.T) {
	var sentinel int
	bos := uintptr(unsafe.Pointer(&sentinel))
	// sweep_limit = floor(capacity*sweep); pick a tiny capacity/sweep so
	// the watermark is crossed quickly, and verify Pause suppresses it.
	ctx := StartExt(bos, ExtSettings(11, 11, 0.0, 100.0, 0.1))
	defer func() {
		ctx.index.Destroy()
		ctx.arena.Release()
	}()

	ctx.Pause()
	if !ctx.Paused() {
		t.Fatalf("Paused() false after Pause()")
	}

	limit := ctx.index.SweepLimit()
	for i := int64(0); i < limit+5; i++ {
		ctx.Malloc(8)
	}
	if ctx.Stats().Samples() != 0 {
		t.Fatalf("an automatic cycle ran while paused: samples=%v", ctx.Stats().Samples())
	}

	ctx.Resume()
	if ctx.Paused() {
		t.Fatalf("Paused() true after Resume()")
	}
	ctx.Malloc(8)
	if ctx.Stats().Samples() == 0 {
		t.Fatalf("no automatic cycle ran after Resume() past the watermark")
	}
}

func TestRunUpdatesStats(t *testing.T) {
	var sentinel int
	ctx := StartExt(uintptr(unsafe.Pointer(&sentinel)), ExtSettings(61, 61, 0.0, 100.0, 100.0))
	defer func() {
		ctx.index.Destroy()
		ctx.arena.Release()
	}()

	for i := 0; i < 3; i++ {
		ctx.Run()
	}
	if ctx.Stats().Samples() != 3 {
		t.Fatalf("Samples() = %v, want 3", ctx.Stats().Samples())
	}
}

func TestStopUnrootsBeforeFinalSweep(t *testing.T) {
	var sentinel int
	ctx := Start(uintptr(unsafe.Pointer(&sentinel)))

	var finalized int
	ctx.MallocStatic(16, func(uintptr) { finalized++ })
	ctx.MallocStatic(16, func(uintptr) { finalized++ })

	reclaimed := ctx.Stop()
	if reclaimed != 32 {
		t.Fatalf("Stop() reclaimed %v, want 32", reclaimed)
	}
	if finalized != 2 {
		t.Fatalf("finalized = %v, want 2", finalized)
	}
}
