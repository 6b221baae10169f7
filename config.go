package ggc

import s "github.com/prataprc/gosettings"

// Defaultsettings for a collector context.
//
// "index.initial" (int64, default: 1024)
//		Initial bucket capacity for the allocation index, raised to
//		the next prime. That prime is also the floor the index never
//		downsizes below.
//
// "index.min" (int64, default: 1024)
//		Lower bound on the starting capacity: the index starts at the
//		larger of the two primes. It does not set the downsize floor.
//
// "index.downsize" (float64, default: 0.2)
//		Load factor below which the index shrinks.
//
// "index.upsize" (float64, default: 0.8)
//		Load factor above which the index grows.
//
// "index.sweep" (float64, default: 0.5)
//		Multiplier on capacity used to derive the automatic sweep
//		trigger (sweep_limit = floor(capacity * sweep)).
//
// "arena.capacity" (int64, default: derived from free system memory)
//		Total bytes the backing sysmem arena may carve into pools.
//
// "arena.minblock" (int64, default: 32)
//		Smallest size class the arena allocates.
//
// "arena.maxblock" (int64, default: 1MB)
//		Largest size class the arena allocates.
func Defaultsettings() s.Settings {
	return s.Settings{
		"index.initial":  DefaultInitialCapacity,
		"index.min":      DefaultMinCapacity,
		"index.downsize": DefaultDownsizeFactor,
		"index.upsize":   DefaultUpsizeFactor,
		"index.sweep":    DefaultSweepFactor,
		"arena.capacity": int64(0), // 0 => derive from free system memory
		"arena.minblock": int64(32),
		"arena.maxblock": int64(1024 * 1024),
	}
}

// ExtSettings builds a settings object with explicit index tuning,
// for callers that want to pass the index parameters directly rather
// than building a Settings map by hand.
func ExtSettings(initial, min int64, downsize, upsize, sweep float64) s.Settings {
	setts := Defaultsettings()
	return setts.Mixin(s.Settings{
		"index.initial":  initial,
		"index.min":      min,
		"index.downsize": downsize,
		"index.upsize":   upsize,
		"index.sweep":    sweep,
	})
}
