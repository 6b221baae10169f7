package sysmem

import "fmt"

import s "github.com/prataprc/gosettings"

// Alignment every allocated chunk is aligned to. minblock/maxblock must
// be multiples of Sizeinterval.
const Alignment = int64(8)

// Sizeinterval minblock and maxblock must be multiples of this.
const Sizeinterval = int64(32)

// MEMUtilization is the ratio between allocated memory handed to the
// application and useful memory requested from the OS; it drives the
// geometric growth of size classes in Blocksizes.
const MEMUtilization = float64(0.95)

// Maxarenasize upper bound on a single arena's capacity.
const Maxarenasize = int64(1024 * 1024 * 1024 * 1024) // 1TB

// Maxpools maximum number of distinct size-classes an arena may carve.
const Maxpools = int64(256)

// Maxchunks maximum number of chunks allowed in a single pool.
const Maxchunks = int64(65536)

// Defaultsettings for an arena sized to hold blocks between minblock and
// maxblock bytes.
func Defaultsettings(minblock, maxblock int64) s.Settings {
	if minblock > maxblock {
		panic(fmt.Errorf("minblock(%v) > maxblock(%v)", minblock, maxblock))
	}
	return s.Settings{
		"minblock": minblock,
		"maxblock": maxblock,
	}
}
