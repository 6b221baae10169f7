package ggc

import "errors"

// ErrOutofMemory is the package-level counterpart of
// sysmem.ErrOutofMemory, which internal/sysmem returns when an arena
// cannot grow a pool without exceeding its configured capacity. No
// façade call returns either value: the façade recovers from the sysmem
// error by forcing a collection cycle and retrying once; if the retry
// also fails the allocating call returns 0.
var ErrOutofMemory = errors.New("ggc.outofmemory")

// ErrPtrTooLarge is the package-level counterpart of
// sysmem.ErrPtrTooLarge, which internal/sysmem returns when a requested
// allocation exceeds the largest size class the arena was configured for.
var ErrPtrTooLarge = errors.New("ggc.ptrtoolarge")
