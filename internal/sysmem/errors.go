package sysmem

import "errors"

// ErrOutofMemory is returned by Arena.Alloc when satisfying a request
// would exceed the arena's configured capacity.
var ErrOutofMemory = errors.New("sysmem.outofmemory")

// ErrPtrTooLarge is returned by Arena.Alloc when a request exceeds the
// largest configured size class.
var ErrPtrTooLarge = errors.New("sysmem.ptrtoolarge")
