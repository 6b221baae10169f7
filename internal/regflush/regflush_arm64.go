//go:build arm64

package regflush

//go:noescape
func flushRegisters(buf *[NumSlots]uintptr) uintptr
