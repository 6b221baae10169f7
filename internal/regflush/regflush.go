// Package regflush materializes the CPU's general-purpose integer
// registers into an addressable stack buffer, and reports the caller's
// stack pointer. A conservative collector can only scan memory it can
// address, so any pointer a mutator is holding purely in a register has
// to be spilled somewhere before a stack scan can see it. A plain,
// non-inlined assembly call is enough of a barrier for that: the CALL
// instruction can't be reordered around the code that runs after it in
// the caller, so by the time FlushRegisters returns every register it
// covers has already landed in buf.
//
// NumSlots is generous rather than exact: conservative scanning does not
// need every register accounted for, only enough that a pointer held
// purely in a register (never spilled by the compiler) is still found
// before the stack scan runs. Slots beyond what an architecture defines
// are left zeroed and contribute nothing to the scan.
package regflush

// NumSlots is the number of uintptr-sized slots FlushRegisters writes.
const NumSlots = 32

// FlushRegisters writes the current general-purpose integer registers
// into buf and returns the stack pointer at the point of the call,
// implemented in assembly per-GOARCH (regflush_amd64.s, regflush_arm64.s).
// On architectures without an assembly implementation, the build falls
// back to a pure-Go stand-in that cannot observe register-only values,
// so recall on those architectures is reduced to whatever the runtime
// has already spilled to the stack.
func FlushRegisters(buf *[NumSlots]uintptr) uintptr {
	return flushRegisters(buf)
}
