// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stack

// Layout is the stack area contract established by the linker script.
//
// The values are trusted absolutely. Overlapping regions or a bogus
// StackTop are a boot configuration fault, and show up as wild memory
// access rather than as an error from this package.
type Layout struct {
	StackTop uintptr // Address of the top of the combined stack area.
	HartSize uintptr // Nominal stack bytes reserved per hart.
}

// Target reads the two hardware registers the inspector depends on.
// Both reads are pure, side effect free, and safe from interrupt context.
type Target interface {
	// HartID returns the zero-based id of the executing hart (mhartid).
	HartID() uint32
	// StackPointer returns the live stack pointer (sp) as a raw address.
	StackPointer() uintptr
}

// Memory is word-granular access to the target's stack storage.
//
// Every address the inspector presents is derived from Layout, so a
// correctly configured target never sees an out-of-range access; if the
// layout contract is broken the access faults at the platform level.
type Memory interface {
	LoadWord(addr uintptr) (value uint32)
	StoreWord(addr uintptr, value uint32)
}

// Inspector measures the executing hart's stack.
//
// It holds no state of its own. Every call re-reads the hart id and the
// stack pointer, so there is no "current hart" to go stale; two calls are
// only mutually consistent if nothing changes the calling context between
// them.
type Inspector struct {
	Layout Layout
	Target Target
	Memory Memory
}

// Locate computes the stack region of the given hart.
//
// Each hart's region sits one HartSize below the previous hart's, down
// from StackTop. Both bounds round down to word alignment, so the
// effective size may fall up to three bytes short of the nominal
// HartSize. Rounding up instead would reach into a neighbor's region.
func Locate(layout Layout, hartid uint32) (region Region) {
	start := layout.StackTop - uintptr(hartid)*layout.HartSize
	end := start - layout.HartSize

	region.Start = start & WORD_MASK
	region.End = end & WORD_MASK

	return
}

// Stack is the executing hart's stack region in native order.
func (in *Inspector) Stack() Region {
	return Locate(in.Layout, in.Target.HartID())
}

// StackRev is the executing hart's stack region as an ascending span.
// See the exclusive-bound caveat on [Region.Rev].
func (in *Inspector) StackRev() Span {
	return in.Stack().Rev()
}

// StackPointer is the executing hart's live stack pointer.
func (in *Inspector) StackPointer() uintptr {
	return in.Target.StackPointer()
}

// StackSize is the number of bytes reserved for the executing hart's
// stack. Harts share a nominal size but may differ slightly after
// alignment, see [Locate].
func (in *Inspector) StackSize() uintptr {
	return in.Stack().Size()
}

// StackInUse is the number of bytes of stack currently in use.
func (in *Inspector) StackInUse() uintptr {
	return in.Stack().Start - in.StackPointer()
}

// StackFree is the number of bytes of stack currently free.
//
// Returns 0 if the stack has overflowed past its region.
func (in *Inspector) StackFree() (free uintptr) {
	size := in.StackSize()
	used := in.StackInUse()
	if used < size {
		free = size - used
	}
	return
}

// StackFraction is the fraction of the stack currently in use.
//
// A zero-size region yields NaN. That degenerate value is passed through
// rather than guarded, so never treat the fraction as a safety signal.
func (in *Inspector) StackFraction() float32 {
	return float32(in.StackInUse()) / float32(in.StackSize())
}
