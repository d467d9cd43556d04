package stack

// Repaint stamps PAINT_VALUE on every word of the executing hart's stack
// below the current stack pointer. Words at or above the stack pointer
// are never touched.
//
// Runs in O(n) of the stack size, and repaints unconditionally, including
// words that still hold the sentinel.
//
// Not interrupt safe: an interrupt that lands mid-paint will either have
// part of its frame painted over or will dirty words already painted.
// Callers that need atomicity must wrap the call in their own critical
// section; this package takes no lock.
func (in *Inspector) Repaint() {
	sp := in.StackPointer()
	for ptr := in.StackRev().Low; ptr < sp; ptr += WORD_SIZE {
		in.Memory.StoreWord(ptr, PAINT_VALUE)
	}
}
