package stack

// Painted is the number of stack bytes not overwritten since the last
// [Inspector.Repaint]. In other words, the worst case free stack space
// since the stack was painted.
//
// The scan walks upward from the region's low boundary and stops at the
// first word that no longer holds PAINT_VALUE, or at the current stack
// pointer, whichever comes first. The result is the byte distance from
// the region's End to the stopping point; because End itself is
// exclusive, one word is the smallest observable value.
//
// This is an estimate, never a guarantee. An interrupt during the scan,
// or writes left behind the cursor, undercount silently. Program data
// that happens to equal PAINT_VALUE overcounts. Do not hang safety
// decisions on it.
//
// Runs in O(n) of the stack size.
func (in *Inspector) Painted() uintptr {
	region := in.Stack()
	sp := in.StackPointer()

	ptr := region.Rev().Low
	for ptr < sp && in.Memory.LoadWord(ptr) == PAINT_VALUE {
		ptr += WORD_SIZE
	}

	return ptr - region.End
}

// PaintedBinary is [Inspector.Painted] by binary search, in O(log n).
//
// It assumes the stack was written contiguously and monotonically from
// the low boundary since the last repaint, and finds the partition point
// between "still sentinel" and "overwritten". On any input honoring that
// assumption it returns exactly what Painted returns.
//
// This is a deliberately opt-in variant with sharper hazards than the
// linear scan, all undetected:
//   - it reads memory below the live stack pointer;
//   - out-of-order writes into the painted area violate the monotonic
//     assumption and skew the answer;
//   - a PAINT_VALUE word inside the active stack can make the result
//     arbitrarily wrong.
func (in *Inspector) PaintedBinary() uintptr {
	region := in.Stack()
	sp := in.StackPointer()

	low := region.Rev().Low
	var words uintptr
	if sp > low {
		words = (sp - low) / WORD_SIZE
	}

	// First word index no longer holding the sentinel.
	lo, hi := uintptr(0), words
	for lo < hi {
		mid := (lo + hi) / 2
		if in.Memory.LoadWord(low+mid*WORD_SIZE) == PAINT_VALUE {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return (low + lo*WORD_SIZE) - region.End
}
