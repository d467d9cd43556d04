package stack

const (
	WORD_SIZE   = uintptr(4)         // Width in bytes of one stack slot.
	WORD_MASK   = ^uintptr(3)        // Alignment mask applied to region bounds.
	PAINT_VALUE = uint32(0xCCCCCCCC) // Sentinel stamped on unused stack words.
)

// Region is one hart's stack interval in native order.
//
// Stacks grow downward, so Start is the highest usable address and the
// region runs from Start down to End. Read as an ascending interval it is
// empty, because Start >= End; never iterate it as one. End is one word
// below the last usable word: it belongs to the next hart's stack, so it
// must never be written.
//
// For range-style arithmetic use [Region.Rev] instead.
type Region struct {
	Start uintptr // Stack origin, the highest usable address.
	End   uintptr // Low bound, exclusive. Owned by the neighbor hart.
}

// Size is the number of usable bytes in the region.
func (r Region) Size() uintptr {
	return r.Start - r.End
}

// Rev is the same region as an ascending interval.
//
// Both bounds shift up one word to keep their meaning. High is exclusive
// and therefore one word beyond the last valid location; it is only a
// bound, never an address to write.
func (r Region) Rev() Span {
	return Span{Low: r.End + WORD_SIZE, High: r.Start + WORD_SIZE}
}

// Span is an ascending half-open address interval [Low, High).
type Span struct {
	Low  uintptr // First valid word address.
	High uintptr // One past the last valid word address. Never write here.
}

// Contains reports whether addr falls inside the span.
func (s Span) Contains(addr uintptr) bool {
	return addr >= s.Low && addr < s.High
}

// Words is the number of whole words in the span.
func (s Span) Words() uintptr {
	return (s.High - s.Low) / WORD_SIZE
}
