package machine

import (
	"errors"

	"github.com/ezrec/hartstack/translate"
)

var f = translate.From

var (
	ErrHartCount      = errors.New(f("hart count invalid"))
	ErrHartInvalid    = errors.New(f("hart id invalid"))
	ErrRamSize        = errors.New(f("ram too small for stack area"))
	ErrStackSize      = errors.New(f("hart stack size invalid"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrOffsetInvalid  = errors.New(f("offset outside stack region"))
)

// ErrBusFault reports a word access outside the machine's RAM window.
// It is delivered by panic, the way real hardware would trap.
type ErrBusFault uintptr

func (err ErrBusFault) Error() string {
	return f("bus fault at %#x", uintptr(err))
}
