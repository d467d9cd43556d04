// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package machine simulates a multi-hart RV32 target for the stack
// inspector: a flat RAM window, one stack pointer per hart, and the
// linker's stack layout stacked downward from the top of RAM.
package machine

import (
	"encoding/binary"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/hartstack/stack"
)

const (
	RAM_BASE   = uintptr(0x8000_0000) // RV32 RAM window base address.
	FRAME_FILL = uint32(0xA5A5_A5A5)  // Word written by simulated frame pushes.
)

var _machine_defines = map[string]string{
	"RAM_BASE":    fmt.Sprintf("%#x", RAM_BASE),
	"WORD_SIZE":   fmt.Sprintf("%v", stack.WORD_SIZE),
	"PAINT_VALUE": fmt.Sprintf("%#x", stack.PAINT_VALUE),
	"FRAME_FILL":  fmt.Sprintf("%#x", FRAME_FILL),
}

// Machine is the simulated target state.
type Machine struct {
	Verbose bool         // Set to enable verbose logging.
	Ram     []byte       // RAM window, starting at RAM_BASE.
	Layout  stack.Layout // Linker stack contract for this machine.

	sp   []uintptr // Per-hart stack pointer registers.
	hart uint32    // Currently executing hart.
}

// NewMachine creates a machine with the given hart count, RAM size, and
// nominal per-hart stack size. The combined stack area occupies the top
// of RAM, hart 0 highest.
func NewMachine(harts uint32, ramSize uintptr, hartSize uintptr) (m *Machine, err error) {
	if harts == 0 {
		return nil, ErrHartCount
	}
	if hartSize < stack.WORD_SIZE {
		return nil, ErrStackSize
	}
	if uintptr(harts)*hartSize > ramSize {
		return nil, ErrRamSize
	}

	m = &Machine{
		Ram: make([]byte, ramSize),
		Layout: stack.Layout{
			StackTop: RAM_BASE + ramSize,
			HartSize: hartSize,
		},
		sp: make([]uintptr, harts),
	}

	m.Reset()

	return
}

// Reset zero-fills RAM and points every hart's stack pointer at its own
// stack origin.
func (m *Machine) Reset() {
	clear(m.Ram)
	for id := range m.sp {
		m.sp[id] = stack.Locate(m.Layout, uint32(id)).Start
	}
	m.hart = 0
}

// Defines returns an iterator over the machine constants.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}

// Harts is the number of harts on this machine.
func (m *Machine) Harts() uint32 {
	return uint32(len(m.sp))
}

// SetHart selects which hart is "executing" for subsequent calls.
func (m *Machine) SetHart(id uint32) (err error) {
	if id >= m.Harts() {
		return ErrHartInvalid
	}
	m.hart = id
	return
}

// HartID reads the simulated mhartid register.
func (m *Machine) HartID() uint32 {
	return m.hart
}

// StackPointer reads the executing hart's sp register.
func (m *Machine) StackPointer() uintptr {
	return m.sp[m.hart]
}

// Inspector returns a stack inspector bound to this machine.
func (m *Machine) Inspector() *stack.Inspector {
	return &stack.Inspector{
		Layout: m.Layout,
		Target: m,
		Memory: m,
	}
}

// Regions returns an iterator over every hart's stack region.
func (m *Machine) Regions() iter.Seq2[uint32, stack.Region] {
	return func(yield func(uint32, stack.Region) bool) {
		for id := range m.Harts() {
			if !yield(id, stack.Locate(m.Layout, id)) {
				return
			}
		}
	}
}

// ramOffset maps an address into the RAM slice, trapping on a word
// access outside the window.
func (m *Machine) ramOffset(addr uintptr) int {
	if addr < RAM_BASE || addr+stack.WORD_SIZE > RAM_BASE+uintptr(len(m.Ram)) {
		panic(ErrBusFault(addr))
	}
	return int(addr - RAM_BASE)
}

// LoadWord reads the little-endian word at addr.
func (m *Machine) LoadWord(addr uintptr) (value uint32) {
	return binary.LittleEndian.Uint32(m.Ram[m.ramOffset(addr):])
}

// StoreWord writes the little-endian word at addr.
func (m *Machine) StoreWord(addr uintptr, value uint32) {
	binary.LittleEndian.PutUint32(m.Ram[m.ramOffset(addr):], value)
}

// Push grows the executing hart's stack by size bytes, rounded up to
// whole words, filling the new frame with FRAME_FILL. Growing past the
// bottom of RAM is refused; growing past the hart's own region is not,
// that is exactly the overflow the inspector exists to observe.
func (m *Machine) Push(size uintptr) (err error) {
	size = (size + stack.WORD_SIZE - 1) & stack.WORD_MASK

	sp := m.sp[m.hart]
	if size > sp-RAM_BASE {
		return ErrStackOverflow
	}

	sp -= size
	for ptr := sp; ptr < m.sp[m.hart]; ptr += stack.WORD_SIZE {
		m.StoreWord(ptr, FRAME_FILL)
	}
	m.sp[m.hart] = sp

	if m.Verbose {
		log.Printf("machine: hart %d push %d sp %#x", m.hart, size, sp)
	}

	return
}

// Pop shrinks the executing hart's stack by size bytes, rounded up to
// whole words. Popped words keep their contents, as on real hardware.
func (m *Machine) Pop(size uintptr) (err error) {
	size = (size + stack.WORD_SIZE - 1) & stack.WORD_MASK

	region := stack.Locate(m.Layout, m.hart)
	sp := m.sp[m.hart]
	if sp+size > region.Start {
		return ErrStackUnderflow
	}

	m.sp[m.hart] = sp + size

	if m.Verbose {
		log.Printf("machine: hart %d pop %d sp %#x", m.hart, size, sp+size)
	}

	return
}

// Interrupt simulates an interrupt frame of size bytes: grow, dirty,
// and shrink again. The dirtied words sit below the restored stack
// pointer, which is the hazard painted-stack scans have to live with.
func (m *Machine) Interrupt(size uintptr) (err error) {
	err = m.Push(size)
	if err != nil {
		return
	}

	return m.Pop(size)
}

// Poke writes a raw word at a byte offset above the executing hart's
// region End. Used to plant out-of-order writes inside the painted area.
func (m *Machine) Poke(offset uintptr, value uint32) (err error) {
	if offset&^stack.WORD_MASK != 0 {
		return ErrOffsetInvalid
	}

	region := stack.Locate(m.Layout, m.hart)
	addr := region.End + offset
	if !region.Rev().Contains(addr) {
		return ErrOffsetInvalid
	}

	m.StoreWord(addr, value)

	return
}
