// Package stack measures a RISC-V hart's call stack at runtime.
//
// The inspector resolves the executing hart's stack region from the
// linker-provided layout and the hart id, derives size, usage, free
// space, and fraction-in-use from the live stack pointer, and estimates
// the historical high-water mark by painting unused stack words with a
// sentinel and later scanning for the first overwritten word.
//
// Hardware access is confined to two narrow boundaries, the Target
// register reads and the Memory word accessor, so everything else runs
// unchanged against a simulated target. Nothing is cached between calls
// and nothing is locked; interrupts are the caller's concurrency hazard
// to manage. This package observes stack usage, it does not prevent
// overflow.
package stack
