// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs Starlark scenario scripts against a simulated
// machine. A script drives stack activity (push, pop, interrupts, raw
// pokes) and reads the inspector's measurements, which makes it easy to
// reproduce painting and watermark behavior without target hardware.
package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/hartstack/internal"
	"github.com/ezrec/hartstack/machine"
	"github.com/ezrec/hartstack/stack"
)

// Scenario state. Machine + script environment.
type Scenario struct {
	Verbose          bool // If set, enables verbose logging.
	*machine.Machine      // Reference to the simulated target.

	Output io.Writer // Destination of the script's print(). Defaults to stdout.
}

// NewScenario creates a scenario over the given machine.
func NewScenario(m *machine.Machine) (sc *Scenario) {
	sc = &Scenario{
		Machine: m,
		Output:  os.Stdout,
	}

	return
}

// Defines returns an iterator over all of the defines.
func (sc *Scenario) Defines() iter.Seq2[string, string] {
	dynamic := map[string]string{
		"HARTS":     fmt.Sprintf("%v", sc.Machine.Harts()),
		"STACK_TOP": fmt.Sprintf("%#x", sc.Machine.Layout.StackTop),
		"HART_SIZE": fmt.Sprintf("%v", sc.Machine.Layout.HartSize),
	}

	return internal.IterSeq2Concat(maps.All(dynamic), sc.Machine.Defines())
}

// Run executes one scenario script. The script sees the builtins and
// constants from [Scenario.predeclared]; any script-level failure is
// wrapped in [ErrScript].
func (sc *Scenario) Run(name string, src io.Reader) (err error) {
	text, err := io.ReadAll(src)
	if err != nil {
		return &ErrScript{Name: name, Err: err}
	}

	if sc.Verbose {
		log.Printf("emulator: run %v", name)
	}

	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(sc.Output, msg)
		},
	}
	opts := syntax.FileOptions{}

	_, err = starlark.ExecFileOptions(&opts, thread, name, text, sc.predeclared())
	if err != nil {
		err = &ErrScript{Name: name, Err: err}
	}

	return
}

// predeclared builds the script environment: measurement and activity
// builtins plus the machine constants.
func (sc *Scenario) predeclared() starlark.StringDict {
	insp := sc.Machine.Inspector()

	// Builtin taking no arguments, returning an address or byte count.
	metric := func(name string, fn func() uintptr) *starlark.Builtin {
		return starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
				return nil, err
			}
			return starlark.MakeUint64(uint64(fn())), nil
		})
	}

	// Builtin taking a byte count, driving hart stack activity.
	action := func(name string, fn func(size uintptr) error) *starlark.Builtin {
		return starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var size int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "size", &size); err != nil {
				return nil, err
			}
			if size < 0 {
				return nil, fmt.Errorf("%v: size %v is negative", b.Name(), size)
			}
			if err := fn(uintptr(size)); err != nil {
				return nil, err
			}
			return starlark.None, nil
		})
	}

	hart := starlark.NewBuiltin("hart", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var id int
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "id", &id); err != nil {
			return nil, err
		}
		if id < 0 {
			return nil, machine.ErrHartInvalid
		}
		if err := sc.Machine.SetHart(uint32(id)); err != nil {
			return nil, err
		}
		return starlark.None, nil
	})

	poke := starlark.NewBuiltin("poke", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var offset, value int
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "offset", &offset, "value", &value); err != nil {
			return nil, err
		}
		if offset < 0 {
			return nil, machine.ErrOffsetInvalid
		}
		if err := sc.Machine.Poke(uintptr(offset), uint32(value)); err != nil {
			return nil, err
		}
		return starlark.None, nil
	})

	paint := starlark.NewBuiltin("paint", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
			return nil, err
		}
		insp.Repaint()
		return starlark.None, nil
	})

	fraction := starlark.NewBuiltin("fraction", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
			return nil, err
		}
		return starlark.Float(insp.StackFraction()), nil
	})

	return starlark.StringDict{
		"PAINT_VALUE": starlark.MakeUint64(uint64(stack.PAINT_VALUE)),
		"WORD_SIZE":   starlark.MakeUint64(uint64(stack.WORD_SIZE)),
		"HARTS":       starlark.MakeUint64(uint64(sc.Machine.Harts())),

		"hart": hart,
		"push": action("push", sc.Machine.Push),
		"pop":  action("pop", sc.Machine.Pop),
		"irq":  action("irq", sc.Machine.Interrupt),
		"poke": poke,

		"paint":            paint,
		"sp":               metric("sp", insp.StackPointer),
		"stack_size":       metric("stack_size", insp.StackSize),
		"in_use":           metric("in_use", insp.StackInUse),
		"free":             metric("free", insp.StackFree),
		"fraction":         fraction,
		"watermark":        metric("watermark", insp.Painted),
		"watermark_binary": metric("watermark_binary", insp.PaintedBinary),
	}
}
