// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/hartstack/emulator"
	"github.com/ezrec/hartstack/machine"
)

func main() {
	var script string
	var harts uint
	var ram uint
	var hartStack uint
	var defines bool
	var verbose bool

	flag.StringVar(&script, "c", "", ".star scenario file to run")
	flag.UintVar(&harts, "n", 4, "Number of harts")
	flag.UintVar(&ram, "m", 65536, "RAM size in bytes")
	flag.UintVar(&hartStack, "k", 4096, "Per-hart stack size in bytes")
	flag.BoolVar(&defines, "D", false, "Dump defines, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	m, err := machine.NewMachine(uint32(harts), uintptr(ram), uintptr(hartStack))
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	m.Verbose = verbose

	sc := emulator.NewScenario(m)
	sc.Verbose = verbose

	if defines {
		for key, value := range sc.Defines() {
			fmt.Printf("%v=%v\n", key, value)
		}
		return
	}

	if len(script) != 0 {
		inf, err := os.Open(script)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
		defer inf.Close()

		err = sc.Run(script, inf)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
	}

	// Per-hart report after the scenario has run.
	insp := m.Inspector()
	fmt.Printf("%4s %10s %8s %8s %8s %9s %9s\n",
		"hart", "sp", "size", "use", "free", "fraction", "watermark")
	for id := range m.Regions() {
		err = m.SetHart(id)
		if err != nil {
			log.Fatalf("%v: hart %v: %v", os.Args[0], id, err)
		}

		fmt.Printf("%4d %#10x %8d %8d %8d %9.3f %9d\n",
			id,
			insp.StackPointer(),
			insp.StackSize(),
			insp.StackInUse(),
			insp.StackFree(),
			insp.StackFraction(),
			insp.Painted(),
		)
	}
}
