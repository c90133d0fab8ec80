// Package options contains the program options.
package options

import (
	"github.com/retroenv/chip8vm/internal/vm"
)

// Display sink names.
const (
	DisplayTerminal = "terminal"
	DisplayNone     = "none"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Config string `flag:"c" usage:"config file with quirks and run settings"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.ch8)"`
}

// Flags contains behavior options.
type Flags struct {
	Display string `flag:"display" usage:"display output: terminal, none" default:"terminal"`
	Dump    bool   `flag:"dump" usage:"print the final framebuffer and registers"`
	Disasm  bool   `flag:"disasm" usage:"print a disassembly listing of the program instead of running it"`
	Debug   bool   `flag:"debug" usage:"enable debug logging"`
	Trace   bool   `flag:"trace" usage:"log every executed instruction"`
	Quiet   bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the virtual machine.
type Program struct {
	Parameters
	Flags
}

// Emulation defines options to control the machine and the run loop.
type Emulation struct {
	Quirks      vm.Quirks
	MaxSteps    uint64   // stop after this many instructions, 0 for unlimited
	Breakpoints []uint16 // stop before executing an instruction at these addresses
	StopOnIdle  bool     // stop at a jump to its own address
}

// NewEmulation returns the default emulation options.
func NewEmulation() Emulation {
	return Emulation{
		StopOnIdle: true,
	}
}
