// Package app provides the main application helper for the virtual machine.
package app

import (
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

// PrintInfo prints the information about the input file and the emulation
// settings that differ from the defaults.
func PrintInfo(logger *log.Logger, opts options.Program, programSize int, emu options.Emulation) {
	if opts.Quiet {
		return
	}

	logger.Info("Processing CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", programSize),
		log.String("display", opts.Display),
	)

	if emu.Quirks != (vm.Quirks{}) {
		logger.Info("Compatibility quirks enabled",
			log.Bool("shift_vy", emu.Quirks.ShiftUsesVY),
			log.Bool("increment_index", emu.Quirks.IncrementIndex),
			log.Stringer("collision", emu.Quirks.Collision),
			log.Bool("call_stack", emu.Quirks.CallStack),
		)
	}
	if emu.MaxSteps > 0 || len(emu.Breakpoints) > 0 {
		logger.Debug("Run limits",
			log.Uint64("max_steps", emu.MaxSteps),
			log.Int("breakpoints", len(emu.Breakpoints)),
		)
	}
}
