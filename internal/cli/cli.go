// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/vm"
)

// emulationFlags holds the raw values of the flags that override the
// emulation options of the config file.
type emulationFlags struct {
	shiftVY        bool
	incrementIndex bool
	collision      string
	callStack      bool
	maxSteps       uint64
	breakpoints    string
	stopOnIdle     bool
}

// ParseFlags parses command line flags and returns program and emulation options.
// Emulation options are read from the config file first if one is given,
// flags that are set explicitly take precedence.
func ParseFlags() (options.Program, options.Emulation, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	var emuFlags emulationFlags
	readOptionFlags(flags, &opts)
	readEmulationFlags(flags, &emuFlags)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "" && opts.Input == "") {
		return opts, options.Emulation{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Emulation{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Emulation{}, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	emu := options.NewEmulation()
	if opts.Config != "" {
		emu, err = config.LoadFile(opts.Config)
		if err != nil {
			return opts, options.Emulation{}, fmt.Errorf("loading config: %w", err)
		}
	}

	if err := applyEmulationFlags(flags, emuFlags, &emu); err != nil {
		return opts, options.Emulation{}, err
	}

	return opts, emu, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage information of all flags.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8vm [options] <ROM file to run>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Display = strings.ToLower(opts.Display)

	validDisplays := []string{options.DisplayTerminal, options.DisplayNone}
	for _, valid := range validDisplays {
		if opts.Display == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported display: %s. Valid options: %s",
		opts.Display, strings.Join(validDisplays, ", "))
}

// applyEmulationFlags overrides the emulation options with all flags that
// were set on the command line.
func applyEmulationFlags(flags *flag.FlagSet, values emulationFlags, emu *options.Emulation) error {
	var err error
	flags.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}

		switch f.Name {
		case "shift-vy":
			emu.Quirks.ShiftUsesVY = values.shiftVY
		case "increment-index":
			emu.Quirks.IncrementIndex = values.incrementIndex
		case "collision":
			var rule vm.CollisionRule
			rule, err = vm.ParseCollisionRule(values.collision)
			emu.Quirks.Collision = rule
		case "call-stack":
			emu.Quirks.CallStack = values.callStack
		case "steps":
			emu.MaxSteps = values.maxSteps
		case "break":
			var addresses []uint16
			addresses, err = config.ParseAddresses(values.breakpoints)
			emu.Breakpoints = addresses
		case "idle":
			emu.StopOnIdle = values.stopOnIdle
		}
	})
	return err
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Config, "c", "", "config file with quirks and run settings")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask, for example *.ch8")
	flags.StringVar(&opts.Display, "display", options.DisplayTerminal, "display output (terminal/none)")
	flags.BoolVar(&opts.Dump, "dump", false, "print the final framebuffer and registers after the run")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the ROM instead of running it")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readEmulationFlags(flags *flag.FlagSet, values *emulationFlags) {
	flags.BoolVar(&values.shiftVY, "shift-vy", false, "shift instructions shift VY into VX (original CHIP-8)")
	flags.BoolVar(&values.incrementIndex, "increment-index", false, "register store and load instructions increment I")
	flags.StringVar(&values.collision, "collision", vm.CollisionOnErase.String(), "sprite collision rule (erase/span)")
	flags.BoolVar(&values.callStack, "call-stack", false, "enable subroutine calls, 00EE returns instead of clearing the screen")
	flags.Uint64Var(&values.maxSteps, "steps", 0, "stop after the given number of instructions, 0 for unlimited")
	flags.StringVar(&values.breakpoints, "break", "", "comma separated list of addresses to stop at, for example 0x200,0x2A0")
	flags.BoolVar(&values.stopOnIdle, "idle", true, "stop when the program jumps to its own address or waits for a key")
}
