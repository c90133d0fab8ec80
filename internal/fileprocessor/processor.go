// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/chip8vm/internal/app"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// ProcessFile handles the complete file processing workflow, output is
// written to stdout.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, emu options.Emulation) error {
	return process(ctx, logger, opts, emu, os.Stdout)
}

func process(ctx context.Context, logger *log.Logger, opts options.Program,
	emu options.Emulation, out io.Writer) error {

	program, err := loader.New().Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	if opts.Disasm {
		return vm.WriteListing(out, program, vm.ProgramStart)
	}

	sink, term := createDisplay(logger, opts, out)
	machine := vm.New(sink,
		vm.WithLogger(logger),
		vm.WithQuirks(emu.Quirks),
	)
	if err := machine.Load(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	app.PrintInfo(logger, opts, len(program), emu)

	runOpts := runner.Options{
		MaxSteps:    emu.MaxSteps,
		Breakpoints: set.NewFromSlice(emu.Breakpoints),
		StopOnIdle:  emu.StopOnIdle,
	}
	res, runErr := runner.Run(ctx, logger, machine, runOpts)

	if term != nil && term.Err() != nil {
		return fmt.Errorf("rendering display: %w", term.Err())
	}
	if opts.Dump {
		if err := writeDump(out, machine.Snapshot()); err != nil {
			return fmt.Errorf("writing dump: %w", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("running %s: %w", opts.Input, runErr)
	}

	logger.Info("Program stopped",
		log.String("file", opts.Input),
		log.Stringer("reason", res.Reason),
		log.Uint64("steps", res.Steps),
		log.Hex("pc", res.PC))
	return nil
}

// createDisplay returns the display sink selected by the options and the
// terminal display if it is used.
func createDisplay(logger *log.Logger, opts options.Program, out io.Writer) (vm.Display, *display.Terminal) {
	if opts.Display == options.DisplayNone {
		return display.Null{}, nil
	}
	term := display.NewTerminal(out, logger)
	return term, term
}

// writeDump writes the framebuffer followed by the register contents.
func writeDump(out io.Writer, state *vm.State) error {
	var sb strings.Builder
	sb.WriteString(state.Framebuffer.String())
	fmt.Fprintf(&sb, "PC=$%03X I=$%03X SP=%d\n", state.PC, state.I, len(state.Stack))
	for i, value := range state.V {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "V%X=%02X", i, value)
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(out, sb.String())
	return err
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	if len(commit) > 7 {
		commit = commit[:7]
	}
	if strings.Contains(date, "unknown") {
		date = ""
	}
	logger.Info("chip8vm", log.String("version", buildinfo.Version(version, commit, date)))
}
