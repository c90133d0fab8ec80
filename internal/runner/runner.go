// Package runner drives the virtual machine by stepping it until a stop
// condition is met.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// StopReason describes why a run ended.
type StopReason uint8

// Reasons for a run to end.
const (
	StopNone StopReason = iota
	StopStepLimit
	StopBreakpoint
	StopIdle
	StopCancelled
	StopError
)

func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopStepLimit:
		return "step limit"
	case StopBreakpoint:
		return "breakpoint"
	case StopIdle:
		return "idle loop"
	case StopCancelled:
		return "cancelled"
	case StopError:
		return "error"
	default:
		return fmt.Sprintf("stop(%d)", uint8(r))
	}
}

// Options controls when a run stops.
type Options struct {
	// MaxSteps stops the run after the given number of executed
	// instructions, 0 means unlimited.
	MaxSteps uint64
	// Breakpoints stops the run before an instruction at one of the
	// addresses is executed. The instruction at the start address of a run
	// is always executed so that a run can continue from a breakpoint.
	Breakpoints set.Set[uint16]
	// StopOnIdle stops the run at a jump to its own address, which programs
	// use to halt, and at a key wait that no keypad can satisfy.
	StopOnIdle bool
}

// Result is the outcome of a run.
type Result struct {
	Steps  uint64
	Reason StopReason
	PC     uint16
}

// Run steps the machine until a stop condition is met. Cancellation of the
// context is checked between steps, a step is never interrupted.
// The returned result is valid also if an error is returned.
func Run(ctx context.Context, logger *log.Logger, machine *vm.Machine, opts Options) (Result, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	var res Result
	for {
		res.PC = machine.PC()

		if reason := checkStop(ctx, machine, opts, res.Steps); reason != StopNone {
			res.Reason = reason
			logger.Debug("Run stopped",
				log.Stringer("reason", reason),
				log.Uint64("steps", res.Steps),
				log.Hex("pc", res.PC))

			if reason == StopCancelled {
				return res, fmt.Errorf("running program: %w", ctx.Err())
			}
			return res, nil
		}

		if err := machine.Step(); err != nil {
			res.Reason = StopError
			logStepError(logger, err, res.Steps)
			return res, fmt.Errorf("executing instruction at $%03X: %w", res.PC, err)
		}
		res.Steps++
	}
}

func checkStop(ctx context.Context, machine *vm.Machine, opts Options, steps uint64) StopReason {
	if ctx.Err() != nil {
		return StopCancelled
	}
	if opts.MaxSteps > 0 && steps >= opts.MaxSteps {
		return StopStepLimit
	}

	pc := machine.PC()
	if steps > 0 && opts.Breakpoints.Contains(pc) {
		return StopBreakpoint
	}
	if opts.StopOnIdle && (isIdleLoop(pc, machine.Fetch(pc)) || machine.Blocked()) {
		return StopIdle
	}
	return StopNone
}

// isIdleLoop returns whether the word at address pc is a jump to itself.
func isIdleLoop(pc, word uint16) bool {
	ins := vm.Decode(word)
	return ins.Operation() == vm.OpJump && ins.NNN == pc
}

func logStepError(logger *log.Logger, err error, steps uint64) {
	fields := []log.Field{
		log.Err(err),
		log.Uint64("steps", steps),
	}

	var insErr *vm.UnimplementedInstructionError
	if errors.As(err, &insErr) {
		ins := insErr.Instruction
		fields = append(fields,
			log.Hex("pc", insErr.PC),
			log.Hex("opcode", ins.Word),
			log.Hex("x", ins.X),
			log.Hex("y", ins.Y),
			log.Hex("n", ins.N),
			log.Hex("nn", ins.NN),
			log.Hex("nnn", ins.NNN),
		)
	}
	logger.Debug("Instruction failed", fields...)
}
