package vm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnimplementedInstruction is wrapped by UnimplementedInstructionError.
	ErrUnimplementedInstruction = errors.New("unimplemented instruction")
	// ErrStackOverflow is returned when a call exceeds the stack depth.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a return finds an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrProgramTooLarge is returned when a program does not fit into memory.
	ErrProgramTooLarge = errors.New("program too large")
)

// UnimplementedInstructionError is returned by Step for an instruction word
// that has no handler. The machine state is left untouched and PC still points
// to the failing instruction.
type UnimplementedInstructionError struct {
	PC          uint16
	Instruction Instruction
}

func (e *UnimplementedInstructionError) Error() string {
	msg := fmt.Sprintf("%s at $%03X: %s", ErrUnimplementedInstruction, e.PC, e.Instruction)
	if _, ok := Mnemonic(e.Instruction.Word); ok {
		msg += " [" + Disassemble(e.Instruction.Word) + "]"
	}
	return msg
}

func (e *UnimplementedInstructionError) Unwrap() error {
	return ErrUnimplementedInstruction
}

// StackError is returned for call stack overflows and underflows.
type StackError struct {
	PC    uint16
	Depth int
	Err   error
}

func (e *StackError) Error() string {
	return fmt.Sprintf("%s at $%03X with depth %d", e.Err, e.PC, e.Depth)
}

func (e *StackError) Unwrap() error {
	return e.Err
}
