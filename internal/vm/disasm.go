package vm

import (
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// lookupOpcode returns the opcode table entry matching the instruction word.
func lookupOpcode(word uint16) (chip8.Opcode, bool) {
	for _, op := range chip8.Opcodes[word>>12] {
		if op.Info.Mask&word == op.Info.Value {
			return op, true
		}
	}
	return chip8.Opcode{}, false
}

// Mnemonic returns the standard mnemonic of the instruction word, it returns
// false for words that are not part of the CHIP-8 instruction set.
func Mnemonic(word uint16) (string, bool) {
	op, ok := lookupOpcode(word)
	if !ok || op.Instruction == nil {
		return "", false
	}
	return op.Instruction.Name, true
}

// Disassemble renders the instruction word in assembly syntax. Words that are
// not part of the instruction set are rendered as a data word.
func Disassemble(word uint16) string {
	name, ok := Mnemonic(word)
	if !ok {
		return fmt.Sprintf(".word $%04X", word)
	}
	if params := formatParameters(name, Decode(word)); params != "" {
		return name + " " + params
	}
	return name
}

// formatParameters formats the operands of a known instruction.
func formatParameters(name string, ins Instruction) string {
	switch name {
	case chip8.ClsName, chip8.RetName:
		return ""
	case chip8.JpName:
		return formatJump(ins)
	case chip8.CallName:
		return fmt.Sprintf("$%03X", ins.NNN)
	case chip8.SeName, chip8.SneName:
		return formatCompare(ins)
	case chip8.LdName:
		return formatLoad(ins)
	case chip8.AddName:
		return formatAdd(ins)
	case chip8.OrName, chip8.AndName, chip8.XorName, chip8.SubName, chip8.SubnName,
		chip8.ShrName, chip8.ShlName:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case chip8.RndName:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case chip8.DrwName:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	case chip8.SkpName, chip8.SknpName:
		return fmt.Sprintf("V%X", ins.X)
	}
	return ""
}

func formatJump(ins Instruction) string {
	if ins.Class == 0xB {
		return fmt.Sprintf("V0, $%03X", ins.NNN)
	}
	return fmt.Sprintf("$%03X", ins.NNN)
}

func formatCompare(ins Instruction) string {
	switch ins.Class {
	case 0x5, 0x9:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	default:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	}
}

func formatAdd(ins Instruction) string {
	switch ins.Class {
	case 0x7:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case 0xF:
		return fmt.Sprintf("I, V%X", ins.X)
	default:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	}
}

func formatLoad(ins Instruction) string {
	switch ins.Class {
	case 0x6:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case 0x8:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case 0xA:
		return fmt.Sprintf("I, $%03X", ins.NNN)
	}

	switch ins.NN {
	case 0x07:
		return fmt.Sprintf("V%X, DT", ins.X)
	case 0x0A:
		return fmt.Sprintf("V%X, K", ins.X)
	case 0x15:
		return fmt.Sprintf("DT, V%X", ins.X)
	case 0x18:
		return fmt.Sprintf("ST, V%X", ins.X)
	case 0x29:
		return fmt.Sprintf("F, V%X", ins.X)
	case 0x33:
		return fmt.Sprintf("B, V%X", ins.X)
	case 0x55:
		return fmt.Sprintf("[I], V%X", ins.X)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", ins.X)
	}
	return ""
}

// Listing disassembles the memory range starting at address, one line per
// instruction word with its address and raw value.
func (m *Machine) Listing(address uint16, count int) []string {
	if count <= 0 {
		return nil
	}
	lines := make([]string, 0, count)
	for range count {
		word := m.Fetch(address)
		lines = append(lines, fmt.Sprintf("$%03X: %04X  %s", address&AddressMask, word, Disassemble(word)))
		address += InstructionSize
	}
	return lines
}

// WriteListing writes the listing of a program image loaded at ProgramStart,
// one line per instruction word from start to the end of the image.
func WriteListing(w io.Writer, program []byte, start uint16) error {
	var m Machine
	m.Reset()
	if err := m.Load(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	end := ProgramStart + len(program)
	count := (end - int(start) + 1) / InstructionSize
	for _, line := range m.Listing(start, count) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
	}
	return nil
}
