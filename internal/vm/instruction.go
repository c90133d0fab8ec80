package vm

import "fmt"

// Operation identifies the behavior of a decoded instruction word.
// The zero value OpUnknown is used for every word that has no handler.
type Operation uint8

// Operations supported by the executor.
const (
	OpUnknown Operation = iota
	OpClear
	OpReturn
	OpJump
	OpCall
	OpSkipEqual
	OpSkipNotEqual
	OpSkipEqualRegister
	OpLoad
	OpAdd
	OpMove
	OpOr
	OpAnd
	OpXor
	OpAddRegister
	OpSub
	OpShiftRight
	OpSubReverse
	OpShiftLeft
	OpSkipNotEqualRegister
	OpLoadIndex
	OpJumpOffset
	OpRandom
	OpDraw
	OpSkipKeyPressed
	OpSkipKeyNotPressed
	OpWaitKey
	OpAddIndex
	OpFontIndex
	OpStoreBCD
	OpStoreRegisters
	OpLoadRegisters
)

var operationNames = [...]string{
	OpUnknown:              "unknown",
	OpClear:                "clear",
	OpReturn:               "return",
	OpJump:                 "jump",
	OpCall:                 "call",
	OpSkipEqual:            "skip equal",
	OpSkipNotEqual:         "skip not equal",
	OpSkipEqualRegister:    "skip equal register",
	OpLoad:                 "load",
	OpAdd:                  "add",
	OpMove:                 "move",
	OpOr:                   "or",
	OpAnd:                  "and",
	OpXor:                  "xor",
	OpAddRegister:          "add register",
	OpSub:                  "sub",
	OpShiftRight:           "shift right",
	OpSubReverse:           "sub reverse",
	OpShiftLeft:            "shift left",
	OpSkipNotEqualRegister: "skip not equal register",
	OpLoadIndex:            "load index",
	OpJumpOffset:           "jump offset",
	OpRandom:               "random",
	OpDraw:                 "draw",
	OpSkipKeyPressed:       "skip key pressed",
	OpSkipKeyNotPressed:    "skip key not pressed",
	OpWaitKey:              "wait key",
	OpAddIndex:             "add index",
	OpFontIndex:            "font index",
	OpStoreBCD:             "store bcd",
	OpStoreRegisters:       "store registers",
	OpLoadRegisters:        "load registers",
}

func (o Operation) String() string {
	if int(o) < len(operationNames) {
		return operationNames[o]
	}
	return fmt.Sprintf("operation(%d)", uint8(o))
}

// Instruction is a decoded 16-bit instruction word with all of its fields
// extracted. Fields that an operation does not use are still populated.
type Instruction struct {
	Word  uint16 // raw instruction word
	Class uint8  // bits 12-15
	X     uint8  // bits 8-11
	Y     uint8  // bits 4-7
	N     uint8  // bits 0-3
	NN    uint8  // bits 0-7
	NNN   uint16 // bits 0-11
}

// Decode splits an instruction word into its fields. It is total: every
// 16-bit value decodes, unknown words are reported by Operation.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:  word,
		Class: uint8(word >> 12),
		X:     uint8(word>>8) & 0xF,
		Y:     uint8(word>>4) & 0xF,
		N:     uint8(word) & 0xF,
		NN:    uint8(word),
		NNN:   word & AddressMask,
	}
}

// Operation classifies the instruction by its class nibble and, for the
// classes that share a nibble, by its discriminant fields. OpCall and
// OpReturn are only executed with the CallStack quirk enabled.
func (ins Instruction) Operation() Operation {
	switch ins.Class {
	case 0x0:
		switch {
		case ins.Word == 0x00EE:
			return OpReturn
		case ins.Y == 0xE:
			return OpClear
		}
	case 0x1:
		return OpJump
	case 0x2:
		return OpCall
	case 0x3:
		return OpSkipEqual
	case 0x4:
		return OpSkipNotEqual
	case 0x5:
		return OpSkipEqualRegister
	case 0x6:
		return OpLoad
	case 0x7:
		return OpAdd
	case 0x8:
		return arithmeticOperation(ins.N)
	case 0x9:
		return OpSkipNotEqualRegister
	case 0xA:
		return OpLoadIndex
	case 0xB:
		return OpJumpOffset
	case 0xC:
		return OpRandom
	case 0xD:
		return OpDraw
	case 0xE:
		switch ins.NN {
		case 0x9E:
			return OpSkipKeyPressed
		case 0xA1:
			return OpSkipKeyNotPressed
		}
	case 0xF:
		return miscOperation(ins.Y, ins.N)
	}
	return OpUnknown
}

func arithmeticOperation(n uint8) Operation {
	switch n {
	case 0x0:
		return OpMove
	case 0x1:
		return OpOr
	case 0x2:
		return OpAnd
	case 0x3:
		return OpXor
	case 0x4:
		return OpAddRegister
	case 0x5:
		return OpSub
	case 0x6:
		return OpShiftRight
	case 0x7:
		return OpSubReverse
	case 0xE:
		return OpShiftLeft
	default:
		return OpUnknown
	}
}

// miscOperation classifies class F words, which are discriminated by the
// y and n fields.
func miscOperation(y, n uint8) Operation {
	switch {
	case y == 0x0 && n == 0xA:
		return OpWaitKey
	case y == 0x1 && n == 0xE:
		return OpAddIndex
	case y == 0x2 && n == 0x9:
		return OpFontIndex
	case y == 0x3 && n == 0x3:
		return OpStoreBCD
	case y == 0x5 && n == 0x5:
		return OpStoreRegisters
	case y == 0x6 && n == 0x5:
		return OpLoadRegisters
	default:
		return OpUnknown
	}
}

// String returns the raw word and its fields, used in error messages.
func (ins Instruction) String() string {
	return fmt.Sprintf("%04X (class=%X x=%X y=%X n=%X nn=%02X nnn=%03X)",
		ins.Word, ins.Class, ins.X, ins.Y, ins.N, ins.NN, ins.NNN)
}
