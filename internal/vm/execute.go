package vm

import (
	"github.com/retroenv/retrogolib/log"
)

// Step fetches, decodes and executes the instruction at PC.
//
// The next PC is computed as PC + 2 before the instruction acts and is only
// committed when the instruction succeeds. A failing step leaves the machine
// exactly as it was, PC keeps pointing to the failing instruction.
func (m *Machine) Step() error {
	pc := m.pc
	ins := Decode(m.Fetch(pc))

	m.logger.Trace("Executing instruction",
		log.Hex("pc", pc),
		log.Hex("opcode", ins.Word),
		log.StringFunc("instruction", func() string { return Disassemble(ins.Word) }))

	next, err := m.execute(pc, ins)
	if err != nil {
		return err
	}
	m.pc = next & AddressMask
	return nil
}

// execute applies the instruction and returns the next program counter.
//
//nolint:funlen,cyclop,gocyclo // one case per operation
func (m *Machine) execute(pc uint16, ins Instruction) (uint16, error) {
	next := pc + InstructionSize
	x, y := ins.X, ins.Y

	switch m.operation(ins) {
	case OpClear:
		m.clearScreen()

	case OpReturn:
		if m.sp == 0 {
			return 0, &StackError{PC: pc, Depth: m.sp, Err: ErrStackUnderflow}
		}
		m.sp--
		next = m.stack[m.sp]

	case OpJump:
		next = ins.NNN

	case OpCall:
		if m.sp == StackDepth {
			return 0, &StackError{PC: pc, Depth: m.sp, Err: ErrStackOverflow}
		}
		m.stack[m.sp] = next
		m.sp++
		next = ins.NNN

	case OpSkipEqual:
		if m.v[x] == ins.NN {
			next += InstructionSize
		}

	case OpSkipNotEqual:
		if m.v[x] != ins.NN {
			next += InstructionSize
		}

	case OpSkipEqualRegister:
		if m.v[x] == m.v[y] {
			next += InstructionSize
		}

	case OpSkipNotEqualRegister:
		if m.v[x] != m.v[y] {
			next += InstructionSize
		}

	case OpLoad:
		m.v[x] = ins.NN

	case OpAdd:
		m.v[x] += ins.NN

	case OpMove:
		m.v[x] = m.v[y]

	case OpOr:
		m.v[x] |= m.v[y]

	case OpAnd:
		m.v[x] &= m.v[y]

	case OpXor:
		m.v[x] ^= m.v[y]

	case OpAddRegister:
		sum := uint16(m.v[x]) + uint16(m.v[y])
		m.v[x] = uint8(sum)
		m.v[flagRegister] = boolToFlag(sum > 0xFF)

	case OpSub:
		flag := boolToFlag(m.v[x] > m.v[y])
		m.v[x] -= m.v[y]
		m.v[flagRegister] = flag

	case OpSubReverse:
		flag := boolToFlag(m.v[y] > m.v[x])
		m.v[x] = m.v[y] - m.v[x]
		m.v[flagRegister] = flag

	case OpShiftRight:
		src := m.shiftSource(ins)
		m.v[x] = src >> 1
		m.v[flagRegister] = src & 1

	case OpShiftLeft:
		src := m.shiftSource(ins)
		m.v[x] = src << 1
		m.v[flagRegister] = src >> 7

	case OpLoadIndex:
		m.i = ins.NNN

	case OpJumpOffset:
		next = ins.NNN + uint16(m.v[0])

	case OpRandom:
		m.v[x] = m.random() & ins.NN

	case OpDraw:
		m.draw(ins)

	case OpSkipKeyPressed:
		if m.pressed(m.v[x]) {
			next += InstructionSize
		}

	case OpSkipKeyNotPressed:
		if !m.pressed(m.v[x]) {
			next += InstructionSize
		}

	case OpWaitKey:
		key, ok := m.firstPressed()
		if !ok {
			next = pc
			break
		}
		m.v[x] = key

	case OpAddIndex:
		m.i += uint16(m.v[x])

	case OpFontIndex:
		m.i = FontBase + uint16(m.v[x])*FontGlyphSize

	case OpStoreBCD:
		value := m.v[x]
		for offset := uint16(3); offset > 0; offset-- {
			m.memory[(m.i+offset-1)&AddressMask] = value % 10
			value /= 10
		}

	case OpStoreRegisters:
		for reg := range uint16(x) + 1 {
			m.memory[(m.i+reg)&AddressMask] = m.v[reg]
		}
		m.incrementIndex(x)

	case OpLoadRegisters:
		for reg := range uint16(x) + 1 {
			m.v[reg] = m.memory[(m.i+reg)&AddressMask]
		}
		m.incrementIndex(x)

	default:
		return 0, &UnimplementedInstructionError{PC: pc, Instruction: ins}
	}

	return next, nil
}

// operation returns the operation executed for the instruction under the
// active quirks.
func (m *Machine) operation(ins Instruction) Operation {
	op := ins.Operation()
	if m.quirks.CallStack {
		return op
	}

	switch op {
	case OpReturn:
		return OpClear
	case OpCall:
		return OpUnknown
	default:
		return op
	}
}

func (m *Machine) clearScreen() {
	m.framebuffer = Framebuffer{}
	m.display.Clear()
}

func (m *Machine) shiftSource(ins Instruction) uint8 {
	if m.quirks.ShiftUsesVY {
		return m.v[ins.Y]
	}
	return m.v[ins.X]
}

func (m *Machine) incrementIndex(x uint8) {
	if m.quirks.IncrementIndex {
		m.i += uint16(x) + 1
	}
}

func (m *Machine) pressed(key uint8) bool {
	if m.keypad == nil || key >= KeyCount {
		return false
	}
	return m.keypad.Pressed(key)
}

func (m *Machine) firstPressed() (uint8, bool) {
	for key := range uint8(KeyCount) {
		if m.pressed(key) {
			return key, true
		}
	}
	return 0, false
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
