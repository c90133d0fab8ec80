package vm

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 machine constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096
	// AddressMask is applied to every address derived from PC or I.
	AddressMask = MemorySize - 1

	// ProgramStart is the address where programs are loaded and executed from.
	ProgramStart = 0x200
	// FontBase is the address of the first font glyph.
	FontBase = 0x000

	// RegisterCount is the number of V registers, VF is the flags register.
	RegisterCount = 16
	// StackDepth is the maximum number of nested calls.
	StackDepth = 16
	// KeyCount is the number of keys on the keypad.
	KeyCount = 16

	// DisplayWidth is the framebuffer width in cells.
	DisplayWidth = 64
	// DisplayHeight is the framebuffer height in cells.
	DisplayHeight = 32

	// InstructionSize is the size of an instruction word in bytes.
	InstructionSize = 2

	flagRegister = 0xF
)

// Machine is the CHIP-8 virtual machine state together with its collaborators.
// It is not safe for concurrent use.
type Machine struct {
	memory      [MemorySize]byte
	v           [RegisterCount]uint8
	i           uint16
	pc          uint16
	stack       [StackDepth]uint16
	sp          int
	framebuffer Framebuffer

	display Display
	keypad  Keypad
	quirks  Quirks
	logger  *log.Logger
	random  func() uint8
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for instruction tracing.
func WithLogger(logger *log.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithQuirks sets the compatibility switches.
func WithQuirks(quirks Quirks) Option {
	return func(m *Machine) {
		m.quirks = quirks
	}
}

// WithKeypad sets the input source. Without a keypad no key is ever pressed.
func WithKeypad(keypad Keypad) Option {
	return func(m *Machine) {
		m.keypad = keypad
	}
}

// WithRandom sets the source of random bytes used by Cxnn.
func WithRandom(random func() uint8) Option {
	return func(m *Machine) {
		if random != nil {
			m.random = random
		}
	}
}

// New returns a machine in its initial state: font loaded, registers and
// framebuffer zeroed and PC at ProgramStart. The display receives all screen
// updates and must not be nil.
func New(display Display, opts ...Option) *Machine {
	m := &Machine{
		display: display,
		logger:  log.NewNop(),
		random:  randomByte,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Reset()
	return m
}

// Reset returns the machine to its initial state. Loaded program bytes are
// cleared as well, the display is not notified.
func (m *Machine) Reset() {
	m.memory = [MemorySize]byte{}
	copy(m.memory[FontBase:], font[:])
	m.v = [RegisterCount]uint8{}
	m.i = 0
	m.pc = ProgramStart
	m.stack = [StackDepth]uint16{}
	m.sp = 0
	m.framebuffer = Framebuffer{}
}

// Load copies the program image into memory starting at ProgramStart.
func (m *Machine) Load(program []byte) error {
	if available := MemorySize - ProgramStart; len(program) > available {
		return fmt.Errorf("%w: %d bytes, %d available", ErrProgramTooLarge, len(program), available)
	}
	copy(m.memory[ProgramStart:], program)
	return nil
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// Quirks returns the active compatibility switches.
func (m *Machine) Quirks() Quirks {
	return m.quirks
}

// ReadMemory returns the byte at the masked address.
func (m *Machine) ReadMemory(address uint16) byte {
	return m.memory[address&AddressMask]
}

// Fetch returns the instruction word at the masked address.
func (m *Machine) Fetch(address uint16) uint16 {
	hi := m.memory[address&AddressMask]
	lo := m.memory[(address+1)&AddressMask]
	return uint16(hi)<<8 | uint16(lo)
}

// Blocked returns whether the instruction at PC waits for a key while no
// keypad is attached, so the machine can not make progress.
func (m *Machine) Blocked() bool {
	return m.keypad == nil && Decode(m.Fetch(m.pc)).Operation() == OpWaitKey
}

// State is a copy of the machine state.
type State struct {
	PC          uint16
	I           uint16
	V           [RegisterCount]uint8
	Stack       []uint16 // active return addresses, oldest first
	Memory      [MemorySize]byte
	Framebuffer Framebuffer
}

// Snapshot returns a copy of the current machine state. Changes to the
// returned value do not affect the machine.
func (m *Machine) Snapshot() *State {
	stack := make([]uint16, m.sp)
	copy(stack, m.stack[:m.sp])
	return &State{
		PC:          m.pc,
		I:           m.i,
		V:           m.v,
		Stack:       stack,
		Memory:      m.memory,
		Framebuffer: m.framebuffer,
	}
}

func randomByte() uint8 {
	return uint8(rand.IntN(256))
}
