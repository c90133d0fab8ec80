package vm

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

//nolint:funlen // table driven test
func TestStepArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		words  []uint16
		quirks Quirks
		reg    uint8
		want   uint8
		flag   uint8
	}{
		{name: "load", words: []uint16{0x6A42}, reg: 0xA, want: 0x42},
		{name: "add wraps without flag", words: []uint16{0x6F42, 0x60FF, 0x7001}, reg: 0, want: 0x00, flag: 0x42},
		{name: "move", words: []uint16{0x6133, 0x8010}, reg: 0, want: 0x33},
		{name: "or", words: []uint16{0x600C, 0x610A, 0x8011}, reg: 0, want: 0x0E},
		{name: "and", words: []uint16{0x600C, 0x610A, 0x8012}, reg: 0, want: 0x08},
		{name: "xor", words: []uint16{0x600C, 0x610A, 0x8013}, reg: 0, want: 0x06},
		{name: "add carry", words: []uint16{0x60FF, 0x6101, 0x8014}, reg: 0, want: 0x00, flag: 1},
		{name: "add no carry", words: []uint16{0x6001, 0x6101, 0x8014}, reg: 0, want: 0x02, flag: 0},
		{name: "sub no borrow", words: []uint16{0x6005, 0x6103, 0x8015}, reg: 0, want: 0x02, flag: 1},
		{name: "sub borrow", words: []uint16{0x6003, 0x6105, 0x8015}, reg: 0, want: 0xFE, flag: 0},
		{name: "sub equal", words: []uint16{0x6005, 0x6105, 0x8015}, reg: 0, want: 0x00, flag: 0},
		{name: "sub reverse", words: []uint16{0x6003, 0x6105, 0x8017}, reg: 0, want: 0x02, flag: 1},
		{name: "sub reverse borrow", words: []uint16{0x6005, 0x6103, 0x8017}, reg: 0, want: 0xFE, flag: 0},
		{name: "shift right vx", words: []uint16{0x6005, 0x6180, 0x8016}, reg: 0, want: 0x02, flag: 1},
		{name: "shift right vy", words: []uint16{0x6005, 0x6180, 0x8016}, quirks: Quirks{ShiftUsesVY: true}, reg: 0, want: 0x40, flag: 0},
		{name: "shift left vx", words: []uint16{0x6081, 0x6101, 0x801E}, reg: 0, want: 0x02, flag: 1},
		{name: "shift left vy", words: []uint16{0x6081, 0x6101, 0x801E}, quirks: Quirks{ShiftUsesVY: true}, reg: 0, want: 0x02, flag: 0},
		{name: "flag wins over result in vf", words: []uint16{0x6FFF, 0x6101, 0x8F14}, reg: 0xF, want: 1, flag: 1},
		{name: "borrow flag wins over result in vf", words: []uint16{0x6F03, 0x6105, 0x8F15}, reg: 0xF, want: 0, flag: 0},
		{name: "random masked", words: []uint16{0xC00F}, reg: 0, want: 0x0B},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, tt.words, WithQuirks(tt.quirks),
				WithRandom(func() uint8 { return 0xAB }))
			runSteps(t, m, len(tt.words))

			state := m.Snapshot()
			assert.Equal(t, tt.want, state.V[tt.reg])
			assert.Equal(t, tt.flag, state.V[0xF])
			assert.Equal(t, ProgramStart+2*len(tt.words), state.PC)
		})
	}
}

func TestStepJump(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{0x1ABC})
	runSteps(t, m, 1)
	assert.Equal(t, 0xABC, m.PC())

	m, _ = newTestMachine(t, []uint16{0x6004, 0xB300})
	runSteps(t, m, 2)
	assert.Equal(t, 0x304, m.PC())

	m, _ = newTestMachine(t, []uint16{0x60FF, 0xBFFF})
	runSteps(t, m, 2)
	assert.Equal(t, 0x0FE, m.PC(), "jump offset is masked to 12 bits")
}

func TestStepSkip(t *testing.T) {
	tests := []struct {
		name   string
		words  []uint16
		keys   mockKeypad
		skip   bool
		prefix int
	}{
		{name: "equal immediate taken", words: []uint16{0x6012, 0x3012}, skip: true},
		{name: "equal immediate not taken", words: []uint16{0x6012, 0x3013}},
		{name: "not equal immediate taken", words: []uint16{0x6012, 0x4013}, skip: true},
		{name: "not equal immediate not taken", words: []uint16{0x6012, 0x4012}},
		{name: "equal register taken", words: []uint16{0x6012, 0x6112, 0x5010}, skip: true},
		{name: "equal register not taken", words: []uint16{0x6012, 0x6113, 0x5010}},
		{name: "not equal register taken", words: []uint16{0x6012, 0x6113, 0x9010}, skip: true},
		{name: "not equal register not taken", words: []uint16{0x6012, 0x6112, 0x9010}},
		{name: "key pressed taken", words: []uint16{0x6005, 0xE09E}, keys: mockKeypad{5: true}, skip: true},
		{name: "key pressed not taken", words: []uint16{0x6005, 0xE09E}, keys: mockKeypad{6: true}},
		{name: "key not pressed taken", words: []uint16{0x6005, 0xE0A1}, skip: true},
		{name: "key not pressed not taken", words: []uint16{0x6005, 0xE0A1}, keys: mockKeypad{5: true}},
		{name: "key out of range is never pressed", words: []uint16{0x6015, 0xE09E}, keys: mockKeypad{0x15: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, tt.words, WithKeypad(tt.keys))
			runSteps(t, m, len(tt.words))

			want := ProgramStart + 2*len(tt.words)
			if tt.skip {
				want += 2
			}
			assert.Equal(t, want, m.PC())
		})
	}
}

func TestStepWaitKey(t *testing.T) {
	keys := mockKeypad{}
	m, _ := newTestMachine(t, []uint16{0xF30A}, WithKeypad(keys))

	runSteps(t, m, 3)
	assert.Equal(t, ProgramStart, m.PC(), "PC must not advance without a key")
	assert.False(t, m.Blocked(), "a keypad can still deliver a key")

	keys[0xC] = true
	keys[0x7] = true
	runSteps(t, m, 1)
	assert.Equal(t, ProgramStart+2, m.PC())
	assert.Equal(t, 0x7, m.Snapshot().V[3])
}

func TestBlocked(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{0x6007, 0xF30A})
	assert.False(t, m.Blocked())

	runSteps(t, m, 2)
	assert.True(t, m.Blocked())
	assert.Equal(t, ProgramStart+2, m.PC())
}

func TestStepIndex(t *testing.T) {
	tests := []struct {
		name  string
		words []uint16
		want  uint16
	}{
		{name: "load index", words: []uint16{0xA123}, want: 0x123},
		{name: "add index", words: []uint16{0xA100, 0x6010, 0xF01E}, want: 0x110},
		{name: "font glyph", words: []uint16{0x600A, 0xF029}, want: FontBase + 0xA*FontGlyphSize},
		{name: "font glyph full register", words: []uint16{0x6020, 0xF029}, want: FontBase + 0x20*FontGlyphSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, tt.words)
			runSteps(t, m, len(tt.words))
			assert.Equal(t, tt.want, m.Snapshot().I)
		})
	}
}

func TestStepStoreBCD(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{0x609C, 0xA300, 0xF033})
	runSteps(t, m, 3)

	state := m.Snapshot()
	assert.Equal(t, []byte{1, 5, 6}, state.Memory[0x300:0x303])
	assert.Equal(t, 0x300, state.I)

	m, _ = newTestMachine(t, []uint16{0x6007, 0xAFFF, 0xF033})
	runSteps(t, m, 3)
	assert.Equal(t, 0, m.ReadMemory(0xFFF))
	assert.Equal(t, 0, m.ReadMemory(0x000), "BCD digits wrap around the address space")
	assert.Equal(t, 7, m.ReadMemory(0x001))
}

func TestStepStoreLoadRegisters(t *testing.T) {
	tests := []struct {
		name      string
		quirks    Quirks
		wantIndex uint16
	}{
		{name: "index unchanged", wantIndex: 0x300},
		{name: "index incremented", quirks: Quirks{IncrementIndex: true}, wantIndex: 0x303},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, []uint16{0x6001, 0x6102, 0x6203, 0x6304, 0xA300, 0xF255},
				WithQuirks(tt.quirks))
			runSteps(t, m, 6)

			state := m.Snapshot()
			assert.Equal(t, []byte{1, 2, 3, 0}, state.Memory[0x300:0x304])
			assert.Equal(t, tt.wantIndex, state.I)

			m, _ = newTestMachine(t, []uint16{0xA300, 0xF265}, WithQuirks(tt.quirks))
			m.memory[0x300] = 0x11
			m.memory[0x301] = 0x22
			m.memory[0x302] = 0x33
			m.memory[0x303] = 0x44
			runSteps(t, m, 2)

			state = m.Snapshot()
			assert.Equal(t, [4]uint8{0x11, 0x22, 0x33, 0x00}, [4]uint8(state.V[:4]))
			assert.Equal(t, tt.wantIndex, state.I)
		})
	}
}

func TestStepCallReturn(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{0x2206, 0x6001, 0x0000, 0x00EE}, withCallStack())

	runSteps(t, m, 1)
	assert.Equal(t, 0x206, m.PC())
	assert.Equal(t, []uint16{0x202}, m.Snapshot().Stack)

	runSteps(t, m, 1)
	assert.Equal(t, 0x202, m.PC())
	assert.Empty(t, m.Snapshot().Stack)

	runSteps(t, m, 1)
	assert.Equal(t, 1, m.Snapshot().V[0])
}

func TestStepStackErrors(t *testing.T) {
	t.Run("overflow", func(t *testing.T) {
		m, _ := newTestMachine(t, []uint16{0x2200}, withCallStack())
		runSteps(t, m, StackDepth)

		err := m.Step()
		assert.ErrorIs(t, err, ErrStackOverflow)
		var stackErr *StackError
		assert.ErrorAs(t, err, &stackErr)
		assert.Equal(t, StackDepth, stackErr.Depth)
		assert.Equal(t, ProgramStart, m.PC())
		assert.Len(t, m.Snapshot().Stack, StackDepth)
	})

	t.Run("underflow", func(t *testing.T) {
		m, _ := newTestMachine(t, []uint16{0x00EE}, withCallStack())

		err := m.Step()
		assert.ErrorIs(t, err, ErrStackUnderflow)
		assert.Equal(t, ProgramStart, m.PC())
	})
}

func TestStepUnimplemented(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		contains string
	}{
		{name: "timer load", word: 0xF015, contains: "[ld DT, V0]"},
		{name: "delay read", word: 0xF307, contains: "[ld V3, DT]"},
		{name: "system call", word: 0x0123, contains: "0123"},
		{name: "arithmetic gap", word: 0x8128, contains: "class=8 x=1 y=2 n=8"},
		{name: "key gap", word: 0xE100, contains: "E100"},
		{name: "call without stack", word: 0x2ABC, contains: "[call $ABC]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, display := newTestMachine(t, []uint16{tt.word})
			before := m.Snapshot()

			err := m.Step()
			assert.ErrorIs(t, err, ErrUnimplementedInstruction)

			var insErr *UnimplementedInstructionError
			assert.True(t, errors.As(err, &insErr))
			assert.Equal(t, ProgramStart, insErr.PC)
			assert.Equal(t, tt.word, insErr.Instruction.Word)
			assert.ErrorContains(t, err, "$200")
			assert.ErrorContains(t, err, tt.contains)

			assert.Equal(t, before, m.Snapshot())
			assert.Empty(t, display.pixels)
			assert.Equal(t, 0, display.presents)

			// a retry fails again at the same address
			assert.ErrorIs(t, m.Step(), ErrUnimplementedInstruction)
			assert.Equal(t, ProgramStart, m.PC())
		})
	}
}

func TestStepClear(t *testing.T) {
	m, display := newTestMachine(t, []uint16{0xA000, 0xD005, 0x00E0})
	runSteps(t, m, 2)
	assert.Greater(t, m.Snapshot().Framebuffer.Lit(), 0)
	display.reset()

	runSteps(t, m, 1)
	assert.Equal(t, 1, display.clears)
	assert.Empty(t, display.pixels)
	assert.Equal(t, 0, display.presents)
	assert.Equal(t, 0, m.Snapshot().Framebuffer.Lit())
}

func TestStepClearWithoutCallStack(t *testing.T) {
	tests := []struct {
		name string
		word uint16
	}{
		{name: "00E0", word: 0x00E0},
		{name: "00EE", word: 0x00EE},
		{name: "01E5", word: 0x01E5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, display := newTestMachine(t, []uint16{0xA000, 0xD005, tt.word})
			runSteps(t, m, 2)
			display.reset()

			runSteps(t, m, 1)
			assert.Equal(t, 1, display.clears)
			assert.Equal(t, 0, m.Snapshot().Framebuffer.Lit())
			assert.Empty(t, m.Snapshot().Stack)
			assert.Equal(t, ProgramStart+6, m.PC())
		})
	}
}

func TestStepAddressWrap(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{0x1FFE})
	m.memory[0xFFE] = 0x60
	m.memory[0xFFF] = 0x42
	runSteps(t, m, 2)

	assert.Equal(t, 0x42, m.Snapshot().V[0])
	assert.Equal(t, 0x000, m.PC(), "PC wraps to the start of memory")
}
