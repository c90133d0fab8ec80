package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type pixelEvent struct {
	x, y, value uint8
}

// mockDisplay records all display calls.
type mockDisplay struct {
	pixels   []pixelEvent
	clears   int
	presents int
}

func (d *mockDisplay) SetPixel(x, y, value uint8) {
	d.pixels = append(d.pixels, pixelEvent{x: x, y: y, value: value})
}

func (d *mockDisplay) Clear() {
	d.clears++
}

func (d *mockDisplay) Present() {
	d.presents++
}

func (d *mockDisplay) reset() {
	d.pixels = nil
	d.clears = 0
	d.presents = 0
}

// mockKeypad reports the keys contained in the map as pressed.
type mockKeypad map[uint8]bool

func (k mockKeypad) Pressed(key uint8) bool {
	return k[key]
}

// newTestMachine creates a machine with the given instruction words loaded
// at the program start.
func newTestMachine(t *testing.T, words []uint16, opts ...Option) (*Machine, *mockDisplay) {
	t.Helper()

	display := &mockDisplay{}
	opts = append([]Option{WithLogger(log.NewTestLogger(t))}, opts...)
	m := New(display, opts...)
	assert.NoError(t, m.Load(encodeWords(words...)))
	return m, display
}

func withCallStack() Option {
	return WithQuirks(Quirks{CallStack: true})
}

func encodeWords(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*InstructionSize)
	for _, w := range words {
		data = append(data, byte(w>>8), byte(w))
	}
	return data
}

// runSteps executes the given number of instructions and fails on error.
func runSteps(t *testing.T, m *Machine, steps int) {
	t.Helper()
	for range steps {
		assert.NoError(t, m.Step())
	}
}
