package display

import (
	"bytes"
	"fmt"
	"io"

	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

var _ vm.Display = (*Terminal)(nil)

// ANSI sequence to move the cursor to the top left corner.
const cursorHome = "\x1b[H"

// terminalRows is the number of text lines used for one frame, every line
// shows two framebuffer rows using half block characters.
const terminalRows = vm.DisplayHeight / 2

// fder is implemented by files that can be queried for a terminal size.
type fder interface {
	Fd() uintptr
}

// Terminal is a display that renders the framebuffer as text to a writer
// whenever a draw is presented or the screen is cleared.
type Terminal struct {
	out    io.Writer
	logger *log.Logger
	frame  vm.Framebuffer
	buf    bytes.Buffer
	frames int
	err    error

	sizeChecked bool
}

// NewTerminal returns a terminal display writing to out.
func NewTerminal(out io.Writer, logger *log.Logger) *Terminal {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Terminal{
		out:    out,
		logger: logger,
	}
}

// SetPixel implements vm.Display.
func (t *Terminal) SetPixel(x, y, value uint8) {
	if int(x) >= vm.DisplayWidth || int(y) >= vm.DisplayHeight {
		return
	}
	t.frame[int(y)*vm.DisplayWidth+int(x)] = value
}

// Clear implements vm.Display.
func (t *Terminal) Clear() {
	t.frame = vm.Framebuffer{}
	t.render()
}

// Present implements vm.Display.
func (t *Terminal) Present() {
	t.render()
}

// Frames returns the number of rendered frames.
func (t *Terminal) Frames() int {
	return t.frames
}

// Err returns the first error that occurred writing a frame.
func (t *Terminal) Err() error {
	return t.err
}

func (t *Terminal) render() {
	if t.err != nil {
		return
	}
	if !t.sizeChecked {
		t.sizeChecked = true
		t.checkSize()
	}

	t.buf.Reset()
	t.buf.WriteString(cursorHome)
	for row := range terminalRows {
		for x := range vm.DisplayWidth {
			upper := t.frame.Pixel(x, 2*row)
			lower := t.frame.Pixel(x, 2*row+1)
			t.buf.WriteString(halfBlock(upper, lower))
		}
		t.buf.WriteByte('\n')
	}

	if _, err := t.out.Write(t.buf.Bytes()); err != nil {
		t.err = fmt.Errorf("writing frame: %w", err)
		return
	}
	t.frames++
}

// checkSize warns once if the output is a terminal that is too small to
// show a complete frame.
func (t *Terminal) checkSize() {
	f, ok := t.out.(fder)
	if !ok {
		return
	}

	cols, rows, err := terminalSize(f.Fd())
	if err != nil {
		t.logger.Debug("Output is not a terminal", log.Err(err))
		return
	}
	if cols < vm.DisplayWidth || rows < terminalRows {
		t.logger.Warn("Terminal is too small for the display",
			log.Int("columns", cols),
			log.Int("rows", rows),
			log.Int("required_columns", vm.DisplayWidth),
			log.Int("required_rows", terminalRows))
	}
}

func halfBlock(upper, lower uint8) string {
	switch {
	case upper != 0 && lower != 0:
		return "█"
	case upper != 0:
		return "▀"
	case lower != 0:
		return "▄"
	default:
		return " "
	}
}
