package vm

import "strings"

// Display is the sink that receives screen updates from the machine.
// Calls happen synchronously from within Step.
type Display interface {
	// SetPixel reports that the cell at x, y changed to value (0 or 1).
	SetPixel(x, y, value uint8)
	// Clear reports that the whole framebuffer was cleared.
	Clear()
	// Present marks the end of a sprite draw, all changes of the draw have
	// been reported.
	Present()
}

// Keypad is the input source for the 16 key hexadecimal keypad.
type Keypad interface {
	// Pressed returns whether the key 0x0-0xF is currently held down.
	Pressed(key uint8) bool
}

// Framebuffer holds the 64x32 monochrome screen, one byte per cell
// containing 0 or 1, row-major.
type Framebuffer [DisplayWidth * DisplayHeight]byte

// Pixel returns the value of the cell at x, y.
func (f *Framebuffer) Pixel(x, y int) uint8 {
	return f[y*DisplayWidth+x]
}

func (f *Framebuffer) set(x, y int, value uint8) {
	f[y*DisplayWidth+x] = value
}

// Lit returns the number of cells that are set.
func (f *Framebuffer) Lit() int {
	var count int
	for _, cell := range f {
		count += int(cell)
	}
	return count
}

// String renders the framebuffer as text, one line per row with '#' for a
// lit cell and '.' for an unlit one.
func (f *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow((DisplayWidth + 1) * DisplayHeight)
	for y := range DisplayHeight {
		for x := range DisplayWidth {
			if f.Pixel(x, y) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
