package display

import "github.com/retroenv/chip8vm/internal/vm"

var _ vm.Display = Null{}

// Null is a display that discards all updates, used for headless runs.
type Null struct{}

// SetPixel implements vm.Display.
func (Null) SetPixel(_, _, _ uint8) {}

// Clear implements vm.Display.
func (Null) Clear() {}

// Present implements vm.Display.
func (Null) Present() {}
