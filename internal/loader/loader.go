// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/chip8vm/internal/vm"
)

// MaxProgramSize is the largest program that fits into memory above the
// program start address.
const MaxProgramSize = vm.MemorySize - vm.ProgramStart

// ErrEmptyProgram is returned for ROM files without content.
var ErrEmptyProgram = errors.New("empty program")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the ROM file and returns the program image.
func (l *Loader) Load(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", filename, err)
	}
	defer func() { _ = file.Close() }()

	return l.LoadFromReader(file)
}

// LoadFromReader reads a program image from the reader and validates its size.
func (l *Loader) LoadFromReader(reader io.Reader) ([]byte, error) {
	// one extra byte detects oversized programs without reading all of them
	data, err := io.ReadAll(io.LimitReader(reader, MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	switch {
	case len(data) == 0:
		return nil, ErrEmptyProgram
	case len(data) > MaxProgramSize:
		return nil, fmt.Errorf("%w: more than %d bytes", vm.ErrProgramTooLarge, MaxProgramSize)
	}
	return data, nil
}
