package vm

import (
	"fmt"
	"strings"
)

// CollisionRule selects when a sprite draw sets the VF collision flag.
type CollisionRule uint8

const (
	// CollisionOnErase sets VF only when a lit cell is turned off by the draw.
	CollisionOnErase CollisionRule = iota
	// CollisionOnSpan sets VF when any cell of the clipped 8 x n sprite
	// rectangle was lit before the draw, including cells under unset
	// sprite bits.
	CollisionOnSpan
)

func (c CollisionRule) String() string {
	switch c {
	case CollisionOnErase:
		return "erase"
	case CollisionOnSpan:
		return "span"
	default:
		return fmt.Sprintf("collision(%d)", uint8(c))
	}
}

// ParseCollisionRule converts a rule name as used in flags and config files.
func ParseCollisionRule(s string) (CollisionRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "erase":
		return CollisionOnErase, nil
	case "span":
		return CollisionOnSpan, nil
	default:
		return 0, fmt.Errorf("unsupported collision rule '%s', valid options: erase, span", s)
	}
}

// Quirks contains the compatibility switches for instructions whose behavior
// differs between CHIP-8 interpreters. The zero value matches the reference
// behavior.
type Quirks struct {
	// ShiftUsesVY makes 8xy6 and 8xyE shift Vy into Vx instead of shifting Vx.
	ShiftUsesVY bool
	// IncrementIndex makes Fx55 and Fx65 leave I at I + x + 1.
	IncrementIndex bool
	// Collision selects the VF rule of sprite draws.
	Collision CollisionRule
	// CallStack enables subroutines: 2nnn calls and 00EE returns. Without
	// it 00EE clears the screen like every class 0 word with y == 0xE and
	// 2nnn has no handler.
	CallStack bool
}
