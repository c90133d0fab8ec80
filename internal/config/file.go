package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/vm"
	retroconfig "github.com/retroenv/retrogolib/config"
)

var errInvalidAddress = errors.New("invalid address")

// file is the layout of the configuration file:
//
//	[quirks]
//	shift_vy = false
//	increment_index = false
//	collision = "erase"
//	call_stack = false
//
//	[run]
//	max_steps = 0
//	stop_on_idle = true
//	breakpoints = "0x200, 0x2A0"
type file struct {
	ShiftVY        bool   `config:"quirks.shift_vy,default=false"`
	IncrementIndex bool   `config:"quirks.increment_index,default=false"`
	Collision      string `config:"quirks.collision,default=erase"`
	CallStack      bool   `config:"quirks.call_stack,default=false"`

	MaxSteps    int64  `config:"run.max_steps,default=0"`
	StopOnIdle  bool   `config:"run.stop_on_idle,default=true"`
	Breakpoints string `config:"run.breakpoints,default="`
}

// LoadFile reads the configuration file and returns the emulation options it
// describes. Missing keys keep their default values.
func LoadFile(filename string) (options.Emulation, error) {
	doc, err := retroconfig.Open(filename, retroconfig.Options{InlineComments: true})
	if err != nil {
		return options.Emulation{}, fmt.Errorf("opening config file %s: %w", filename, err)
	}

	var f file
	if err := doc.Unmarshal(&f); err != nil {
		return options.Emulation{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	emu, err := f.emulation()
	if err != nil {
		return options.Emulation{}, fmt.Errorf("config file %s: %w", filename, err)
	}
	return emu, nil
}

func (f file) emulation() (options.Emulation, error) {
	collision, err := vm.ParseCollisionRule(f.Collision)
	if err != nil {
		return options.Emulation{}, err
	}
	if f.MaxSteps < 0 {
		return options.Emulation{}, fmt.Errorf("negative max_steps %d", f.MaxSteps)
	}
	breakpoints, err := ParseAddresses(f.Breakpoints)
	if err != nil {
		return options.Emulation{}, err
	}

	return options.Emulation{
		Quirks: vm.Quirks{
			ShiftUsesVY:    f.ShiftVY,
			IncrementIndex: f.IncrementIndex,
			Collision:      collision,
			CallStack:      f.CallStack,
		},
		MaxSteps:    uint64(f.MaxSteps),
		Breakpoints: breakpoints,
		StopOnIdle:  f.StopOnIdle,
	}, nil
}

// ParseAddresses parses a comma separated list of memory addresses. Addresses
// are hexadecimal, with or without 0x or $ prefix.
func ParseAddresses(s string) ([]uint16, error) {
	var addresses []uint16
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		digits := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(part), "0x"), "$")
		value, err := strconv.ParseUint(digits, 16, 16)
		if err != nil || value > vm.AddressMask {
			return nil, fmt.Errorf("%w '%s'", errInvalidAddress, part)
		}
		addresses = append(addresses, uint16(value))
	}
	return addresses, nil
}
