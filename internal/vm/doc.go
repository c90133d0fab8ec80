// Package vm implements the CHIP-8 virtual machine core.
//
// The machine owns a 4KB memory image, the V0-VF register file, the index
// register, the program counter, a 16 level call stack and a 64x32 monochrome
// framebuffer. Each call to Machine.Step fetches one instruction word, decodes
// it and applies its effects. Screen updates are forwarded to a Display sink,
// key state is read from a Keypad.
//
// CHIP-8 memory map:
//
//	0x000-0x04F: hexadecimal font glyphs (16 glyphs, 5 bytes each)
//	0x050-0x1FF: unused interpreter area
//	0x200-0xFFF: program image
//
// Every address derived from PC or I is masked to 12 bits, memory accesses
// can therefore never leave the 4KB image.
package vm
