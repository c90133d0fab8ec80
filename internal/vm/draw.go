package vm

const spriteWidth = 8

// draw XORs an n row sprite read from memory at I onto the framebuffer.
//
// The start position wraps around the screen, the sprite itself is clipped:
// bits past the right edge end their row and a row past the bottom edge ends
// the draw. Every cell whose value changes is reported to the display, and the
// draw is completed with exactly one Present call.
func (m *Machine) draw(ins Instruction) {
	baseX := int(m.v[ins.X] % DisplayWidth)
	baseY := int(m.v[ins.Y] % DisplayHeight)
	span := m.quirks.Collision == CollisionOnSpan
	var collision bool

	for row := range int(ins.N) {
		y := baseY + row
		if y >= DisplayHeight {
			break
		}
		data := m.memory[(m.i+uint16(row))&AddressMask]

		for bit := range spriteWidth {
			x := baseX + bit
			if x >= DisplayWidth {
				break
			}

			old := m.framebuffer.Pixel(x, y)
			if span && old == 1 {
				collision = true
			}
			if data&(0x80>>bit) == 0 {
				continue
			}

			value := old ^ 1
			if value == 0 {
				collision = true
			}
			m.framebuffer.set(x, y, value)
			m.display.SetPixel(uint8(x), uint8(y), value)
		}
	}

	m.v[flagRegister] = boolToFlag(collision)
	m.display.Present()
}
