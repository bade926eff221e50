package cpu

import "dmgcore/internal/debug"

// readR/writeR address the eight 8-bit operand slots opcodes encode
// in their low 3 bits (or bits 3-5 for destination): B,C,D,E,H,L,
// (HL),A. Index 6 means "through the bus at HL" rather than a plain
// register, which is why both helpers go through c.bus for it.
func (c *CPU) readR(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.Reg.B
	case 1:
		return c.Reg.C
	case 2:
		return c.Reg.D
	case 3:
		return c.Reg.E
	case 4:
		return c.Reg.H
	case 5:
		return c.Reg.L
	case 6:
		return c.bus.Read8(c.Reg.HL())
	default:
		return c.Reg.A
	}
}

func (c *CPU) writeR(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.Reg.B = v
	case 1:
		c.Reg.C = v
	case 2:
		c.Reg.D = v
	case 3:
		c.Reg.E = v
	case 4:
		c.Reg.H = v
	case 5:
		c.Reg.L = v
	case 6:
		c.bus.Write8(c.Reg.HL(), v)
	default:
		c.Reg.A = v
	}
}

func (c *CPU) relJump(cond bool) int {
	offset := int8(c.fetchByte())
	if !cond {
		return 2
	}
	c.PC = uint16(int32(c.PC) + int32(offset))
	return 3
}

func (c *CPU) absJump(cond bool) int {
	addr := c.fetchWord()
	if !cond {
		return 3
	}
	c.PC = addr
	return 4
}

func (c *CPU) call(cond bool) int {
	addr := c.fetchWord()
	if !cond {
		return 3
	}
	c.push16(c.PC)
	c.PC = addr
	return 6
}

func (c *CPU) ret(cond bool) int {
	if !cond {
		return 2
	}
	c.PC = c.pop16()
	return 5
}

func (c *CPU) rst(vector uint16) int {
	c.push16(c.PC)
	c.PC = vector
	return 4
}

// execute decodes and runs a single primary-table opcode, returning
// the M-cycles it consumed.
func (c *CPU) execute(op uint8) int {
	switch op {
	case 0x00:
		return 1
	case 0x01:
		c.Reg.SetBC(c.fetchWord())
		return 3
	case 0x02:
		c.bus.Write8(c.Reg.BC(), c.Reg.A)
		return 2
	case 0x03:
		c.Reg.SetBC(c.Reg.BC() + 1)
		return 2
	case 0x04:
		c.Reg.B = c.inc8(c.Reg.B)
		return 1
	case 0x05:
		c.Reg.B = c.dec8(c.Reg.B)
		return 1
	case 0x06:
		c.Reg.B = c.fetchByte()
		return 2
	case 0x07:
		c.Reg.A = c.rlc(c.Reg.A)
		c.Reg.setFlag(flagZ, false)
		return 1
	case 0x08:
		addr := c.fetchWord()
		c.bus.Write8(addr, uint8(c.SP))
		c.bus.Write8(addr+1, uint8(c.SP>>8))
		return 5
	case 0x09:
		c.Reg.SetHL(c.add16(c.Reg.HL(), c.Reg.BC()))
		return 2
	case 0x0A:
		c.Reg.A = c.bus.Read8(c.Reg.BC())
		return 2
	case 0x0B:
		c.Reg.SetBC(c.Reg.BC() - 1)
		return 2
	case 0x0C:
		c.Reg.C = c.inc8(c.Reg.C)
		return 1
	case 0x0D:
		c.Reg.C = c.dec8(c.Reg.C)
		return 1
	case 0x0E:
		c.Reg.C = c.fetchByte()
		return 2
	case 0x0F:
		c.Reg.A = c.rrc(c.Reg.A)
		c.Reg.setFlag(flagZ, false)
		return 1

	case 0x10:
		c.fetchByte() // STOP's second byte, conventionally 0x00
		return 1
	case 0x11:
		c.Reg.SetDE(c.fetchWord())
		return 3
	case 0x12:
		c.bus.Write8(c.Reg.DE(), c.Reg.A)
		return 2
	case 0x13:
		c.Reg.SetDE(c.Reg.DE() + 1)
		return 2
	case 0x14:
		c.Reg.D = c.inc8(c.Reg.D)
		return 1
	case 0x15:
		c.Reg.D = c.dec8(c.Reg.D)
		return 1
	case 0x16:
		c.Reg.D = c.fetchByte()
		return 2
	case 0x17:
		c.Reg.A = c.rl(c.Reg.A)
		c.Reg.setFlag(flagZ, false)
		return 1
	case 0x18:
		return c.relJump(true)
	case 0x19:
		c.Reg.SetHL(c.add16(c.Reg.HL(), c.Reg.DE()))
		return 2
	case 0x1A:
		c.Reg.A = c.bus.Read8(c.Reg.DE())
		return 2
	case 0x1B:
		c.Reg.SetDE(c.Reg.DE() - 1)
		return 2
	case 0x1C:
		c.Reg.E = c.inc8(c.Reg.E)
		return 1
	case 0x1D:
		c.Reg.E = c.dec8(c.Reg.E)
		return 1
	case 0x1E:
		c.Reg.E = c.fetchByte()
		return 2
	case 0x1F:
		c.Reg.A = c.rr(c.Reg.A)
		c.Reg.setFlag(flagZ, false)
		return 1

	case 0x20:
		return c.relJump(!c.Reg.flag(flagZ))
	case 0x21:
		c.Reg.SetHL(c.fetchWord())
		return 3
	case 0x22:
		c.bus.Write8(c.Reg.HL(), c.Reg.A)
		c.Reg.SetHL(c.Reg.HL() + 1)
		return 2
	case 0x23:
		c.Reg.SetHL(c.Reg.HL() + 1)
		return 2
	case 0x24:
		c.Reg.H = c.inc8(c.Reg.H)
		return 1
	case 0x25:
		c.Reg.H = c.dec8(c.Reg.H)
		return 1
	case 0x26:
		c.Reg.H = c.fetchByte()
		return 2
	case 0x27:
		c.daa()
		return 1
	case 0x28:
		return c.relJump(c.Reg.flag(flagZ))
	case 0x29:
		c.Reg.SetHL(c.add16(c.Reg.HL(), c.Reg.HL()))
		return 2
	case 0x2A:
		c.Reg.A = c.bus.Read8(c.Reg.HL())
		c.Reg.SetHL(c.Reg.HL() + 1)
		return 2
	case 0x2B:
		c.Reg.SetHL(c.Reg.HL() - 1)
		return 2
	case 0x2C:
		c.Reg.L = c.inc8(c.Reg.L)
		return 1
	case 0x2D:
		c.Reg.L = c.dec8(c.Reg.L)
		return 1
	case 0x2E:
		c.Reg.L = c.fetchByte()
		return 2
	case 0x2F:
		c.Reg.A = ^c.Reg.A
		c.Reg.setFlag(flagN, true)
		c.Reg.setFlag(flagH, true)
		return 1

	case 0x30:
		return c.relJump(!c.Reg.flag(flagC))
	case 0x31:
		c.SP = c.fetchWord()
		return 3
	case 0x32:
		c.bus.Write8(c.Reg.HL(), c.Reg.A)
		c.Reg.SetHL(c.Reg.HL() - 1)
		return 2
	case 0x33:
		c.SP++
		return 2
	case 0x34:
		c.bus.Write8(c.Reg.HL(), c.inc8(c.bus.Read8(c.Reg.HL())))
		return 3
	case 0x35:
		c.bus.Write8(c.Reg.HL(), c.dec8(c.bus.Read8(c.Reg.HL())))
		return 3
	case 0x36:
		c.bus.Write8(c.Reg.HL(), c.fetchByte())
		return 3
	case 0x37:
		c.Reg.setFlag(flagN, false)
		c.Reg.setFlag(flagH, false)
		c.Reg.setFlag(flagC, true)
		return 1
	case 0x38:
		return c.relJump(c.Reg.flag(flagC))
	case 0x39:
		c.Reg.SetHL(c.add16(c.Reg.HL(), c.SP))
		return 2
	case 0x3A:
		c.Reg.A = c.bus.Read8(c.Reg.HL())
		c.Reg.SetHL(c.Reg.HL() - 1)
		return 2
	case 0x3B:
		c.SP--
		return 2
	case 0x3C:
		c.Reg.A = c.inc8(c.Reg.A)
		return 1
	case 0x3D:
		c.Reg.A = c.dec8(c.Reg.A)
		return 1
	case 0x3E:
		c.Reg.A = c.fetchByte()
		return 2
	case 0x3F:
		c.Reg.setFlag(flagN, false)
		c.Reg.setFlag(flagH, false)
		c.Reg.setFlag(flagC, !c.Reg.flag(flagC))
		return 1

	case 0x76:
		c.opHALT()
		return 1

	case 0xCB:
		sub := c.fetchByte()
		return c.executeCB(sub)

	case 0xC0:
		return c.ret(!c.Reg.flag(flagZ))
	case 0xC1:
		c.Reg.SetBC(c.pop16())
		return 3
	case 0xC2:
		return c.absJump(!c.Reg.flag(flagZ))
	case 0xC3:
		return c.absJump(true)
	case 0xC4:
		return c.call(!c.Reg.flag(flagZ))
	case 0xC5:
		c.push16(c.Reg.BC())
		return 4
	case 0xC6:
		c.Reg.A = c.add8(c.Reg.A, c.fetchByte(), false)
		return 2
	case 0xC7:
		return c.rst(0x00)
	case 0xC8:
		return c.ret(c.Reg.flag(flagZ))
	case 0xC9:
		c.PC = c.pop16()
		return 4
	case 0xCA:
		return c.absJump(c.Reg.flag(flagZ))
	case 0xCC:
		return c.call(c.Reg.flag(flagZ))
	case 0xCD:
		return c.call(true)
	case 0xCE:
		c.Reg.A = c.add8(c.Reg.A, c.fetchByte(), c.Reg.flag(flagC))
		return 2
	case 0xCF:
		return c.rst(0x08)

	case 0xD0:
		return c.ret(!c.Reg.flag(flagC))
	case 0xD1:
		c.Reg.SetDE(c.pop16())
		return 3
	case 0xD2:
		return c.absJump(!c.Reg.flag(flagC))
	case 0xD4:
		return c.call(!c.Reg.flag(flagC))
	case 0xD5:
		c.push16(c.Reg.DE())
		return 4
	case 0xD6:
		c.Reg.A = c.sub8(c.Reg.A, c.fetchByte(), false)
		return 2
	case 0xD7:
		return c.rst(0x10)
	case 0xD8:
		return c.ret(c.Reg.flag(flagC))
	case 0xD9:
		c.PC = c.pop16()
		c.ime = imeEnabled
		return 4
	case 0xDA:
		return c.absJump(c.Reg.flag(flagC))
	case 0xDC:
		return c.call(c.Reg.flag(flagC))
	case 0xDE:
		c.Reg.A = c.sub8(c.Reg.A, c.fetchByte(), c.Reg.flag(flagC))
		return 2
	case 0xDF:
		return c.rst(0x18)

	case 0xE0:
		c.bus.Write8(0xFF00+uint16(c.fetchByte()), c.Reg.A)
		return 3
	case 0xE1:
		c.Reg.SetHL(c.pop16())
		return 3
	case 0xE2:
		c.bus.Write8(0xFF00+uint16(c.Reg.C), c.Reg.A)
		return 2
	case 0xE5:
		c.push16(c.Reg.HL())
		return 4
	case 0xE6:
		c.Reg.A = c.and8(c.Reg.A, c.fetchByte())
		return 2
	case 0xE7:
		return c.rst(0x20)
	case 0xE8:
		c.SP = c.addSPSigned(int8(c.fetchByte()))
		return 4
	case 0xE9:
		c.PC = c.Reg.HL()
		return 1
	case 0xEA:
		c.bus.Write8(c.fetchWord(), c.Reg.A)
		return 4
	case 0xEE:
		c.Reg.A = c.xor8(c.Reg.A, c.fetchByte())
		return 2
	case 0xEF:
		return c.rst(0x28)

	case 0xF0:
		c.Reg.A = c.bus.Read8(0xFF00 + uint16(c.fetchByte()))
		return 3
	case 0xF1:
		c.Reg.SetAF(c.pop16())
		return 3
	case 0xF2:
		c.Reg.A = c.bus.Read8(0xFF00 + uint16(c.Reg.C))
		return 2
	case 0xF3:
		c.ime = imeDisabled
		return 1
	case 0xF5:
		c.push16(c.Reg.AF())
		return 4
	case 0xF6:
		c.Reg.A = c.or8(c.Reg.A, c.fetchByte())
		return 2
	case 0xF7:
		return c.rst(0x30)
	case 0xF8:
		c.Reg.SetHL(c.addSPSigned(int8(c.fetchByte())))
		return 3
	case 0xF9:
		c.SP = c.Reg.HL()
		return 2
	case 0xFA:
		c.Reg.A = c.bus.Read8(c.fetchWord())
		return 4
	case 0xFB:
		c.ime = imeEnablePending
		return 1
	case 0xFE:
		c.sub8(c.Reg.A, c.fetchByte(), false)
		return 2
	case 0xFF:
		return c.rst(0x38)

	default:
		return c.executeGrid(op)
	}
}

// executeGrid handles the two large regular blocks: 0x40-0x7F (8x8
// register-to-register loads) and 0x80-0xBF (ALU A,r), plus treats
// any remaining opcode (the undocumented D3/DB/DD/E3/E4/EB/EC/ED/F4/
// FC/FD slots) as a permanent lock-up, matching real silicon.
func (c *CPU) executeGrid(op uint8) int {
	switch {
	case op >= 0x40 && op <= 0x7F:
		dst := (op >> 3) & 0x07
		src := op & 0x07
		v := c.readR(src)
		c.writeR(dst, v)
		if dst == 6 || src == 6 {
			return 2
		}
		return 1
	case op >= 0x80 && op <= 0xBF:
		group := (op >> 3) & 0x07
		src := op & 0x07
		v := c.readR(src)
		switch group {
		case 0:
			c.Reg.A = c.add8(c.Reg.A, v, false)
		case 1:
			c.Reg.A = c.add8(c.Reg.A, v, c.Reg.flag(flagC))
		case 2:
			c.Reg.A = c.sub8(c.Reg.A, v, false)
		case 3:
			c.Reg.A = c.sub8(c.Reg.A, v, c.Reg.flag(flagC))
		case 4:
			c.Reg.A = c.and8(c.Reg.A, v)
		case 5:
			c.Reg.A = c.xor8(c.Reg.A, v)
		case 6:
			c.Reg.A = c.or8(c.Reg.A, v)
		case 7:
			c.sub8(c.Reg.A, v, false)
		}
		if src == 6 {
			return 2
		}
		return 1
	default:
		c.locked = true
		if c.logger != nil {
			c.logger.LogCPUf(debug.LogLevelWarning, "locked on undocumented opcode 0x%02X at pc=0x%04X", op, c.PC-1)
		}
		return 1
	}
}

// opHALT implements HALT, including the HALT bug: when IME is
// disabled but an interrupt is already pending, the CPU doesn't
// actually halt — instead the byte after HALT is fetched twice
// because PC fails to advance once.
func (c *CPU) opHALT() {
	if c.ime != imeEnabled && c.irq.Pending() {
		c.haltBug = true
		return
	}
	c.Halted = true
}
