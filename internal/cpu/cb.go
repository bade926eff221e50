package cpu

// executeCB decodes and runs one CB-prefixed opcode. The low 3 bits
// always select the operand (B,C,D,E,H,L,(HL),A); the remaining bits
// select the operation and, for BIT/RES/SET, the bit index.
func (c *CPU) executeCB(op uint8) int {
	reg := op & 0x07
	v := c.readR(reg)
	cost := 2
	if reg == 6 {
		cost = 3
	}

	switch {
	case op < 0x40:
		var res uint8
		switch (op >> 3) & 0x07 {
		case 0:
			res = c.rlc(v)
		case 1:
			res = c.rrc(v)
		case 2:
			res = c.rl(v)
		case 3:
			res = c.rr(v)
		case 4:
			res = c.sla(v)
		case 5:
			res = c.sra(v)
		case 6:
			res = c.swap(v)
		case 7:
			res = c.srl(v)
		}
		c.writeR(reg, res)
		return cost

	case op < 0x80:
		n := (op >> 3) & 0x07
		c.bit(n, v)
		if reg == 6 {
			return 3
		}
		return 2

	case op < 0xC0:
		n := (op >> 3) & 0x07
		c.writeR(reg, v&^(1<<n))
		return cost

	default:
		n := (op >> 3) & 0x07
		c.writeR(reg, v|1<<n)
		return cost
	}
}
