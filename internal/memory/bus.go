package memory

import (
	"dmgcore/internal/dma"
	"dmgcore/internal/interrupt"
	"dmgcore/internal/joypad"
	"dmgcore/internal/ppu"
	"dmgcore/internal/serial"
	"dmgcore/internal/timer"

	"dmgcore/internal/apu"
)

// Bus arbitrates the full 16-bit address space between the
// cartridge, work RAM, the PPU's VRAM/OAM, and the memory-mapped I/O
// registers. It holds no behavior of its own beyond routing and the
// access restrictions real hardware imposes (VRAM/OAM blocked while
// the PPU owns them, echo RAM mirroring, the unusable region).
type Bus struct {
	Cart *Cartridge
	PPU  *ppu.PPU
	APU  *apu.APU
	Timer *timer.Timer
	DMA  *dma.DMA
	Serial *serial.Serial
	Joypad *joypad.Joypad
	IRQ  *interrupt.Registers

	wram [0x2000]byte
	hram [0x7F]byte
}

// New wires a Bus to its peripherals. Every pointer must be non-nil;
// the emulator package is responsible for constructing the full
// component graph before handing it to the CPU.
func New(cart *Cartridge, p *ppu.PPU, a *apu.APU, t *timer.Timer, d *dma.DMA, s *serial.Serial, j *joypad.Joypad, irq *interrupt.Registers) *Bus {
	return &Bus{Cart: cart, PPU: p, APU: a, Timer: t, DMA: d, Serial: s, Joypad: j, IRQ: irq}
}

// Read8 reads a byte as the CPU observes it, applying VRAM/OAM mode
// blocking and OAM-DMA bus conflicts. The DMA unit itself never calls
// this path — it fetches source bytes through ReadRaw, which bypasses
// all of these restrictions, matching how its dedicated bus lines
// don't contend with themselves.
func (b *Bus) Read8(addr uint16) uint8 {
	if addr >= 0xFE00 && addr <= 0xFE9F {
		if b.PPU.OAMBlocked() || b.DMA.Active() {
			return 0xFF
		}
		return b.PPU.ReadOAM(addr)
	}
	if addr >= 0x8000 && addr < 0xA000 && b.PPU.VRAMBlocked() {
		return 0xFF
	}
	if v, conflict := b.DMA.ConflictRead(addr); conflict {
		return v
	}
	return b.read(addr)
}

// ReadRaw reads a byte bypassing every access restriction. It exists
// so the DMA unit can fetch its own transfer source bytes.
func (b *Bus) ReadRaw(addr uint16) uint8 {
	return b.read(addr)
}

func (b *Bus) read(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return b.Cart.ReadROM(addr)
	case addr < 0xA000:
		return b.PPU.ReadVRAM(addr)
	case addr < 0xC000:
		return b.Cart.ReadRAM(addr)
	case addr < 0xE000:
		return b.wram[addr-0xC000]
	case addr < 0xFE00:
		return b.wram[addr-0xE000]
	case addr < 0xFEA0:
		return b.PPU.ReadOAM(addr)
	case addr < 0xFF00:
		return 0xFF
	case addr < 0xFF80:
		return b.readIO(addr)
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default:
		return b.IRQ.ReadIE()
	}
}

// Write8 writes a byte as the CPU observes it; see Read8 for the
// access-restriction rules this applies.
func (b *Bus) Write8(addr uint16, v uint8) {
	if addr >= 0xFE00 && addr <= 0xFE9F {
		if b.PPU.OAMBlocked() || b.DMA.Active() {
			return
		}
		b.PPU.WriteOAM(addr, v)
		return
	}
	if addr >= 0x8000 && addr < 0xA000 && b.PPU.VRAMBlocked() {
		return
	}
	if b.DMA.ConflictBlocksWrite(addr) {
		return
	}
	b.write(addr, v)
}

func (b *Bus) write(addr uint16, v uint8) {
	switch {
	case addr < 0x8000:
		b.Cart.WriteROM(addr, v)
	case addr < 0xA000:
		b.PPU.WriteVRAM(addr, v)
	case addr < 0xC000:
		b.Cart.WriteRAM(addr, v)
	case addr < 0xE000:
		b.wram[addr-0xC000] = v
	case addr < 0xFE00:
		b.wram[addr-0xE000] = v
	case addr < 0xFEA0:
		b.PPU.WriteOAM(addr, v)
	case addr < 0xFF00:
		// unusable region, writes discarded
	case addr < 0xFF80:
		b.writeIO(addr, v)
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = v
	default:
		b.IRQ.WriteIE(v)
	}
}

func (b *Bus) readIO(addr uint16) uint8 {
	switch {
	case addr == 0xFF00:
		return b.Joypad.ReadRegister()
	case addr == 0xFF01 || addr == 0xFF02:
		return b.Serial.ReadRegister(addr)
	case addr == 0xFF04:
		return b.Timer.ReadDIV()
	case addr == 0xFF05:
		return b.Timer.ReadTIMA()
	case addr == 0xFF06:
		return b.Timer.ReadTMA()
	case addr == 0xFF07:
		return b.Timer.ReadTAC()
	case addr == 0xFF0F:
		return b.IRQ.ReadIF()
	case addr == 0xFF46:
		return b.DMA.ReadRegister()
	case addr >= 0xFF10 && addr <= 0xFF26:
		return b.APU.ReadRegister(addr)
	case addr >= 0xFF30 && addr <= 0xFF3F:
		return b.APU.ReadRegister(addr)
	case addr >= 0xFF40 && addr <= 0xFF4B && addr != 0xFF46:
		return b.PPU.ReadRegister(addr)
	default:
		return 0xFF
	}
}

func (b *Bus) writeIO(addr uint16, v uint8) {
	switch {
	case addr == 0xFF00:
		b.Joypad.WriteRegister(v)
	case addr == 0xFF01 || addr == 0xFF02:
		b.Serial.WriteRegister(addr, v)
	case addr == 0xFF04:
		b.Timer.WriteDIV(v)
	case addr == 0xFF05:
		b.Timer.WriteTIMA(v)
	case addr == 0xFF06:
		b.Timer.WriteTMA(v)
	case addr == 0xFF07:
		b.Timer.WriteTAC(v)
	case addr == 0xFF0F:
		b.IRQ.WriteIF(v)
	case addr == 0xFF46:
		b.DMA.WriteRegister(v)
	case addr >= 0xFF10 && addr <= 0xFF26:
		b.APU.WriteRegister(addr, v)
	case addr >= 0xFF30 && addr <= 0xFF3F:
		b.APU.WriteRegister(addr, v)
	case addr >= 0xFF40 && addr <= 0xFF4B && addr != 0xFF46:
		b.PPU.WriteRegister(addr, v)
	default:
		// unmapped I/O register, write discarded
	}
}

// Read16/Write16 are little-endian conveniences; each still decomposes into two
// single-byte bus accesses, matching real M-cycle timing elsewhere.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (b *Bus) Write16(addr uint16, v uint16) {
	b.Write8(addr, uint8(v))
	b.Write8(addr+1, uint8(v>>8))
}
