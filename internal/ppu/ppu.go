// Package ppu implements the picture processing unit: the per-dot
// mode state machine, OAM scan, background/window/sprite
// compositing, and the STAT/VBlank interrupt lines.
package ppu

import (
	"sort"

	"dmgcore/internal/debug"
	"dmgcore/internal/interrupt"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine  = 456
	linesPerFrame = 154
	mode2Dots    = 80
)

// mode is one of the four PPU modes reported in STAT's low two bits.
type mode uint8

const (
	modeHBlank mode = 0
	modeVBlank mode = 1
	modeOAM    mode = 2
	modeDraw   mode = 3
)

// sprite is one entry gathered during OAM scan for the current line.
type sprite struct {
	y, x, tile, attr uint8
	oamIndex         int
}

// PPU owns VRAM, OAM, and all LCD-related registers.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat           uint8
	scy, scx             uint8
	ly, lyc              uint8
	bgp, obp0, obp1      uint8
	wy, wx               uint8

	dot  int
	mode mode

	mode3End int // dot at which mode 3 ends this line, set when mode 3 begins

	pixelX    int // next screen column drawPixel will produce
	drawStall int // dots into mode 3 before the first pixel is pushed (SCX fetch-alignment penalty)

	windowLineCounter int
	windowUsedThisLine bool

	spritesThisLine []sprite

	framebuffer [ScreenWidth * ScreenHeight]uint8
	frameReady  bool

	statLine bool

	irq    *interrupt.Registers
	logger *debug.Logger
}

// New creates a PPU that raises interrupts through irq.
func New(irq *interrupt.Registers) *PPU {
	p := &PPU{irq: irq}
	p.mode = modeOAM
	return p
}

// AttachLogger wires a shared logger for STAT edge events. A nil
// logger (the zero value of an unwired PPU) disables logging.
func (p *PPU) AttachLogger(l *debug.Logger) {
	p.logger = l
}

// lyForCompare implements the LY=153 quirk: a few dots into line 153
// the externally visible LY register (and the LYC comparison that
// reads it) reports 0, one line-length early.
func (p *PPU) lyForCompare() uint8 {
	if p.ly == 153 && p.dot >= 4 {
		return 0
	}
	return p.ly
}

func (p *PPU) lcdEnabled() bool {
	return p.lcdc&0x80 != 0
}

// Step advances the PPU by the given number of dots (T-cycles). The
// stepper calls this with 4 once per M-cycle.
func (p *PPU) Step(dots int) {
	if !p.lcdEnabled() {
		// Disabling LCDC freezes the picture and resets position;
		// re-enabling resumes from the top of the screen.
		p.dot = 0
		p.ly = 0
		p.mode = modeOAM
		p.checkSTAT()
		return
	}
	for i := 0; i < dots; i++ {
		p.stepDot()
	}
}

func (p *PPU) stepDot() {
	switch p.mode {
	case modeOAM:
		if p.dot == 0 {
			p.scanOAM()
		}
		if p.dot == mode2Dots-1 {
			p.beginDraw()
		}
	case modeDraw:
		p.drawPixel(p.ly)
		if p.dot == p.mode3End-1 {
			p.enterHBlank()
		}
	case modeHBlank:
		if p.dot == dotsPerLine-1 {
			p.endOfLine()
		}
	case modeVBlank:
		if p.dot == dotsPerLine-1 {
			p.endOfLine()
		}
	}
	p.dot++
	p.checkSTAT()
}

// beginDraw enters mode 3. The mode-3 dot budget is fixed up front
// from the registers as they stand right now (the SCX fetch-alignment
// stall, a guess at whether the window will be hit this line, and a
// flat per-sprite penalty), matching how the real fetcher's total
// mode-3 length is set by conditions at its start; the per-pixel
// content pushed out during mode 3, by contrast, is produced
// incrementally by drawPixel and depends on live register reads at
// each pixel's own dot, not on anything sampled here.
func (p *PPU) beginDraw() {
	p.mode = modeDraw
	p.windowUsedThisLine = false
	p.pixelX = 0
	p.drawStall = int(p.scx % 8)

	extra := p.scx % 8
	if p.windowMayTriggerThisLine(p.ly) {
		extra += 6
	}
	extra += uint8(6 * len(p.spritesThisLine))
	p.mode3End = mode2Dots + 172 + int(extra)
}

// windowMayTriggerThisLine reports whether the window layer could be
// reached by any column this line, using the current LCDC/WY/WX. It
// only sizes the mode-3 dot budget; whether a given pixel actually
// uses the window is still decided live in bgWindowPixel.
func (p *PPU) windowMayTriggerThisLine(ly uint8) bool {
	if p.lcdc&0x21 != 0x21 { // bit 0 (BG/window enable) and bit 5 (window enable)
		return false
	}
	if int(ly) < int(p.wy) {
		return false
	}
	return int(p.wx)-7 < ScreenWidth
}

func (p *PPU) enterHBlank() {
	p.mode = modeHBlank
	if p.windowUsedThisLine {
		p.windowLineCounter++
	}
}

func (p *PPU) endOfLine() {
	p.dot = 0
	p.ly++
	if p.ly == ScreenHeight {
		p.mode = modeVBlank
		p.frameReady = true
		p.windowLineCounter = 0
		p.irq.Raise(interrupt.VBlank)
		return
	}
	if int(p.ly) >= linesPerFrame {
		p.ly = 0
		p.mode = modeOAM
		return
	}
	if p.mode == modeVBlank {
		return // stay in VBlank through lines 144-153
	}
	p.mode = modeOAM
}

// checkSTAT re-evaluates the four OR'd STAT interrupt sources and
// raises the LCD interrupt on a 0-to-1 transition of their union,
// matching the real level-sensitive-but-edge-latched line.
func (p *PPU) checkSTAT() {
	lycMatch := p.lyForCompare() == p.lyc
	line := (p.stat&0x40 != 0 && lycMatch) ||
		(p.stat&0x20 != 0 && p.mode == modeOAM) ||
		(p.stat&0x10 != 0 && p.mode == modeVBlank) ||
		(p.stat&0x08 != 0 && p.mode == modeHBlank)
	if line && !p.statLine {
		p.irq.Raise(interrupt.LCDStat)
		if p.logger != nil {
			p.logger.LogPPUf(debug.LogLevelDebug, "STAT line raised at ly=%d mode=%d", p.ly, p.mode)
		}
	}
	p.statLine = line
}

// scanOAM gathers up to 10 sprites overlapping the current line, in
// the stable (X ascending, then OAM index ascending) priority order
// DMG hardware uses.
func (p *PPU) scanOAM() {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}
	p.spritesThisLine = p.spritesThisLine[:0]
	for i := 0; i < 40 && len(p.spritesThisLine) < 10; i++ {
		base := i * 4
		y := p.oam[base]
		x := p.oam[base+1]
		tile := p.oam[base+2]
		attr := p.oam[base+3]
		top := int(y) - 16
		if int(p.ly) < top || int(p.ly) >= top+height {
			continue
		}
		p.spritesThisLine = append(p.spritesThisLine, sprite{y: y, x: x, tile: tile, attr: attr, oamIndex: i})
	}
	sort.Slice(p.spritesThisLine, func(i, j int) bool {
		a, b := p.spritesThisLine[i], p.spritesThisLine[j]
		if a.x != b.x {
			return a.x < b.x
		}
		return a.oamIndex < b.oamIndex
	})
}

// FrameReady reports whether a complete frame is waiting to be
// consumed.
func (p *PPU) FrameReady() bool {
	return p.frameReady
}

// ConsumeFrame clears the new-frame flag and returns the 160x144
// shade-index framebuffer (values 0-3, not yet mapped through a
// Palette).
func (p *PPU) ConsumeFrame() [ScreenWidth * ScreenHeight]uint8 {
	p.frameReady = false
	return p.framebuffer
}

// RenderRGB applies pal to the current framebuffer contents without
// consuming the new-frame flag, for hosts that want to re-present the
// last frame (e.g. while paused).
func (p *PPU) RenderRGB(pal Palette) [ScreenWidth * ScreenHeight]Color {
	var out [ScreenWidth * ScreenHeight]Color
	for i, shade := range p.framebuffer {
		out[i] = pal[shade&3]
	}
	return out
}

// OAMBlocked reports whether the CPU's direct OAM access should be
// denied this dot because the PPU itself owns the bus (modes 2 and 3).
func (p *PPU) OAMBlocked() bool {
	return p.lcdEnabled() && (p.mode == modeOAM || p.mode == modeDraw)
}

// VRAMBlocked reports whether the CPU's direct VRAM access should be
// denied this dot (mode 3 only).
func (p *PPU) VRAMBlocked() bool {
	return p.lcdEnabled() && p.mode == modeDraw
}

func (p *PPU) ReadVRAM(addr uint16) uint8 {
	return p.vram[addr-0x8000]
}

func (p *PPU) WriteVRAM(addr uint16, v uint8) {
	p.vram[addr-0x8000] = v
}

func (p *PPU) ReadOAM(addr uint16) uint8 {
	return p.oam[addr-0xFE00]
}

func (p *PPU) WriteOAM(addr uint16, v uint8) {
	p.oam[addr-0xFE00] = v
}

// WriteOAMDMA is the DMA unit's dedicated OAM write path, which is
// never subject to the mode-based CPU blocking above.
func (p *PPU) WriteOAMDMA(index uint8, v uint8) {
	p.oam[index] = v
}
