package ppu

// State is the serializable snapshot of PPU state for save states.
// The current line's scanned sprite list is excluded: it is
// regenerated by the next OAM scan and carrying it across a
// save/load boundary mid-scanline isn't worth the extra bytes.
type State struct {
	VRAM [0x2000]byte
	OAM  [0xA0]byte

	LCDC, STAT      uint8
	SCY, SCX        uint8
	LY, LYC         uint8
	BGP, OBP0, OBP1 uint8
	WY, WX          uint8

	Dot      int
	Mode     mode
	Mode3End int

	PixelX    int
	DrawStall int

	WindowLineCounter  int
	WindowUsedThisLine bool

	Framebuffer [ScreenWidth * ScreenHeight]uint8
	FrameReady  bool
	StatLine    bool
}

// Snapshot captures the PPU's current state.
func (p *PPU) Snapshot() State {
	return State{
		VRAM: p.vram, OAM: p.oam,
		LCDC: p.lcdc, STAT: p.stat,
		SCY: p.scy, SCX: p.scx,
		LY: p.ly, LYC: p.lyc,
		BGP: p.bgp, OBP0: p.obp0, OBP1: p.obp1,
		WY: p.wy, WX: p.wx,
		Dot: p.dot, Mode: p.mode, Mode3End: p.mode3End,
		PixelX: p.pixelX, DrawStall: p.drawStall,
		WindowLineCounter:  p.windowLineCounter,
		WindowUsedThisLine: p.windowUsedThisLine,
		Framebuffer:        p.framebuffer,
		FrameReady:         p.frameReady,
		StatLine:           p.statLine,
	}
}

// Restore replaces the PPU's state with a previously captured Snapshot.
func (p *PPU) Restore(s State) {
	p.vram, p.oam = s.VRAM, s.OAM
	p.lcdc, p.stat = s.LCDC, s.STAT
	p.scy, p.scx = s.SCY, s.SCX
	p.ly, p.lyc = s.LY, s.LYC
	p.bgp, p.obp0, p.obp1 = s.BGP, s.OBP0, s.OBP1
	p.wy, p.wx = s.WY, s.WX
	p.dot, p.mode, p.mode3End = s.Dot, s.Mode, s.Mode3End
	p.pixelX, p.drawStall = s.PixelX, s.DrawStall
	p.windowLineCounter = s.WindowLineCounter
	p.windowUsedThisLine = s.WindowUsedThisLine
	p.framebuffer = s.Framebuffer
	p.frameReady = s.FrameReady
	p.statLine = s.StatLine
	p.spritesThisLine = nil
}
