package ppu

// drawPixel renders one pixel of the current line at column
// p.pixelX and advances p.pixelX, composing background, window, and
// sprite layers from the registers as they stand at this exact dot.
// Nothing about LCDC, SCX, SCY, BGP, WY, WX, OBP0, or OBP1 is cached
// from mode-3 entry: a write to any of them mid-scanline takes effect
// starting with the next pixel pushed out, the same way the real
// fetcher only ever sees the current register contents.
//
// The fetcher states the hardware pipeline goes through (tile fetch,
// data low/high, push, sleep) aren't modeled as a literal dot-by-dot
// state machine here; sprite-induced stalls are approximated by a
// flat per-sprite dot penalty folded into mode3End rather than a
// bit-exact race between background and sprite fetchers. See the
// design notes for why that narrower trade was kept.
func (p *PPU) drawPixel(ly uint8) {
	if p.pixelX >= ScreenWidth {
		return
	}
	if p.dot-mode2Dots < p.drawStall {
		return
	}

	x := p.pixelX
	shade, bgColorNum := p.bgWindowPixel(ly, x)
	if spriteShade, ok := p.spritePixel(ly, x, bgColorNum); ok {
		shade = spriteShade
	}
	if int(ly) < ScreenHeight {
		p.framebuffer[int(ly)*ScreenWidth+x] = shade
	}
	p.pixelX++
}

// bgWindowPixel returns the BGP-mapped shade and the raw 0-3 color
// number (needed for OBJ-to-BG priority, which compares against color
// number 0, not the mapped shade) for column x of line ly.
func (p *PPU) bgWindowPixel(ly uint8, x int) (uint8, uint8) {
	if p.lcdc&0x01 == 0 {
		return shadeFor(p.bgp, 0), 0
	}

	windowEnabled := p.lcdc&0x20 != 0
	wx := int(p.wx) - 7
	useWindow := windowEnabled && int(ly) >= int(p.wy) && x >= wx

	var tileMapBase uint16
	var tx, ty, fineX, fineY int
	if useWindow {
		p.windowUsedThisLine = true
		if p.lcdc&0x40 != 0 {
			tileMapBase = 0x9C00
		} else {
			tileMapBase = 0x9800
		}
		tx = (x - wx) / 8
		ty = p.windowLineCounter / 8
		fineX = (x - wx) % 8
		fineY = p.windowLineCounter % 8
	} else {
		if p.lcdc&0x08 != 0 {
			tileMapBase = 0x9C00
		} else {
			tileMapBase = 0x9800
		}
		scrolledX := (x + int(p.scx)) & 0xFF
		scrolledY := (int(ly) + int(p.scy)) & 0xFF
		tx = scrolledX / 8
		ty = scrolledY / 8
		fineX = scrolledX % 8
		fineY = scrolledY % 8
	}

	mapAddr := tileMapBase + uint16(ty%32)*32 + uint16(tx%32)
	tileID := p.vram[mapAddr-0x8000]

	var tileDataBase uint16
	var tileIndex int
	if p.lcdc&0x10 != 0 {
		tileDataBase = 0x8000
		tileIndex = int(tileID)
	} else {
		tileDataBase = 0x9000
		tileIndex = int(int8(tileID))
	}

	rowAddr := tileDataBase + uint16(tileIndex)*16 + uint16(fineY)*2
	lo := p.vram[rowAddr-0x8000]
	hi := p.vram[rowAddr+1-0x8000]

	bit := 7 - fineX
	colorNum := (hi>>uint(bit)&1)<<1 | (lo >> uint(bit) & 1)
	return shadeFor(p.bgp, colorNum), colorNum
}

// spritePixel returns the OBJ layer's contribution at column x of
// line ly, if any opaque, unmasked sprite covers it. Which sprite
// wins was already decided at OAM scan time (p.spritesThisLine is
// kept sorted X-ascending with OAM index as tiebreak, so the first
// match here is the correct winner); OBP0/OBP1 and LCDC's OBJ-enable
// bit are still sampled live, at the dot this pixel is composited.
func (p *PPU) spritePixel(ly uint8, x int, bgColorNum uint8) (uint8, bool) {
	if p.lcdc&0x02 == 0 {
		return 0, false
	}
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}

	for _, s := range p.spritesThisLine {
		screenLeft := int(s.x) - 8
		if x < screenLeft || x >= screenLeft+8 {
			continue
		}
		top := int(s.y) - 16
		lineInSprite := int(ly) - top
		if s.attr&0x40 != 0 {
			lineInSprite = height - 1 - lineInSprite
		}
		tile := s.tile
		if height == 16 {
			tile &^= 0x01
			if lineInSprite >= 8 {
				tile |= 0x01
				lineInSprite -= 8
			}
		}
		rowAddr := 0x8000 + uint16(tile)*16 + uint16(lineInSprite)*2
		lo := p.vram[rowAddr-0x8000]
		hi := p.vram[rowAddr+1-0x8000]

		col := x - screenLeft
		bit := col
		if s.attr&0x20 == 0 {
			bit = 7 - col
		}
		colorNum := (hi>>uint(bit)&1)<<1 | (lo >> uint(bit) & 1)
		if colorNum == 0 {
			continue
		}
		if s.attr&0x80 != 0 && bgColorNum != 0 {
			continue
		}

		palette := p.obp0
		if s.attr&0x10 != 0 {
			palette = p.obp1
		}
		return shadeFor(palette, colorNum), true
	}
	return 0, false
}
