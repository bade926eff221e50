package ppu

// Color is a single displayable RGB triple.
type Color struct {
	R, G, B uint8
}

// Palette maps a 2-bit shade (0 = lightest) to a display color. DMG
// hardware has no color concept of its own — every shade mapping is
// a host presentation choice, which is why this lives as a pluggable
// value rather than a hardcoded table.
type Palette [4]Color

// DefaultPalette reproduces the commonly recognized green-tinted DMG
// screen tint.
var DefaultPalette = Palette{
	{R: 224, G: 248, B: 208},
	{R: 136, G: 192, B: 112},
	{R: 52, G: 104, B: 86},
	{R: 8, G: 24, B: 32},
}

// Grayscale is a neutral alternative for hosts that don't want the
// tinted look.
var Grayscale = Palette{
	{R: 255, G: 255, B: 255},
	{R: 170, G: 170, B: 170},
	{R: 85, G: 85, B: 85},
	{R: 0, G: 0, B: 0},
}

// shadeFor decodes one of the four 2-bit slots of a BGP/OBP register
// for the given color number (0-3).
func shadeFor(register uint8, colorNumber uint8) uint8 {
	return (register >> (colorNumber * 2)) & 0x03
}
