package overlay

import "image/color"

var (
	Black     = color.RGBA{0x00, 0x00, 0x00, 0xff}
	White     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	Gray      = color.RGBA{0x88, 0x88, 0x88, 0xff}
	LightGray = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	DarkGray  = color.RGBA{0x44, 0x44, 0x44, 0xff}
	Red       = color.RGBA{0xff, 0x00, 0x00, 0xff}
	Green     = color.RGBA{0x00, 0xff, 0x00, 0xff}
	Blue      = color.RGBA{0x00, 0x00, 0xff, 0xff}
	Cyan      = color.RGBA{0x00, 0xff, 0xff, 0xff}
	Magenta   = color.RGBA{0xff, 0x00, 0xff, 0xff}
	Yellow    = color.RGBA{0xff, 0xff, 0x00, 0xff}
)

// PaletteEntry pairs a text color with the background it is drawn on.
type PaletteEntry struct {
	Text       color.RGBA
	Background color.RGBA
}

// Palette is indexed by tracking id so the same face keeps its color.
var Palette = [...]PaletteEntry{
	{Black, White},
	{White, Magenta},
	{Black, LightGray},
	{White, Red},
	{White, Blue},
	{White, DarkGray},
	{Black, Cyan},
	{Black, Yellow},
	{White, Black},
	{Black, Green},
}

// ColorIndex maps a tracking id to a palette slot; faces without an id use slot 0.
func ColorIndex(trackingID *int32) int {
	if trackingID == nil {
		return 0
	}
	// take the remainder first so math.MinInt32 cannot overflow abs
	idx := int(*trackingID % int32(len(Palette)))
	if idx < 0 {
		idx = -idx
	}
	return idx
}
