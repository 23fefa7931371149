// Package panel draws the per port status panels of the controller test screen.
package panel

import (
	"strings"
)

// Palette selects the colours of a glyph.
type Palette uint8

// Palettes of the test screen.
const (
	PalText Palette = iota
	PalInverse
	PalDim
	PalUnknown
	PalMultitap
	PalJoypad
	PalMouse
)

// Surface is the tile plane the panels are drawn on.
// Columns and rows start at 0 in the top left corner.
type Surface interface {
	PutGlyph(x, y int, pal Palette, ch byte)
}

// Print draws text starting at column x of row y, one glyph per byte.
func Print(s Surface, x, y int, pal Palette, text string) {
	for i := 0; i < len(text); i++ {
		s.PutGlyph(x+i, y, pal, text[i])
	}
}

// Clear blanks w cells starting at column x of row y.
func Clear(s Surface, x, y, w int, pal Palette) {
	Print(s, x, y, pal, strings.Repeat(" ", w))
}
