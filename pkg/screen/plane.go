// Package screen holds the tile plane the panels are drawn on and presents it
// on a terminal.
package screen

import (
	"strings"
	"sync"

	"ctrltest/pkg/panel"
)

// Plane geometry, a 64x32 tile map.
const (
	Columns = 64
	Rows    = 32
)

const (
	// glyphBase is the tile number of the first font glyph (character 0).
	glyphBase = 0x100
	// paletteShift positions the palette number in a cell word.
	paletteShift = 12
	// blankCell is a space in palette 0.
	blankCell = glyphBase + ' '
)

// Cell is a tile map entry: palette in the top nibble, tile number below.
type Cell uint16

// MakeCell encodes a character in a palette.
func MakeCell(pal panel.Palette, ch byte) Cell {
	return Cell(uint16(pal)<<paletteShift + glyphBase + uint16(ch))
}

// Palette returns the palette of the cell.
func (c Cell) Palette() panel.Palette {
	return panel.Palette(c >> paletteShift)
}

// Char returns the character shown by the cell.
func (c Cell) Char() byte {
	return byte((c & 0x0FFF) - glyphBase)
}

// Plane is a row major tile map. Writes outside the map are dropped.
//
// Plane is written by the main loop and read by presenters and web requests,
// so all access is guarded.
type Plane struct {
	mu    sync.RWMutex
	cells [Rows * Columns]Cell
	dirty [Rows * Columns]bool
}

// NewPlane returns a plane filled with blanks.
func NewPlane() *Plane {
	p := &Plane{}
	for i := range p.cells {
		p.cells[i] = blankCell
	}
	return p
}

// PutGlyph implements panel.Surface.
func (p *Plane) PutGlyph(x, y int, pal panel.Palette, ch byte) {
	if x < 0 || x >= Columns || y < 0 || y >= Rows {
		return
	}
	i := y*Columns + x
	c := MakeCell(pal, ch)

	p.mu.Lock()
	if p.cells[i] != c {
		p.cells[i] = c
		p.dirty[i] = true
	}
	p.mu.Unlock()
}

// At returns the cell at column x of row y.
func (p *Plane) At(x, y int) Cell {
	if x < 0 || x >= Columns || y < 0 || y >= Rows {
		return blankCell
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cells[y*Columns+x]
}

// Text returns the characters of row y.
func (p *Plane) Text(y int) string {
	if y < 0 || y >= Rows {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	b := make([]byte, Columns)
	for x := range b {
		b[x] = p.cells[y*Columns+x].Char()
	}
	return string(b)
}

// Read returns w characters of row y starting at column x.
func (p *Plane) Read(x, y, w int) string {
	row := p.Text(y)
	if x < 0 || x+w > len(row) {
		return ""
	}
	return row[x : x+w]
}

// String dumps the plane with trailing blanks and empty bottom rows removed.
func (p *Plane) String() string {
	lines := make([]string, Rows)
	for y := range lines {
		lines[y] = strings.TrimRight(p.Text(y), " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

// Change is a cell written since the last Flush.
type Change struct {
	X, Y int
	Cell Cell
}

// Flush returns the changed cells in row major order and clears the dirty marks.
func (p *Plane) Flush() []Change {
	p.mu.Lock()
	defer p.mu.Unlock()

	var changes []Change
	for i, d := range p.dirty {
		if !d {
			continue
		}
		changes = append(changes, Change{X: i % Columns, Y: i / Columns, Cell: p.cells[i]})
		p.dirty[i] = false
	}
	return changes
}
