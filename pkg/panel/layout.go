package panel

import (
	"fmt"

	"ctrltest/pkg/device"
	"ctrltest/pkg/port"
)

// Region is the fixed screen area of a port panel.
type Region struct {
	// Subtitle is the row of the "Port n:" label, the device title and the raw hex value.
	Subtitle int
	// Text is the first of the template rows.
	Text int
	// Left is the left edge column of the template.
	Left int
}

const (
	// titleOffset is the distance of the device title from the left edge.
	titleOffset = 11
	// hexColumn is the column of the raw sample readout, one row below the subtitle.
	hexColumn = 29
	// templateRows is the height of the template.
	templateRows = 6
	// templateWidth is the width of the template.
	templateWidth = 22
)

// DefaultRegions places port one above port two.
var DefaultRegions = map[port.Number]Region{
	port.One: {Subtitle: 6, Text: 9, Left: 11},
	port.Two: {Subtitle: 17, Text: 20, Left: 11},
}

// header texts and positions
const (
	Title        = "FX Controller Test"
	titleColumn  = 12
	titleRow     = 2
	versionCol   = 33
	labelColumn  = 9
	portLabelFmt = "Port %d: "
)

// dynamicFunc redraws the per frame fields of a panel.
type dynamicFunc func(s Surface, reg Region, pal Palette, snap port.Snapshot)

// layout describes how one device kind is shown. Empty template rows are cleared.
type layout struct {
	title    string
	palette  Palette
	template [templateRows]string
	dynamic  dynamicFunc
}

var layouts = map[device.Kind]layout{
	device.DigitalPad: {
		title:   "Joypad  (%X)",
		palette: PalJoypad,
		template: [templateRows]string{
			"    Mode 1: A-B       ",
			"    Mode 2: A-B       ",
			" ^                    ",
			"<+>            4 5 6  ",
			" v             3 2 1  ",
			"      Sel Run         ",
		},
		dynamic: drawPad,
	},
	device.Pointer: {
		title:   "Mouse   (%X)",
		palette: PalMouse,
		template: [templateRows]string{
			"  Button:  1  2       ",
			"       ###            ",
			"        ^             ",
			"  ### < + > ###       ",
			"        v             ",
			"       ###            ",
		},
		dynamic: drawPointer,
	},
	device.Absent: {
		title:   "None    (%X)",
		palette: PalDim,
	},
	device.Unrecognized: {
		title:   "Unknown (%X)",
		palette: PalUnknown,
	},
}

// titleFor returns the panel title of t, with the tag it was classified by.
func titleFor(t device.Type) string {
	return fmt.Sprintf(layouts[t.Kind].title, t.Tag)
}

// indicator is a single pad button glyph.
type indicator struct {
	button  device.Button
	dx, dy  int
	on, off string
}

var padIndicators = []indicator{
	{button: device.ButtonMode1, dx: 13, dy: 0, on: ">", off: "<"},
	{button: device.ButtonMode2, dx: 13, dy: 1, on: ">", off: "<"},
	{button: device.ButtonUp, dx: 1, dy: 2, on: "^", off: " "},
	{button: device.ButtonLeft, dx: 0, dy: 3, on: "<", off: " "},
	{button: device.ButtonRight, dx: 2, dy: 3, on: ">", off: " "},
	{button: device.ButtonIV, dx: 15, dy: 3, on: "4", off: "-"},
	{button: device.ButtonV, dx: 17, dy: 3, on: "5", off: "-"},
	{button: device.ButtonVI, dx: 19, dy: 3, on: "6", off: "-"},
	{button: device.ButtonDown, dx: 1, dy: 4, on: "v", off: " "},
	{button: device.ButtonIII, dx: 15, dy: 4, on: "3", off: "-"},
	{button: device.ButtonII, dx: 17, dy: 4, on: "2", off: "-"},
	{button: device.ButtonI, dx: 19, dy: 4, on: "1", off: "-"},
	{button: device.ButtonSelect, dx: 6, dy: 5, on: "Sel", off: "---"},
	{button: device.ButtonRun, dx: 10, dy: 5, on: "Run", off: "---"},
}

// drawPad redraws the 14 pad indicators. Buttons pressed this very frame
// are drawn inverted.
func drawPad(s Surface, reg Region, pal Palette, snap port.Snapshot) {
	for _, ind := range padIndicators {
		glyph, p := ind.off, pal
		if snap.Pressed(ind.button) {
			glyph = ind.on
		}
		if snap.Triggered(ind.button) {
			p = PalInverse
		}
		Print(s, reg.Left+ind.dx, reg.Text+ind.dy, p, glyph)
	}
}

// Motion splits a signed motion byte into a direction (-1, 0, +1) and a magnitude.
func Motion(v int8) (dir, magnitude int) {
	switch {
	case v < 0:
		return -1, -int(v)
	case v > 0:
		return 1, int(v)
	}
	return 0, 0
}

// motionRow renders the X axis row: magnitude left of "< +" when moving
// left, right of "+ >" when moving right, a lone "+" when still.
// The row is always 13 cells wide, so whatever was drawn before is overwritten.
func motionRow(dx int8) string {
	switch dir, mag := Motion(dx); dir {
	case -1:
		return fmt.Sprintf("%3d < +      ", mag)
	case 1:
		return fmt.Sprintf("      + > %3d", mag)
	}
	return "      +      "
}

// motionColumn renders the Y axis cells from top to bottom: magnitude box
// above, up arrow, down arrow, magnitude box below.
func motionColumn(dy int8) [4]string {
	switch dir, mag := Motion(dy); dir {
	case -1:
		return [4]string{fmt.Sprintf("%3d", mag), "^", " ", "   "}
	case 1:
		return [4]string{"   ", " ", "v", fmt.Sprintf("%3d", mag)}
	}
	return [4]string{"   ", " ", " ", "   "}
}

// drawPointer redraws the mouse buttons and clears and redraws the whole
// motion cross every frame.
func drawPointer(s Surface, reg Region, pal Palette, snap port.Snapshot) {
	m := device.DecodePointer(snap.Current)

	b1, b2 := "-", "-"
	if m.Button1 {
		b1 = "1"
	}
	if m.Button2 {
		b2 = "2"
	}
	Print(s, reg.Left+11, reg.Text, pal, b1)
	Print(s, reg.Left+14, reg.Text, pal, b2)

	Print(s, reg.Left+2, reg.Text+3, pal, motionRow(m.DX))

	col := motionColumn(m.DY)
	Print(s, reg.Left+7, reg.Text+1, pal, col[0])
	Print(s, reg.Left+8, reg.Text+2, pal, col[1])
	Print(s, reg.Left+8, reg.Text+4, pal, col[2])
	Print(s, reg.Left+7, reg.Text+5, pal, col[3])
}
