package screen_test

import (
	"bytes"
	"strings"
	"testing"

	"ctrltest/pkg/panel"
	"ctrltest/pkg/screen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellEncoding(t *testing.T) {
	c := screen.MakeCell(panel.PalJoypad, 'A')

	assert.Equal(t, screen.Cell(0x5141), c)
	assert.Equal(t, panel.PalJoypad, c.Palette())
	assert.Equal(t, byte('A'), c.Char())
	assert.Equal(t, screen.Cell(0x0120), screen.MakeCell(panel.PalText, ' '))
}

func TestPlanePutGlyph(t *testing.T) {
	p := screen.NewPlane()

	panel.Print(p, 62, 0, panel.PalMouse, "abcd")
	panel.Print(p, 0, 31, panel.PalText, "z")
	panel.Print(p, 0, 32, panel.PalText, "out of range")
	p.PutGlyph(-1, 0, panel.PalText, 'x')

	assert.Equal(t, "ab", p.Read(62, 0, 2), "clipped at the right edge")
	assert.Equal(t, panel.PalMouse, p.At(62, 0).Palette())
	assert.Equal(t, byte('z'), p.At(0, 31).Char())
	assert.Equal(t, byte(' '), p.At(1, 1).Char())
	assert.Equal(t, screen.Columns, len(p.Text(5)))
	assert.Empty(t, p.Read(63, 0, 2))
}

func TestPlaneString(t *testing.T) {
	p := screen.NewPlane()
	panel.Print(p, 2, 1, panel.PalText, "hi")

	assert.Equal(t, "\n  hi\n", p.String())
}

func TestPlaneFlush(t *testing.T) {
	p := screen.NewPlane()

	panel.Print(p, 3, 2, panel.PalText, "ab")
	panel.Print(p, 0, 0, panel.PalText, " ")

	changes := p.Flush()
	require.Len(t, changes, 2, "writing a blank over a blank is no change")
	assert.Equal(t, screen.Change{X: 3, Y: 2, Cell: screen.MakeCell(panel.PalText, 'a')}, changes[0])
	assert.Equal(t, 4, changes[1].X)
	assert.Empty(t, p.Flush())

	panel.Print(p, 3, 2, panel.PalInverse, "a")
	assert.Len(t, p.Flush(), 1, "palette change is a change")
}

func TestTerminalPresent(t *testing.T) {
	var out bytes.Buffer
	p := screen.NewPlane()
	term := screen.NewTerminal(p, &out, nil)

	panel.Print(p, 0, 0, panel.PalJoypad, "ok")
	panel.Print(p, 5, 3, panel.PalUnknown, "?")
	require.NoError(t, term.Present())

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "\x1b[2J"))
	assert.Contains(t, s, "\x1b[1;1H\x1b[0;96;40mok")
	assert.Contains(t, s, "\x1b[4;6H\x1b[0;91;40m?")

	out.Reset()
	require.NoError(t, term.Present())
	assert.Empty(t, out.String(), "nothing changed")

	require.NoError(t, term.Close())
	assert.Contains(t, out.String(), "\x1b[?25h")
}
