package screen

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"ctrltest/pkg/panel"

	"github.com/womat/debug"
)

// sgr holds the ANSI colours of each palette.
var sgr = map[panel.Palette]string{
	panel.PalText:     "\x1b[0;97;40m",
	panel.PalInverse:  "\x1b[0;30;107m",
	panel.PalDim:      "\x1b[0;90;40m",
	panel.PalUnknown:  "\x1b[0;91;40m",
	panel.PalMultitap: "\x1b[0;93;40m",
	panel.PalJoypad:   "\x1b[0;96;40m",
	panel.PalMouse:    "\x1b[0;92;40m",
}

// Terminal presents a plane on an ANSI terminal. Only changed cells are sent.
type Terminal struct {
	plane *Plane
	out   *bufio.Writer
	tty   *ttyState
}

// NewTerminal creates a presenter writing to out. If in is a terminal its
// echo is switched off while the presenter is open.
func NewTerminal(plane *Plane, out io.Writer, in *os.File) *Terminal {
	t := &Terminal{
		plane: plane,
		out:   bufio.NewWriter(out),
	}
	if in != nil {
		t.tty = cbreak(in)
	}

	// clear screen, hide cursor
	_, _ = t.out.WriteString("\x1b[2J\x1b[?25l")
	return t
}

// Present writes the cells changed since the last call.
func (t *Terminal) Present() error {
	changes := t.plane.Flush()
	if len(changes) == 0 {
		return nil
	}

	last := panel.Palette(0xFF)
	nextX, nextY := -1, -1
	for _, c := range changes {
		if c.X != nextX || c.Y != nextY {
			fmt.Fprintf(t.out, "\x1b[%d;%dH", c.Y+1, c.X+1)
		}
		if pal := c.Cell.Palette(); pal != last {
			_, _ = t.out.WriteString(sgr[pal])
			last = pal
		}
		_ = t.out.WriteByte(printable(c.Cell.Char()))
		nextX, nextY = c.X+1, c.Y
	}
	return t.out.Flush()
}

// Close restores colours, cursor and terminal mode.
func (t *Terminal) Close() error {
	fmt.Fprintf(t.out, "\x1b[0m\x1b[?25h\x1b[%d;1H\n", Rows+1)
	err := t.out.Flush()
	if t.tty != nil {
		t.tty.restore()
	}
	if err != nil {
		debug.ErrorLog.Printf("closing terminal: %v", err)
	}
	return err
}

func printable(ch byte) byte {
	if ch < ' ' || ch > '~' {
		return '.'
	}
	return ch
}
