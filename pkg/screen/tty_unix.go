//go:build !windows
// +build !windows

package screen

import (
	"os"

	"github.com/pkg/term/termios"
	"github.com/womat/debug"
	"golang.org/x/sys/unix"
)

// ttyState remembers the terminal attributes to restore on close.
type ttyState struct {
	file  *os.File
	saved unix.Termios
}

// cbreak puts f into cbreak mode so key presses are not echoed into the
// panels. It returns nil if f is not a terminal.
func cbreak(f *os.File) *ttyState {
	s := &ttyState{file: f}
	if err := termios.Tcgetattr(f.Fd(), &s.saved); err != nil {
		debug.DebugLog.Printf("%s is not a terminal: %v", f.Name(), err)
		return nil
	}

	attr := s.saved
	termios.Cfmakecbreak(&attr)
	if err := termios.Tcsetattr(f.Fd(), termios.TCIFLUSH, &attr); err != nil {
		debug.ErrorLog.Printf("can't set cbreak mode: %v", err)
		return nil
	}
	return s
}

func (s *ttyState) restore() {
	if err := termios.Tcsetattr(s.file.Fd(), termios.TCIFLUSH, &s.saved); err != nil {
		debug.ErrorLog.Printf("can't restore terminal mode: %v", err)
	}
}
