//go:build windows
// +build windows

package screen

import (
	"os"
)

// ttyState is a stub, the console mode is left alone on windows.
type ttyState struct{}

func cbreak(f *os.File) *ttyState {
	return nil
}

func (s *ttyState) restore() {}
