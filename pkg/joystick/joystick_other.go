//go:build !linux
// +build !linux

package joystick

import (
	"context"
	"runtime"

	"github.com/womat/debug"
)

// Open returns a reader that stays disconnected, joystick devices are only read on linux.
func Open(ctx context.Context, path string, m Mapping) *Reader {
	debug.ErrorLog.Printf("joystick %s: not supported on %s", path, runtime.GOOS)
	return newReader(path, m)
}
