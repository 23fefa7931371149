//go:build linux
// +build linux

package joystick

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"syscall"
	"time"
	"unsafe"

	"github.com/womat/debug"
	"golang.org/x/sys/unix"
)

// jsiocgName is JSIOCGNAME(128), the ioctl returning the device name.
const jsiocgName = 0x80006a13 + (128 << 16)

// Open starts reading the joystick device at path (e.g. /dev/input/js0) until ctx is done.
// A missing or removed device is reopened every second.
func Open(ctx context.Context, path string, m Mapping) *Reader {
	r := newReader(path, m)
	go r.run(ctx)
	return r
}

func (r *Reader) run(ctx context.Context) {
	missing := false

	for {
		f, err := os.OpenFile(r.path, os.O_RDONLY, 0)
		if err != nil {
			if !missing {
				debug.ErrorLog.Printf("joystick %s: %v", r.path, err)
				missing = true
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(retryInterval):
				continue
			}
		}
		missing = false

		name, err := deviceName(f)
		if err != nil {
			debug.DebugLog.Printf("joystick %s: %v", r.path, err)
		}
		debug.InfoLog.Printf("joystick %s connected: %q", r.path, name)
		r.connect(name)

		r.read(ctx, f)
		r.disconnect()

		if ctx.Err() != nil {
			return
		}
		debug.ErrorLog.Printf("joystick %s disconnected", r.path)
	}
}

// read applies events until the device fails or ctx is done.
func (r *Reader) read(ctx context.Context, f *os.File) {
	done := make(chan struct{})
	defer close(done)

	// closing the file unblocks the pending read
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = f.Close()
	}()

	for {
		var e event
		if err := binary.Read(f, binary.LittleEndian, &e); err != nil {
			return
		}
		debug.TraceLog.Printf("joystick event %+v", e)
		r.apply(e)
	}
}

// deviceName asks the driver for the joystick name. The descriptor is only
// borrowed, f.Fd() would switch f to blocking mode and Close could no longer
// interrupt a pending read.
func deviceName(f *os.File) (string, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return "", err
	}

	info := make([]byte, 128)
	var errno syscall.Errno
	err = rc.Control(func(fd uintptr) {
		_, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, uintptr(jsiocgName), uintptr(unsafe.Pointer(&info[0])))
	})
	if err != nil {
		return "", err
	}
	if errno != 0 {
		return "", fmt.Errorf("ioctl JSIOCGNAME: %w", errno)
	}

	if i := bytes.IndexByte(info, 0); i >= 0 {
		info = info[:i]
	}
	return string(info), nil
}
