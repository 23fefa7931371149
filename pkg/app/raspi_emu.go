//go:build !linux
// +build !linux

package app

import (
	"context"
	"time"

	"ctrltest/pkg/raspberry"
)

// emulateVSync emulate pulses on the vsync pin at the frame rate, only for testing on systems without gpio
func emulateVSync(ctx context.Context, v *raspberry.VSync, fps float64) {
	if fps <= 0 {
		return
	}

	t := time.NewTicker(time.Duration(float64(time.Second) / fps))
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			v.EmuEdge(raspberry.EdgeBoth)
		}
	}
}
