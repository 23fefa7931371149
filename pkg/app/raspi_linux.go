//go:build linux
// +build linux

package app

import (
	"context"

	"ctrltest/pkg/raspberry"
)

// emulateVSync is only needed where the vsync pin is emulated.
func emulateVSync(context.Context, *raspberry.VSync, float64) {}
