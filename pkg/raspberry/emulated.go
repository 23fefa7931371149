//go:build !linux
// +build !linux

package raspberry

import (
	"time"
)

// Chip emulates a gpio chip on systems without the gpio character device.
// Every requested line reads low.
type Chip struct{}

type emuLine struct {
	value int
}

func (l *emuLine) SetValue(v int) error {
	l.value = v
	return nil
}

func (l *emuLine) Value() (int, error) { return 0, nil }
func (l *emuLine) Close() error        { return nil }

// Open returns an emulated chip.
func Open() (*Chip, error) {
	return &Chip{}, nil
}

// NewPadPort creates a port on emulated lines.
func (c *Chip) NewPadPort(l PadLines) (*PadPort, error) {
	switch l.Terminator {
	case "pullup", "pulldown", "none", "":
	default:
		return nil, ErrInvalidParam
	}
	return NewPadPort(&emuLine{}, &emuLine{value: 1}, &emuLine{}, l.HalfPeriod), nil
}

// Close releases the Chip.
func (c *Chip) Close() error {
	return nil
}

// VSync calls a handler when a pulse is emulated with EmuEdge.
type VSync struct {
	edge    Edge
	handler func()
}

// OpenVSync creates an emulated vertical sync pin.
func OpenVSync(p int, edge Edge, bounceTime time.Duration, handler func()) (*VSync, error) {
	if edge == EdgeNone || handler == nil {
		return nil, ErrInvalidParam
	}
	return &VSync{edge: edge, handler: handler}, nil
}

// EmuEdge emulates a state change of the pin.
func (v *VSync) EmuEdge(edge Edge) {
	switch {
	case edge == EdgeNone:
		return

	case edge == EdgeBoth:
		// if edge is EdgeBoth, handler is called twice
		if v.edge == EdgeBoth {
			v.handler()
		}
		v.handler()
	case edge == v.edge, v.edge == EdgeBoth:
		v.handler()
	}
}

// Close stops the emulation.
func (v *VSync) Close() error {
	return nil
}
