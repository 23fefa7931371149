// Package joystick maps a joystick device onto the FX pad layout.
package joystick

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"ctrltest/pkg/device"
	"ctrltest/pkg/port"
)

// ErrUnknownButton is returned for a button map entry that names no pad button.
var ErrUnknownButton = fmt.Errorf("unknown pad button")

// control types of a joystick event.
const (
	eventButton uint8 = 0x01
	eventAxis   uint8 = 0x02
	// eventInit marks the synthetic events sent on open with the initial state.
	eventInit uint8 = 0x80
)

// retryInterval is the time between two attempts to open a missing device.
const retryInterval = time.Second

// event is a joystick event as read from the device.
type event struct {
	Timestamp uint32
	Value     int16
	Type      uint8
	Index     uint8
}

// Mapping assigns joystick buttons and axes to pad buttons.
type Mapping struct {
	// Buttons maps a joystick button number to a pad button.
	Buttons map[uint8]device.Button
	// AxisX and AxisY are the axes driving the d-pad.
	AxisX, AxisY uint8
	// Deadzone is the absolute axis value below which the axis is centred.
	Deadzone int16
}

// DefaultMapping is the layout of a common usb pad.
func DefaultMapping() Mapping {
	return Mapping{
		Buttons: map[uint8]device.Button{
			0: device.ButtonIII,
			1: device.ButtonII,
			2: device.ButtonI,
			3: device.ButtonIV,
			4: device.ButtonV,
			5: device.ButtonVI,
			6: device.ButtonSelect,
			7: device.ButtonRun,
			8: device.ButtonMode1,
			9: device.ButtonMode2,
		},
		AxisX:    0,
		AxisY:    1,
		Deadzone: 8192,
	}
}

// ParseButtons builds the button map of a mapping from joystick button numbers
// to pad button names ("i", "ii", ..., "select", "run", "mode1").
func ParseButtons(m map[int]string) (map[uint8]device.Button, error) {
	buttons := map[uint8]device.Button{}
	for n, name := range m {
		b, ok := device.ButtonByName[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownButton, name)
		}
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("invalid joystick button %d", n)
		}
		buttons[uint8(n)] = b
	}
	return buttons, nil
}

// Reader reports the state of a joystick as an FX pad sample.
// While the device is missing the port reads as absent.
type Reader struct {
	path    string
	mapping Mapping

	mu        sync.RWMutex
	name      string
	connected bool
	buttons   port.RawSample
	dpad      port.RawSample
}

func newReader(path string, m Mapping) *Reader {
	return &Reader{path: path, mapping: m}
}

// Sample returns the pad state, or an absent sample while no device is connected.
func (r *Reader) Sample(port.Number) port.RawSample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.connected {
		return 0
	}
	return port.NewSample(device.TagFXPad, uint32(r.buttons|r.dpad))
}

// Name returns the name the device reported, empty while disconnected.
func (r *Reader) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.name
}

func (r *Reader) connect(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.name = name
	r.connected = true
	r.buttons, r.dpad = 0, 0
}

func (r *Reader) disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.name = ""
	r.connected = false
	r.buttons, r.dpad = 0, 0
}

// apply updates the pad state with one event.
func (r *Reader) apply(e event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e.Type &^ eventInit {
	case eventButton:
		b, ok := r.mapping.Buttons[e.Index]
		if !ok {
			return
		}
		if e.Value != 0 {
			r.buttons |= b
		} else {
			r.buttons &^= b
		}

	case eventAxis:
		switch e.Index {
		case r.mapping.AxisX:
			r.dpad = r.dpad&^(device.ButtonLeft|device.ButtonRight) | r.axis(e.Value, device.ButtonLeft, device.ButtonRight)
		case r.mapping.AxisY:
			r.dpad = r.dpad&^(device.ButtonUp|device.ButtonDown) | r.axis(e.Value, device.ButtonUp, device.ButtonDown)
		}
	}
}

func (r *Reader) axis(v int16, negative, positive device.Button) device.Button {
	switch {
	case v < -r.mapping.Deadzone:
		return negative
	case v > r.mapping.Deadzone:
		return positive
	}
	return 0
}
