package device

import (
	"ctrltest/pkg/port"
)

// Button is a bit of a digital pad payload.
type Button = port.RawSample

// FX pad buttons.
const (
	ButtonI      Button = 1 << 0
	ButtonII     Button = 1 << 1
	ButtonIII    Button = 1 << 2
	ButtonIV     Button = 1 << 3
	ButtonV      Button = 1 << 4
	ButtonVI     Button = 1 << 5
	ButtonSelect Button = 1 << 6
	ButtonRun    Button = 1 << 7
	ButtonUp     Button = 1 << 8
	ButtonRight  Button = 1 << 9
	ButtonDown   Button = 1 << 10
	ButtonLeft   Button = 1 << 11
	// ButtonMode1 and ButtonMode2 are the A-B slide switches.
	ButtonMode1 Button = 1 << 12
	ButtonMode2 Button = 1 << 14
)

// Mouse buttons.
const (
	MouseButton1 Button = 0x10000
	MouseButton2 Button = 0x20000
)

// PadButtons lists all pad buttons, in bit order.
var PadButtons = []Button{
	ButtonI, ButtonII, ButtonIII, ButtonIV, ButtonV, ButtonVI,
	ButtonSelect, ButtonRun,
	ButtonUp, ButtonRight, ButtonDown, ButtonLeft,
	ButtonMode1, ButtonMode2,
}

// ButtonByName resolves the names used in button maps.
var ButtonByName = map[string]Button{
	"i":      ButtonI,
	"ii":     ButtonII,
	"iii":    ButtonIII,
	"iv":     ButtonIV,
	"v":      ButtonV,
	"vi":     ButtonVI,
	"select": ButtonSelect,
	"run":    ButtonRun,
	"up":     ButtonUp,
	"right":  ButtonRight,
	"down":   ButtonDown,
	"left":   ButtonLeft,
	"mode1":  ButtonMode1,
	"mode2":  ButtonMode2,
}

// PointerState is the decoded payload of a mouse sample.
type PointerState struct {
	Button1 bool
	Button2 bool
	// DX and DY are the motion since the last read.
	DX int8
	DY int8
}

// DecodePointer extracts the mouse buttons and motion bytes.
// X is bits 8..15 and Y bits 0..7, both two's complement.
func DecodePointer(s port.RawSample) PointerState {
	return PointerState{
		Button1: s&MouseButton1 != 0,
		Button2: s&MouseButton2 != 0,
		DX:      int8(uint8(s >> 8)),
		DY:      int8(uint8(s)),
	}
}

var buttonNames = func() map[Button]string {
	names := make(map[Button]string, len(ButtonByName))
	for name, b := range ButtonByName {
		names[b] = name
	}
	return names
}()

// PressedButtons returns the names of the pad buttons set in s, in bit order.
func PressedButtons(s port.RawSample) []string {
	names := []string{}
	for _, b := range PadButtons {
		if s&b != 0 {
			names = append(names, buttonNames[b])
		}
	}
	return names
}
