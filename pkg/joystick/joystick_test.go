package joystick

import (
	"testing"

	"ctrltest/pkg/device"
	"ctrltest/pkg/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisconnectedIsAbsent(t *testing.T) {
	r := newReader("/dev/input/js9", DefaultMapping())
	r.apply(event{Type: eventButton, Index: 2, Value: 1})

	assert.Zero(t, r.Sample(port.One))
	assert.Empty(t, r.Name())
}

func TestButtons(t *testing.T) {
	r := newReader("js0", DefaultMapping())
	r.connect("usb pad")
	assert.Equal(t, port.RawSample(0xF0000000), r.Sample(port.One))
	assert.Equal(t, "usb pad", r.Name())

	r.apply(event{Type: eventButton | eventInit, Index: 2, Value: 1})
	r.apply(event{Type: eventButton, Index: 7, Value: 1})
	r.apply(event{Type: eventButton, Index: 42, Value: 1})
	assert.Equal(t, port.NewSample(device.TagFXPad, uint32(device.ButtonI|device.ButtonRun)), r.Sample(port.One))

	r.apply(event{Type: eventButton, Index: 2, Value: 0})
	assert.Equal(t, port.NewSample(device.TagFXPad, uint32(device.ButtonRun)), r.Sample(port.One))

	r.disconnect()
	r.connect("usb pad")
	assert.Equal(t, port.RawSample(0xF0000000), r.Sample(port.One), "state is reset on reconnect")
}

func TestAxes(t *testing.T) {
	cases := []struct {
		name  string
		index uint8
		value int16
		want  device.Button
	}{
		{name: "left", index: 0, value: -32767, want: device.ButtonLeft},
		{name: "right", index: 0, value: 32767, want: device.ButtonRight},
		{name: "up", index: 1, value: -20000, want: device.ButtonUp},
		{name: "down", index: 1, value: 9000, want: device.ButtonDown},
		{name: "deadzone", index: 0, value: -8192, want: 0},
		{name: "other axis", index: 3, value: 32767, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newReader("js0", DefaultMapping())
			r.connect("")
			r.apply(event{Type: eventAxis, Index: tc.index, Value: tc.value})
			assert.Equal(t, port.NewSample(device.TagFXPad, uint32(tc.want)), r.Sample(port.One))
		})
	}
}

func TestAxisRelease(t *testing.T) {
	r := newReader("js0", DefaultMapping())
	r.connect("")

	r.apply(event{Type: eventAxis, Index: 0, Value: -32767})
	r.apply(event{Type: eventAxis, Index: 1, Value: 32767})
	assert.Equal(t, port.NewSample(device.TagFXPad, uint32(device.ButtonLeft|device.ButtonDown)), r.Sample(port.One))

	r.apply(event{Type: eventAxis, Index: 0, Value: 0})
	assert.Equal(t, port.NewSample(device.TagFXPad, uint32(device.ButtonDown)), r.Sample(port.One))
}

func TestParseButtons(t *testing.T) {
	b, err := ParseButtons(map[int]string{0: "I", 1: "run", 12: "mode2"})
	require.NoError(t, err)
	assert.Equal(t, map[uint8]device.Button{0: device.ButtonI, 1: device.ButtonRun, 12: device.ButtonMode2}, b)

	_, err = ParseButtons(map[int]string{0: "turbo"})
	assert.ErrorIs(t, err, ErrUnknownButton)

	_, err = ParseButtons(map[int]string{300: "i"})
	assert.Error(t, err)
}
