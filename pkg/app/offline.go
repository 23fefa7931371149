package app

import (
	"ctrltest/pkg/device"
	"ctrltest/pkg/panel"
	"ctrltest/pkg/port"
	"ctrltest/pkg/screen"
)

// RenderOnce renders a single frame of both ports and returns the plane as text.
// A pad shows every held button as newly pressed.
func RenderOnce(tags map[int]string, one, two port.RawSample) (string, error) {
	c, err := NewClassifier(tags)
	if err != nil {
		return "", err
	}

	p := screen.NewPlane()
	s := port.NewSampler(port.ReaderFunc(func(n port.Number) port.RawSample {
		if n == port.One {
			return one
		}
		return two
	}), c)
	r := panel.New(p, c, ScreenVersion())

	r.Header()
	s.LatchAll()
	for _, n := range port.Ports {
		r.Render(n, s.Snapshot(n))
	}
	return p.String(), nil
}

// Classify returns the device type of a sample under the configured tag table.
func Classify(tags map[int]string, s port.RawSample) (device.Type, error) {
	c, err := NewClassifier(tags)
	if err != nil {
		return device.Type{}, err
	}
	return c.Classify(s), nil
}
