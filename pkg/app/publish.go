package app

import (
	"encoding/json"
	"fmt"
	"time"

	"ctrltest/pkg/device"
	"ctrltest/pkg/loop"
	"ctrltest/pkg/mqtt"
	"ctrltest/pkg/panel"
	"ctrltest/pkg/port"

	"github.com/womat/debug"
)

// PortStatus is the state of a port after a rendered frame.
type PortStatus struct {
	Port     int    `json:"port"`
	Device   string `json:"device"`
	Kind     string `json:"kind"`
	Tag      string `json:"tag"`
	Raw      string `json:"raw"`
	Previous string `json:"previous"`
	Edge     string `json:"edge"`
	// Buttons and Triggered are the held and newly pressed pad buttons.
	Buttons   []string             `json:"buttons,omitempty"`
	Triggered []string             `json:"triggered,omitempty"`
	Pointer   *device.PointerState `json:"pointer,omitempty"`
	Render    panel.Stats          `json:"render"`
}

// Status is the state of both ports.
type Status struct {
	Frame    uint64       `json:"frame"`
	Overruns uint64       `json:"overruns"`
	Ports    []PortStatus `json:"ports"`
}

// published is what was last sent to the broker for a port.
type published struct {
	valid bool
	// pending is set when a change was not sent yet because of the interval.
	pending bool
	device  device.Type
	raw     port.RawSample
	at      time.Time
}

// collect is the frame observer of the main loop. It keeps the status for the
// web services and publishes changes to the mqtt broker.
func (app *App) collect(f loop.Frame) {
	s := &Status{
		Frame:    f.Number,
		Overruns: app.clock.Overruns(),
	}
	for i, n := range port.Ports {
		s.Ports = append(s.Ports, app.portStatus(n, f.Ports[i]))
	}
	app.status.Store(s)

	app.publishChanges(s, f, time.Now())
}

func (app *App) portStatus(n port.Number, snap port.Snapshot) PortStatus {
	t := app.classifier.Classify(snap.Current)
	ps := PortStatus{
		Port:     int(n),
		Device:   t.String(),
		Kind:     t.Kind.String(),
		Tag:      fmt.Sprintf("%X", snap.Current.Tag()),
		Raw:      snap.Current.Hex(),
		Previous: snap.Previous.Hex(),
		Edge:     snap.Edge.Hex(),
		Render:   app.renderer.Stats(n),
	}

	switch t.Kind {
	case device.DigitalPad:
		ps.Buttons = device.PressedButtons(snap.Current)
		ps.Triggered = device.PressedButtons(snap.Edge)
	case device.Pointer:
		p := device.DecodePointer(snap.Current)
		ps.Pointer = &p
	}
	return ps
}

// publishChanges sends a port's status when its device type or raw sample
// changed, at most once per mqtt interval. A change held back by the interval
// is sent with the first frame after it.
func (app *App) publishChanges(s *Status, f loop.Frame, now time.Time) {
	if app.config.MQTT.Connection == "" {
		return
	}

	for i, n := range port.Ports {
		p := &app.published[i]
		cur := f.Ports[i].Current
		t := app.classifier.Classify(cur)

		if !p.valid || p.device != t || p.raw != cur {
			p.pending = true
			p.device = t
			p.raw = cur
		}

		if !p.pending || (p.valid && now.Sub(p.at) < app.config.MQTT.Interval) {
			continue
		}

		app.sendMQTT(fmt.Sprintf("%s/port%d", app.config.MQTT.Topic, n), s.Ports[i])
		p.valid = true
		p.pending = false
		p.at = now
	}
}

// sendMQTT queues the message struct for the mqtt broker.
func (app *App) sendMQTT(topic string, message interface{}) {
	debug.TraceLog.Printf("prepare mqtt message %v %v", topic, message)

	b, err := json.Marshal(message)
	if err != nil {
		debug.ErrorLog.Printf("sendMQTT marshal: %v", err)
		return
	}

	app.mqtt.Publish(mqtt.Message{
		Qos:      0,
		Retained: true,
		Topic:    topic,
		Payload:  b,
	})
}
