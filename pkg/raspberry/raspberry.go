// Package raspberry reads controller ports and the vertical sync over gpio
package raspberry

import (
	"fmt"
	"time"

	"ctrltest/pkg/padbus"
	"ctrltest/pkg/port"

	"github.com/womat/debug"
)

var ErrInvalidParam = fmt.Errorf("invalid parameters")

// Edge is the level change a watched pin reacts on.
type Edge string

const (
	// EdgeNone indicates no level transitions.
	EdgeNone = Edge("none")
	// EdgeRising indicates a low to high transition.
	EdgeRising = Edge("rising")
	// EdgeFalling indicates a high to low transition.
	EdgeFalling = Edge("falling")
	// EdgeBoth indicates a transition in either direction.
	EdgeBoth = Edge("both")
)

// ParseEdge converts the configuration value of an edge.
func ParseEdge(s string) (Edge, error) {
	switch e := Edge(s); e {
	case EdgeRising, EdgeFalling, EdgeBoth:
		return e, nil
	}
	return EdgeNone, fmt.Errorf("%w: edge %q", ErrInvalidParam, s)
}

// PadLines describes the gpio lines a controller port is wired to.
type PadLines struct {
	Latch int
	Clock int
	Data  int
	// ActiveLow inverts the level read from the data line.
	ActiveLow bool
	// Terminator is the bias of the data line: pullup, pulldown or none.
	Terminator string
	// HalfPeriod is the time between two clock edges.
	HalfPeriod time.Duration
}

// Line is a single requested gpio line.
type Line interface {
	SetValue(int) error
	Value() (int, error)
	Close() error
}

// PadPort bit-bangs a controller port: it pulses the latch line and clocks
// the frame out of the controller's shift register, one bit per clock.
type PadPort struct {
	latch, clock, data Line
	halfPeriod         time.Duration
	decoder            *padbus.Decoder
	// failing is set while frames cannot be read, the port then reads as absent.
	failing bool
}

// NewPadPort creates a port on requested lines. Idle levels are latch low, clock high.
func NewPadPort(latch, clock, data Line, halfPeriod time.Duration) *PadPort {
	return &PadPort{
		latch:      latch,
		clock:      clock,
		data:       data,
		halfPeriod: halfPeriod,
		decoder:    padbus.New(),
	}
}

// Sample reads one frame from the controller. A port that can't be read reports absent.
func (p *PadPort) Sample(n port.Number) port.RawSample {
	s, err := p.read()
	if err != nil {
		if !p.failing {
			debug.ErrorLog.Printf("%v: %v", n, err)
			p.failing = true
		}
		return 0
	}

	if p.failing {
		debug.InfoLog.Printf("%v: reading frames again", n)
		p.failing = false
	}
	return s
}

func (p *PadPort) read() (port.RawSample, error) {
	if err := p.latch.SetValue(1); err != nil {
		return 0, fmt.Errorf("latch: %w", err)
	}
	p.wait()
	if err := p.latch.SetValue(0); err != nil {
		return 0, fmt.Errorf("latch: %w", err)
	}
	p.decoder.Latch()

	for i := 0; i < padbus.FrameBits; i++ {
		p.wait()
		level := padbus.Invalid
		if v, err := p.data.Value(); err == nil {
			level = padbus.Level(v)
		}
		if p.decoder.Feed(level) {
			return p.decoder.Frame()
		}

		// the controller shifts on the rising clock edge
		if err := p.clock.SetValue(0); err != nil {
			return 0, fmt.Errorf("clock: %w", err)
		}
		p.wait()
		if err := p.clock.SetValue(1); err != nil {
			return 0, fmt.Errorf("clock: %w", err)
		}
	}

	return 0, padbus.ErrIncomplete
}

func (p *PadPort) wait() {
	if p.halfPeriod > 0 {
		time.Sleep(p.halfPeriod)
	}
}

// Close releases the lines of the port.
func (p *PadPort) Close() error {
	var firstErr error
	for _, l := range []Line{p.latch, p.clock, p.data} {
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
