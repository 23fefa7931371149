//go:build linux
// +build linux

package raspberry

import (
	"fmt"
	"time"

	"github.com/warthog618/gpio"
	"github.com/warthog618/gpiod"
	"github.com/womat/debug"
)

const consumer = "ctrltest"

// Chip represents a single GPIO chip that controls a set of lines.
type Chip struct {
	gpiodChip *gpiod.Chip
}

// Open opens the GPIO character device.
func Open() (*Chip, error) {
	c, err := gpiod.NewChip("gpiochip0", gpiod.WithConsumer(consumer))
	if err != nil {
		return nil, err
	}
	return &Chip{gpiodChip: c}, nil
}

// NewPadPort requests the lines of a controller port.
//   If granted, control is maintained until the port is closed.
func (c *Chip) NewPadPort(l PadLines) (*PadPort, error) {
	dataOpts := []gpiod.LineReqOption{gpiod.AsInput}
	switch l.Terminator {
	case "pullup":
		dataOpts = append(dataOpts, gpiod.WithPullUp)
	case "pulldown":
		dataOpts = append(dataOpts, gpiod.WithPullDown)
	case "none", "":
	default:
		return nil, fmt.Errorf("%w: terminator %q", ErrInvalidParam, l.Terminator)
	}
	if l.ActiveLow {
		dataOpts = append(dataOpts, gpiod.AsActiveLow)
	}

	latch, err := c.gpiodChip.RequestLine(l.Latch, gpiod.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("latch line %d: %w", l.Latch, err)
	}
	clock, err := c.gpiodChip.RequestLine(l.Clock, gpiod.AsOutput(1))
	if err != nil {
		_ = latch.Close()
		return nil, fmt.Errorf("clock line %d: %w", l.Clock, err)
	}
	data, err := c.gpiodChip.RequestLine(l.Data, dataOpts...)
	if err != nil {
		_ = latch.Close()
		_ = clock.Close()
		return nil, fmt.Errorf("data line %d: %w", l.Data, err)
	}

	debug.InfoLog.Printf("controller port on lines latch %d, clock %d, data %d", l.Latch, l.Clock, l.Data)
	return NewPadPort(latch, clock, data, l.HalfPeriod), nil
}

// Close releases the Chip.
//
// It does not release any lines which may be requested - they must be closed
// independently.
func (c *Chip) Close() error {
	return c.gpiodChip.Close()
}

// VSync calls a handler on every vertical sync pulse of a gpio pin.
type VSync struct {
	gpioPin *gpio.Pin
	handler func()
	// the bounceTime defines the minimum time between two pulses
	// the value 0 accepts every edge
	bounceTime time.Duration
	last       time.Time
}

// OpenVSync maps the GPIO memory range from /dev/gpiomem and watches the BCM pin p.
// There can only be one watcher on the pin at a time.
func OpenVSync(p int, edge Edge, bounceTime time.Duration, handler func()) (*VSync, error) {
	if edge == EdgeNone || handler == nil {
		return nil, ErrInvalidParam
	}

	if err := gpio.Open(); err != nil {
		return nil, err
	}

	v := &VSync{
		gpioPin:    gpio.NewPin(p),
		handler:    handler,
		bounceTime: bounceTime,
	}
	v.gpioPin.Input()

	if err := v.gpioPin.Watch(gpio.Edge(edge), v.pulse); err != nil {
		_ = gpio.Close()
		return nil, fmt.Errorf("watch pin %d: %w", p, err)
	}
	return v, nil
}

// pulse is called by the gpio watcher for every edge.
func (v *VSync) pulse(*gpio.Pin) {
	if v.bounceTime > 0 {
		now := time.Now()
		if now.Sub(v.last) < v.bounceTime {
			debug.TraceLog.Println("vsync bounce ignored")
			return
		}
		v.last = now
	}
	v.handler()
}

// Close removes the interrupt handler and unmaps GPIO memory.
func (v *VSync) Close() error {
	v.gpioPin.Unwatch()
	return gpio.Close()
}
