// Package loop runs the sample, classify, render, wait cycle of the test screen.
package loop

import (
	"context"
	"errors"

	"ctrltest/pkg/frameclock"
	"ctrltest/pkg/panel"
	"ctrltest/pkg/port"

	"github.com/womat/debug"
)

// Frame is what one iteration of the loop rendered.
type Frame struct {
	// Number is the frame counter when the iteration started.
	Number uint64
	// Ports holds the snapshots rendered for port one and two.
	Ports [len(port.Ports)]port.Snapshot
	// Repainted tells which port had its static layout repainted.
	Repainted [len(port.Ports)]bool
}

// FrameFunc is called after each rendered frame, from the loop's goroutine.
type FrameFunc func(f Frame)

// Loop ties the frame clock, the sampler and the renderer together.
type Loop struct {
	clock     *frameclock.Clock
	sampler   *port.Sampler
	renderer  *panel.Renderer
	observers []FrameFunc
}

// New creates a main loop. The sampler must be latched by the clock.
func New(clock *frameclock.Clock, sampler *port.Sampler, renderer *panel.Renderer) *Loop {
	return &Loop{
		clock:    clock,
		sampler:  sampler,
		renderer: renderer,
	}
}

// Observe registers f to be called after every frame.
func (l *Loop) Observe(f FrameFunc) {
	l.observers = append(l.observers, f)
}

// Step renders the latched state of port one and then port two.
func (l *Loop) Step() Frame {
	f := Frame{Number: l.clock.Frame()}
	for i, n := range port.Ports {
		f.Ports[i] = l.sampler.Snapshot(n)
		f.Repainted[i] = l.renderer.Render(n, f.Ports[i])
	}

	for _, o := range l.observers {
		o(f)
	}
	return f
}

// Run draws the header and then renders one frame per vertical blank. It
// only returns when ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.renderer.Header()
	debug.InfoLog.Print("main loop started")

	for {
		l.Step()

		if err := l.clock.WaitFrames(ctx, 0); err != nil {
			if errors.Is(err, context.Canceled) {
				debug.InfoLog.Printf("main loop stopped at frame %d", l.clock.Frame())
				return nil
			}
			return err
		}
	}
}
