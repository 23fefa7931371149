// Package frameclock counts vertical blanks and lets the main loop wait for them.
package frameclock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/womat/debug"
)

// Clock is the frame counter driven by a vertical blank source.
//
// OnVBlank is the only writer of the counter. WaitFrames must only be called
// from the main loop; it owns the reference point.
type Clock struct {
	// count is incremented once per vertical blank.
	count atomic.Uint64
	// last is the counter value of the latest rebase in WaitFrames.
	last uint64
	// overruns counts waits that started more than one frame late.
	overruns atomic.Uint64

	// latch runs inside OnVBlank before the counter moves.
	latch func()

	// mu guards tick. tick is closed and replaced on every vertical blank.
	mu   sync.Mutex
	tick chan struct{}
}

// New creates a clock. latch is called on every vertical blank and may be nil.
func New(latch func()) *Clock {
	return &Clock{
		latch: latch,
		tick:  make(chan struct{}),
	}
}

// OnVBlank must be called once per vertical blank by the tick source.
// The latch hook runs first, so a woken waiter always finds the samples of
// the new frame.
func (c *Clock) OnVBlank() {
	if c.latch != nil {
		c.latch()
	}
	c.count.Add(1)

	c.mu.Lock()
	close(c.tick)
	c.tick = make(chan struct{})
	c.mu.Unlock()
}

// Frame returns the number of vertical blanks seen so far.
func (c *Clock) Frame() uint64 {
	return c.count.Load()
}

// Overruns returns how often the main loop missed frames.
func (c *Clock) Overruns() uint64 {
	return c.overruns.Load()
}

// WaitFrames blocks until the counter moved at least n+1 ticks past its value
// at call time and then rebases the reference point. The extra tick makes
// sure a call made right after a tick still crosses a full frame boundary.
//
// A stalled tick source blocks forever. The only error is ctx.Err().
func (c *Clock) WaitFrames(ctx context.Context, n int) error {
	if n < 0 {
		n = 0
	}
	start := c.count.Load()
	if behind := start - c.last; c.last != 0 && behind > uint64(n)+1 {
		c.overruns.Add(1)
		debug.TraceLog.Printf("frame overrun: %d frames since last wait", behind)
	}
	target := start + uint64(n) + 1

	for {
		c.mu.Lock()
		tick := c.tick
		c.mu.Unlock()

		now := c.count.Load()
		if now >= target {
			c.last = now
			return nil
		}

		select {
		case <-tick:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
