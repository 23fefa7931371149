package frameclock

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRate is returned for a frame rate that is not positive.
var ErrInvalidRate = errors.New("invalid frame rate")

// Ticker emulates the vertical blank interrupt with a time.Ticker.
type Ticker struct {
	clock  *Clock
	period time.Duration
}

// NewTicker returns a tick source calling clock.OnVBlank fps times per second.
func NewTicker(clock *Clock, fps float64) (*Ticker, error) {
	if fps <= 0 {
		return nil, ErrInvalidRate
	}
	return &Ticker{
		clock:  clock,
		period: time.Duration(float64(time.Second) / fps),
	}, nil
}

// Period returns the time between two ticks.
func (t *Ticker) Period() time.Duration {
	return t.period
}

// Run ticks until ctx is cancelled.
// It's designed to run in a separate go function, e.g. go t.Run(ctx).
func (t *Ticker) Run(ctx context.Context) {
	tck := time.NewTicker(t.period)
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tck.C:
			t.clock.OnVBlank()
		}
	}
}
