package loop_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"ctrltest/pkg/device"
	"ctrltest/pkg/frameclock"
	"ctrltest/pkg/loop"
	"ctrltest/pkg/panel"
	"ctrltest/pkg/port"
	"ctrltest/pkg/screen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rig struct {
	mu      sync.Mutex
	samples map[port.Number]port.RawSample
	plane   *screen.Plane
	clock   *frameclock.Clock
	loop    *loop.Loop
	frames  chan loop.Frame
}

func newRig() *rig {
	r := &rig{
		samples: map[port.Number]port.RawSample{},
		plane:   screen.NewPlane(),
		frames:  make(chan loop.Frame, 16),
	}
	c := device.NewClassifier()
	sampler := port.NewSampler(port.ReaderFunc(r.read), c)
	r.clock = frameclock.New(sampler.LatchAll)
	r.loop = loop.New(r.clock, sampler, panel.New(r.plane, c, "v0.1"))
	r.loop.Observe(func(f loop.Frame) { r.frames <- f })
	return r
}

func (r *rig) read(n port.Number) port.RawSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.samples[n]
}

func (r *rig) set(n port.Number, s port.RawSample) {
	r.mu.Lock()
	r.samples[n] = s
	r.mu.Unlock()
}

func (r *rig) next(t *testing.T) loop.Frame {
	t.Helper()
	select {
	case f := <-r.frames:
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame rendered")
	}
	return loop.Frame{}
}

func TestStep(t *testing.T) {
	r := newRig()
	r.set(port.One, 0xF0000001)
	r.set(port.Two, 0xD0000000)
	r.clock.OnVBlank()

	f := r.loop.Step()
	assert.Equal(t, uint64(1), f.Number)
	assert.Equal(t, port.RawSample(0xF0000001), f.Ports[0].Current)
	assert.Equal(t, port.RawSample(0xD0000000), f.Ports[1].Current)
	assert.Equal(t, [2]bool{true, true}, f.Repainted)
	<-r.frames

	f = r.loop.Step()
	assert.Equal(t, [2]bool{false, false}, f.Repainted, "same frame rendered again")
}

func TestRunRendersOncePerTick(t *testing.T) {
	r := newRig()
	r.set(port.One, 0xF0000000)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.loop.Run(ctx) }()

	// the first frame is rendered without waiting
	f := r.next(t)
	assert.Equal(t, uint64(0), f.Number)
	assert.Equal(t, [2]bool{true, true}, f.Repainted)

	select {
	case <-r.frames:
		t.Fatal("rendered without a tick")
	case <-time.After(20 * time.Millisecond):
	}

	r.set(port.One, 0xF0000002)
	r.clock.OnVBlank()
	f = r.next(t)
	assert.Equal(t, uint64(1), f.Number)
	assert.Equal(t, port.RawSample(0xF0000002), f.Ports[0].Current)
	assert.Equal(t, port.RawSample(0b0010), f.Ports[0].Edge)
	assert.Equal(t, [2]bool{true, false}, f.Repainted, "absent to pad on port one")

	r.clock.OnVBlank()
	f = r.next(t)
	assert.Zero(t, f.Ports[0].Edge)
	assert.Equal(t, [2]bool{false, false}, f.Repainted)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	assert.Equal(t, panel.Title, r.plane.Read(12, 2, len(panel.Title)))
	assert.Equal(t, "F0000002", r.plane.Read(29, 7, 8))
	assert.Equal(t, "00000000", r.plane.Read(29, 18, 8))
}
