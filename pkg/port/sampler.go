package port

import (
	"sync/atomic"
)

// PadButtonMask covers the 14 button bits of a digital pad payload.
// Edge bits outside this mask are never reported.
const PadButtonMask RawSample = 0x5FFF

// Classifier tells the sampler whether a sample comes from a digital pad.
// Edge tracking only makes sense for pads.
type Classifier interface {
	IsDigitalPad(s RawSample) bool
}

// Snapshot is the latched state of one port for one frame.
// A snapshot is never modified after it has been published.
type Snapshot struct {
	// Frame is the number of latches done on this port, including this one.
	Frame uint64
	// Current is the sample captured by the latest latch.
	Current RawSample
	// Previous is the sample captured by the latch before.
	Previous RawSample
	// Edge holds the pad buttons pressed since the previous sample.
	// It is zero if Current is not a digital pad.
	Edge RawSample
}

// Pressed reports whether all bits of mask are set in the current sample.
func (s Snapshot) Pressed(mask RawSample) bool {
	return s.Current&mask == mask
}

// Triggered reports whether any bit of mask was newly pressed this frame.
func (s Snapshot) Triggered(mask RawSample) bool {
	return s.Edge&mask != 0
}

// Sampler latches both ports once per frame.
//
// Latch is only called from the tick context, which makes it the only writer
// of the per port snapshots. The main loop only loads them. Each latch
// publishes a fresh Snapshot through an atomic pointer, so a reader always
// sees the current, previous and edge values of the same frame.
type Sampler struct {
	reader     Reader
	classifier Classifier
	state      [len(Ports)]atomic.Pointer[Snapshot]
}

// NewSampler creates a sampler reading from r.
// All ports start with zero samples.
func NewSampler(r Reader, c Classifier) *Sampler {
	s := &Sampler{
		reader:     r,
		classifier: c,
	}
	for i := range s.state {
		s.state[i].Store(&Snapshot{})
	}
	return s
}

// Latch moves the current sample of port n to previous, reads a new current
// sample and computes the edge mask.
func (s *Sampler) Latch(n Number) Snapshot {
	last := s.state[n.index()].Load()

	next := &Snapshot{
		Frame:    last.Frame + 1,
		Previous: last.Current,
		Current:  s.reader.Sample(n),
	}
	if s.classifier.IsDigitalPad(next.Current) {
		next.Edge = EdgeMask(next.Previous, next.Current)
	}

	s.state[n.index()].Store(next)
	return *next
}

// LatchAll latches port one and then port two.
func (s *Sampler) LatchAll() {
	for _, n := range Ports {
		s.Latch(n)
	}
}

// Snapshot returns the latest latched state of port n.
func (s *Sampler) Snapshot(n Number) Snapshot {
	return *s.state[n.index()].Load()
}

// EdgeMask returns the pad button bits set in current but not in previous.
func EdgeMask(previous, current RawSample) RawSample {
	return ^previous & current & PadButtonMask
}
