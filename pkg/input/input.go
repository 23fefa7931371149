// Package input holds the emulated sample sources and the per port multiplexer.
package input

import (
	"fmt"
	"strconv"
	"sync"

	"ctrltest/pkg/port"
)

// ErrInvalidPort is returned when a reader is assigned to a port that does not exist.
var ErrInvalidPort = fmt.Errorf("invalid port")

// Static returns the same sample for a port on every frame.
type Static struct {
	mu      sync.RWMutex
	samples [len(port.Ports)]port.RawSample
}

// NewStatic creates a static source where every port reads as s.
func NewStatic(s port.RawSample) *Static {
	st := &Static{}
	for i := range st.samples {
		st.samples[i] = s
	}
	return st
}

// Set changes the sample reported on port n.
func (s *Static) Set(n port.Number, v port.RawSample) error {
	if !n.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPort, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples[n-1] = v
	return nil
}

func (s *Static) Sample(n port.Number) port.RawSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.samples[n-1]
}

// Mux dispatches each port to its own reader.
type Mux struct {
	readers [len(port.Ports)]port.Reader
}

// NewMux creates a multiplexer where every port reads as absent.
func NewMux() *Mux {
	m := &Mux{}
	for i := range m.readers {
		m.readers[i] = NewStatic(0)
	}
	return m
}

// Set assigns r to port n. It must not be called while the clock is running.
func (m *Mux) Set(n port.Number, r port.Reader) error {
	if !n.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPort, n)
	}
	if r == nil {
		return fmt.Errorf("no reader for %v", n)
	}
	m.readers[n-1] = r
	return nil
}

func (m *Mux) Sample(n port.Number) port.RawSample {
	return m.readers[n-1].Sample(n)
}

// ParseSample parses a raw sample given in any base strconv understands
// ("0xF0000000", "4026531840", "0b1").
func ParseSample(s string) (port.RawSample, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid sample %q: %w", s, err)
	}
	return port.RawSample(v), nil
}
