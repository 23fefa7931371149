// Package padbus is the decoder of the serial controller port frame.
//
// A frame starts with a latch pulse, after which the controller shifts out
// 32 data bits, most significant bit first, one per clock.
package padbus

import (
	"fmt"

	"ctrltest/pkg/port"

	"github.com/womat/debug"
)

// FrameBits is the number of data bits in a frame.
const FrameBits = 32

const (
	// synchronizing waits for the next latch.
	synchronizing stateType = iota
	// synchronized shifts in the data bits of a frame.
	synchronized
)

// stateType represents the state of the decoding process.
type stateType int

// Level is the sampled level of the data line.
type Level int

const (
	// High indicates a logical 1.
	High Level = 1
	// Low indicates a logical 0.
	Low Level = 0
	// Invalid indicates a failed read of the data line.
	Invalid Level = -1
)

// ErrIncomplete is returned when a frame is read before all bits were shifted in.
var ErrIncomplete = fmt.Errorf("incomplete frame")

// Decoder assembles frames from latch pulses and data bits.
type Decoder struct {
	// state contains the current decoding state (synchronizing/synchronized).
	state stateType
	// rxBit is the number of bits received since the latch.
	rxBit int
	// rxRegister is the shift register of the frame being received.
	rxRegister uint32
	// frame is the last complete frame.
	frame port.RawSample
	// valid is set once a frame was completed.
	valid bool
	// dropped counts frames lost by an invalid bit or a new latch.
	dropped uint64
}

// New creates a decoder waiting for the first latch.
func New() *Decoder {
	return &Decoder{state: synchronizing}
}

// Latch starts a new frame. A frame that was still receiving is dropped.
func (d *Decoder) Latch() {
	if d.state == synchronized {
		debug.TraceLog.Printf("latch after %d bits, frame dropped", d.rxBit)
		d.dropped++
	}

	d.state = synchronized
	d.rxBit = 0
	d.rxRegister = 0
}

// Feed shifts one data bit into the frame. It reports true when the bit completed a frame.
func (d *Decoder) Feed(l Level) bool {
	if d.state != synchronized {
		// bits outside of a frame are ignored until the next latch
		return false
	}

	switch l {
	case High:
		d.rxRegister = d.rxRegister<<1 | 1
	case Low:
		d.rxRegister <<= 1
	default:
		debug.TraceLog.Printf("invalid data bit %d, wait for latch", d.rxBit)
		d.reset()
		return false
	}

	if d.rxBit++; d.rxBit < FrameBits {
		return false
	}

	d.frame = port.RawSample(d.rxRegister)
	d.valid = true
	d.state = synchronizing
	return true
}

// reset drops the frame being received and waits for the next latch.
func (d *Decoder) reset() {
	d.dropped++
	d.state = synchronizing
	d.rxBit = 0
	d.rxRegister = 0
}

// Frame returns the last complete frame.
func (d *Decoder) Frame() (port.RawSample, error) {
	if !d.valid {
		return 0, ErrIncomplete
	}
	return d.frame, nil
}

// Dropped returns the number of frames lost so far.
func (d *Decoder) Dropped() uint64 {
	return d.dropped
}

// Decode runs a complete frame of levels through a fresh decoder.
func Decode(levels []Level) (port.RawSample, error) {
	d := New()
	d.Latch()
	for _, l := range levels {
		d.Feed(l)
	}
	if d.state == synchronized || !d.valid {
		return 0, ErrIncomplete
	}
	return d.frame, nil
}

// Levels splits a sample into the levels shifted out for it, MSB first.
func Levels(s port.RawSample) []Level {
	levels := make([]Level, FrameBits)
	for i := range levels {
		if s&(1<<(FrameBits-1-i)) != 0 {
			levels[i] = High
		}
	}
	return levels
}
