// Package port holds the definition of a controller port and its per frame sample latch.
package port

import (
	"fmt"
)

// Number identifies one of the two controller ports.
type Number int

const (
	// One is the first controller port.
	One Number = 1
	// Two is the second controller port.
	Two Number = 2
)

// Ports lists the controller ports in scan order.
var Ports = [...]Number{One, Two}

// Valid reports whether n names an existing port.
func (n Number) Valid() bool {
	return n == One || n == Two
}

func (n Number) String() string {
	return fmt.Sprintf("port %d", int(n))
}

// index converts the port number to an array index.
func (n Number) index() int {
	return int(n) - 1
}

// RawSample is the 32 bit value read from a port once per frame.
//
// The top nibble is the device type tag, the remaining 28 bits are the
// device specific payload.
type RawSample uint32

const (
	// TagShift is the bit position of the device type tag.
	TagShift = 28
	// PayloadMask selects the device specific payload.
	PayloadMask RawSample = 0x0FFFFFFF
)

// Tag returns the device type tag (top nibble).
func (s RawSample) Tag() uint8 {
	return uint8(s>>TagShift) & 0x0F
}

// Payload returns the device specific bits below the tag.
func (s RawSample) Payload() uint32 {
	return uint32(s & PayloadMask)
}

// Hex returns the sample as fixed width upper case hex digits.
func (s RawSample) Hex() string {
	return fmt.Sprintf("%08X", uint32(s))
}

// NewSample builds a sample from a tag and payload.
func NewSample(tag uint8, payload uint32) RawSample {
	return RawSample(uint32(tag&0x0F)<<TagShift) | RawSample(payload)&PayloadMask
}

// Reader reads the current hardware value of a port.
// Sample must not block: it is called from the frame tick context.
type Reader interface {
	Sample(n Number) RawSample
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(n Number) RawSample

// Sample calls f(n).
func (f ReaderFunc) Sample(n Number) RawSample {
	return f(n)
}
