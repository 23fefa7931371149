// Package device classifies the raw port samples by their type tag.
package device

import (
	"errors"
	"fmt"
	"strings"

	"ctrltest/pkg/port"
)

// Kind is the category of a device attached to a port.
type Kind int

const (
	// Absent means nothing is plugged into the port.
	Absent Kind = iota
	// DigitalPad is a controller with a 14 button payload.
	DigitalPad
	// Pointer is a mouse with two buttons and relative motion.
	Pointer
	// Unrecognized covers every tag without a known device.
	Unrecognized
)

var kindNames = map[Kind]string{
	Absent:       "absent",
	DigitalPad:   "pad",
	Pointer:      "pointer",
	Unrecognized: "unrecognized",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a name as used in the configuration file to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "absent", "none":
		return Absent, nil
	case "pad", "joypad", "digitalpad":
		return DigitalPad, nil
	case "pointer", "mouse":
		return Pointer, nil
	case "unrecognized", "unknown":
		return Unrecognized, nil
	}
	return Absent, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// PC-FX type tags.
const (
	TagNone     uint8 = 0x0
	TagMouse    uint8 = 0xD
	TagMultitap uint8 = 0xE
	TagFXPad    uint8 = 0xF
)

var (
	ErrUnknownKind = errors.New("unknown device kind")
	ErrInvalidTag  = errors.New("invalid device tag")
)

// Type is the classification of one sample. Tag is the tag nibble the kind
// was looked up with, so two Types compare equal exactly when they render
// the same panel, also when the tag table maps several tags to one kind.
type Type struct {
	Kind Kind
	Tag  uint8
}

func (t Type) String() string {
	if t.Kind == Unrecognized {
		return fmt.Sprintf("%s(%X)", t.Kind, t.Tag)
	}
	return t.Kind.String()
}

// Classifier maps the 16 possible tags to a device kind.
// The zero value is not usable, see NewClassifier.
type Classifier struct {
	table [16]Kind
}

// NewClassifier returns the PC-FX classification: 0x0 absent, 0xF pad,
// 0xD mouse. Everything else is unrecognized.
func NewClassifier() *Classifier {
	c := &Classifier{}
	for i := range c.table {
		c.table[i] = Unrecognized
	}
	c.table[TagNone] = Absent
	c.table[TagFXPad] = DigitalPad
	c.table[TagMouse] = Pointer
	return c
}

// Assign marks tag as a device of kind k. Tag 0 always stays absent.
func (c *Classifier) Assign(tag uint8, k Kind) error {
	if tag > 0x0F {
		return fmt.Errorf("%w: %#x", ErrInvalidTag, tag)
	}
	if tag == TagNone && k != Absent {
		return fmt.Errorf("%w: tag 0 is reserved for absent devices", ErrInvalidTag)
	}
	c.table[tag] = k
	return nil
}

// Classify returns the device type of s. It only looks at the tag nibble.
func (c *Classifier) Classify(s port.RawSample) Type {
	tag := s.Tag()
	return Type{Kind: c.table[tag], Tag: tag}
}

// IsDigitalPad implements port.Classifier.
func (c *Classifier) IsDigitalPad(s port.RawSample) bool {
	return c.table[s.Tag()] == DigitalPad
}
