package raspberry

import (
	"errors"
	"testing"

	"ctrltest/pkg/port"

	"github.com/stretchr/testify/assert"
)

// shiftRegister emulates a controller: the latch loads the frame, every
// rising clock edge shifts the next bit onto the data line.
type shiftRegister struct {
	frame    port.RawSample
	register uint32
	latched  bool
	clocks   int
	failData bool
	closed   int
}

type fakeLine struct {
	r   *shiftRegister
	set func(v int)
	get func() int
	v   int
}

func (l *fakeLine) SetValue(v int) error {
	if l.set != nil {
		l.set(v)
	}
	l.v = v
	return nil
}

func (l *fakeLine) Value() (int, error) {
	if l.r.failData {
		return 0, errors.New("read failed")
	}
	return l.get(), nil
}

func (l *fakeLine) Close() error {
	l.r.closed++
	return nil
}

func (r *shiftRegister) port() *PadPort {
	latch := &fakeLine{r: r}
	latch.set = func(v int) {
		if v == 1 {
			r.register = uint32(r.frame)
			r.latched = true
		}
	}
	clock := &fakeLine{r: r, v: 1}
	clock.set = func(v int) {
		if v == 1 && clock.v == 0 {
			r.register <<= 1
			r.clocks++
		}
	}
	data := &fakeLine{r: r, get: func() int { return int(r.register >> 31) }}

	return NewPadPort(latch, clock, data, 0)
}

func TestPadPortSample(t *testing.T) {
	r := &shiftRegister{frame: 0xF0000081}
	p := r.port()

	assert.Equal(t, port.RawSample(0xF0000081), p.Sample(port.One))
	assert.True(t, r.latched)
	assert.Equal(t, 31, r.clocks, "the last bit is read without a clock")

	r.frame = 0xD000FF01
	assert.Equal(t, port.RawSample(0xD000FF01), p.Sample(port.One))

	assert.NoError(t, p.Close())
	assert.Equal(t, 3, r.closed)
}

func TestPadPortReadError(t *testing.T) {
	r := &shiftRegister{frame: 0xF0000000}
	p := r.port()

	r.failData = true
	assert.Zero(t, p.Sample(port.Two), "unreadable port is absent")
	assert.True(t, p.failing)

	r.failData = false
	assert.Equal(t, port.RawSample(0xF0000000), p.Sample(port.Two))
	assert.False(t, p.failing)
}

func TestParseEdge(t *testing.T) {
	e, err := ParseEdge("rising")
	assert.NoError(t, err)
	assert.Equal(t, EdgeRising, e)

	_, err = ParseEdge("none")
	assert.ErrorIs(t, err, ErrInvalidParam)
	_, err = ParseEdge("up")
	assert.ErrorIs(t, err, ErrInvalidParam)
}
