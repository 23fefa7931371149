package app

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ctrltest/pkg/app/config"
	"ctrltest/pkg/device"
	"ctrltest/pkg/input"
	"ctrltest/pkg/loop"
	"ctrltest/pkg/mqtt"
	"ctrltest/pkg/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, broker string) (*App, *input.Static) {
	t.Helper()
	cfg := config.NewConfig()
	cfg.MQTT.Connection = broker
	cfg.MQTT.Interval = time.Second

	a, err := New(cfg)
	require.NoError(t, err)

	s := input.NewStatic(0)
	for _, n := range port.Ports {
		require.NoError(t, a.mux.Set(n, s))
	}
	return a, s
}

func frame(a *App) loop.Frame {
	a.clock.OnVBlank()
	return a.loop.Step()
}

func queued(m *mqtt.Handler) []mqtt.Message {
	var msgs []mqtt.Message
	for {
		select {
		case msg := <-m.C:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func TestNewClassifier(t *testing.T) {
	c, err := NewClassifier(map[int]string{0x1: "pad", 0xF: "none"})
	require.NoError(t, err)
	assert.Equal(t, device.DigitalPad, c.Classify(0x10000000).Kind)
	assert.Equal(t, device.Absent, c.Classify(0xF0000000).Kind)

	_, err = NewClassifier(map[int]string{0x1: "wheel"})
	assert.ErrorIs(t, err, device.ErrUnknownKind)
	_, err = NewClassifier(map[int]string{0x10: "pad"})
	assert.ErrorIs(t, err, device.ErrInvalidTag)
	_, err = NewClassifier(map[int]string{0: "pad"})
	assert.ErrorIs(t, err, device.ErrInvalidTag)
}

func TestCollect(t *testing.T) {
	a, s := newTestApp(t, "")
	require.NoError(t, s.Set(port.One, 0xF0000000))
	require.NoError(t, s.Set(port.Two, 0xD001FF01))
	frame(a)

	require.NoError(t, s.Set(port.One, 0xF0000081))
	frame(a)

	st := a.status.Load()
	require.NotNil(t, st)
	assert.Equal(t, uint64(2), st.Frame)
	require.Len(t, st.Ports, 2)

	p1 := st.Ports[0]
	assert.Equal(t, 1, p1.Port)
	assert.Equal(t, "pad", p1.Kind)
	assert.Equal(t, "F", p1.Tag)
	assert.Equal(t, "F0000081", p1.Raw)
	assert.Equal(t, "F0000000", p1.Previous)
	assert.Equal(t, "00000081", p1.Edge)
	assert.Equal(t, []string{"i", "run"}, p1.Buttons)
	assert.Equal(t, []string{"i", "run"}, p1.Triggered)
	assert.Nil(t, p1.Pointer)
	assert.Equal(t, uint64(2), p1.Render.Frames)

	p2 := st.Ports[1]
	assert.Equal(t, "pointer", p2.Kind)
	require.NotNil(t, p2.Pointer)
	assert.Equal(t, device.PointerState{Button1: true, DX: -1, DY: 1}, *p2.Pointer)
	assert.Empty(t, p2.Buttons)

	assert.Empty(t, queued(a.mqtt), "no broker, nothing published")
}

func TestPublishChanges(t *testing.T) {
	a, s := newTestApp(t, "tcp://127.0.0.1:1883")
	start := time.Now()

	publish := func(at time.Time) []mqtt.Message {
		f := frame(a)
		a.publishChanges(a.status.Load(), f, at)
		return queued(a.mqtt)
	}

	// the loop's own observer already published the first frame
	frame(a)
	msgs := queued(a.mqtt)
	require.Len(t, msgs, 2)
	assert.Equal(t, "ctrltest/port1", msgs[0].Topic)
	assert.Equal(t, "ctrltest/port2", msgs[1].Topic)
	assert.True(t, msgs[0].Retained)

	for i := range a.published {
		a.published[i].at = start
	}

	assert.Empty(t, publish(start.Add(100*time.Millisecond)), "unchanged")

	require.NoError(t, s.Set(port.One, 0xF0000001))
	assert.Empty(t, publish(start.Add(200*time.Millisecond)), "held back by the interval")

	msgs = publish(start.Add(1100 * time.Millisecond))
	require.Len(t, msgs, 1, "held back change is sent")
	assert.Equal(t, "ctrltest/port1", msgs[0].Topic)

	var ps PortStatus
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &ps))
	assert.Equal(t, "F0000001", ps.Raw)
	assert.Equal(t, []string{"i"}, ps.Buttons)

	assert.Empty(t, publish(start.Add(5*time.Second)), "sent once")
}

func TestWebServices(t *testing.T) {
	a, s := newTestApp(t, "")
	a.initDefaultRoutes()

	resp, err := a.web.Test(httptest.NewRequest(http.MethodGet, "/data", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, s.Set(port.One, 0xE0000000))
	a.renderer.Header()
	frame(a)

	resp, err = a.web.Test(httptest.NewRequest(http.MethodGet, "/data", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "unrecognized(E)", st.Ports[0].Device)
	assert.Equal(t, "absent", st.Ports[1].Kind)

	resp, err = a.web.Test(httptest.NewRequest(http.MethodGet, "/screen", nil))
	require.NoError(t, err)
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "FX Controller Test")
	assert.Contains(t, string(body), "Unknown (E)")

	resp, err = a.web.Test(httptest.NewRequest(http.MethodGet, "/version", nil))
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.Equal(t, VERSION, v["version"])
	assert.Equal(t, MODULE, v["description"])

	resp, err = a.web.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRunStatic(t *testing.T) {
	cfg := config.NewConfig()
	cfg.FrameRate = 500
	cfg.Display.Terminal = false
	cfg.Webserver.URL = ""

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	require.Eventually(t, func() bool {
		st := a.status.Load()
		return st != nil && st.Frame >= 3
	}, time.Second, time.Millisecond)

	require.NoError(t, a.Close())
	require.NotPanics(t, func() { _ = a.Close() }, "second close")
	st := a.status.Load()
	assert.Equal(t, "F0000000", st.Ports[0].Raw)
	assert.Equal(t, "00000000", st.Ports[1].Raw)
	assert.True(t, strings.Contains(a.plane.String(), "Joypad  (F)"))
}

func TestRunBadSource(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Display.Terminal = false
	cfg.Webserver.URL = ""
	cfg.Ports[2] = config.PortConfig{Source: "floppy"}

	a, err := New(cfg)
	require.NoError(t, err)
	assert.Error(t, a.Run(context.Background()))
	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close())
}

func TestScreenVersion(t *testing.T) {
	assert.Equal(t, "v0.1", ScreenVersion())
}

func TestRenderOnce(t *testing.T) {
	text, err := RenderOnce(nil, 0xF0000000, 0xD0000000)
	require.NoError(t, err)
	assert.Contains(t, text, "FX Controller Test   v0.1")
	assert.Contains(t, text, "Port 1:      Joypad  (F)")
	assert.Contains(t, text, "Port 2:      Mouse   (D)")

	typ, err := Classify(map[int]string{0xE: "mouse"}, 0xE0000000)
	require.NoError(t, err)
	assert.Equal(t, device.Pointer, typ.Kind)
}
