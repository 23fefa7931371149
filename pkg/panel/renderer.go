package panel

import (
	"fmt"

	"ctrltest/pkg/device"
	"ctrltest/pkg/port"

	"github.com/womat/debug"
)

// Stats counts the draws done for one port.
type Stats struct {
	// Frames is the number of rendered frames.
	Frames uint64 `json:"frames"`
	// StaticRepaints is the number of full layout repaints.
	StaticRepaints uint64 `json:"staticRepaints"`
	// DynamicRedraws is the number of dynamic field redraws.
	DynamicRedraws uint64 `json:"dynamicRedraws"`
}

// view is the render state of a port. Rendered is false until the first frame
// (state "uninitialized"); afterwards Showing is the device type on screen.
type view struct {
	rendered bool
	showing  device.Type
	stats    Stats
}

// Renderer keeps the render state machine of both ports.
// It is confined to the main loop.
type Renderer struct {
	surface    Surface
	classifier *device.Classifier
	regions    map[port.Number]Region
	version    string
	views      [len(port.Ports)]view
}

// New creates a renderer drawing on s.
func New(s Surface, c *device.Classifier, version string) *Renderer {
	return &Renderer{
		surface:    s,
		classifier: c,
		regions:    DefaultRegions,
		version:    version,
	}
}

// Header draws the parts of the screen that never change.
func (r *Renderer) Header() {
	Print(r.surface, titleColumn, titleRow, PalText, Title)
	Print(r.surface, versionCol, titleRow, PalText, r.version)
	for _, n := range port.Ports {
		Print(r.surface, labelColumn, r.regions[n].Subtitle, PalText, fmt.Sprintf(portLabelFmt, int(n)))
	}
}

// Render draws the panel of port n for one frame. The static layout is
// repainted on the first frame and whenever the device type changes; the
// dynamic fields are redrawn every frame. It reports whether a repaint was done.
func (r *Renderer) Render(n port.Number, snap port.Snapshot) bool {
	v := &r.views[int(n)-1]
	reg := r.regions[n]
	t := r.classifier.Classify(snap.Current)
	l := layouts[t.Kind]

	repaint := !v.rendered || v.showing != t
	if repaint {
		if v.rendered {
			debug.DebugLog.Printf("%v: %v -> %v", n, v.showing, t)
		} else {
			debug.DebugLog.Printf("%v: showing %v", n, t)
		}
		r.drawStatic(reg, t, l)
		v.showing = t
		v.rendered = true
		v.stats.StaticRepaints++
	}

	Print(r.surface, hexColumn, reg.Subtitle+1, l.palette, snap.Current.Hex())
	if l.dynamic != nil {
		l.dynamic(r.surface, reg, l.palette, snap)
	}
	v.stats.DynamicRedraws++
	v.stats.Frames++

	return repaint
}

func (r *Renderer) drawStatic(reg Region, t device.Type, l layout) {
	Print(r.surface, reg.Left+titleOffset, reg.Subtitle, l.palette, titleFor(t))
	for i, row := range l.template {
		if row == "" {
			Clear(r.surface, reg.Left, reg.Text+i, templateWidth, l.palette)
			continue
		}
		Print(r.surface, reg.Left, reg.Text+i, l.palette, row)
	}
}

// Showing returns the device type on screen for port n. ok is false while
// the port has not been rendered yet.
func (r *Renderer) Showing(n port.Number) (t device.Type, ok bool) {
	v := r.views[int(n)-1]
	return v.showing, v.rendered
}

// Stats returns the draw counters of port n.
func (r *Renderer) Stats(n port.Number) Stats {
	return r.views[int(n)-1].stats
}
