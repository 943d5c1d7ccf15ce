// Package pointer turns raw mouse, touch and gesture events into view pan and
// zoom operations.
package pointer

import (
	"golang.org/x/exp/shiny/gesture"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/view"
)

// Viewport is the part of the view the controller drives.
type Viewport interface {
	Pan() geom.Point
	SetPan(geom.Point)
	WheelZoom(cursor geom.Point, ticks float64)
}

var _ Viewport = (*view.View)(nil)

// Controller handles primary-button drag to pan, wheel zoom anchored at the
// cursor and single-contact touch pan. Native gestures are swallowed.
type Controller struct {
	vp Viewport

	dragging  bool
	dragStart geom.Point
	panStart  geom.Point
	button    mouse.Button

	touches      map[touch.Sequence]geom.Point
	touchSeq     touch.Sequence
	touchPanning bool

	// Enabled gates pan handling so tools can claim the primary button.
	Enabled func() bool
}

// New creates a Controller for vp.
func New(vp Viewport) *Controller {
	return &Controller{
		vp:      vp,
		button:  mouse.ButtonLeft,
		touches: map[touch.Sequence]geom.Point{},
	}
}

// SetPanButton changes which mouse button pans. The default is the left button.
func (c *Controller) SetPanButton(b mouse.Button) { c.button = b }

// Dragging reports whether a mouse or touch pan is in progress.
func (c *Controller) Dragging() bool { return c.dragging || c.touchPanning }

// Handle consumes e if it is a pointer event this layer owns and reports
// whether it did.
func (c *Controller) Handle(e interface{}) bool {
	switch e := e.(type) {
	case mouse.Event:
		return c.mouse(e)
	case touch.Event:
		return c.touch(e)
	case gesture.Event:
		// Pinch and similar host gestures would compete with wheel zoom.
		return true
	}
	return false
}

func (c *Controller) mouse(e mouse.Event) bool {
	p := geom.Pt(float64(e.X), float64(e.Y))
	if e.Direction == mouse.DirStep || e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown {
		switch e.Button {
		case mouse.ButtonWheelUp:
			c.vp.WheelZoom(p, 1)
			return true
		case mouse.ButtonWheelDown:
			c.vp.WheelZoom(p, -1)
			return true
		}
		return false
	}
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != c.button || !c.enabled() {
			return false
		}
		c.dragging = true
		c.dragStart = p
		c.panStart = c.vp.Pan()
		return true
	case mouse.DirRelease:
		if !c.dragging || e.Button != c.button {
			return false
		}
		c.dragging = false
		c.vp.SetPan(c.panStart.Add(p.Sub(c.dragStart)))
		return true
	case mouse.DirNone:
		if !c.dragging {
			return false
		}
		c.vp.SetPan(c.panStart.Add(p.Sub(c.dragStart)))
		return true
	}
	return false
}

func (c *Controller) touch(e touch.Event) bool {
	p := geom.Pt(float64(e.X), float64(e.Y))
	switch e.Type {
	case touch.TypeBegin:
		c.touches[e.Sequence] = p
		c.restartTouchPan()
	case touch.TypeMove:
		if _, ok := c.touches[e.Sequence]; !ok {
			return false
		}
		c.touches[e.Sequence] = p
		if c.touchPanning && e.Sequence == c.touchSeq {
			c.vp.SetPan(c.panStart.Add(p.Sub(c.dragStart)))
		}
	case touch.TypeEnd:
		delete(c.touches, e.Sequence)
		c.restartTouchPan()
	}
	return true
}

// restartTouchPan re-bases the pan on the remaining contact so lifting one of
// two fingers does not jump the image.
func (c *Controller) restartTouchPan() {
	c.touchPanning = false
	if len(c.touches) != 1 || !c.enabled() {
		return
	}
	for seq, p := range c.touches {
		c.touchSeq = seq
		c.dragStart = p
	}
	c.panStart = c.vp.Pan()
	c.touchPanning = true
}

func (c *Controller) enabled() bool {
	return c.Enabled == nil || c.Enabled()
}
