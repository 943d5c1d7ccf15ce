package crop

import (
	"math"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/view"
)

// HandleSize is the side of the square hit target around each handle, in
// screen pixels.
const HandleSize = 10

// Tool is the crop state machine over one view. It is Idle until a pointer
// press lands on the rect or a handle and Dragging until release or cancel.
type Tool struct {
	view    *view.View
	rect    geom.Rect // original pixel space
	mode    Mode
	ratio   float64 // width/height in original space for ModeRatio
	minSize float64

	active     Handle
	startRect  geom.Rect  // effective space
	startPtr   geom.Point // effective space
	startRatio float64
}

// Option configures a Tool.
type Option func(*Tool)

// WithRatio starts the tool in ModeRatio with the given width/height ratio.
func WithRatio(r float64) Option {
	return func(t *Tool) {
		if r > 0 {
			t.mode, t.ratio = ModeRatio, r
		}
	}
}

// WithCircle starts the tool in ModeCircle.
func WithCircle() Option { return func(t *Tool) { t.mode = ModeCircle } }

// WithMinSize overrides MinSize.
func WithMinSize(m float64) Option {
	return func(t *Tool) {
		if m > 0 {
			t.minSize = m
		}
	}
}

// NewTool creates a crop tool bound to v with the default rect for the view's
// current image.
func NewTool(v *view.View, opts ...Option) *Tool {
	t := &Tool{view: v, minSize: MinSize}
	for _, o := range opts {
		o(t)
	}
	t.ResetRect()
	return t
}

// Rect returns the crop rect in original pixel space.
func (t *Tool) Rect() geom.Rect { return t.rect }

// Mode returns the active constraint mode.
func (t *Tool) Mode() Mode { return t.mode }

// Ratio returns the locked width/height ratio, or zero when free.
func (t *Tool) Ratio() float64 {
	switch t.mode {
	case ModeRatio:
		return t.ratio
	case ModeCircle:
		return 1
	}
	return 0
}

// Circle reports whether the crop exports as a circle.
func (t *Tool) Circle() bool { return t.mode == ModeCircle }

// Dragging returns the handle being dragged, if any.
func (t *Tool) Dragging() (Handle, bool) { return t.active, t.active != HandleNone }

// SetRect replaces the rect, constraining it to the current mode and bounds.
func (t *Tool) SetRect(r geom.Rect) {
	w, h := t.view.ImageSize()
	c := t.originalConstraint(w, h)
	if t.mode == ModeCircle {
		r = Square(r)
	}
	t.set(Constrain(r, c))
}

// ResetRect restores the centred default for the current image.
func (t *Tool) ResetRect() {
	w, h := t.view.ImageSize()
	r := Default(w, h, t.Ratio())
	t.set(Constrain(r, t.originalConstraint(w, h)))
}

// SetFree drops any ratio lock.
func (t *Tool) SetFree() {
	t.mode, t.ratio = ModeFree, 0
	t.SetRect(t.rect)
}

// SetRatio locks the rect to r (width/height), re-fitting it around its centre.
func (t *Tool) SetRatio(r float64) {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		t.SetFree()
		return
	}
	t.mode, t.ratio = ModeRatio, r
	t.SetRect(t.rect)
}

// SetCircle switches to circular mode using the shorter edge of the current rect.
func (t *Tool) SetCircle() {
	t.mode = ModeCircle
	t.SetRect(t.rect)
}

func (t *Tool) originalConstraint(w, h float64) Constraint {
	return Constraint{BoundsW: w, BoundsH: h, Ratio: t.Ratio(), MinSize: t.minSize}
}

func (t *Tool) set(r geom.Rect) { t.rect = r }

// ScreenRect returns the rect's current on-screen position.
func (t *Tool) ScreenRect() (geom.Rect, bool) {
	return t.view.OriginalRectToScreen(t.rect)
}

// handlePoints returns the screen centre of each resize handle.
func handlePoints(r geom.Rect) map[Handle]geom.Point {
	cx, cy := r.Center().X, r.Center().Y
	return map[Handle]geom.Point{
		HandleNW: geom.Pt(r.X, r.Y),
		HandleN:  geom.Pt(cx, r.Y),
		HandleNE: geom.Pt(r.MaxX(), r.Y),
		HandleE:  geom.Pt(r.MaxX(), cy),
		HandleSE: geom.Pt(r.MaxX(), r.MaxY()),
		HandleS:  geom.Pt(cx, r.MaxY()),
		HandleSW: geom.Pt(r.X, r.MaxY()),
		HandleW:  geom.Pt(r.X, cy),
	}
}

// hitOrder checks corners before edges so small rects stay resizable.
var hitOrder = []Handle{HandleNW, HandleNE, HandleSE, HandleSW, HandleN, HandleE, HandleS, HandleW}

// HitTest returns the handle under screen point p.
func (t *Tool) HitTest(p geom.Point) Handle {
	sr, ok := t.ScreenRect()
	if !ok {
		return HandleNone
	}
	pts := handlePoints(sr)
	half := float64(HandleSize) / 2
	for _, h := range hitOrder {
		c := pts[h]
		if math.Abs(p.X-c.X) <= half && math.Abs(p.Y-c.Y) <= half {
			return h
		}
	}
	if sr.Contains(p) {
		return HandleMove
	}
	return HandleNone
}

// Begin starts a drag at screen point p. It reports whether p hit the rect.
func (t *Tool) Begin(p geom.Point) bool {
	h := t.HitTest(p)
	if h == HandleNone {
		return false
	}
	q, ok := t.view.ScreenToEffective(p)
	if !ok {
		return false
	}
	t.active = h
	t.startPtr = q
	t.startRect = t.view.OriginalRectToEffective(t.rect)
	t.startRatio = 0
	if t.startRect.H > 0 {
		t.startRatio = t.startRect.W / t.startRect.H
	}
	return true
}

// Update applies the drag to screen point p. shift holds the rect to its
// drag-start ratio while in free mode.
func (t *Tool) Update(p geom.Point, shift bool) {
	if t.active == HandleNone {
		return
	}
	q, ok := t.view.ScreenToEffective(p)
	if !ok {
		return
	}
	effW, effH := t.view.EffectiveImageSize()
	c := Constraint{BoundsW: effW, BoundsH: effH, MinSize: t.minSize}
	switch {
	case t.mode != ModeFree:
		c.Ratio = t.Ratio()
		if t.view.Rotation().Odd() {
			c.Ratio = 1 / c.Ratio
		}
	case shift:
		c.Ratio = t.startRatio
	}
	r := Resize(t.startRect, t.active, q.Sub(t.startPtr), c)
	if t.mode == ModeCircle {
		r = ClampInto(Square(r), effW, effH)
	}
	w, h := t.view.ImageSize()
	t.set(ClampInto(t.view.EffectiveRectToOriginal(r), w, h))
}

// End finishes the drag.
func (t *Tool) End() { t.active = HandleNone }

// Cancel aborts the drag and restores the rect from drag start.
func (t *Tool) Cancel() {
	if t.active == HandleNone {
		return
	}
	w, h := t.view.ImageSize()
	t.set(ClampInto(t.view.EffectiveRectToOriginal(t.startRect), w, h))
	t.active = HandleNone
}

// Handle consumes mouse events for the crop tool and reports whether it did.
func (t *Tool) Handle(e interface{}) bool {
	switch e := e.(type) {
	case mouse.Event:
		p := geom.Pt(float64(e.X), float64(e.Y))
		shift := e.Modifiers&key.ModShift != 0
		switch e.Direction {
		case mouse.DirPress:
			if e.Button != mouse.ButtonLeft {
				return false
			}
			return t.Begin(p)
		case mouse.DirNone:
			if t.active == HandleNone {
				return false
			}
			t.Update(p, shift)
			return true
		case mouse.DirRelease:
			if t.active == HandleNone {
				return false
			}
			t.Update(p, shift)
			t.End()
			return true
		}
	case key.Event:
		if e.Code == key.CodeEscape && e.Direction == key.DirPress && t.active != HandleNone {
			t.Cancel()
			return true
		}
	}
	return false
}
