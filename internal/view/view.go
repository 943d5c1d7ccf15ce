// Package view maintains the zoom/pan/rotate/flip camera over a loaded image and
// maps coordinates between original pixel space, rotation-normalised effective
// space and screen space.
package view

import (
	"math"

	"github.com/example/pixelsuite/internal/geom"
)

const (
	DefaultZoomStep  = 1.2
	DefaultWheelStep = 1.05
	DefaultMinZoom   = 0.1
	DefaultMaxZoom   = 10
	DefaultPadding   = 16
)

// State is a read-only snapshot of the view.
type State struct {
	ContainerW float64
	ContainerH float64
	Rotation   Rotation
	ImageW     float64
	ImageH     float64
	EffectiveW float64
	EffectiveH float64
	Box        geom.Rect

	Zoom  float64
	Pan   geom.Point
	FlipH bool
	FlipV bool
}

// View is the camera over one image. It is not safe for concurrent use; all
// mutations are expected to come from a single event loop.
type View struct {
	imageW, imageH         float64
	containerW, containerH float64

	zoom     float64
	pan      geom.Point
	rotation Rotation
	flipH    bool
	flipV    bool

	padding   float64
	zoomStep  float64
	wheelStep float64
	minZoom   float64
	maxZoom   float64

	state    State
	hasState bool
	subs     map[int]func(State)
	nextSub  int
}

// Option configures a View during creation.
type Option func(*View)

// WithPadding sets the gap kept between the container edge and the fitted image.
func WithPadding(p float64) Option { return func(v *View) { v.padding = p } }

// WithZoomStep sets the multiplicative step used by ZoomIn and ZoomOut.
func WithZoomStep(step float64) Option { return func(v *View) { v.zoomStep = step } }

// WithWheelStep sets the multiplicative step applied per wheel tick.
func WithWheelStep(step float64) Option { return func(v *View) { v.wheelStep = step } }

// WithZoomLimits sets the zoom clamp range.
func WithZoomLimits(min, max float64) Option {
	return func(v *View) { v.minZoom, v.maxZoom = min, max }
}

// New creates a View with zoom 1, no pan, no rotation and no flip.
func New(opts ...Option) *View {
	v := &View{
		zoom:      1,
		padding:   DefaultPadding,
		zoomStep:  DefaultZoomStep,
		wheelStep: DefaultWheelStep,
		minZoom:   DefaultMinZoom,
		maxZoom:   DefaultMaxZoom,
		subs:      map[int]func(State){},
	}
	for _, o := range opts {
		o(v)
	}
	if v.zoomStep <= 1 {
		v.zoomStep = DefaultZoomStep
	}
	if v.wheelStep <= 1 {
		v.wheelStep = DefaultWheelStep
	}
	if v.minZoom <= 0 || v.maxZoom < v.minZoom {
		v.minZoom, v.maxZoom = DefaultMinZoom, DefaultMaxZoom
	}
	if v.padding < 0 {
		v.padding = 0
	}
	return v
}

// Subscribe registers fn to be called with every new snapshot. The returned
// function removes the subscription.
func (v *View) Subscribe(fn func(State)) (cancel func()) {
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	return func() { delete(v.subs, id) }
}

// SetImageSize sets the native dimensions of the displayed image.
func (v *View) SetImageSize(w, h int) {
	v.imageW, v.imageH = float64(w), float64(h)
	v.update()
}

// SetContainerSize sets the size of the display surface in screen units.
func (v *View) SetContainerSize(w, h float64) {
	if !geom.Finite(w) || w < 0 {
		w = 0
	}
	if !geom.Finite(h) || h < 0 {
		h = 0
	}
	v.containerW, v.containerH = w, h
	v.update()
}

// ZoomIn multiplies the zoom by the zoom step.
func (v *View) ZoomIn() { v.setZoom(v.zoom * v.zoomStep) }

// ZoomOut divides the zoom by the zoom step.
func (v *View) ZoomOut() { v.setZoom(v.zoom / v.zoomStep) }

// SetZoom sets the zoom directly, clamped to the configured range.
func (v *View) SetZoom(z float64) { v.setZoom(z) }

func (v *View) setZoom(z float64) {
	v.zoom = v.clampZoom(z)
	v.pan = v.clampPan(v.pan)
	v.update()
}

func (v *View) clampZoom(z float64) float64 {
	if !geom.Finite(z) {
		return v.zoom
	}
	return geom.Clamp(z, v.minZoom, v.maxZoom)
}

// RotateLeft90 turns the image a quarter counter-clockwise.
func (v *View) RotateLeft90() {
	v.rotation = NormalizeRotation(int(v.rotation) - 90)
	v.update()
}

// RotateRight90 turns the image a quarter clockwise.
func (v *View) RotateRight90() {
	v.rotation = NormalizeRotation(int(v.rotation) + 90)
	v.update()
}

// SetRotation sets the rotation, folded into the quarter-turn set.
func (v *View) SetRotation(r Rotation) {
	v.rotation = NormalizeRotation(int(r))
	v.update()
}

// FlipHorizontal toggles mirroring along the image's own x axis.
func (v *View) FlipHorizontal() {
	v.flipH = !v.flipH
	v.update()
}

// FlipVertical toggles mirroring along the image's own y axis.
func (v *View) FlipVertical() {
	v.flipV = !v.flipV
	v.update()
}

// Fit resets zoom and pan, keeping rotation and flip.
func (v *View) Fit() {
	v.zoom = 1
	v.pan = geom.Point{}
	v.update()
}

// Reset restores zoom, pan, rotation and flip to their defaults.
func (v *View) Reset() {
	v.zoom = 1
	v.pan = geom.Point{}
	v.rotation = Rotate0
	v.flipH, v.flipV = false, false
	v.update()
}

// ImageSize returns the native image dimensions.
func (v *View) ImageSize() (w, h float64) { return v.imageW, v.imageH }

// EffectiveImageSize returns the rotation-adjusted image dimensions.
func (v *View) EffectiveImageSize() (w, h float64) {
	return EffectiveSize(v.imageW, v.imageH, v.rotation)
}

// Zoom returns the current zoom factor.
func (v *View) Zoom() float64 { return v.zoom }

// Pan returns the current pan offset in screen units.
func (v *View) Pan() geom.Point { return v.pan }

// Rotation returns the current rotation.
func (v *View) Rotation() Rotation { return v.rotation }

// Flip returns the horizontal and vertical flip flags.
func (v *View) Flip() (horizontal, vertical bool) { return v.flipH, v.flipV }

// SetPan sets the pan offset, clamped so the image box keeps overlapping the
// container.
func (v *View) SetPan(p geom.Point) {
	v.pan = v.clampPan(p)
	v.update()
}

// PanBy moves the pan offset by d screen units.
func (v *View) PanBy(d geom.Point) { v.SetPan(v.pan.Add(d)) }

func (v *View) clampPan(p geom.Point) geom.Point {
	if !geom.Finite(p.X) {
		p.X = 0
	}
	if !geom.Finite(p.Y) {
		p.Y = 0
	}
	base, ok := v.baseRect()
	if !ok {
		return p
	}
	limX := (v.containerW + base.W*v.zoom) / 2
	limY := (v.containerH + base.H*v.zoom) / 2
	p.X = geom.Clamp(p.X, -limX, limX)
	p.Y = geom.Clamp(p.Y, -limY, limY)
	return p
}

// WheelZoom applies ticks wheel steps (positive zooms in) anchored at cursor, so
// the image point under the cursor stays under it.
func (v *View) WheelZoom(cursor geom.Point, ticks float64) {
	st, ok := v.State()
	if !ok || ticks == 0 || !geom.Finite(ticks) {
		return
	}
	newZoom := v.clampZoom(v.zoom * math.Pow(v.wheelStep, ticks))
	if newZoom == v.zoom {
		return
	}
	k := newZoom / v.zoom
	base, _ := v.baseRect()
	newW := base.W * newZoom
	newH := base.H * newZoom
	boxX := cursor.X - (cursor.X-st.Box.X)*k
	boxY := cursor.Y - (cursor.Y-st.Box.Y)*k
	v.zoom = newZoom
	v.pan = v.clampPan(geom.Point{
		X: boxX - (v.containerW-newW)/2,
		Y: boxY - (v.containerH-newH)/2,
	})
	v.update()
}

// baseRect returns the contain-fit rectangle size for zoom 1 (only W and H are
// meaningful).
func (v *View) baseRect() (geom.Rect, bool) {
	if v.imageW <= 0 || v.imageH <= 0 || v.containerW <= 0 || v.containerH <= 0 {
		return geom.Rect{}, false
	}
	effW, effH := EffectiveSize(v.imageW, v.imageH, v.rotation)
	availW := math.Max(v.containerW-2*v.padding, 1)
	availH := math.Max(v.containerH-2*v.padding, 1)
	scale := math.Min(availW/effW, availH/effH)
	return geom.Rect{W: effW * scale, H: effH * scale}, true
}

func (v *View) compute() (State, bool) {
	base, ok := v.baseRect()
	if !ok {
		return State{}, false
	}
	effW, effH := EffectiveSize(v.imageW, v.imageH, v.rotation)
	w := base.W * v.zoom
	h := base.H * v.zoom
	return State{
		ContainerW: v.containerW,
		ContainerH: v.containerH,
		Rotation:   v.rotation,
		ImageW:     v.imageW,
		ImageH:     v.imageH,
		EffectiveW: effW,
		EffectiveH: effH,
		Box: geom.Rect{
			X: (v.containerW-w)/2 + v.pan.X,
			Y: (v.containerH-h)/2 + v.pan.Y,
			W: w,
			H: h,
		},
		Zoom:  v.zoom,
		Pan:   v.pan,
		FlipH: v.flipH,
		FlipV: v.flipV,
	}, true
}

// update recomputes the snapshot and notifies subscribers when it changed.
func (v *View) update() {
	st, ok := v.compute()
	if ok == v.hasState && st == v.state {
		return
	}
	v.state, v.hasState = st, ok
	if !ok {
		return
	}
	for _, fn := range v.subs {
		fn(st)
	}
}

// State returns the current snapshot. ok is false until both an image and a
// non-empty container are known.
func (v *View) State() (State, bool) {
	return v.state, v.hasState
}

// OriginalToEffective maps an original pixel point into effective space,
// honouring the current flip and rotation.
func (v *View) OriginalToEffective(p geom.Point) geom.Point {
	p = flip(p, v.flipH, v.flipV, v.imageW, v.imageH)
	return OriginalToEffective(p, v.rotation, v.imageW, v.imageH)
}

// EffectiveToOriginal is the inverse of OriginalToEffective.
func (v *View) EffectiveToOriginal(q geom.Point) geom.Point {
	p := EffectiveToOriginal(q, v.rotation, v.imageW, v.imageH)
	return flip(p, v.flipH, v.flipV, v.imageW, v.imageH)
}

// OriginalRectToEffective maps an original-space rectangle into effective space.
func (v *View) OriginalRectToEffective(r geom.Rect) geom.Rect {
	c := r.Corners()
	var pts [4]geom.Point
	for i, p := range c {
		pts[i] = v.OriginalToEffective(p)
	}
	return geom.Bound(pts[:]...)
}

// EffectiveRectToOriginal maps an effective-space rectangle into original space.
func (v *View) EffectiveRectToOriginal(r geom.Rect) geom.Rect {
	c := r.Corners()
	var pts [4]geom.Point
	for i, p := range c {
		pts[i] = v.EffectiveToOriginal(p)
	}
	return geom.Bound(pts[:]...)
}

// EffectiveToScreen maps an effective point onto the screen. ok is false when
// there is no snapshot yet.
func (v *View) EffectiveToScreen(q geom.Point) (geom.Point, bool) {
	if !v.hasState {
		return geom.Point{}, false
	}
	return EffectiveToScreen(q, v.state.Box, v.state.EffectiveW, v.state.EffectiveH), true
}

// ScreenToEffective maps a screen point into effective space.
func (v *View) ScreenToEffective(s geom.Point) (geom.Point, bool) {
	if !v.hasState {
		return geom.Point{}, false
	}
	return ScreenToEffective(s, v.state.Box, v.state.EffectiveW, v.state.EffectiveH), true
}

// OriginalToScreen maps an original pixel point onto the screen.
func (v *View) OriginalToScreen(p geom.Point) (geom.Point, bool) {
	return v.EffectiveToScreen(v.OriginalToEffective(p))
}

// ScreenToOriginal maps a screen point back into original pixel space.
func (v *View) ScreenToOriginal(s geom.Point) (geom.Point, bool) {
	q, ok := v.ScreenToEffective(s)
	if !ok {
		return geom.Point{}, false
	}
	return v.EffectiveToOriginal(q), true
}

// OriginalRectToScreen maps an original-space rectangle onto the screen.
func (v *View) OriginalRectToScreen(r geom.Rect) (geom.Rect, bool) {
	e := v.OriginalRectToEffective(r)
	a, ok := v.EffectiveToScreen(e.Min())
	if !ok {
		return geom.Rect{}, false
	}
	b, _ := v.EffectiveToScreen(geom.Point{X: e.MaxX(), Y: e.MaxY()})
	return geom.Bound(a, b), true
}
