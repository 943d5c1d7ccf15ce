package mask

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/mobile/event/mouse"

	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/render"
	"github.com/example/pixelsuite/internal/theme"
	"github.com/example/pixelsuite/internal/view"
)

// DefaultBrush is the starting brush diameter in image pixels.
const DefaultBrush = 32

// Shape selects the paint tool.
type Shape int

const (
	ShapeBrush Shape = iota
	ShapeRect
)

// Tool maps pointer input through the view onto an Engine.
type Tool struct {
	view   *view.View
	engine *Engine
	shape  Shape
	brush  float64

	painting bool
	last     geom.Point // original pixel space
	anchor   geom.Point
	preview  geom.Rect
	cursor   geom.Point // screen
	hover    bool

	onChange func()
}

// ToolOption configures a Tool.
type ToolOption func(*Tool)

// WithBrush sets the brush diameter.
func WithBrush(d float64) ToolOption {
	return func(t *Tool) {
		if d > 0 {
			t.brush = d
		}
	}
}

// WithShape selects the starting paint tool.
func WithShape(s Shape) ToolOption { return func(t *Tool) { t.shape = s } }

// WithMaskListener is called after every committed paint.
func WithMaskListener(fn func()) ToolOption { return func(t *Tool) { t.onChange = fn } }

// NewTool binds an engine to a view.
func NewTool(v *view.View, e *Engine, opts ...ToolOption) *Tool {
	t := &Tool{view: v, engine: e, brush: DefaultBrush}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Engine returns the underlying mask engine.
func (t *Tool) Engine() *Engine { return t.engine }

// Shape returns the active paint tool.
func (t *Tool) Shape() Shape { return t.shape }

// SetShape switches between brush and rectangle.
func (t *Tool) SetShape(s Shape) { t.shape = s }

// Brush returns the brush diameter.
func (t *Tool) Brush() float64 { return t.brush }

// SetBrush changes the brush diameter, ignoring non-positive values.
func (t *Tool) SetBrush(d float64) {
	if d > 0 && !math.IsInf(d, 0) {
		t.brush = d
	}
}

// Painting reports whether a stroke or rectangle is in progress.
func (t *Tool) Painting() bool { return t.painting }

// Preview returns the in-progress rectangle in original space.
func (t *Tool) Preview() (geom.Rect, bool) {
	return t.preview, t.painting && t.shape == ShapeRect
}

// Begin starts painting at screen point p.
func (t *Tool) Begin(p geom.Point) bool {
	q, ok := t.view.ScreenToOriginal(p)
	if !ok {
		return false
	}
	w, h := t.view.ImageSize()
	if !geom.R(0, 0, w, h).Contains(q) {
		return false
	}
	t.painting = true
	t.last, t.anchor = q, q
	t.preview = geom.Rect{X: q.X, Y: q.Y}
	if t.shape == ShapeBrush {
		t.engine.Stroke(q, q, t.brush)
		t.changed()
	}
	return true
}

// Update extends the stroke or the rectangle preview to screen point p.
func (t *Tool) Update(p geom.Point) {
	t.cursor, t.hover = p, true
	if !t.painting {
		return
	}
	q, ok := t.view.ScreenToOriginal(p)
	if !ok {
		return
	}
	if t.shape == ShapeRect {
		t.preview = geom.Bound(t.anchor, q)
		return
	}
	t.engine.Stroke(t.last, q, t.brush)
	t.last = q
	t.changed()
}

// End finishes painting. A rectangle is committed to the mask here.
func (t *Tool) End() {
	if !t.painting {
		return
	}
	t.painting = false
	if t.shape == ShapeRect && !t.preview.Empty() {
		t.engine.FillRect(t.preview)
		t.changed()
	}
	t.preview = geom.Rect{}
}

// Handle consumes mouse events for the tool.
func (t *Tool) Handle(e interface{}) bool {
	me, ok := e.(mouse.Event)
	if !ok {
		return false
	}
	p := geom.Pt(float64(me.X), float64(me.Y))
	switch me.Direction {
	case mouse.DirPress:
		return me.Button == mouse.ButtonLeft && t.Begin(p)
	case mouse.DirNone:
		t.Update(p)
		return t.painting
	case mouse.DirRelease:
		if !t.painting {
			return false
		}
		t.Update(p)
		t.End()
		return true
	}
	return false
}

// DrawOverlay draws the rectangle preview and the brush outline.
func (t *Tool) DrawOverlay(dst *image.RGBA, th *theme.Theme) {
	if r, ok := t.Preview(); ok {
		if sr, ok := t.view.OriginalRectToScreen(r); ok {
			draw.Draw(dst, sr.Image(), image.NewUniform(th.MaskPreview), image.Point{}, draw.Over)
			render.StrokeRect(dst, sr.Image(), th.BrushCursor, 1)
		}
		return
	}
	if t.shape != ShapeBrush || !t.hover {
		return
	}
	st, ok := t.view.State()
	if !ok || st.EffectiveW == 0 {
		return
	}
	scale := st.Box.W / st.EffectiveW
	render.StrokeCircle(dst, t.cursor.X, t.cursor.Y, t.brush*scale/2, th.BrushCursor)
}

func (t *Tool) changed() {
	if t.onChange != nil {
		t.onChange()
	}
}
