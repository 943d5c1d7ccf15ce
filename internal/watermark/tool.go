package watermark

import (
	"image"
	"image/draw"

	"golang.org/x/mobile/event/mouse"

	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/render"
	"github.com/example/pixelsuite/internal/theme"
	"github.com/example/pixelsuite/internal/view"
)

// Tool drags the watermark of the active image. In single mode the stamp
// must be grabbed; in tile mode any press inside the image moves the grid.
type Tool struct {
	view  *view.View
	rule  Rule
	stamp *image.RGBA

	dragging  bool
	startPtr  geom.Point // original pixel space
	startRule Rule
	onChange  func(Rule)
}

// NewTool creates a Tool over v starting from rule.
func NewTool(v *view.View, rule Rule, onChange func(Rule)) (*Tool, error) {
	t := &Tool{view: v, onChange: onChange}
	if err := t.SetRule(rule); err != nil {
		return nil, err
	}
	return t, nil
}

// Rule returns the current rule.
func (t *Tool) Rule() Rule { return t.rule }

// SetRule replaces the rule and re-renders its stamp.
func (t *Tool) SetRule(r Rule) error {
	stamp, err := Stamp(r)
	if err != nil {
		return err
	}
	t.rule, t.stamp = r, stamp
	t.changed()
	return nil
}

// StampSize returns the rendered stamp size in image pixels.
func (t *Tool) StampSize() (float64, float64) {
	b := t.stamp.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// ApplyPreset moves the stamp to one of the nine anchors.
func (t *Tool) ApplyPreset(p Preset) {
	w, h := t.view.ImageSize()
	sw, sh := t.StampSize()
	t.rule = ApplyPreset(t.rule, p, w, h, sw, sh)
	t.changed()
}

// Preview composites the rule onto base for display.
func (t *Tool) Preview(base image.Image) *image.RGBA {
	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)
	Composite(out, t.stamp, t.rule)
	return out
}

// Begin starts a drag at screen point p.
func (t *Tool) Begin(p geom.Point) bool {
	q, ok := t.view.ScreenToOriginal(p)
	if !ok {
		return false
	}
	w, h := t.view.ImageSize()
	if !geom.R(0, 0, w, h).Contains(q) {
		return false
	}
	if t.rule.Mode == ModeSingle {
		sw, sh := t.StampSize()
		o := SingleOrigin(t.rule, w, h, sw, sh)
		if !geom.R(o.X, o.Y, sw, sh).Contains(q) {
			return false
		}
	}
	t.dragging = true
	t.startPtr = q
	t.startRule = t.rule
	return true
}

// Update moves the stamp or grid to follow screen point p.
func (t *Tool) Update(p geom.Point) {
	if !t.dragging {
		return
	}
	q, ok := t.view.ScreenToOriginal(p)
	if !ok {
		return
	}
	w, h := t.view.ImageSize()
	d := q.Sub(t.startPtr)
	if t.rule.Mode == ModeTile {
		t.rule = DragTile(t.startRule, d, w, h)
	} else {
		sw, sh := t.StampSize()
		t.rule = DragSingle(t.startRule, d, w, h, sw, sh)
	}
	t.changed()
}

// End finishes the drag.
func (t *Tool) End() { t.dragging = false }

// Dragging reports whether a drag is in progress.
func (t *Tool) Dragging() bool { return t.dragging }

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
		if !t.dragging {
			return false
		}
		t.Update(p)
		return true
	case mouse.DirRelease:
		if !t.dragging {
			return false
		}
		t.Update(p)
		t.End()
		return true
	}
	return false
}

// DrawOverlay outlines the stamp in single mode.
func (t *Tool) DrawOverlay(dst *image.RGBA, th *theme.Theme) {
	if t.rule.Mode != ModeSingle {
		return
	}
	w, h := t.view.ImageSize()
	sw, sh := t.StampSize()
	for _, r := range StampRects(t.rule, w, h, sw, sh) {
		if sr, ok := t.view.OriginalRectToScreen(r); ok {
			render.DashedRect(dst, sr.Image(), 3, 1, th.StampOutline, th.CropBorderAlt)
		}
	}
}

func (t *Tool) changed() {
	if t.onChange != nil {
		t.onChange(t.rule)
	}
}
