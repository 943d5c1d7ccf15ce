package view

import "github.com/example/pixelsuite/internal/geom"

// Rotation is a clockwise quarter-turn applied to the displayed image.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// NormalizeRotation folds any multiple of 90 degrees into {0, 90, 180, 270}.
// Values that are not multiples of 90 are rounded down to one.
func NormalizeRotation(deg int) Rotation {
	d := ((deg/90)*90%360 + 360) % 360
	return Rotation(d)
}

// Odd reports whether r swaps the image's width and height.
func (r Rotation) Odd() bool { return r == Rotate90 || r == Rotate270 }

// EffectiveSize returns the rotation-adjusted footprint of a w x h image.
func EffectiveSize(w, h float64, r Rotation) (float64, float64) {
	if r.Odd() {
		return h, w
	}
	return w, h
}

// OriginalToEffective maps a point in original pixel space of a w x h image into
// effective space for rotation r.
func OriginalToEffective(p geom.Point, r Rotation, w, h float64) geom.Point {
	switch r {
	case Rotate90:
		return geom.Point{X: h - p.Y, Y: p.X}
	case Rotate180:
		return geom.Point{X: w - p.X, Y: h - p.Y}
	case Rotate270:
		return geom.Point{X: p.Y, Y: w - p.X}
	default:
		return p
	}
}

// EffectiveToOriginal is the inverse of OriginalToEffective. w and h are the
// original image dimensions.
func EffectiveToOriginal(q geom.Point, r Rotation, w, h float64) geom.Point {
	effW, _ := EffectiveSize(w, h, r)
	switch r {
	case Rotate90:
		return geom.Point{X: q.Y, Y: effW - q.X}
	case Rotate180:
		return geom.Point{X: w - q.X, Y: h - q.Y}
	case Rotate270:
		return geom.Point{X: w - q.Y, Y: q.X}
	default:
		return q
	}
}

// OriginalRectToEffective maps a rectangle by its corners. At quarter turns the
// bounding box is exact.
func OriginalRectToEffective(rect geom.Rect, r Rotation, w, h float64) geom.Rect {
	c := rect.Corners()
	var pts [4]geom.Point
	for i, p := range c {
		pts[i] = OriginalToEffective(p, r, w, h)
	}
	return geom.Bound(pts[:]...)
}

// EffectiveRectToOriginal is the inverse of OriginalRectToEffective.
func EffectiveRectToOriginal(rect geom.Rect, r Rotation, w, h float64) geom.Rect {
	c := rect.Corners()
	var pts [4]geom.Point
	for i, p := range c {
		pts[i] = EffectiveToOriginal(p, r, w, h)
	}
	return geom.Bound(pts[:]...)
}

// EffectiveToScreen maps an effective-space point through the on-screen box.
func EffectiveToScreen(q geom.Point, box geom.Rect, effW, effH float64) geom.Point {
	return geom.Point{
		X: box.X + q.X/effW*box.W,
		Y: box.Y + q.Y/effH*box.H,
	}
}

// ScreenToEffective is the inverse of EffectiveToScreen.
func ScreenToEffective(s geom.Point, box geom.Rect, effW, effH float64) geom.Point {
	return geom.Point{
		X: (s.X - box.X) / box.W * effW,
		Y: (s.Y - box.Y) / box.H * effH,
	}
}

// flip mirrors p inside a w x h image along the requested local axes.
func flip(p geom.Point, h, v bool, w, hgt float64) geom.Point {
	if h {
		p.X = w - p.X
	}
	if v {
		p.Y = hgt - p.Y
	}
	return p
}
