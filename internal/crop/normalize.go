package crop

import (
	"math"

	"github.com/example/pixelsuite/internal/geom"
)

// Normalized is a crop rule independent of image size. Rect rules hold the
// rect as fractions of the image dimensions; circle rules hold the centre as
// fractions and the side as a fraction of the shorter image edge.
type Normalized struct {
	Mode  Mode
	Ratio float64

	X, Y, W, H float64

	CX, CY, Size float64
}

// Normalize converts r, measured against a w x h image, to a Normalized rule.
func Normalize(r geom.Rect, w, h float64, mode Mode, ratio float64) Normalized {
	n := Normalized{Mode: mode, Ratio: ratio}
	if w <= 0 || h <= 0 {
		return n
	}
	if mode == ModeCircle {
		c := r.Center()
		n.CX, n.CY = c.X/w, c.Y/h
		n.Size = math.Min(r.W, r.H) / math.Min(w, h)
		return n
	}
	n.X, n.Y, n.W, n.H = r.X/w, r.Y/h, r.W/w, r.H/h
	return n
}

// Expand re-creates the rule's rect against a w x h image, constrained to its
// mode and the image bounds.
func (n Normalized) Expand(w, h, minSize float64) geom.Rect {
	c := Constraint{BoundsW: w, BoundsH: h, MinSize: minSize}
	if n.Mode == ModeCircle {
		side := n.Size * math.Min(w, h)
		c.Ratio = 1
		return Constrain(geom.R(n.CX*w-side/2, n.CY*h-side/2, side, side), c)
	}
	if n.Mode == ModeRatio {
		c.Ratio = n.Ratio
	}
	return Constrain(geom.R(n.X*w, n.Y*h, n.W*w, n.H*h), c)
}

// Snapshot captures the tool's rect and mode as a Normalized rule.
func (t *Tool) Snapshot() Normalized {
	w, h := t.view.ImageSize()
	return Normalize(t.rect, w, h, t.mode, t.ratio)
}

// Restore applies a rule to the tool against the current image.
func (t *Tool) Restore(n Normalized) {
	t.mode, t.ratio = n.Mode, n.Ratio
	if t.mode == ModeRatio && t.ratio <= 0 {
		t.mode = ModeFree
	}
	w, h := t.view.ImageSize()
	t.set(n.Expand(w, h, t.minSize))
}
