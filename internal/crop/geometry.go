// Package crop implements the interactive crop rectangle: handle hit-testing,
// ratio-locked resizing, bounds clamping, per-image normalised rules and the
// native-resolution export.
package crop

import (
	"math"

	"github.com/example/pixelsuite/internal/geom"
)

// MinSize is the smallest width or height a crop rect may have.
const MinSize = 24

// Handle identifies what a drag is acting on.
type Handle int

const (
	HandleNone Handle = iota
	HandleMove
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

var handleNames = [...]string{"none", "move", "nw", "n", "ne", "e", "se", "s", "sw", "w"}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "unknown"
	}
	return handleNames[h]
}

// ParseHandle maps a compass name back to a Handle.
func ParseHandle(s string) (Handle, bool) {
	for i, n := range handleNames {
		if n == s {
			return Handle(i), true
		}
	}
	return HandleNone, false
}

// Mode selects the crop constraint.
type Mode int

const (
	ModeFree Mode = iota
	ModeRatio
	ModeCircle
)

// axis describes how a handle moves one dimension of the rect.
type axis int

const (
	axisFixed   axis = iota // untouched by the handle
	axisDragMax             // right or bottom edge follows the pointer
	axisDragMin             // left or top edge follows the pointer
	axisCentred             // derived from the other dimension, kept centred
)

func (h Handle) axes() (x, y axis) {
	switch h {
	case HandleNW:
		return axisDragMin, axisDragMin
	case HandleN:
		return axisFixed, axisDragMin
	case HandleNE:
		return axisDragMax, axisDragMin
	case HandleE:
		return axisDragMax, axisFixed
	case HandleSE:
		return axisDragMax, axisDragMax
	case HandleS:
		return axisFixed, axisDragMax
	case HandleSW:
		return axisDragMin, axisDragMax
	case HandleW:
		return axisDragMin, axisFixed
	}
	return axisFixed, axisFixed
}

// Corner reports whether h is one of the four corner handles.
func (h Handle) Corner() bool {
	return h == HandleNW || h == HandleNE || h == HandleSE || h == HandleSW
}

// Constraint bounds an edit. Ratio is width/height in the space the edit runs
// in; zero means free.
type Constraint struct {
	BoundsW float64
	BoundsH float64
	Ratio   float64
	MinSize float64
}

// minDims returns the smallest allowed size, capped so it always fits inside
// the bounds while honouring the ratio.
func (c Constraint) minDims() (float64, float64) {
	m := c.MinSize
	if m <= 0 {
		m = MinSize
	}
	if c.Ratio <= 0 {
		return math.Min(m, c.BoundsW), math.Min(m, c.BoundsH)
	}
	w := math.Max(m, m*c.Ratio)
	w = math.Min(w, math.Min(c.BoundsW, c.BoundsH*c.Ratio))
	return w, w / c.Ratio
}

// Resize applies a drag of d on handle h to start and returns the constrained
// result. All values are in one coordinate space (effective space in the tool).
func Resize(start geom.Rect, h Handle, d geom.Point, c Constraint) geom.Rect {
	if h == HandleMove {
		return ClampInto(start.Translate(d), c.BoundsW, c.BoundsH)
	}
	ax, ay := h.axes()
	if ax == axisFixed && ay == axisFixed {
		return start
	}
	w := extent(start.W, ax, d.X)
	hh := extent(start.H, ay, d.Y)

	if c.Ratio > 0 {
		switch {
		case h.Corner():
			// Grow whichever side falls short so the rect covers the drag.
			if hh > 0 && w/hh < c.Ratio {
				w = hh * c.Ratio
			} else {
				hh = w / c.Ratio
			}
		case ax == axisFixed:
			w = hh * c.Ratio
			ax = axisCentred
		default:
			hh = w / c.Ratio
			ay = axisCentred
		}
	}

	maxW := room(start.X, start.W, c.BoundsW, ax)
	maxH := room(start.Y, start.H, c.BoundsH, ay)
	minW, minH := c.minDims()
	if c.Ratio > 0 {
		scale := 1.0
		if w > maxW {
			scale = maxW / w
		}
		if hh*scale > maxH {
			scale = maxH / hh
		}
		w, hh = w*scale, hh*scale
		if w < minW || hh < minH {
			w, hh = minW, minH
		}
	} else {
		w = geom.Clamp(w, minW, math.Max(maxW, minW))
		hh = geom.Clamp(hh, minH, math.Max(maxH, minH))
	}

	out := geom.Rect{
		X: place(start.X, start.W, w, ax),
		Y: place(start.Y, start.H, hh, ay),
		W: w,
		H: hh,
	}
	return ClampInto(out, c.BoundsW, c.BoundsH)
}

func extent(size float64, a axis, delta float64) float64 {
	switch a {
	case axisDragMax:
		size += delta
	case axisDragMin:
		size -= delta
	}
	return math.Max(size, 0)
}

// room is the largest size the axis can grow to without moving its anchor.
func room(pos, size, bound float64, a axis) float64 {
	switch a {
	case axisDragMax:
		return bound - pos
	case axisDragMin:
		return pos + size
	}
	return bound
}

func place(pos, oldSize, size float64, a axis) float64 {
	switch a {
	case axisDragMin:
		return pos + oldSize - size
	case axisCentred, axisFixed:
		return pos + (oldSize-size)/2
	}
	return pos
}

// ClampInto moves r so it lies inside a w x h area, shrinking it only when it
// is larger than the area.
func ClampInto(r geom.Rect, w, h float64) geom.Rect {
	r.W = math.Min(math.Max(r.W, 0), w)
	r.H = math.Min(math.Max(r.H, 0), h)
	r.X = geom.Clamp(r.X, 0, w-r.W)
	r.Y = geom.Clamp(r.Y, 0, h-r.H)
	return r
}

// Constrain fits r to the constraint around its centre: it enforces the ratio
// by shrinking the longer side, then clamps.
func Constrain(r geom.Rect, c Constraint) geom.Rect {
	minW, minH := c.minDims()
	if c.Ratio > 0 {
		cx, cy := r.Center().X, r.Center().Y
		if r.H > 0 && r.W/r.H > c.Ratio {
			r.W = r.H * c.Ratio
		} else {
			r.H = r.W / c.Ratio
		}
		scale := math.Min(1, math.Min(c.BoundsW/r.W, c.BoundsH/r.H))
		r.W, r.H = r.W*scale, r.H*scale
		if r.W < minW || r.H < minH {
			r.W, r.H = minW, minH
		}
		r.X, r.Y = cx-r.W/2, cy-r.H/2
	} else {
		r.W = math.Max(r.W, minW)
		r.H = math.Max(r.H, minH)
	}
	return ClampInto(r, c.BoundsW, c.BoundsH)
}

// Default returns the starting rect for a w x h image: centred at 80% of each
// dimension, narrowed to ratio when one is set.
func Default(w, h, ratio float64) geom.Rect {
	r := geom.R(w*0.1, h*0.1, w*0.8, h*0.8)
	if ratio <= 0 {
		return r
	}
	return Constrain(r, Constraint{BoundsW: w, BoundsH: h, Ratio: ratio})
}

// Square returns the largest square centred on r that fits inside it.
func Square(r geom.Rect) geom.Rect {
	s := math.Min(r.W, r.H)
	c := r.Center()
	return geom.R(c.X-s/2, c.Y-s/2, s, s)
}
