package mask

import (
	"image"
	"math"

	"github.com/example/pixelsuite/internal/geom"
)

// PaintStroke fills a round-capped segment from p0 to p1 of the given diameter
// into a. Pixels are covered when their centre lies within diameter/2 of the
// segment, so consecutive segments join seamlessly.
func PaintStroke(a *image.Alpha, p0, p1 geom.Point, diameter float64) image.Rectangle {
	if diameter <= 0 {
		return image.Rectangle{}
	}
	r := diameter / 2
	box := geom.Bound(p0, p1).Inset(-r - 1).Image().Intersect(a.Rect)
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	l2 := dx*dx + dy*dy
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			t := 0.0
			if l2 > 0 {
				t = geom.Clamp(((px-p0.X)*dx+(py-p0.Y)*dy)/l2, 0, 1)
			}
			if math.Hypot(px-(p0.X+t*dx), py-(p0.Y+t*dy)) <= r {
				a.Pix[a.PixOffset(x, y)] = 0xFF
			}
		}
	}
	return box
}

// PaintRect fills r into a.
func PaintRect(a *image.Alpha, r geom.Rect) image.Rectangle {
	box := r.Image().Intersect(a.Rect)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		i := a.PixOffset(box.Min.X, y)
		for x := 0; x < box.Dx(); x++ {
			a.Pix[i+x] = 0xFF
		}
	}
	return box
}
