package crop

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/example/pixelsuite/internal/geom"
)

// Export cuts r (original pixel space) out of src at native resolution. With
// circle set, pixels outside the inscribed circle become transparent.
func Export(src image.Image, r geom.Rect, circle bool) *image.NRGBA {
	b := src.Bounds()
	ir := r.Image().Add(b.Min).Intersect(b)
	out := imaging.Crop(src, ir)
	if circle {
		ClipCircle(out)
	}
	return out
}

// ClipCircle clears every pixel of img whose centre lies outside the circle
// inscribed in its bounds.
func ClipCircle(img *image.NRGBA) {
	b := img.Bounds()
	cx := float64(b.Min.X+b.Max.X) / 2
	cy := float64(b.Min.Y+b.Max.Y) / 2
	rad := math.Min(float64(b.Dx()), float64(b.Dy())) / 2
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) > rad {
				i := img.PixOffset(x, y)
				img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
			}
		}
	}
}
