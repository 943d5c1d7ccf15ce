package mask

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// Mosaic downsamples src to ceil(dim/block) cells and scales it back up, both
// with nearest-neighbour sampling, giving hard-edged blocks.
func Mosaic(src image.Image, block int) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if block <= 1 {
		draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
		return out
	}
	cw := int(math.Ceil(float64(b.Dx()) / float64(block)))
	ch := int(math.Ceil(float64(b.Dy()) / float64(block)))
	small := image.NewRGBA(image.Rect(0, 0, max(cw, 1), max(ch, 1)))
	xdraw.NearestNeighbor.Scale(small, small.Bounds(), src, b, draw.Src, nil)
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), draw.Src, nil)
	return out
}

// Blur applies a Gaussian blur of the given radius.
func Blur(src image.Image, radius float64) *image.RGBA {
	blurred := imaging.Blur(src, radius)
	out := image.NewRGBA(blurred.Bounds())
	draw.Draw(out, out.Bounds(), blurred, blurred.Bounds().Min, draw.Src)
	return out
}

// RenderEffect produces the full-size obscured layer for src.
func RenderEffect(src image.Image, e Effect) *image.RGBA {
	e = e.normalised()
	if e.Kind == EffectBlur {
		return Blur(src, e.Radius)
	}
	return Mosaic(src, e.BlockSize)
}

// Composite draws effect through alpha over a copy of base. Effect and alpha
// must match base's size.
func Composite(base, effect image.Image, alpha *image.Alpha) *image.RGBA {
	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)
	if alpha == nil {
		return out
	}
	draw.DrawMask(out, out.Bounds(), effect, effect.Bounds().Min, alpha, alpha.Rect.Min, draw.Over)
	return out
}

// ResampleAlpha scales a to w x h with the given interpolator, nearest by
// default.
func ResampleAlpha(a *image.Alpha, w, h int, interp xdraw.Interpolator) *image.Alpha {
	if a.Rect.Dx() == w && a.Rect.Dy() == h {
		out := image.NewAlpha(image.Rect(0, 0, w, h))
		draw.Draw(out, out.Rect, a, a.Rect.Min, draw.Src)
		return out
	}
	if interp == nil {
		interp = xdraw.NearestNeighbor
	}
	out := image.NewAlpha(image.Rect(0, 0, w, h))
	interp.Scale(out, out.Rect, a, a.Rect, draw.Src, nil)
	return out
}
