package watermark

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/logging"
)

// Apply composites r onto a copy of base at base's native resolution. The
// interactive preview renders this same output.
func Apply(base image.Image, r Rule) (*image.RGBA, error) {
	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)
	stamp, err := Stamp(r)
	if err != nil {
		return nil, err
	}
	Composite(out, stamp, r)
	return out, nil
}

// Composite draws stamp onto dst at every position r resolves to.
func Composite(dst *image.RGBA, stamp *image.RGBA, r Rule) {
	r = r.normalised()
	if r.Opacity == 0 {
		return
	}
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	sb := stamp.Bounds()
	sw, sh := float64(sb.Dx()), float64(sb.Dy())
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(r.Opacity * 255))})
	centres := Centres(r, w, h, sw, sh)
	logging.Logger().Debug("watermark: composite", "stamps", len(centres), "mode", r.Mode)

	rad := r.Angle * math.Pi / 180
	upright := math.Mod(r.Angle, 360) == 0
	for _, c := range centres {
		if upright {
			tl := image.Pt(int(math.Round(c.X-sw/2)), int(math.Round(c.Y-sh/2)))
			rect := image.Rectangle{Min: tl, Max: tl.Add(sb.Size())}
			if !rect.Overlaps(dst.Bounds()) {
				continue
			}
			draw.DrawMask(dst, rect, stamp, sb.Min, mask, image.Point{}, draw.Over)
			continue
		}
		if !reach(c, sw, sh).Overlaps(dst.Bounds()) {
			continue
		}
		xdraw.ApproxBiLinear.Transform(dst, rotateAbout(c, sw, sh, rad), stamp, sb, draw.Over,
			&xdraw.Options{SrcMask: mask})
	}
}

// reach bounds a stamp centred on c under any rotation.
func reach(c geom.Point, sw, sh float64) image.Rectangle {
	r := math.Hypot(sw, sh) / 2
	return geom.R(c.X-r, c.Y-r, 2*r, 2*r).Image()
}

// rotateAbout maps stamp pixels so the stamp's centre lands on c, rotated
// clockwise by rad.
func rotateAbout(c geom.Point, sw, sh, rad float64) f64.Aff3 {
	cos, sin := math.Cos(rad), math.Sin(rad)
	ox, oy := sw/2, sh/2
	return f64.Aff3{
		cos, -sin, c.X - (cos*ox - sin*oy),
		sin, cos, c.Y - (sin*ox + cos*oy),
	}
}

// StampRects returns the axis-aligned rect of each unrotated stamp, used to
// outline stamps over a preview.
func StampRects(r Rule, w, h, sw, sh float64) []geom.Rect {
	var out []geom.Rect
	for _, c := range Centres(r, w, h, sw, sh) {
		out = append(out, geom.R(c.X-sw/2, c.Y-sh/2, sw, sh))
	}
	return out
}
