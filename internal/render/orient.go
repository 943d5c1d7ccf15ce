package render

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/example/pixelsuite/internal/view"
)

// Orient bakes a view orientation into pixels: flips are applied in the image's
// own axes first, then the clockwise rotation.
func Orient(img image.Image, rot view.Rotation, flipH, flipV bool) *image.NRGBA {
	out := imaging.Clone(img)
	if flipH {
		out = imaging.FlipH(out)
	}
	if flipV {
		out = imaging.FlipV(out)
	}
	switch rot {
	case view.Rotate90:
		// imaging rotates counter-clockwise.
		out = imaging.Rotate270(out)
	case view.Rotate180:
		out = imaging.Rotate180(out)
	case view.Rotate270:
		out = imaging.Rotate90(out)
	}
	return out
}
