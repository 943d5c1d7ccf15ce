package mask

import (
	"errors"
	"image"

	xdraw "golang.org/x/image/draw"
)

// ErrNoMask is returned when exporting a state without a buffer.
var ErrNoMask = errors.New("mask: empty state")

// Export applies s to target at target's own resolution. The mask is
// resampled with nearest-neighbour and the effect parameters are scaled by
// the width ratio so the output matches what the preview showed.
func Export(target image.Image, s State) (*image.RGBA, error) {
	return ExportWith(target, s, xdraw.NearestNeighbor)
}

// ExportWith is Export with a caller-chosen mask interpolator. A smoothing
// interpolator softens mask edges when upscaling.
func ExportWith(target image.Image, s State, interp xdraw.Interpolator) (*image.RGBA, error) {
	if s.Alpha == nil {
		return nil, ErrNoMask
	}
	b := target.Bounds()
	mw, _ := s.Size()
	if mw == 0 || b.Dx() == 0 {
		return nil, ErrNoMask
	}
	alpha := ResampleAlpha(s.Alpha, b.Dx(), b.Dy(), interp)
	eff := s.Effect.Scaled(float64(b.Dx()) / float64(mw))
	return Composite(target, RenderEffect(target, eff), alpha), nil
}
