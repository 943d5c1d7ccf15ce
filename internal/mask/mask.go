// Package mask paints a persistent alpha mask with brush and rectangle tools
// and composites a mosaic or blur effect through it onto the base image.
package mask

import (
	"fmt"
	"image"
	"math"
)

// EffectKind selects how masked pixels are obscured.
type EffectKind int

const (
	EffectMosaic EffectKind = iota
	EffectBlur
)

func (k EffectKind) String() string {
	if k == EffectBlur {
		return "blur"
	}
	return "mosaic"
}

// ParseEffect maps "mosaic" or "blur" to an EffectKind.
func ParseEffect(s string) (EffectKind, error) {
	switch s {
	case "mosaic", "pixelate":
		return EffectMosaic, nil
	case "blur":
		return EffectBlur, nil
	}
	return EffectMosaic, fmt.Errorf("unknown effect %q", s)
}

// Effect holds the parameters of the obscuring layer.
type Effect struct {
	Kind      EffectKind
	BlockSize int
	Radius    float64
}

// DefaultEffect is a 16 pixel mosaic.
func DefaultEffect() Effect {
	return Effect{Kind: EffectMosaic, BlockSize: 16, Radius: 8}
}

func (e Effect) normalised() Effect {
	if e.BlockSize < 1 {
		e.BlockSize = 1
	}
	if e.Radius < 0 || math.IsNaN(e.Radius) || math.IsInf(e.Radius, 0) {
		e.Radius = 0
	}
	return e
}

// Scaled returns the effect re-parameterised for an image f times as large so
// the result looks the same at the new resolution.
func (e Effect) Scaled(f float64) Effect {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return e
	}
	e.BlockSize = max(1, int(math.Round(float64(e.BlockSize)*f)))
	e.Radius *= f
	return e.normalised()
}

// State is the cached per-image mask: the painted alpha buffer plus the effect
// that was active when it was last painted. The buffer matches the image it
// was painted against.
type State struct {
	Alpha  *image.Alpha
	Effect Effect
}

// NewState returns an empty mask for a w x h image.
func NewState(w, h int, e Effect) State {
	return State{Alpha: image.NewAlpha(image.Rect(0, 0, w, h)), Effect: e}
}

// Clone deep-copies the alpha buffer.
func (s State) Clone() State {
	if s.Alpha == nil {
		return s
	}
	a := image.NewAlpha(s.Alpha.Rect)
	copy(a.Pix, s.Alpha.Pix)
	return State{Alpha: a, Effect: s.Effect}
}

// Empty reports whether nothing has been painted.
func (s State) Empty() bool {
	if s.Alpha == nil {
		return true
	}
	for _, v := range s.Alpha.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// Size returns the buffer dimensions.
func (s State) Size() (int, int) {
	if s.Alpha == nil {
		return 0, 0
	}
	return s.Alpha.Rect.Dx(), s.Alpha.Rect.Dy()
}
