package mask

import (
	"image"

	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/logging"
)

// Engine owns the mask buffer for one base image and the effect surface that
// is shown through it. The effect surface is only regenerated when the base or
// the effect parameters change.
type Engine struct {
	base   image.Image
	state  State
	effect *image.RGBA
	built  Effect
	builds int
}

// NewEngine creates an empty mask over base.
func NewEngine(base image.Image, e Effect) *Engine {
	b := base.Bounds()
	return &Engine{base: base, state: NewState(b.Dx(), b.Dy(), e.normalised())}
}

// Base returns the image the mask is painted against.
func (m *Engine) Base() image.Image { return m.base }

// SetBase swaps the base image. A mask painted at a different size is
// resampled to the new one.
func (m *Engine) SetBase(img image.Image) { m.Load(img, m.state) }

// Load swaps the base image and the mask together.
func (m *Engine) Load(img image.Image, s State) {
	m.base = img
	m.effect = nil
	m.Restore(s)
}

// State returns a copy of the current mask.
func (m *Engine) State() State { return m.state.Clone() }

// Restore replaces the mask with s, resampling it to the base size when the
// dimensions differ.
func (m *Engine) Restore(s State) {
	b := m.base.Bounds()
	if s.Alpha == nil {
		m.state = NewState(b.Dx(), b.Dy(), s.Effect.normalised())
		return
	}
	m.state = State{
		Alpha:  ResampleAlpha(s.Alpha, b.Dx(), b.Dy(), nil),
		Effect: s.Effect.normalised(),
	}
}

// Effect returns the active effect parameters.
func (m *Engine) Effect() Effect { return m.state.Effect }

// SetEffect changes the effect parameters.
func (m *Engine) SetEffect(e Effect) { m.state.Effect = e.normalised() }

// Clear erases the whole mask.
func (m *Engine) Clear() {
	clear(m.state.Alpha.Pix)
}

// Stroke paints a brush segment in original pixel space.
func (m *Engine) Stroke(p0, p1 geom.Point, diameter float64) {
	PaintStroke(m.state.Alpha, p0, p1, diameter)
}

// FillRect commits a rectangle in original pixel space.
func (m *Engine) FillRect(r geom.Rect) {
	PaintRect(m.state.Alpha, r)
}

// EffectSurface returns the full-size obscured layer, rebuilding it only when
// the parameters changed since the last call.
func (m *Engine) EffectSurface() *image.RGBA {
	if m.effect != nil && m.built == m.state.Effect {
		return m.effect
	}
	m.effect = RenderEffect(m.base, m.state.Effect)
	m.built = m.state.Effect
	m.builds++
	logging.Logger().Debug("mask effect rebuilt", "effect", m.built.Kind.String(), "block", m.built.BlockSize, "radius", m.built.Radius)
	return m.effect
}

// Builds counts effect surface regenerations.
func (m *Engine) Builds() int { return m.builds }

// Result composites the effect through the mask over the base at the base's
// resolution. It is the image the preview shows.
func (m *Engine) Result() *image.RGBA {
	return Composite(m.base, m.EffectSurface(), m.state.Alpha)
}
