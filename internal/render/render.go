// Package render redraws the checkerboard backdrop and the transformed source
// image into a display surface whenever the view changes.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/pixelsuite/internal/logging"
	"github.com/example/pixelsuite/internal/theme"
	"github.com/example/pixelsuite/internal/view"
)

// ErrNoSurface is returned when a frame is requested before the surface has a
// non-zero size.
var ErrNoSurface = errors.New("render: drawing surface unavailable")

// Renderer owns the display surface for one view.
type Renderer struct {
	view        *view.View
	src         image.Image
	theme       *theme.Theme
	transparent bool
	interp      xdraw.Transformer

	surface  *image.RGBA
	backdrop *image.RGBA
	cancel   func()
	frames   int
	lastErr  error
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme selects the checkerboard swatches.
func WithTheme(t *theme.Theme) Option { return func(r *Renderer) { r.theme = t } }

// WithTransparentBackground clears to transparent instead of a checkerboard.
func WithTransparentBackground() Option { return func(r *Renderer) { r.transparent = true } }

// WithTransformer overrides the resampler used to draw the image.
func WithTransformer(t xdraw.Transformer) Option { return func(r *Renderer) { r.interp = t } }

// New creates a Renderer bound to v. It redraws on every view change until
// Close is called.
func New(v *view.View, opts ...Option) *Renderer {
	r := &Renderer{
		view:   v,
		theme:  theme.Default(),
		interp: xdraw.NearestNeighbor,
	}
	for _, o := range opts {
		o(r)
	}
	r.cancel = v.Subscribe(func(st view.State) {
		if err := r.draw(st); err != nil {
			r.lastErr = err
			logging.Logger().Warn("render: frame failed", "err", err)
		}
	})
	return r
}

// Close detaches the renderer from its view.
func (r *Renderer) Close() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// SetSource replaces the displayed image and updates the view's image size.
func (r *Renderer) SetSource(img image.Image) {
	r.src = img
	b := img.Bounds()
	if st, ok := r.view.State(); ok && st.ImageW == float64(b.Dx()) && st.ImageH == float64(b.Dy()) {
		// Same footprint so the view will not publish; redraw directly.
		r.lastErr = r.draw(st)
		return
	}
	r.view.SetImageSize(b.Dx(), b.Dy())
}

// SetTheme swaps the palette and redraws.
func (r *Renderer) SetTheme(t *theme.Theme) {
	r.theme = t
	r.backdrop = nil
	if st, ok := r.view.State(); ok {
		r.lastErr = r.draw(st)
	}
}

// Resize reallocates the surface and propagates the container size to the view.
func (r *Renderer) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		r.surface = nil
	} else if r.surface == nil || r.surface.Bounds().Dx() != w || r.surface.Bounds().Dy() != h {
		r.surface = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	before := r.frames
	r.view.SetContainerSize(float64(w), float64(h))
	if r.frames == before {
		if st, ok := r.view.State(); ok {
			r.lastErr = r.draw(st)
		}
	}
}

// Redraw draws a frame for the current view state.
func (r *Renderer) Redraw() error {
	st, ok := r.view.State()
	if !ok {
		return ErrNoSurface
	}
	r.lastErr = r.draw(st)
	return r.lastErr
}

// Surface returns the most recently drawn frame.
func (r *Renderer) Surface() *image.RGBA { return r.surface }

// Frames reports how many frames have been drawn.
func (r *Renderer) Frames() int { return r.frames }

// Err returns the error from the most recent frame, if any.
func (r *Renderer) Err() error { return r.lastErr }

func (r *Renderer) draw(st view.State) error {
	if r.surface == nil || r.surface.Bounds().Empty() {
		return ErrNoSurface
	}
	r.paintBackground()
	if r.src != nil {
		r.interp.Transform(r.surface, Matrix(st, r.src.Bounds()), r.src, r.src.Bounds(), draw.Over, nil)
	}
	r.frames++
	return nil
}

func (r *Renderer) paintBackground() {
	b := r.surface.Bounds()
	if r.transparent {
		draw.Draw(r.surface, b, image.Transparent, image.Point{}, draw.Src)
		return
	}
	if r.backdrop == nil || r.backdrop.Bounds() != b {
		r.backdrop = image.NewRGBA(b)
		Checkerboard(r.backdrop, b, r.theme.CheckerSize, r.theme.CheckerLight, r.theme.CheckerDark)
	}
	draw.Draw(r.surface, b, r.backdrop, image.Point{}, draw.Src)
}

// Checkerboard fills rect of dst with squares of the given size.
func Checkerboard(dst draw.Image, rect image.Rectangle, size int, light, dark color.Color) {
	if size <= 0 {
		size = 8
	}
	lu, du := image.NewUniform(light), image.NewUniform(dark)
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			src := lu
			if ((x/size)+(y/size))%2 != 0 {
				src = du
			}
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}

// quarter holds exact cos/sin values for the four rotation states.
var quarter = map[view.Rotation][2]float64{
	view.Rotate0:   {1, 0},
	view.Rotate90:  {0, 1},
	view.Rotate180: {-1, 0},
	view.Rotate270: {0, -1},
}

// Matrix returns the source-to-screen affine transform for st: translate the
// image centre to the origin, flip in local axes, scale, rotate clockwise, then
// move to the box centre.
func Matrix(st view.State, src image.Rectangle) f64.Aff3 {
	cs := quarter[st.Rotation]
	c, s := cs[0], cs[1]
	fx, fy := 1.0, 1.0
	if st.FlipH {
		fx = -1
	}
	if st.FlipV {
		fy = -1
	}
	scale := 1.0
	if st.EffectiveW > 0 {
		scale = st.Box.W / st.EffectiveW
	}
	a00, a01 := c*fx*scale, -s*fy*scale
	a10, a11 := s*fx*scale, c*fy*scale
	ox := float64(src.Min.X) + float64(src.Dx())/2
	oy := float64(src.Min.Y) + float64(src.Dy())/2
	center := st.Box.Center()
	return f64.Aff3{
		a00, a01, center.X - (a00*ox + a01*oy),
		a10, a11, center.Y - (a10*ox + a11*oy),
	}
}
