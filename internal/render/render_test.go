package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/theme"
	"github.com/example/pixelsuite/internal/view"
)

// gradient returns an image whose pixels encode their own coordinates.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	return img
}

func TestRendererNoSurface(t *testing.T) {
	v := view.New()
	r := New(v)
	defer r.Close()
	if err := r.Redraw(); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
}

func TestRendererIdentityAtScaleOne(t *testing.T) {
	src := gradient(40, 30)
	v := view.New(view.WithPadding(5))
	r := New(v, WithTransparentBackground())
	defer r.Close()
	r.SetSource(src)
	r.Resize(50, 40)
	if r.Frames() == 0 {
		t.Fatal("expected a frame after resize")
	}
	out := r.Surface()
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			if got, want := out.RGBAAt(x+5, y+5), src.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
	if out.RGBAAt(0, 0).A != 0 {
		t.Fatalf("expected transparent padding, got %+v", out.RGBAAt(0, 0))
	}
}

func TestRendererFollowsMapping(t *testing.T) {
	src := gradient(40, 20)
	v := view.New(view.WithPadding(0))
	r := New(v, WithTransparentBackground())
	defer r.Close()
	r.SetSource(src)
	r.Resize(40, 40)
	rotations := []view.Rotation{view.Rotate0, view.Rotate90, view.Rotate180, view.Rotate270}
	for _, rot := range rotations {
		for _, fh := range []bool{false, true} {
			v.Reset()
			v.SetRotation(rot)
			if fh {
				v.FlipHorizontal()
			}
			out := r.Surface()
			for _, p := range []image.Point{{0, 0}, {39, 0}, {3, 17}, {20, 10}} {
				// Sample the centre of the original pixel.
				s, ok := v.OriginalToScreen(geom.Pt(float64(p.X)+0.5, float64(p.Y)+0.5))
				if !ok {
					t.Fatal("no state")
				}
				got := out.RGBAAt(int(s.X), int(s.Y))
				if want := src.RGBAAt(p.X, p.Y); got != want {
					t.Fatalf("rot %d flip %v: original %v at screen %v got %+v want %+v", rot, fh, p, s, got, want)
				}
			}
		}
	}
}

func TestRendererRedrawsOnZoom(t *testing.T) {
	v := view.New()
	r := New(v)
	defer r.Close()
	r.SetSource(gradient(10, 10))
	r.Resize(100, 100)
	before := r.Frames()
	v.ZoomIn()
	if r.Frames() != before+1 {
		t.Fatalf("frames %d, want %d", r.Frames(), before+1)
	}
	r.Close()
	v.ZoomIn()
	if r.Frames() != before+1 {
		t.Fatal("closed renderer still drew")
	}
}

func TestCheckerboardUsesTheme(t *testing.T) {
	th := theme.Default()
	th.CheckerSize = 4
	v := view.New()
	r := New(v, WithTheme(th))
	defer r.Close()
	r.Resize(16, 16)
	r.SetSource(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	out := r.Surface()
	if out.RGBAAt(0, 0) != th.CheckerLight || out.RGBAAt(4, 0) != th.CheckerDark {
		t.Fatalf("unexpected swatches %+v %+v", out.RGBAAt(0, 0), out.RGBAAt(4, 0))
	}
}

func TestOrientMatchesMapping(t *testing.T) {
	src := gradient(6, 4)
	for _, rot := range []view.Rotation{view.Rotate0, view.Rotate90, view.Rotate180, view.Rotate270} {
		out := Orient(src, rot, true, false)
		b := out.Bounds()
		ew, eh := view.EffectiveSize(6, 4, rot)
		if b.Dx() != int(ew) || b.Dy() != int(eh) {
			t.Fatalf("rot %d bounds %v", rot, b)
		}
		v := view.New()
		v.SetImageSize(6, 4)
		v.SetRotation(rot)
		v.FlipHorizontal()
		e := v.OriginalToEffective(geom.Pt(1.5, 2.5))
		got := out.NRGBAAt(int(e.X), int(e.Y))
		want := src.RGBAAt(1, 2)
		if got.R != want.R || got.G != want.G {
			t.Fatalf("rot %d: effective %v holds %+v, want %+v", rot, e, got, want)
		}
	}
}

func TestDashedRectAlternates(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	c1 := color.RGBA{255, 0, 0, 255}
	c2 := color.RGBA{0, 0, 255, 255}
	DashedRect(img, image.Rect(2, 2, 18, 18), 3, 1, c1, c2)
	if img.RGBAAt(2, 2) != c1 || img.RGBAAt(5, 2) != c2 {
		t.Fatalf("dash colours %+v %+v", img.RGBAAt(2, 2), img.RGBAAt(5, 2))
	}
	if img.RGBAAt(10, 10).A != 0 {
		t.Fatal("interior should stay empty")
	}
}
