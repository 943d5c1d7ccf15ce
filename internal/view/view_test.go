package view

import (
	"math"
	"math/rand"
	"testing"

	"github.com/example/pixelsuite/internal/geom"
)

var rotations = []Rotation{Rotate0, Rotate90, Rotate180, Rotate270}

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestNormalizeRotation(t *testing.T) {
	cases := map[int]Rotation{
		0: Rotate0, 90: Rotate90, 180: Rotate180, 270: Rotate270,
		360: Rotate0, -90: Rotate270, -180: Rotate180, 450: Rotate90, -450: Rotate270,
	}
	for in, want := range cases {
		if got := NormalizeRotation(in); got != want {
			t.Errorf("NormalizeRotation(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRoundTripIntegerPointsExact(t *testing.T) {
	const w, h = 37.0, 23.0
	for _, r := range rotations {
		for y := 0.0; y <= h; y++ {
			for x := 0.0; x <= w; x++ {
				p := geom.Pt(x, y)
				if got := EffectiveToOriginal(OriginalToEffective(p, r, w, h), r, w, h); got != p {
					t.Fatalf("rot %d: %v -> %v", r, p, got)
				}
				effW, effH := EffectiveSize(w, h, r)
				if x <= effW && y <= effH {
					if got := OriginalToEffective(EffectiveToOriginal(p, r, w, h), r, w, h); got != p {
						t.Fatalf("rot %d inverse: %v -> %v", r, p, got)
					}
				}
			}
		}
	}
}

func TestRoundTripRandomPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		w := 1 + rng.Float64()*4000
		h := 1 + rng.Float64()*4000
		p := geom.Pt(rng.Float64()*w, rng.Float64()*h)
		for _, r := range rotations {
			got := EffectiveToOriginal(OriginalToEffective(p, r, w, h), r, w, h)
			if !near(got.X, p.X, 1e-9) || !near(got.Y, p.Y, 1e-9) {
				t.Fatalf("rot %d: %v -> %v", r, p, got)
			}
		}
	}
}

func TestRoundTripWithFlip(t *testing.T) {
	v := New()
	v.SetImageSize(640, 480)
	v.SetContainerSize(800, 600)
	pts := []geom.Point{{X: 0, Y: 0}, {X: 640, Y: 480}, {X: 13, Y: 200}, {X: 639.5, Y: 0.25}}
	for _, r := range rotations {
		v.SetRotation(r)
		for _, fh := range []bool{false, true} {
			for _, fv := range []bool{false, true} {
				v.flipH, v.flipV = fh, fv
				for _, p := range pts {
					if got := v.EffectiveToOriginal(v.OriginalToEffective(p)); got != p {
						t.Fatalf("rot %d flip %v/%v: %v -> %v", r, fh, fv, p, got)
					}
				}
			}
		}
	}
}

func TestScenarioRotate180(t *testing.T) {
	v := New()
	v.SetImageSize(800, 600)
	v.SetContainerSize(1024, 768)
	v.RotateRight90()
	v.RotateRight90()
	st, ok := v.State()
	if !ok {
		t.Fatal("expected state")
	}
	if st.Rotation != Rotate180 {
		t.Fatalf("rotation %d", st.Rotation)
	}
	if st.EffectiveW != 800 || st.EffectiveH != 600 {
		t.Fatalf("effective %vx%v", st.EffectiveW, st.EffectiveH)
	}
	if got := v.OriginalToEffective(geom.Pt(10, 10)); got != geom.Pt(790, 590) {
		t.Fatalf("got %v", got)
	}
}

func TestScenarioRotate90(t *testing.T) {
	v := New()
	v.SetImageSize(1000, 500)
	v.SetContainerSize(1024, 768)
	v.RotateRight90()
	st, _ := v.State()
	if st.EffectiveW != 500 || st.EffectiveH != 1000 {
		t.Fatalf("effective %vx%v", st.EffectiveW, st.EffectiveH)
	}
	if got := v.OriginalToEffective(geom.Pt(0, 0)); got != geom.Pt(500, 0) {
		t.Fatalf("origin -> %v", got)
	}
	if got := v.OriginalToEffective(geom.Pt(1000, 500)); got != geom.Pt(0, 1000) {
		t.Fatalf("far corner -> %v", got)
	}
}

func TestRectMappingIsExact(t *testing.T) {
	r := geom.R(10, 20, 100, 50)
	for _, rot := range rotations {
		e := OriginalRectToEffective(r, rot, 400, 300)
		if back := EffectiveRectToOriginal(e, rot, 400, 300); back != r {
			t.Fatalf("rot %d: %v -> %v -> %v", rot, r, e, back)
		}
		if rot.Odd() && (e.W != r.H || e.H != r.W) {
			t.Fatalf("rot %d did not swap size: %v", rot, e)
		}
	}
}

func TestBoxCenteredAtFit(t *testing.T) {
	v := New(WithPadding(10))
	v.SetImageSize(400, 200)
	v.SetContainerSize(620, 620)
	st, _ := v.State()
	want := geom.R(10, 160, 600, 300)
	if st.Box != want {
		t.Fatalf("box %v, want %v", st.Box, want)
	}
	v.RotateRight90()
	st, _ = v.State()
	if st.Box != geom.R(160, 10, 300, 600) {
		t.Fatalf("rotated box %v", st.Box)
	}
}

func TestZoomClamp(t *testing.T) {
	v := New()
	v.SetImageSize(100, 100)
	v.SetContainerSize(200, 200)
	for i := 0; i < 100; i++ {
		v.ZoomIn()
	}
	if v.Zoom() != DefaultMaxZoom {
		t.Fatalf("zoom %v", v.Zoom())
	}
	for i := 0; i < 100; i++ {
		v.ZoomOut()
	}
	if v.Zoom() != DefaultMinZoom {
		t.Fatalf("zoom %v", v.Zoom())
	}
	v.SetZoom(math.NaN())
	if v.Zoom() != DefaultMinZoom {
		t.Fatalf("NaN changed zoom to %v", v.Zoom())
	}
}

func TestPanClamp(t *testing.T) {
	v := New(WithPadding(0))
	v.SetImageSize(100, 100)
	v.SetContainerSize(200, 200)
	v.PanBy(geom.Pt(1e6, -1e6))
	p := v.Pan()
	if p.X != 200 || p.Y != -200 {
		t.Fatalf("pan %v", p)
	}
	v.SetPan(geom.Pt(math.Inf(1), math.NaN()))
	if p := v.Pan(); p != (geom.Point{}) {
		t.Fatalf("non-finite pan %v", p)
	}
}

func TestFitAndReset(t *testing.T) {
	v := New()
	v.SetImageSize(300, 200)
	v.SetContainerSize(500, 400)
	v.ZoomIn()
	v.PanBy(geom.Pt(5, 5))
	v.RotateLeft90()
	v.FlipHorizontal()
	v.Fit()
	if v.Zoom() != 1 || v.Pan() != (geom.Point{}) {
		t.Fatalf("fit left zoom %v pan %v", v.Zoom(), v.Pan())
	}
	if v.Rotation() != Rotate270 {
		t.Fatalf("fit changed rotation to %d", v.Rotation())
	}
	if h, _ := v.Flip(); !h {
		t.Fatal("fit cleared flip")
	}
	v.Reset()
	h, vv := v.Flip()
	if v.Rotation() != Rotate0 || h || vv {
		t.Fatalf("reset left rotation %d flip %v/%v", v.Rotation(), h, vv)
	}
}

func TestWheelZoomKeepsAnchor(t *testing.T) {
	v := New()
	v.SetImageSize(800, 600)
	v.SetContainerSize(1000, 700)
	cursors := []geom.Point{{X: 300, Y: 250}, {X: 500, Y: 350}, {X: 700, Y: 600}, {X: 260, Y: 30}}
	for _, rot := range rotations {
		v.Reset()
		v.SetRotation(rot)
		for _, c := range cursors {
			for _, ticks := range []float64{1, -1, 3, -2} {
				before, _ := v.ScreenToOriginal(c)
				v.WheelZoom(c, ticks)
				after, _ := v.OriginalToScreen(before)
				if !near(after.X, c.X, 1e-6) || !near(after.Y, c.Y, 1e-6) {
					t.Fatalf("rot %d ticks %v: cursor %v drifted to %v", rot, ticks, c, after)
				}
			}
		}
	}
}

func TestNoStateWithoutContainer(t *testing.T) {
	v := New()
	v.SetImageSize(10, 10)
	if _, ok := v.State(); ok {
		t.Fatal("expected no state before the container is sized")
	}
	if _, ok := v.EffectiveToScreen(geom.Pt(1, 1)); ok {
		t.Fatal("expected mapping to fail without state")
	}
}

func TestSubscribeNotifiesOnChangeOnly(t *testing.T) {
	v := New()
	var calls int
	var last State
	cancel := v.Subscribe(func(s State) {
		calls++
		last = s
	})
	v.SetImageSize(100, 50)
	if calls != 0 {
		t.Fatalf("notified without container: %d", calls)
	}
	v.SetContainerSize(300, 300)
	if calls != 1 {
		t.Fatalf("calls %d", calls)
	}
	v.Fit()
	if calls != 1 {
		t.Fatalf("unchanged fit notified: %d", calls)
	}
	v.ZoomIn()
	if calls != 2 || last.Zoom != DefaultZoomStep {
		t.Fatalf("calls %d zoom %v", calls, last.Zoom)
	}
	cancel()
	v.ZoomIn()
	if calls != 2 {
		t.Fatalf("notified after cancel: %d", calls)
	}
}
