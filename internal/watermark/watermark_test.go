package watermark

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"golang.org/x/mobile/event/mouse"

	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/view"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestWrapSignedBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100000; i++ {
		p := math.Exp(rng.NormFloat64() * 4)
		v := rng.NormFloat64() * math.Pow(10, float64(rng.Intn(12)))
		got := WrapSigned(v, p)
		if !(got > -p/2 && got <= p/2) {
			t.Fatalf("WrapSigned(%v, %v) = %v", v, p, got)
		}
	}
	cases := []struct{ v, p, want float64 }{
		{650, 300, 50},
		{150, 300, 150},
		{-150, 300, 150},
		{450, 300, 150},
		{-151, 300, 149},
		{0, 300, 0},
		{5, 0, 0},
		{math.NaN(), 10, 0},
		{math.Inf(1), 10, 0},
	}
	for _, c := range cases {
		if got := WrapSigned(c.v, c.p); got != c.want {
			t.Errorf("WrapSigned(%v, %v) = %v, want %v", c.v, c.p, got, c.want)
		}
	}
}

func tileRule(stagger bool) Rule {
	r := DefaultRule()
	r.Mode = ModeTile
	r.Cols, r.Rows = 4, 3
	r.Stagger = stagger
	r.Offset = geom.Point{}
	return r
}

func TestScenarioTileDragWraps(t *testing.T) {
	r := DragTile(tileRule(false), geom.Pt(650, 10), 1200, 900)
	off := TileOffset(r, 1200, 900)
	if math.Abs(off.X-50) > 1e-9 || math.Abs(off.Y-10) > 1e-9 {
		t.Fatalf("offset %v, want (50,10)", off)
	}
	fresh := tileRule(false)
	fresh.Offset = geom.Pt(50.0/300, 10.0/300)
	a, b := Centres(r, 1200, 900, 100, 60), Centres(fresh, 1200, 900, 100, 60)
	if len(a) != len(b) {
		t.Fatalf("lengths %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Distance(b[i]) > 1e-9 {
			t.Fatalf("stamp %d at %v, want %v", i, a[i], b[i])
		}
	}
}

// TestTileHasNoSeam compares the drawn stamps with an unbounded grid shifted by
// the raw, unwrapped drag.
func TestTileHasNoSeam(t *testing.T) {
	const w, h, sw, sh = 1200.0, 900.0, 100.0, 80.0
	rng := rand.New(rand.NewSource(11))
	for _, stagger := range []bool{false, true} {
		for i := 0; i < 200; i++ {
			d := geom.Pt(rng.NormFloat64()*2000, rng.NormFloat64()*2000)
			r := DragTile(tileRule(stagger), d, w, h)
			drawn := Centres(r, w, h, sw, sh)
			cw, ch := 300.0, 300.0
			for row := -40; row <= 40; row++ {
				for col := -40; col <= 40; col++ {
					x := (float64(col)+0.5)*cw + d.X
					if stagger && ((row%2)+2)%2 == 1 {
						x += cw / 2
					}
					y := (float64(row)+0.5)*ch + d.Y
					visible := x+sw/2 > 0 && x-sw/2 < w && y+sh/2 > 0 && y-sh/2 < h
					if !visible {
						continue
					}
					found := false
					for _, c := range drawn {
						if math.Abs(c.X-x) < 1e-6 && math.Abs(c.Y-y) < 1e-6 {
							found = true
							break
						}
					}
					if !found {
						t.Fatalf("stagger=%v drag %v: visible stamp at (%v,%v) missing", stagger, d, x, y)
					}
				}
			}
		}
	}
}

func TestPresets(t *testing.T) {
	const w, h, sw, sh, m = 1000.0, 800.0, 200.0, 100.0, 24.0
	cases := map[Preset]geom.Point{
		PresetTopLeft:     geom.Pt(m, m),
		PresetCenter:      geom.Pt(400, 350),
		PresetBottomRight: geom.Pt(w-sw-m, h-sh-m),
		PresetTop:         geom.Pt(400, m),
		PresetLeft:        geom.Pt(m, 350),
	}
	for p, want := range cases {
		if got := PresetOrigin(p, w, h, sw, sh, m); got != want {
			t.Errorf("%s: %v, want %v", p, got, want)
		}
		r := ApplyPreset(DefaultRule(), p, w, h, sw, sh)
		if got := SingleOrigin(r, w, h, sw, sh); got.Distance(want) > 1e-9 {
			t.Errorf("%s rule origin %v", p, got)
		}
	}
	if _, ok := ParsePreset("bottom-right"); !ok {
		t.Error("ParsePreset failed")
	}
}

func TestDragSingleClamps(t *testing.T) {
	r := DefaultRule()
	r.Offset = geom.Pt(0.1, 0.1)
	r = DragSingle(r, geom.Pt(5000, -5000), 1000, 500, 100, 50)
	if got := SingleOrigin(r, 1000, 500, 100, 50); got != geom.Pt(900, 0) {
		t.Fatalf("origin %v", got)
	}
}

func TestMeasureTextMultiline(t *testing.T) {
	one, err := MeasureText("Hello", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	two, err := MeasureText("Hello\nHello, world", 20, 3)
	if err != nil {
		t.Fatal(err)
	}
	if one.Height != 24 {
		t.Errorf("single line height %d, want 24", one.Height)
	}
	if two.Height != 48+6 {
		t.Errorf("two line height %d, want 54", two.Height)
	}
	if two.Width <= one.Width+6 {
		t.Errorf("wider line not measured: %d vs %d", two.Width, one.Width)
	}
}

func TestTextAlignment(t *testing.T) {
	c := DefaultRule().Content
	c.Text = "WWWWWWWW\nI"
	c.StrokeWidth = 0
	c.FontSize = 24
	inkX := func(a Align) (lo, hi int) {
		c.Align = a
		img, err := renderText(c)
		if err != nil {
			t.Fatal(err)
		}
		b := img.Bounds()
		lo, hi = b.Max.X, -1
		y0 := int(c.FontSize * LineHeight)
		for y := y0; y < b.Max.Y; y++ {
			for x := 0; x < b.Max.X; x++ {
				if img.RGBAAt(x, y).A > 0 {
					lo, hi = min(lo, x), max(hi, x)
				}
			}
		}
		return lo, hi
	}
	ll, _ := inkX(AlignLeft)
	_, rh := inkX(AlignRight)
	cl, ch := inkX(AlignCenter)
	if !(ll < cl && ch < rh) {
		t.Fatalf("second line positions left=%d centre=%d..%d right=%d", ll, cl, ch, rh)
	}
}

func TestApplyOpacity(t *testing.T) {
	base := solid(100, 100, color.RGBA{0, 0, 0, 255})
	r := DefaultRule()
	r.Content.Logo = solid(10, 10, color.RGBA{255, 0, 0, 255})
	r.Opacity = 0.5
	r.Offset = geom.Pt(0.2, 0.3)
	out, err := Apply(base, r)
	if err != nil {
		t.Fatal(err)
	}
	got := out.RGBAAt(25, 35)
	if got.R < 126 || got.R > 129 || got.G != 0 {
		t.Fatalf("blended pixel %+v", got)
	}
	if out.RGBAAt(5, 5) != (color.RGBA{0, 0, 0, 255}) {
		t.Fatal("pixel outside stamp changed")
	}
	if base.RGBAAt(25, 35) != (color.RGBA{0, 0, 0, 255}) {
		t.Fatal("Apply modified its input")
	}
}

func TestApplyRotatedStamp(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 200, 200))
	r := DefaultRule()
	r.Content.Logo = solid(80, 20, color.RGBA{0, 255, 0, 255})
	r.Opacity = 1
	r.Angle = 90
	r.Offset = geom.Pt(60.0/200, 90.0/200) // stamp centred at (100,100)
	out, err := Apply(base, r)
	if err != nil {
		t.Fatal(err)
	}
	if out.RGBAAt(100, 70).G == 0 {
		t.Fatal("rotated stamp should cover above the centre")
	}
	if out.RGBAAt(70, 100).G != 0 {
		t.Fatal("rotated stamp should no longer cover left of the centre")
	}
}

func TestToolTileDrag(t *testing.T) {
	v := view.New(view.WithPadding(0))
	v.SetImageSize(1200, 900)
	v.SetContainerSize(1200, 900)
	var changes int
	tool, err := NewTool(v, tileRule(false), func(Rule) { changes++ })
	if err != nil {
		t.Fatal(err)
	}
	tool.Handle(mouse.Event{X: 100, Y: 100, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	tool.Handle(mouse.Event{X: 750, Y: 110, Direction: mouse.DirNone})
	tool.Handle(mouse.Event{X: 750, Y: 110, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	off := TileOffset(tool.Rule(), 1200, 900)
	if math.Abs(off.X-50) > 1e-9 || math.Abs(off.Y-10) > 1e-9 {
		t.Fatalf("offset %v", off)
	}
	if changes < 2 {
		t.Fatalf("changes %d", changes)
	}
}

func TestToolSingleNeedsGrab(t *testing.T) {
	v := view.New(view.WithPadding(0))
	v.SetImageSize(400, 400)
	v.SetContainerSize(400, 400)
	r := DefaultRule()
	r.Content.Logo = solid(40, 40, color.RGBA{255, 255, 255, 255})
	r.Offset = geom.Pt(0.25, 0.25)
	tool, err := NewTool(v, r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tool.Begin(geom.Pt(10, 10)) {
		t.Fatal("press outside the stamp should not grab it")
	}
	if !tool.Begin(geom.Pt(120, 120)) {
		t.Fatal("press on the stamp should grab it")
	}
	tool.Update(geom.Pt(140, 100))
	tool.End()
	if got := SingleOrigin(tool.Rule(), 400, 400, 40, 40); got != geom.Pt(120, 80) {
		t.Fatalf("origin %v", got)
	}
}
