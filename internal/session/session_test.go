package session

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/example/pixelsuite/internal/cache"
	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/view"
	"github.com/example/pixelsuite/internal/watermark"
)

func blank(w, h int) image.Image { return image.NewRGBA(image.Rect(0, 0, w, h)) }

func newSession(t *testing.T, opts ...Option) (*Session, string, string) {
	t.Helper()
	v := view.New()
	v.SetContainerSize(800, 600)
	s, err := New(v, opts...)
	if err != nil {
		t.Fatal(err)
	}
	a, err := s.Add("a.png", blank(200, 100))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Add("b.png", blank(400, 400))
	if err != nil {
		t.Fatal(err)
	}
	return s, a, b
}

func nearRect(a, b geom.Rect) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.W-b.W) < eps && math.Abs(a.H-b.H) < eps
}

func TestAddAssignsIDs(t *testing.T) {
	s, a, b := newSession(t)
	if a != "img-1" || b != "img-2" {
		t.Fatalf("ids %s %s", a, b)
	}
	if s.ActiveID() != a {
		t.Fatalf("active %s", s.ActiveID())
	}
	if w, h := s.View().ImageSize(); w != 200 || h != 100 {
		t.Fatalf("view image %vx%v", w, h)
	}
}

func TestDefaultCropIsCentred(t *testing.T) {
	s, _, _ := newSession(t)
	if got := s.Crop().Rect(); !nearRect(got, geom.R(20, 10, 160, 80)) {
		t.Fatalf("default crop %v", got)
	}
}

func TestSwitchRestoresPerImageState(t *testing.T) {
	s, a, b := newSession(t)
	s.Crop().SetRect(geom.R(20, 10, 100, 50))
	rule := watermark.DefaultRule()
	rule.Mode = watermark.ModeTile
	if err := s.Watermark().SetRule(rule); err != nil {
		t.Fatal(err)
	}
	s.Mask().Engine().FillRect(geom.R(0, 0, 10, 10))

	if err := s.Activate(b); err != nil {
		t.Fatal(err)
	}
	if got := s.Crop().Rect(); !nearRect(got, geom.R(40, 40, 320, 320)) {
		t.Fatalf("b crop %v", got)
	}
	if s.Watermark().Rule().Mode != watermark.ModeSingle {
		t.Fatal("b inherited a's rule")
	}
	if !s.Mask().Engine().State().Empty() {
		t.Fatal("b inherited a's mask")
	}

	if err := s.Activate(a); err != nil {
		t.Fatal(err)
	}
	if got := s.Crop().Rect(); !nearRect(got, geom.R(20, 10, 100, 50)) {
		t.Fatalf("a crop %v", got)
	}
	if s.Watermark().Rule().Mode != watermark.ModeTile {
		t.Fatal("a rule lost")
	}
	if s.Mask().Engine().State().Alpha.AlphaAt(5, 5).A != 0xFF {
		t.Fatal("a mask lost")
	}
}

func TestApplyCropToAll(t *testing.T) {
	s, _, b := newSession(t)
	s.Crop().SetRect(geom.R(0, 0, 100, 50))
	s.ApplyCropToAll()
	r, circle, err := s.CropFor(b)
	if err != nil {
		t.Fatal(err)
	}
	if circle || !nearRect(r, geom.R(0, 0, 200, 200)) {
		t.Fatalf("broadcast crop %v circle=%v", r, circle)
	}
	if _, src := s.Crops.Resolve(b); src != cache.SourceBroadcast {
		t.Fatalf("source %v", src)
	}
}

func TestApplyMaskToAllResamples(t *testing.T) {
	s, _, b := newSession(t)
	s.Mask().Engine().FillRect(geom.R(0, 0, 100, 100))
	s.ApplyMaskToAll()
	if err := s.Activate(b); err != nil {
		t.Fatal(err)
	}
	st := s.Mask().Engine().State()
	if w, h := st.Size(); w != 400 || h != 400 {
		t.Fatalf("mask %dx%d", w, h)
	}
	if st.Alpha.AlphaAt(150, 300).A != 0xFF || st.Alpha.AlphaAt(250, 10).A != 0 {
		t.Fatal("mask not resampled to b")
	}
}

func TestMaskForInactiveHasBuffer(t *testing.T) {
	s, _, b := newSession(t)
	m := s.MaskFor(b)
	if w, h := m.Size(); w != 400 || h != 400 {
		t.Fatalf("mask %dx%d", w, h)
	}
}

func TestRemovePurgesCaches(t *testing.T) {
	s, a, b := newSession(t)
	if err := s.Activate(b); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Crops.Get(a); !ok {
		t.Fatal("expected a's crop cached on switch")
	}
	if err := s.Remove(a); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Crops.Get(a); ok {
		t.Fatal("crop cache kept")
	}
	if _, ok := s.Rules.Get(a); ok {
		t.Fatal("rule cache kept")
	}
	if _, ok := s.Masks.Get(a); ok {
		t.Fatal("mask cache kept")
	}
	if s.Len() != 1 || s.ActiveID() != b {
		t.Fatalf("len %d active %s", s.Len(), s.ActiveID())
	}
}

func TestRemoveActiveActivatesNeighbour(t *testing.T) {
	s, a, b := newSession(t)
	if err := s.Remove(a); err != nil {
		t.Fatal(err)
	}
	if s.ActiveID() != b {
		t.Fatalf("active %s", s.ActiveID())
	}
	if w, _ := s.View().ImageSize(); w != 400 {
		t.Fatalf("view width %v", w)
	}
	if err := s.Remove(b); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Active(); ok {
		t.Fatal("expected no active image")
	}
}

func TestReselectClearsEverything(t *testing.T) {
	s, a, _ := newSession(t)
	s.ApplyRuleToAll()
	s.Reselect()
	if s.Len() != 0 || s.ActiveID() != "" {
		t.Fatal("images kept")
	}
	if _, ok := s.Rules.Broadcasted(); ok {
		t.Fatal("broadcast kept")
	}
	if err := s.Activate(a); !errors.Is(err, ErrUnknownImage) {
		t.Fatalf("err %v", err)
	}
	id, err := s.Add("c.png", blank(10, 10))
	if err != nil || id != "img-3" {
		t.Fatalf("id %s err %v", id, err)
	}
}

func TestCropRatioOption(t *testing.T) {
	s, _, b := newSession(t, WithCropRatio(1))
	r := s.Crop().Rect()
	if math.Abs(r.W-r.H) > 1e-9 {
		t.Fatalf("ratio not applied: %v", r)
	}
	if err := s.Activate(b); err != nil {
		t.Fatal(err)
	}
	if s.Crop().Ratio() != 1 {
		t.Fatalf("ratio %v", s.Crop().Ratio())
	}
}

func TestUnknownImage(t *testing.T) {
	s, _, _ := newSession(t)
	if err := s.Remove("img-9"); !errors.Is(err, ErrUnknownImage) {
		t.Fatalf("err %v", err)
	}
	if _, _, err := s.CropFor("img-9"); !errors.Is(err, ErrUnknownImage) {
		t.Fatalf("err %v", err)
	}
}
