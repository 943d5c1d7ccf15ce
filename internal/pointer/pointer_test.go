package pointer

import (
	"testing"

	"golang.org/x/exp/shiny/gesture"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/view"
)

func newView() *view.View {
	v := view.New(view.WithPadding(0))
	v.SetImageSize(400, 300)
	v.SetContainerSize(800, 600)
	return v
}

func TestDragPans(t *testing.T) {
	v := newView()
	c := New(v)
	c.Handle(mouse.Event{X: 100, Y: 100, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	c.Handle(mouse.Event{X: 130, Y: 90, Direction: mouse.DirNone})
	if got := v.Pan(); got != geom.Pt(30, -10) {
		t.Fatalf("pan during drag %v", got)
	}
	c.Handle(mouse.Event{X: 150, Y: 120, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if got := v.Pan(); got != geom.Pt(50, 20) {
		t.Fatalf("pan after release %v", got)
	}
	if c.Dragging() {
		t.Fatal("still dragging after release")
	}
	if c.Handle(mouse.Event{X: 400, Y: 400, Direction: mouse.DirNone}) {
		t.Fatal("hover should not be consumed")
	}
}

func TestDragIgnoredWhenDisabled(t *testing.T) {
	v := newView()
	c := New(v)
	c.Enabled = func() bool { return false }
	if c.Handle(mouse.Event{X: 1, Y: 1, Button: mouse.ButtonLeft, Direction: mouse.DirPress}) {
		t.Fatal("press consumed while disabled")
	}
}

func TestWheelZoomsAtCursor(t *testing.T) {
	v := newView()
	c := New(v)
	cursor := geom.Pt(500, 200)
	before, _ := v.ScreenToOriginal(cursor)
	if !c.Handle(mouse.Event{X: 500, Y: 200, Button: mouse.ButtonWheelUp, Direction: mouse.DirStep}) {
		t.Fatal("wheel not consumed")
	}
	if v.Zoom() != view.DefaultWheelStep {
		t.Fatalf("zoom %v", v.Zoom())
	}
	after, _ := v.OriginalToScreen(before)
	if d := after.Distance(cursor); d > 1e-6 {
		t.Fatalf("anchor drifted by %v", d)
	}
	c.Handle(mouse.Event{X: 500, Y: 200, Button: mouse.ButtonWheelDown, Direction: mouse.DirStep})
	if z := v.Zoom(); z < 0.999999 || z > 1.000001 {
		t.Fatalf("zoom after in/out %v", z)
	}
}

func TestSingleTouchPansMultiTouchIgnored(t *testing.T) {
	v := newView()
	c := New(v)
	c.Handle(touch.Event{X: 10, Y: 10, Sequence: 1, Type: touch.TypeBegin})
	c.Handle(touch.Event{X: 20, Y: 15, Sequence: 1, Type: touch.TypeMove})
	if got := v.Pan(); got != geom.Pt(10, 5) {
		t.Fatalf("single touch pan %v", got)
	}
	c.Handle(touch.Event{X: 100, Y: 100, Sequence: 2, Type: touch.TypeBegin})
	c.Handle(touch.Event{X: 60, Y: 60, Sequence: 1, Type: touch.TypeMove})
	c.Handle(touch.Event{X: 0, Y: 0, Sequence: 2, Type: touch.TypeMove})
	if got := v.Pan(); got != geom.Pt(10, 5) {
		t.Fatalf("multi touch moved pan to %v", got)
	}
	c.Handle(touch.Event{X: 0, Y: 0, Sequence: 2, Type: touch.TypeEnd})
	c.Handle(touch.Event{X: 70, Y: 65, Sequence: 1, Type: touch.TypeMove})
	if got := v.Pan(); got != geom.Pt(20, 10) {
		t.Fatalf("pan after lifting second finger %v", got)
	}
}

func TestGestureSuppressed(t *testing.T) {
	c := New(newView())
	if !c.Handle(gesture.Event{}) {
		t.Fatal("gesture events must be consumed")
	}
	if c.Handle("other") {
		t.Fatal("unrelated events must pass through")
	}
}
