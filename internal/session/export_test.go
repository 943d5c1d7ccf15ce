package session

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/example/pixelsuite/internal/crop"
	"github.com/example/pixelsuite/internal/export"
	"github.com/example/pixelsuite/internal/geom"
)

func TestRenderCropUsesNativeRect(t *testing.T) {
	s, a, b := newSession(t)
	s.Crop().SetRect(geom.R(10, 10, 50, 40))
	img, alpha, err := s.Render(a, ToolCrop)
	if err != nil {
		t.Fatal(err)
	}
	if alpha || img.Bounds().Dx() != 50 || img.Bounds().Dy() != 40 {
		t.Fatalf("crop %v alpha=%v", img.Bounds(), alpha)
	}
	img, _, err = s.Render(b, ToolCrop)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 320 {
		t.Fatalf("b default crop %v", img.Bounds())
	}
}

func TestExportCircleForcesPNG(t *testing.T) {
	s, a, _ := newSession(t)
	s.Crop().SetCircle()
	if s.Crop().Mode() != crop.ModeCircle {
		t.Fatal("not circle")
	}
	out, err := s.Export(a, ToolCrop, export.Options{Format: export.JPEG, Quality: 90})
	if err != nil {
		t.Fatal(err)
	}
	if out.Format != export.PNG || out.Filename != "a-cropped.png" {
		t.Fatalf("out %v %q", out.Format, out.Filename)
	}
	img, err := png.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Fatal("circle corner not transparent")
	}
}

func TestExportMaskAndWatermark(t *testing.T) {
	s, a, b := newSession(t)
	out, err := s.Export(b, ToolMask, export.Options{Format: export.PNG})
	if err != nil {
		t.Fatal(err)
	}
	if out.Filename != "b-masked.png" {
		t.Fatalf("name %q", out.Filename)
	}
	out, err = s.Export(a, ToolWatermark, export.Options{Format: export.JPEG, Quality: 50})
	if err != nil {
		t.Fatal(err)
	}
	if out.Format != export.JPEG || out.Filename != "a-watermarked.jpg" {
		t.Fatalf("out %v %q", out.Format, out.Filename)
	}
}

func TestItemsFollowImportOrder(t *testing.T) {
	s, a, b := newSession(t)
	items := s.Items()
	if len(items) != 2 || items[0].ID != a || items[1].ID != b || items[1].Name != "b.png" {
		t.Fatalf("items %+v", items)
	}
	if tool, ok := ParseTool("mask"); !ok || tool != ToolMask || tool.String() != "mask" {
		t.Fatalf("ParseTool = %v %v", tool, ok)
	}
}
