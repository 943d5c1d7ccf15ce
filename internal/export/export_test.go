package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 30), uint8(y * 40), 90, 255})
		}
	}
	return img
}

func TestQuality(t *testing.T) {
	cases := map[float64]float64{0: 0.1, 5: 0.1, 50: 0.5, 92: 0.92, 100: 1, 150: 1, -3: 0.1}
	for in, want := range cases {
		if got := Quality(in); got != want {
			t.Errorf("Quality(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSuggestName(t *testing.T) {
	cases := []struct {
		name, suffix string
		f            Format
		want         string
	}{
		{"photo.jpg", "cropped", PNG, "photo-cropped.png"},
		{"/tmp/a/b.test.png", "watermarked", JPEG, "b.test-watermarked.jpg"},
		{"shot", "", WEBP, "shot.webp"},
		{"", "masked", PNG, "image-masked.png"},
	}
	for _, c := range cases {
		if got := SuggestName(c.name, c.suffix, c.f); got != c.want {
			t.Errorf("SuggestName(%q, %q, %v) = %q, want %q", c.name, c.suffix, c.f, got, c.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": PNG, "JPG": JPEG, ".jpeg": JPEG, "image/webp": WEBP} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err %v", err)
	}
	if f, err := FormatFromName("x/y.JPEG"); err != nil || f != JPEG {
		t.Fatalf("FormatFromName = %v, %v", f, err)
	}
}

func TestAlphaForcesPNG(t *testing.T) {
	out, err := Encode(sample(), "photo.jpg", "circle", Options{Format: JPEG, Quality: 80, Alpha: true})
	if err != nil {
		t.Fatal(err)
	}
	if out.Format != PNG || out.Filename != "photo-circle.png" {
		t.Fatalf("output %v %q", out.Format, out.Filename)
	}
	if _, err := png.Decode(bytes.NewReader(out.Data)); err != nil {
		t.Fatalf("not a png: %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := sample()
	for _, f := range []Format{PNG, JPEG} {
		out, err := Encode(src, "in.png", "x", Options{Format: f, Quality: 100})
		if err != nil {
			t.Fatal(err)
		}
		img, name, err := Decode(out.Data)
		if err != nil {
			t.Fatal(err)
		}
		if name != f.String() {
			t.Fatalf("decoded as %s, want %s", name, f)
		}
		if img.Bounds() != src.Bounds() {
			t.Fatalf("bounds %v", img.Bounds())
		}
		if f == PNG && img.RGBAAt(3, 2) != src.RGBAAt(3, 2) {
			t.Fatal("png not lossless")
		}
	}
}

func TestWebPWithoutImagick(t *testing.T) {
	if WebPAvailable {
		t.Skip("built with imagick")
	}
	_, err := Encode(sample(), "a.png", "", Options{Format: WEBP})
	if !errors.Is(err, ErrWebPUnavailable) {
		t.Fatalf("err %v", err)
	}
}

func TestDecodeUnknown(t *testing.T) {
	if _, _, err := Decode([]byte("not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err %v", err)
	}
}

func TestLoadReportsImageError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	var ie *ImageError
	if !errors.As(err, &ie) || ie.Op != "load" {
		t.Fatalf("err %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("cause lost: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out, err := Encode(sample(), "a.png", "copy", Options{Format: PNG})
	if err != nil {
		t.Fatal(err)
	}
	path, err := Save(dir, out)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "a-copy.png" {
		t.Fatalf("path %s", path)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.RGBAAt(7, 5) != sample().RGBAAt(7, 5) {
		t.Fatal("pixel mismatch")
	}
}

func TestToRGBANormalisesOrigin(t *testing.T) {
	sub := sample().SubImage(image.Rect(2, 2, 5, 5))
	out := ToRGBA(sub)
	if out.Rect.Min != (image.Point{}) || out.Rect.Dx() != 3 {
		t.Fatalf("rect %v", out.Rect)
	}
	if out.RGBAAt(0, 0) != sample().RGBAAt(2, 2) {
		t.Fatal("pixel mismatch")
	}
}
