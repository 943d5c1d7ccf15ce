package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/webp"
)

// Decode reads PNG, JPEG or WEBP data into an RGBA image with a zero origin
// and reports the detected format name.
func Decode(data []byte) (*image.RGBA, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	return ToRGBA(img), format, nil
}

// Load decodes the file at path.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ImageError{ID: path, Op: "load", Err: err}
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, &ImageError{ID: path, Op: "decode", Err: err}
	}
	return img, nil
}

// ToRGBA copies img into a new zero-origin RGBA image unless it already is one.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
