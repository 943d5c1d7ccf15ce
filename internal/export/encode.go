package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
)

// DefaultQuality is the slider value used when none is given.
const DefaultQuality = 92

// Options selects the encoding of one output.
type Options struct {
	Format  Format
	Quality float64 // 0..100
	// Alpha marks output that depends on transparency, such as a circular
	// crop. It is always written as PNG.
	Alpha bool
}

// Output is an encoded image ready to save or copy.
type Output struct {
	Data     []byte
	Filename string
	Format   Format
}

// Resolve returns the format that will actually be written.
func (o Options) Resolve() Format {
	if o.Alpha {
		return PNG
	}
	return o.Format
}

// Encode encodes img and names it after name with suffix.
func Encode(img image.Image, name, suffix string, o Options) (Output, error) {
	f := o.Resolve()
	var buf bytes.Buffer
	if err := EncodeTo(&buf, img, f, o.Quality); err != nil {
		return Output{}, err
	}
	return Output{Data: buf.Bytes(), Filename: SuggestName(name, suffix, f), Format: f}, nil
}

// EncodeTo writes img to w as f at quality q (0..100).
func EncodeTo(w io.Writer, img image.Image, f Format, q float64) error {
	switch f {
	case PNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	case JPEG:
		opts := &jpeg.Options{Quality: int(math.Round(Quality(q) * 100))}
		if err := jpeg.Encode(w, img, opts); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
	case WEBP:
		data, err := encodeWebP(img, Quality(q))
		if err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, f)
	}
	return nil
}

// Save writes out into dir and returns the full path.
func Save(dir string, out Output) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, out.Filename)
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return "", &ImageError{ID: out.Filename, Op: "save", Err: err}
	}
	return path, nil
}
