// Package export encodes edited images to PNG, JPEG or WEBP and decodes
// imported ones.
package export

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Format is an output encoding.
type Format int

const (
	PNG Format = iota
	JPEG
	WEBP
)

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case WEBP:
		return "webp"
	}
	return "png"
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case WEBP:
		return ".webp"
	}
	return ".png"
}

// ParseFormat accepts a format name, an extension or a media type.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "image/"), ".")
	switch s {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WEBP, nil
	}
	return PNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromName guesses the format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	return ParseFormat(filepath.Ext(name))
}

// Quality maps a 0..100 slider value to an encoder quality in [0.1, 1].
func Quality(q float64) float64 {
	if math.IsNaN(q) {
		return 1
	}
	return math.Min(1, math.Max(0.1, q/100))
}

// SuggestName derives an output file name: the base name without its
// extension, the suffix joined with a dash, and the format's extension.
func SuggestName(name, suffix string, f Format) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "image"
	}
	if suffix != "" {
		base += "-" + suffix
	}
	return base + f.Ext()
}
