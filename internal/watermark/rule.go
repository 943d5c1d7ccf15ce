// Package watermark places text or logo stamps on an image, either as one
// draggable stamp or as a seamlessly wrapping tiled grid, and composites them
// identically for preview and export.
package watermark

import (
	"image"
	"image/color"
	"math"

	"github.com/example/pixelsuite/internal/geom"
)

// Mode selects single or tiled placement.
type Mode int

const (
	ModeSingle Mode = iota
	ModeTile
)

// Align is the horizontal alignment of multi-line text.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ParseAlign maps "left", "center" or "right" to an Align.
func ParseAlign(s string) (Align, bool) {
	switch s {
	case "left":
		return AlignLeft, true
	case "center", "centre":
		return AlignCenter, true
	case "right":
		return AlignRight, true
	}
	return AlignLeft, false
}

// Content is what gets stamped. A non-nil Logo wins over Text.
type Content struct {
	Text        string
	FontSize    float64
	Color       color.RGBA
	Align       Align
	StrokeColor color.RGBA
	StrokeWidth int

	Logo      image.Image
	LogoScale float64
}

// Rule fully describes a watermark. Offset is the stamp's top-left as a
// fraction of the image size in single mode, and the grid shift as a fraction
// of one cell in tile mode.
type Rule struct {
	Mode    Mode
	Offset  geom.Point
	Rows    int
	Cols    int
	Stagger bool
	Margin  float64

	Opacity float64
	Angle   float64 // degrees, clockwise
	Content Content
}

// DefaultRule is a half-transparent white text stamp in the bottom-right.
func DefaultRule() Rule {
	return Rule{
		Mode:    ModeSingle,
		Offset:  geom.Pt(1, 1),
		Rows:    3,
		Cols:    3,
		Margin:  24,
		Opacity: 0.5,
		Content: Content{
			Text:        "pixelsuite",
			FontSize:    48,
			Color:       color.RGBA{255, 255, 255, 255},
			Align:       AlignCenter,
			StrokeColor: color.RGBA{0, 0, 0, 255},
			StrokeWidth: 2,
			LogoScale:   1,
		},
	}
}

// normalised returns r with counts, opacity and scale in their valid ranges.
func (r Rule) normalised() Rule {
	if r.Rows < 1 {
		r.Rows = 1
	}
	if r.Cols < 1 {
		r.Cols = 1
	}
	if !geom.Finite(r.Opacity) {
		r.Opacity = 1
	}
	r.Opacity = geom.Clamp(r.Opacity, 0, 1)
	if !geom.Finite(r.Angle) {
		r.Angle = 0
	}
	if r.Content.LogoScale <= 0 || !geom.Finite(r.Content.LogoScale) {
		r.Content.LogoScale = 1
	}
	if r.Content.FontSize <= 0 || !geom.Finite(r.Content.FontSize) {
		r.Content.FontSize = DefaultRule().Content.FontSize
	}
	return r
}

// WrapSigned maps v into (-period/2, period/2] by modulo. It returns 0 for a
// non-positive or non-finite period and for non-finite v.
func WrapSigned(v, period float64) float64 {
	if !(period > 0) || !geom.Finite(period) || !geom.Finite(v) {
		return 0
	}
	m := math.Mod(v, period)
	half := period / 2
	if m > half {
		m -= period
	} else if m <= -half {
		m += period
	}
	return m
}
