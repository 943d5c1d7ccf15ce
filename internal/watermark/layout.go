package watermark

import (
	"math"

	"github.com/example/pixelsuite/internal/geom"
)

// Preset is one of the nine anchor positions for a single stamp.
type Preset int

const (
	PresetTopLeft Preset = iota
	PresetTop
	PresetTopRight
	PresetLeft
	PresetCenter
	PresetRight
	PresetBottomLeft
	PresetBottom
	PresetBottomRight
)

var presetNames = [...]string{"top-left", "top", "top-right", "left", "center", "right", "bottom-left", "bottom", "bottom-right"}

func (p Preset) String() string {
	if p < 0 || int(p) >= len(presetNames) {
		return "unknown"
	}
	return presetNames[p]
}

// ParsePreset maps a preset name such as "bottom-right" to a Preset.
func ParsePreset(s string) (Preset, bool) {
	for i, n := range presetNames {
		if n == s {
			return Preset(i), true
		}
	}
	return PresetCenter, false
}

// PresetOrigin returns the stamp top-left for preset p on a w x h image.
func PresetOrigin(p Preset, w, h, sw, sh, margin float64) geom.Point {
	col, row := int(p)%3, int(p)/3
	pick := func(i int, size, stamp float64) float64 {
		switch i {
		case 0:
			return margin
		case 1:
			return (size - stamp) / 2
		}
		return size - stamp - margin
	}
	return clampOrigin(geom.Pt(pick(col, w, sw), pick(row, h, sh)), w, h, sw, sh)
}

func clampOrigin(p geom.Point, w, h, sw, sh float64) geom.Point {
	return geom.Pt(geom.Clamp(p.X, 0, math.Max(w-sw, 0)), geom.Clamp(p.Y, 0, math.Max(h-sh, 0)))
}

// ApplyPreset moves a single-mode rule to preset p for a stamp of sw x sh on a
// w x h image.
func ApplyPreset(r Rule, p Preset, w, h, sw, sh float64) Rule {
	o := PresetOrigin(p, w, h, sw, sh, r.Margin)
	r.Mode = ModeSingle
	r.Offset = geom.Pt(o.X/w, o.Y/h)
	return r
}

// SingleOrigin resolves a single-mode rule to the stamp's top-left on a w x h
// image, keeping the stamp inside the image.
func SingleOrigin(r Rule, w, h, sw, sh float64) geom.Point {
	return clampOrigin(geom.Pt(r.Offset.X*w, r.Offset.Y*h), w, h, sw, sh)
}

// Cell returns the tile cell size for r on a w x h image.
func Cell(r Rule, w, h float64) (cw, ch float64) {
	r = r.normalised()
	return w / float64(r.Cols), h / float64(r.Rows)
}

// periods returns the wrap periods of the tile offset. With stagger the
// pattern only repeats every second row.
func periods(r Rule, cw, ch float64) (px, py float64) {
	if r.Stagger {
		return cw, 2 * ch
	}
	return cw, ch
}

// TileOffset returns the wrapped offset of a tile rule in pixels.
func TileOffset(r Rule, w, h float64) geom.Point {
	cw, ch := Cell(r, w, h)
	px, py := periods(r, cw, ch)
	return geom.Pt(WrapSigned(r.Offset.X*cw, px), WrapSigned(r.Offset.Y*ch, py))
}

// DragTile shifts a tile rule by d pixels on a w x h image and stores the
// wrapped result.
func DragTile(r Rule, d geom.Point, w, h float64) Rule {
	cw, ch := Cell(r, w, h)
	px, py := periods(r, cw, ch)
	ox := WrapSigned(r.Offset.X*cw+d.X, px)
	oy := WrapSigned(r.Offset.Y*ch+d.Y, py)
	r.Offset = geom.Pt(ox/cw, oy/ch)
	return r
}

// DragSingle moves a single-mode stamp by d pixels, clamped to the image.
func DragSingle(r Rule, d geom.Point, w, h, sw, sh float64) Rule {
	o := SingleOrigin(r, w, h, sw, sh).Add(d)
	o = clampOrigin(o, w, h, sw, sh)
	r.Offset = geom.Pt(o.X/w, o.Y/h)
	return r
}

// Centres returns the centre of every stamp to draw for r on a w x h image.
// Tiled rules include an extra ring of cells beyond the image so a wrapped
// offset never shows a seam.
func Centres(r Rule, w, h, sw, sh float64) []geom.Point {
	r = r.normalised()
	if r.Mode == ModeSingle {
		o := SingleOrigin(r, w, h, sw, sh)
		return []geom.Point{o.Add(geom.Pt(sw/2, sh/2))}
	}
	cw, ch := Cell(r, w, h)
	off := TileOffset(r, w, h)
	ring := 1
	if r.Stagger {
		ring = 2
	}
	var out []geom.Point
	for row := -ring; row < r.Rows+ring; row++ {
		shift := 0.0
		if r.Stagger && ((row%2)+2)%2 == 1 {
			shift = cw / 2
		}
		for col := -ring; col < r.Cols+ring; col++ {
			out = append(out, geom.Pt(
				(float64(col)+0.5)*cw+off.X+shift,
				(float64(row)+0.5)*ch+off.Y,
			))
		}
	}
	return out
}
