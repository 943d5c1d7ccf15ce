package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// FillRect blends col over rect of dst.
func FillRect(dst draw.Image, rect image.Rectangle, col color.Color) {
	draw.Draw(dst, rect.Intersect(dst.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// StrokeRect outlines rect with lines thick pixels wide, drawn inside rect.
func StrokeRect(dst draw.Image, rect image.Rectangle, col color.Color, thick int) {
	if thick <= 0 {
		thick = 1
	}
	FillRect(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), col)
	FillRect(dst, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), col)
	FillRect(dst, image.Rect(rect.Min.X, rect.Min.Y+thick, rect.Min.X+thick, rect.Max.Y-thick), col)
	FillRect(dst, image.Rect(rect.Max.X-thick, rect.Min.Y+thick, rect.Max.X, rect.Max.Y-thick), col)
}

// DashedRect outlines rect with alternating c1/c2 dashes of length dash.
func DashedRect(dst draw.Image, rect image.Rectangle, dash, thick int, c1, c2 color.Color) {
	if dash <= 0 {
		dash = 4
	}
	if thick <= 0 {
		thick = 1
	}
	// Walk the perimeter clockwise so dashes stay continuous around corners.
	edges := [4][2]image.Point{
		{rect.Min, {rect.Max.X - 1, rect.Min.Y}},
		{{rect.Max.X - 1, rect.Min.Y}, {rect.Max.X - 1, rect.Max.Y - 1}},
		{{rect.Max.X - 1, rect.Max.Y - 1}, {rect.Min.X, rect.Max.Y - 1}},
		{{rect.Min.X, rect.Max.Y - 1}, rect.Min},
	}
	step := 0
	for _, e := range edges {
		dx, dy := sign(e[1].X-e[0].X), sign(e[1].Y-e[0].Y)
		n := abs(e[1].X-e[0].X) + abs(e[1].Y-e[0].Y)
		for i := 0; i < n; i++ {
			col := c1
			if (step/dash)%2 == 1 {
				col = c2
			}
			x, y := e[0].X+dx*i, e[0].Y+dy*i
			// Thicken inward.
			ox, oy := -dy, dx
			for t := 0; t < thick; t++ {
				px, py := x+ox*t, y+oy*t
				if image.Pt(px, py).In(dst.Bounds()) {
					dst.Set(px, py, col)
				}
			}
			step++
		}
	}
}

// ShadeOutside dims everything in bounds that is not inside hole.
func ShadeOutside(dst draw.Image, bounds, hole image.Rectangle, col color.Color) {
	hole = hole.Intersect(bounds)
	if hole.Empty() {
		FillRect(dst, bounds, col)
		return
	}
	FillRect(dst, image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, hole.Min.Y), col)
	FillRect(dst, image.Rect(bounds.Min.X, hole.Max.Y, bounds.Max.X, bounds.Max.Y), col)
	FillRect(dst, image.Rect(bounds.Min.X, hole.Min.Y, hole.Min.X, hole.Max.Y), col)
	FillRect(dst, image.Rect(hole.Max.X, hole.Min.Y, bounds.Max.X, hole.Max.Y), col)
}

// ShadeOutsideCircle dims everything in bounds outside the circle inscribed in
// square.
func ShadeOutsideCircle(dst draw.Image, bounds, square image.Rectangle, col color.Color) {
	cx := float64(square.Min.X+square.Max.X) / 2
	cy := float64(square.Min.Y+square.Max.Y) / 2
	r := float64(square.Dx()) / 2
	u := image.NewUniform(col)
	b := bounds.Intersect(dst.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) > r {
				draw.Draw(dst, image.Rect(x, y, x+1, y+1), u, image.Point{}, draw.Over)
			}
		}
	}
}

// StrokeCircle draws a thin circle outline of radius r around (cx, cy).
func StrokeCircle(dst draw.Image, cx, cy, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	n := int(math.Ceil(2 * math.Pi * r))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x := int(math.Floor(cx + r*math.Cos(a)))
		y := int(math.Floor(cy + r*math.Sin(a)))
		if image.Pt(x, y).In(dst.Bounds()) {
			dst.Set(x, y, col)
		}
	}
}

// Handle draws a square resize handle of the given size centred on p.
func Handle(dst draw.Image, p image.Point, size int, fill, border color.Color) {
	hs := size / 2
	r := image.Rect(p.X-hs, p.Y-hs, p.X-hs+size, p.Y-hs+size)
	FillRect(dst, r, fill)
	StrokeRect(dst, r, border, 1)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
