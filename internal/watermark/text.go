package watermark

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// LineHeight is the per-line advance as a multiple of the font size.
const LineHeight = 1.2

var (
	fontOnce  sync.Once
	fontErr   error
	goRegular *opentype.Font

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

func faceForSize(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		goRegular, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(goRegular, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	faces[size] = f
	return f, nil
}

// TextMetrics is the measured footprint of a multi-line text stamp.
type TextMetrics struct {
	Lines      []string
	LineWidths []int
	Width      int // widest line plus stroke padding on both sides
	Height     int
	LineH      float64
	Pad        int
}

// MeasureText lays out text at size with stroke padding pad.
func MeasureText(text string, size float64, pad int) (TextMetrics, error) {
	face, err := faceForSize(size)
	if err != nil {
		return TextMetrics{}, err
	}
	if pad < 0 {
		pad = 0
	}
	m := TextMetrics{Lines: strings.Split(text, "\n"), LineH: size * LineHeight, Pad: pad}
	widest := 0
	for _, l := range m.Lines {
		w := font.MeasureString(face, l).Ceil()
		m.LineWidths = append(m.LineWidths, w)
		widest = max(widest, w)
	}
	m.Width = widest + 2*pad
	m.Height = int(math.Ceil(float64(len(m.Lines))*m.LineH)) + 2*pad
	return m, nil
}

// renderText rasterises c.Text into a tight RGBA stamp.
func renderText(c Content) (*image.RGBA, error) {
	m, err := MeasureText(c.Text, c.FontSize, c.StrokeWidth)
	if err != nil {
		return nil, err
	}
	face, _ := faceForSize(c.FontSize)
	img := image.NewRGBA(image.Rect(0, 0, max(m.Width, 1), max(m.Height, 1)))
	metrics := face.Metrics()
	asc := float64(metrics.Ascent.Ceil())
	desc := float64(metrics.Descent.Ceil())
	widest := m.Width - 2*m.Pad

	dots := make([]fixed.Point26_6, len(m.Lines))
	for i, lw := range m.LineWidths {
		x := m.Pad
		switch c.Align {
		case AlignCenter:
			x += (widest - lw) / 2
		case AlignRight:
			x += widest - lw
		}
		base := float64(m.Pad) + float64(i)*m.LineH + (m.LineH-(asc+desc))/2 + asc
		dots[i] = fixed.P(x, int(math.Round(base)))
	}

	if sw := c.StrokeWidth; sw > 0 && c.StrokeColor.A > 0 {
		d := &font.Drawer{Dst: img, Src: image.NewUniform(c.StrokeColor), Face: face}
		for dy := -sw; dy <= sw; dy++ {
			for dx := -sw; dx <= sw; dx++ {
				if dx*dx+dy*dy > sw*sw || (dx == 0 && dy == 0) {
					continue
				}
				for i, l := range m.Lines {
					d.Dot = dots[i].Add(fixed.P(dx, dy))
					d.DrawString(l)
				}
			}
		}
	}
	d := &font.Drawer{Dst: img, Src: image.NewUniform(c.Color), Face: face}
	for i, l := range m.Lines {
		d.Dot = dots[i]
		d.DrawString(l)
	}
	return img, nil
}

// renderLogo scales the logo by c.LogoScale.
func renderLogo(c Content) *image.RGBA {
	b := c.Logo.Bounds()
	w := max(int(math.Round(float64(b.Dx())*c.LogoScale)), 1)
	h := max(int(math.Round(float64(b.Dy())*c.LogoScale)), 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(img, img.Bounds(), c.Logo, b.Min, draw.Src)
		return img
	}
	xdraw.CatmullRom.Scale(img, img.Bounds(), c.Logo, b, draw.Src, nil)
	return img
}

// Stamp renders the content of r once, ready to be composited at each
// position.
func Stamp(r Rule) (*image.RGBA, error) {
	r = r.normalised()
	if r.Content.Logo != nil {
		return renderLogo(r.Content), nil
	}
	return renderText(r.Content)
}
