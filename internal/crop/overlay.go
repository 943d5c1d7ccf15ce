package crop

import (
	"image"

	"github.com/example/pixelsuite/internal/render"
	"github.com/example/pixelsuite/internal/theme"
)

// DrawOverlay draws the shaded surround, the dashed border and the resize
// handles onto a rendered frame.
func (t *Tool) DrawOverlay(dst *image.RGBA, th *theme.Theme) {
	sr, ok := t.ScreenRect()
	if !ok {
		return
	}
	st, _ := t.view.State()
	box := st.Box.Image()
	r := sr.Image()
	if t.Circle() {
		render.ShadeOutsideCircle(dst, box, r, th.CropShade)
		c := sr.Center()
		render.StrokeCircle(dst, c.X, c.Y, sr.W/2, th.CropBorder)
	} else {
		render.ShadeOutside(dst, box, r, th.CropShade)
	}
	render.DashedRect(dst, r, 4, 1, th.CropBorder, th.CropBorderAlt)
	pts := handlePoints(sr)
	for _, h := range hitOrder {
		p := pts[h]
		render.Handle(dst, image.Pt(int(p.X), int(p.Y)), HandleSize, th.HandleFill, th.HandleBorder)
	}
}
