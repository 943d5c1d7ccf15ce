// Package theme holds the colours used to draw the canvas backdrop and the
// interactive overlays.
package theme

import (
	"image/color"
)

// Theme defines the colour palette for the editor canvas.
type Theme struct {
	Name string

	// Canvas
	Background   color.RGBA // Surface colour outside the image box
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
	CheckerSize  int

	// Crop overlay
	CropBorder    color.RGBA
	CropBorderAlt color.RGBA // Second dash colour
	CropShade     color.RGBA // Dims everything outside the crop rect
	HandleFill    color.RGBA
	HandleBorder  color.RGBA

	// Watermark and mask overlays
	StampOutline color.RGBA
	MaskPreview  color.RGBA // Rectangle tool preview while dragging
	BrushCursor  color.RGBA
}

// Default returns the hardcoded light theme used when nothing else loads.
func Default() *Theme {
	return &Theme{
		Name:          "Default",
		Background:    color.RGBA{230, 230, 230, 255},
		CheckerLight:  color.RGBA{220, 220, 220, 255},
		CheckerDark:   color.RGBA{192, 192, 192, 255},
		CheckerSize:   8,
		CropBorder:    color.RGBA{255, 255, 255, 255},
		CropBorderAlt: color.RGBA{0, 0, 0, 255},
		CropShade:     color.RGBA{0, 0, 0, 110},
		HandleFill:    color.RGBA{255, 255, 255, 255},
		HandleBorder:  color.RGBA{40, 40, 40, 255},
		StampOutline:  color.RGBA{0, 120, 215, 255},
		MaskPreview:   color.RGBA{220, 40, 40, 90},
		BrushCursor:   color.RGBA{220, 40, 40, 255},
	}
}
