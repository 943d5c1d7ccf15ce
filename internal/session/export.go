package session

import (
	"fmt"
	"image"

	"github.com/example/pixelsuite/internal/batch"
	"github.com/example/pixelsuite/internal/crop"
	"github.com/example/pixelsuite/internal/export"
	"github.com/example/pixelsuite/internal/mask"
	"github.com/example/pixelsuite/internal/watermark"
)

// Tool names the edit an export applies.
type Tool int

const (
	ToolNone Tool = iota
	ToolCrop
	ToolWatermark
	ToolMask
)

var toolNames = [...]string{"none", "crop", "watermark", "mask"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// ParseTool maps a tool name to a Tool.
func ParseTool(s string) (Tool, bool) {
	for i, n := range toolNames {
		if n == s {
			return Tool(i), true
		}
	}
	return ToolNone, false
}

// Suffix is appended to exported file names.
func (t Tool) Suffix() string {
	switch t {
	case ToolCrop:
		return "cropped"
	case ToolWatermark:
		return "watermarked"
	case ToolMask:
		return "masked"
	}
	return "copy"
}

// Render applies tool to image id at its native resolution. The bool reports
// whether the result relies on transparency.
func (s *Session) Render(id string, t Tool) (image.Image, bool, error) {
	im, ok := s.byID[id]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownImage, id)
	}
	switch t {
	case ToolCrop:
		r, circle, err := s.CropFor(id)
		if err != nil {
			return nil, false, err
		}
		return crop.Export(im.Img, r, circle), circle, nil
	case ToolWatermark:
		out, err := watermark.Apply(im.Img, s.RuleFor(id))
		if err != nil {
			return nil, false, &export.ImageError{ID: id, Op: "watermark", Err: err}
		}
		return out, false, nil
	case ToolMask:
		out, err := mask.Export(im.Img, s.MaskFor(id))
		if err != nil {
			return nil, false, &export.ImageError{ID: id, Op: "mask", Err: err}
		}
		return out, false, nil
	}
	return im.Img, false, nil
}

// Export renders and encodes image id, naming the output after the imported
// file.
func (s *Session) Export(id string, t Tool, o export.Options) (export.Output, error) {
	img, alpha, err := s.Render(id, t)
	if err != nil {
		return export.Output{}, err
	}
	o.Alpha = o.Alpha || alpha
	out, err := export.Encode(img, s.byID[id].Name, t.Suffix(), o)
	if err != nil {
		return export.Output{}, &export.ImageError{ID: id, Op: "encode", Err: err}
	}
	return out, nil
}

// Items lists every image as a batch item, in import order.
func (s *Session) Items() []batch.Item {
	items := make([]batch.Item, len(s.images))
	for i, im := range s.images {
		items[i] = batch.Item{ID: im.ID, Name: im.Name}
	}
	return items
}
