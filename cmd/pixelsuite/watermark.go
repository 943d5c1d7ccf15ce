package main

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/pixelsuite/internal/export"
	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/session"
	"github.com/example/pixelsuite/internal/theme"
	"github.com/example/pixelsuite/internal/watermark"
)

type watermarkCmd struct {
	command
	out outputFlags

	text        string
	logo        string
	logoScale   float64
	fontSize    float64
	color       string
	strokeColor string
	strokeWidth int
	align       string
	opacity     float64
	angle       float64
	tile        bool
	rows        int
	cols        int
	stagger     bool
	margin      float64
	preset      string
	offset      string
}

func parseWatermarkCmd(args []string, r *root) (*watermarkCmd, error) {
	def := watermark.DefaultRule()
	c := &watermarkCmd{command: newCommand(r, "watermark")}
	c.fs.Usage = usageFunc(c)
	c.out.register(c.fs, r.config)
	c.fs.StringVar(&c.text, "text", def.Content.Text, "watermark text, \\n separates lines")
	c.fs.StringVar(&c.logo, "logo", "", "image file stamped instead of text")
	c.fs.Float64Var(&c.logoScale, "logo-scale", def.Content.LogoScale, "logo scale factor")
	c.fs.Float64Var(&c.fontSize, "size", def.Content.FontSize, "font size in pixels")
	c.fs.StringVar(&c.color, "color", theme.Hex(def.Content.Color), "text color as #RRGGBB[AA] or an SVG name")
	c.fs.StringVar(&c.strokeColor, "stroke-color", theme.Hex(def.Content.StrokeColor), "outline color as #RRGGBB[AA] or an SVG name")
	c.fs.IntVar(&c.strokeWidth, "stroke-width", def.Content.StrokeWidth, "outline width in pixels")
	c.fs.StringVar(&c.align, "align", "center", "text alignment: left, center or right")
	c.fs.Float64Var(&c.opacity, "opacity", def.Opacity, "stamp opacity 0-1")
	c.fs.Float64Var(&c.angle, "angle", def.Angle, "rotation in degrees clockwise")
	c.fs.BoolVar(&c.tile, "tile", false, "repeat the stamp over the whole image")
	c.fs.IntVar(&c.rows, "rows", def.Rows, "tile rows")
	c.fs.IntVar(&c.cols, "cols", def.Cols, "tile columns")
	c.fs.BoolVar(&c.stagger, "stagger", false, "offset every other tile row by half a cell")
	c.fs.Float64Var(&c.margin, "margin", def.Margin, "preset margin in pixels")
	c.fs.StringVar(&c.preset, "preset", "bottom-right", "single stamp anchor such as top-left or center")
	c.fs.StringVar(&c.offset, "offset", "", "x,y: the stamp's top-left as fractions of the image, overriding -preset; with -tile, the grid shift as fractions of one cell")
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() == 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

// rule builds the watermark rule from the flags.
func (c *watermarkCmd) rule() (watermark.Rule, error) {
	r := watermark.DefaultRule()
	r.Content.Text = unescapeNewlines(c.text)
	r.Content.FontSize = c.fontSize
	r.Content.StrokeWidth = c.strokeWidth
	r.Content.LogoScale = c.logoScale
	var err error
	if r.Content.Color, err = parseColor(c.color); err != nil {
		return r, fmt.Errorf("-color: %w", err)
	}
	if r.Content.StrokeColor, err = parseColor(c.strokeColor); err != nil {
		return r, fmt.Errorf("-stroke-color: %w", err)
	}
	align, ok := watermark.ParseAlign(c.align)
	if !ok {
		return r, fmt.Errorf("-align: unknown alignment %q", c.align)
	}
	r.Content.Align = align
	if c.logo != "" {
		logo, err := export.Load(c.logo)
		if err != nil {
			return r, err
		}
		r.Content.Logo = logo
	}
	r.Opacity = c.opacity
	r.Angle = c.angle
	r.Rows, r.Cols = c.rows, c.cols
	r.Stagger = c.stagger
	r.Margin = c.margin
	if c.tile {
		r.Mode = watermark.ModeTile
		r.Offset = geom.Point{}
	}
	if c.offset != "" {
		v, err := parseFloats(c.offset, 2)
		if err != nil {
			return r, fmt.Errorf("-offset: %w", err)
		}
		r.Offset = geom.Pt(v[0], v[1])
	}
	return r, nil
}

func (c *watermarkCmd) Run() error {
	rule, err := c.rule()
	if err != nil {
		return usageErrorf(c, "%v", err)
	}
	preset, ok := watermark.ParsePreset(c.preset)
	if !ok {
		return usageErrorf(c, "-preset: unknown anchor %q", c.preset)
	}
	s, inputs, err := c.openSession(c.fs.Args(), session.WithDefaultRule(rule))
	if err != nil {
		return err
	}
	if !c.tile && c.offset == "" {
		// Presets depend on each image's size, so anchor every image on its own.
		for _, im := range s.Images() {
			if err := s.Activate(im.ID); err != nil {
				return err
			}
			s.Watermark().ApplyPreset(preset)
		}
		s.Commit()
	}
	return c.export(s, inputs, session.ToolWatermark, &c.out)
}

// parseColor accepts hex notation or an SVG colour name such as "gold".
func parseColor(s string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return theme.ParseColor(s)
}

func unescapeNewlines(s string) string {
	out := make([]rune, 0, len(s))
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] == '\\' && i+1 < len(rs) && rs[i+1] == 'n' {
			out = append(out, '\n')
			i++
			continue
		}
		out = append(out, rs[i])
	}
	return string(out)
}
