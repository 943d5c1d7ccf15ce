package main

import (
	"github.com/example/pixelsuite/internal/mask"
	"github.com/example/pixelsuite/internal/session"
)

type maskCmd struct {
	command
	out     outputFlags
	effect  string
	block   int
	radius  float64
	brush   float64
	rects   rectList
	strokes strokeList
}

func parseMaskCmd(args []string, r *root) (*maskCmd, error) {
	c := &maskCmd{command: newCommand(r, "mask")}
	c.fs.Usage = usageFunc(c)
	c.out.register(c.fs, r.config)
	c.fs.StringVar(&c.effect, "effect", r.config.Mask.Effect, "mosaic or blur")
	c.fs.IntVar(&c.block, "block", r.config.Mask.BlockSize, "mosaic block size in pixels")
	c.fs.Float64Var(&c.radius, "radius", r.config.Mask.BlurRadius, "blur radius in pixels")
	c.fs.Float64Var(&c.brush, "brush", r.config.Mask.Brush, "brush diameter for -stroke in pixels")
	c.fs.Var(&c.rects, "rect", "mask rect x,y,w,h in pixels of the first image, repeatable")
	c.fs.Var(&c.strokes, "stroke", "brush stroke x0,y0,x1,y1 in pixels of the first image, repeatable")
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() == 0 {
		return nil, &UsageError{of: c}
	}
	if len(c.rects) == 0 && len(c.strokes) == 0 {
		return nil, usageErrorf(c, "at least one -rect or -stroke is required")
	}
	return c, nil
}

func (c *maskCmd) Run() error {
	kind, err := mask.ParseEffect(c.effect)
	if err != nil {
		return usageErrorf(c, "-effect: %v", err)
	}
	eff := mask.Effect{Kind: kind, BlockSize: c.block, Radius: c.radius}
	s, inputs, err := c.openSession(c.fs.Args(), session.WithEffect(eff), session.WithBrush(c.brush))
	if err != nil {
		return err
	}
	eng := s.Mask().Engine()
	eng.SetEffect(eff)
	for _, r := range c.rects {
		eng.FillRect(r)
	}
	for _, st := range c.strokes {
		eng.Stroke(st[0], st[1], c.brush)
	}
	s.ApplyMaskToAll()
	return c.export(s, inputs, session.ToolMask, &c.out)
}
