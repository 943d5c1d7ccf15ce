package main

import (
	"github.com/example/pixelsuite/internal/config"
	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/session"
)

type cropCmd struct {
	command
	out    outputFlags
	ratio  string
	circle bool
	rect   string
}

func parseCropCmd(args []string, r *root) (*cropCmd, error) {
	c := &cropCmd{command: newCommand(r, "crop")}
	c.fs.Usage = usageFunc(c)
	c.out.register(c.fs, r.config)
	c.fs.StringVar(&c.ratio, "ratio", "", "lock the crop to a width:height ratio such as 16:9")
	c.fs.BoolVar(&c.circle, "circle", false, "export a circular crop with a transparent surround")
	c.fs.StringVar(&c.rect, "rect", "", "crop rect x,y,w,h in pixels of the first image (default: centred 80%)")
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() == 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *cropCmd) Run() error {
	var opts []session.Option
	if c.ratio != "" {
		ratio, err := config.ParseRatio(c.ratio)
		if err != nil {
			return usageErrorf(c, "%v", err)
		}
		opts = append(opts, session.WithCropRatio(ratio))
	}
	var rect geom.Rect
	if c.rect != "" {
		var err error
		if rect, err = parseRect(c.rect); err != nil {
			return usageErrorf(c, "-rect: %v", err)
		}
	}
	s, inputs, err := c.openSession(c.fs.Args(), opts...)
	if err != nil {
		return err
	}
	if c.circle {
		s.Crop().SetCircle()
	}
	if c.rect != "" {
		s.Crop().SetRect(rect)
	}
	s.ApplyCropToAll()
	return c.export(s, inputs, session.ToolCrop, &c.out)
}
