package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/pixelsuite/internal/config"
	"github.com/example/pixelsuite/internal/preview"
	"github.com/example/pixelsuite/internal/render"
	"github.com/example/pixelsuite/internal/session"
	"github.com/example/pixelsuite/internal/theme"
)

type previewCmd struct {
	command
	out      outputFlags
	tool     string
	width    int
	height   int
	watch    bool
	oriented bool

	transparent bool
	resample    string
	panButton   string
}

func parsePreviewCmd(args []string, r *root) (*previewCmd, error) {
	c := &previewCmd{command: newCommand(r, "preview")}
	c.fs.Usage = usageFunc(c)
	c.out.register(c.fs, r.config)
	c.fs.StringVar(&c.tool, "tool", "none", "starting tool: none, crop, watermark or mask")
	c.fs.IntVar(&c.width, "width", preview.DefaultWidth, "window width")
	c.fs.IntVar(&c.height, "height", preview.DefaultHeight, "window height")
	c.fs.BoolVar(&c.watch, "watch", true, "reload the theme when the config or theme file changes")
	c.fs.BoolVar(&c.oriented, "oriented", false, "save and copy images rotated and flipped as viewed")
	c.fs.BoolVar(&c.transparent, "transparent", false, "show transparent areas as transparent instead of a checkerboard")
	c.fs.StringVar(&c.resample, "resample", "nearest", "display resampling: nearest, approx, bilinear or catmull-rom")
	c.fs.StringVar(&c.panButton, "pan-button", "left", "mouse button that pans: left, middle or right")
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() == 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *previewCmd) Run() error {
	tool, ok := session.ParseTool(c.tool)
	if !ok {
		return usageErrorf(c, "unknown tool %q", c.tool)
	}
	opts, err := c.out.options()
	if err != nil {
		return err
	}
	interp, err := parseResampler(c.resample)
	if err != nil {
		return usageErrorf(c, "%v", err)
	}
	button, err := parsePanButton(c.panButton)
	if err != nil {
		return usageErrorf(c, "%v", err)
	}
	renderOpts := []render.Option{render.WithTransformer(interp)}
	if c.transparent {
		renderOpts = append(renderOpts, render.WithTransparentBackground())
	}
	s, inputs, err := c.openSession(c.fs.Args())
	if err != nil {
		return err
	}
	for _, it := range inputs.order {
		if err, ok := inputs.failed[it.ID]; ok {
			fmt.Fprintf(c.stderr, "%s: %v\n", it.Name, err)
		}
	}
	dir := c.out.dir
	if dir == "" {
		dir = filepath.Dir(inputs.path(s.ActiveID()))
	}
	ed := preview.New(s,
		preview.WithTheme(c.activeTheme),
		preview.WithTool(tool),
		preview.WithExportOptions(opts),
		preview.WithOutputDir(dir),
		preview.WithNotifier(c.notifier),
		preview.WithOrientedExport(c.oriented),
		preview.WithRenderOptions(renderOpts...),
		preview.WithPanButton(button),
	)
	w := &preview.Window{
		Editor: ed,
		Width:  c.width,
		Height: c.height,
		Title:  c.program + " - " + filepath.Base(inputs.path(s.ActiveID())),
	}
	if c.watch {
		w.Watch = c.watchFiles()
		w.Reload = c.reload
	}
	w.Run()
	return nil
}

// watchFiles lists the rc file, the dotenv file and a theme given by path.
func (c *previewCmd) watchFiles() []string {
	var files []string
	if p := config.NewLoader(version, c.configPath).GetConfigPath(); p != "" {
		files = append(files, p)
	}
	if c.envFile != "" {
		files = append(files, c.envFile)
	}
	if name := c.themeName; name != "" && (strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ".theme")) {
		files = append(files, name)
	}
	return files
}

func (c *previewCmd) reload([]string) (*theme.Theme, error) {
	if err := c.loadConfig(); err != nil {
		return nil, err
	}
	return c.resolveTheme(), nil
}

func parseResampler(name string) (xdraw.Transformer, error) {
	switch strings.ToLower(name) {
	case "", "nearest":
		return xdraw.NearestNeighbor, nil
	case "approx":
		return xdraw.ApproxBiLinear, nil
	case "bilinear":
		return xdraw.BiLinear, nil
	case "catmull-rom", "catmullrom":
		return xdraw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown resampler %q", name)
}

func parsePanButton(name string) (mouse.Button, error) {
	switch strings.ToLower(name) {
	case "", "left":
		return mouse.ButtonLeft, nil
	case "middle":
		return mouse.ButtonMiddle, nil
	case "right":
		return mouse.ButtonRight, nil
	}
	return mouse.ButtonNone, fmt.Errorf("unknown pan button %q", name)
}
