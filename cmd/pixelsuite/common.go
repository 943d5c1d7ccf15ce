package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/example/pixelsuite/internal/batch"
	"github.com/example/pixelsuite/internal/clipboard"
	"github.com/example/pixelsuite/internal/config"
	"github.com/example/pixelsuite/internal/export"
	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/mask"
	"github.com/example/pixelsuite/internal/render"
	"github.com/example/pixelsuite/internal/session"
	"github.com/example/pixelsuite/internal/view"
)

// command is the part every subcommand shares.
type command struct {
	*root
	fs   *flag.FlagSet
	name string
}

func newCommand(r *root, name string) command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	return command{root: r, fs: fs, name: name}
}

func (c *command) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *command) Program() string {
	return c.root.subcommand(c.name)
}

// outputFlags selects where and how results are written.
type outputFlags struct {
	dir         string
	format      string
	quality     float64
	toClipboard bool
	rotate      int
	flipH       bool
	flipV       bool
}

func (o *outputFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&o.dir, "out", cfg.OutputDir, "output directory (default: next to each input)")
	fs.StringVar(&o.format, "format", cfg.Format, "output format: png, jpeg or webp")
	fs.Float64Var(&o.quality, "quality", cfg.Quality, "jpeg/webp quality 0-100")
	fs.BoolVar(&o.toClipboard, "to-clipboard", false, "copy the result to the clipboard instead of writing a file")
	fs.IntVar(&o.rotate, "rotate", 0, "rotate the result clockwise by 0, 90, 180 or 270 degrees")
	fs.BoolVar(&o.flipH, "flip-h", false, "mirror the result horizontally")
	fs.BoolVar(&o.flipV, "flip-v", false, "mirror the result vertically")
}

// orient bakes the requested rotation and flips into img.
func (o *outputFlags) orient(img image.Image) image.Image {
	rot := view.NormalizeRotation(o.rotate)
	if rot == view.Rotate0 && !o.flipH && !o.flipV {
		return img
	}
	return render.Orient(img, rot, o.flipH, o.flipV)
}

// render applies tool to image id and the requested orientation.
func (o *outputFlags) render(s *session.Session, id string, tool session.Tool) (image.Image, bool, error) {
	img, alpha, err := s.Render(id, tool)
	if err != nil {
		return nil, false, err
	}
	return o.orient(img), alpha, nil
}

func (o *outputFlags) options() (export.Options, error) {
	f, err := export.ParseFormat(o.format)
	if err != nil {
		return export.Options{}, err
	}
	if f == export.WEBP && !export.WebPAvailable {
		return export.Options{}, export.ErrWebPUnavailable
	}
	if o.rotate%90 != 0 {
		return export.Options{}, fmt.Errorf("-rotate must be a multiple of 90, got %d", o.rotate)
	}
	return export.Options{Format: f, Quality: o.quality}, nil
}

// newSession builds a session tuned by cfg.
func newSession(cfg *config.Config, opts ...session.Option) (*session.Session, error) {
	v := view.New(
		view.WithPadding(cfg.View.Padding),
		view.WithZoomStep(cfg.View.ZoomStep),
		view.WithWheelStep(cfg.View.WheelStep),
		view.WithZoomLimits(cfg.View.MinZoom, cfg.View.MaxZoom),
	)
	kind, err := mask.ParseEffect(cfg.Mask.Effect)
	if err != nil {
		return nil, err
	}
	base := []session.Option{
		session.WithCropRatio(cfg.Crop.Ratio),
		session.WithCropMinSize(cfg.Crop.MinSize),
		session.WithEffect(mask.Effect{Kind: kind, BlockSize: cfg.Mask.BlockSize, Radius: cfg.Mask.BlurRadius}),
		session.WithBrush(cfg.Mask.Brush),
	}
	return session.New(v, append(base, opts...)...)
}

// expandInputs replaces each directory argument with the images directly
// inside it, sorted by name.
func expandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, err := export.FormatFromName(e.Name()); err == nil {
				names = append(names, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(names)
		out = append(out, names...)
	}
	return out, nil
}

// inputSet tracks where each session image came from. Inputs that failed to
// load stay in the set so the run reports them alongside the exports.
type inputSet struct {
	paths  map[string]string
	order  []batch.Item
	failed map[string]error
}

// path returns the input file behind session image id.
func (in *inputSet) path(id string) string { return in.paths[id] }

// loadInputs decodes every path into s. A file that cannot be read or decoded
// is recorded as failed and the rest still load; only a session that ends up
// empty is an error.
func loadInputs(s *session.Session, paths []string) (*inputSet, error) {
	in := &inputSet{paths: make(map[string]string, len(paths)), failed: map[string]error{}}
	for _, p := range paths {
		img, err := export.Load(p)
		if err != nil {
			id := "load:" + p
			in.failed[id] = err
			in.order = append(in.order, batch.Item{ID: id, Name: p})
			continue
		}
		id, err := s.Add(p, img)
		if err != nil {
			return nil, err
		}
		in.paths[id] = p
		in.order = append(in.order, batch.Item{ID: id, Name: p})
	}
	if s.Len() == 0 && len(in.order) > 0 {
		return nil, in.failed[in.order[0].ID]
	}
	return in, nil
}

// openSession expands args, creates a session and loads every input.
func (c *command) openSession(args []string, opts ...session.Option) (*session.Session, *inputSet, error) {
	paths, err := expandInputs(args)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, usageErrorf(c, "no input images")
	}
	s, err := newSession(c.config, opts...)
	if err != nil {
		return nil, nil, err
	}
	inputs, err := loadInputs(s, paths)
	if err != nil {
		return nil, nil, err
	}
	return s, inputs, nil
}

// export renders tool for every image in s through a batch run.
func (c *command) export(s *session.Session, inputs *inputSet, tool session.Tool, o *outputFlags) error {
	opts, err := o.options()
	if err != nil {
		return err
	}
	items := inputs.order
	if o.toClipboard {
		if len(items) != 1 {
			return fmt.Errorf("-to-clipboard needs exactly one input, got %d", len(items))
		}
		img, _, err := o.render(s, items[0].ID, tool)
		if err != nil {
			return err
		}
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		c.notifier.Copy(filepath.Base(inputs.path(items[0].ID)))
		fmt.Fprintln(c.stdout, "copied to clipboard")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var opt []batch.Option
	if len(items) > 1 {
		opt = append(opt, batch.WithNotifier(c.notifier), batch.WithProgress(func(p batch.Progress) {
			fmt.Fprintf(c.stderr, "[%d/%d] %s\n", p.Done, p.Total, p.Current.Name)
		}))
	}
	runner := batch.New(opt...)
	results, sum := runner.Run(ctx, items, func(ctx context.Context, it batch.Item) (string, error) {
		if err, ok := inputs.failed[it.ID]; ok {
			return "", err
		}
		img, alpha, err := o.render(s, it.ID, tool)
		if err != nil {
			return "", err
		}
		eo := opts
		eo.Alpha = alpha
		out, err := export.Encode(img, inputs.path(it.ID), tool.Suffix(), eo)
		if err != nil {
			return "", &export.ImageError{ID: it.ID, Op: "encode", Err: err}
		}
		dir := o.dir
		if dir == "" {
			dir = filepath.Dir(inputs.path(it.ID))
		}
		return export.Save(dir, out)
	})
	for _, res := range results {
		switch {
		case res.Skipped:
			fmt.Fprintf(c.stderr, "skipped %s\n", res.Name)
		case res.Err != nil:
			fmt.Fprintf(c.stderr, "%s: %v\n", res.Name, res.Err)
		default:
			fmt.Fprintln(c.stdout, res.Path)
		}
	}
	if len(items) == 1 && sum.Done == 1 {
		c.notifier.Export(results[0].Path)
	}
	if sum.Failed > 0 || sum.Skipped > 0 {
		return fmt.Errorf("%d of %d images failed, %d skipped", sum.Failed, len(items), sum.Skipped)
	}
	return nil
}

// parseFloats splits a comma separated list of n numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

// parseRect reads "x,y,w,h".
func parseRect(s string) (geom.Rect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return geom.Rect{}, err
	}
	if v[2] <= 0 || v[3] <= 0 {
		return geom.Rect{}, fmt.Errorf("rect %q must have a positive size", s)
	}
	return geom.R(v[0], v[1], v[2], v[3]), nil
}

// rectList collects a repeatable -rect flag.
type rectList []geom.Rect

func (l *rectList) String() string {
	parts := make([]string, len(*l))
	for i, r := range *l {
		parts[i] = fmt.Sprintf("%g,%g,%g,%g", r.X, r.Y, r.W, r.H)
	}
	return strings.Join(parts, " ")
}

func (l *rectList) Set(s string) error {
	r, err := parseRect(s)
	if err != nil {
		return err
	}
	*l = append(*l, r)
	return nil
}

// strokeList collects a repeatable -stroke x0,y0,x1,y1 flag.
type strokeList [][2]geom.Point

func (l *strokeList) String() string { return fmt.Sprint(len(*l), " strokes") }

func (l *strokeList) Set(s string) error {
	v, err := parseFloats(s, 4)
	if err != nil {
		return err
	}
	*l = append(*l, [2]geom.Point{geom.Pt(v[0], v[1]), geom.Pt(v[2], v[3])})
	return nil
}
