// Package config loads the rc configuration: output defaults, view and tool
// tuning, notification toggles and inline themes.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/pixelsuite/internal/theme"
)

// View tunes the view transform.
type View struct {
	Padding   float64
	ZoomStep  float64
	WheelStep float64
	MinZoom   float64
	MaxZoom   float64
}

// Crop tunes the crop tool.
type Crop struct {
	MinSize float64
	Ratio   float64 // width/height, 0 for free
}

// Mask tunes the mask painter.
type Mask struct {
	Effect     string
	Brush      float64
	BlockSize  int
	BlurRadius float64
}

// Notify holds notification settings.
type Notify struct {
	Export bool
	Batch  bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	OutputDir string
	Format    string
	Quality   float64

	View   View
	Crop   Crop
	Mask   Mask
	Notify Notify
	Themes map[string]*theme.Theme
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Format:  "png",
		Quality: 92,
		View: View{
			Padding:   16,
			ZoomStep:  1.2,
			WheelStep: 1.05,
			MinZoom:   0.1,
			MaxZoom:   10,
		},
		Crop: Crop{MinSize: 24},
		Mask: Mask{Effect: "mosaic", Brush: 32, BlockSize: 16, BlurRadius: 8},
		Themes: make(map[string]*theme.Theme),
	}
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.OutputDir != "" {
		fmt.Fprintf(&sb, "output_dir = %s\n", c.OutputDir)
	}
	fmt.Fprintf(&sb, "format = %s\n", c.Format)
	fmt.Fprintf(&sb, "quality = %s\n\n", num(c.Quality))

	sb.WriteString("[view]\n")
	fmt.Fprintf(&sb, "padding = %s\n", num(c.View.Padding))
	fmt.Fprintf(&sb, "zoom_step = %s\n", num(c.View.ZoomStep))
	fmt.Fprintf(&sb, "wheel_step = %s\n", num(c.View.WheelStep))
	fmt.Fprintf(&sb, "min_zoom = %s\n", num(c.View.MinZoom))
	fmt.Fprintf(&sb, "max_zoom = %s\n\n", num(c.View.MaxZoom))

	sb.WriteString("[crop]\n")
	fmt.Fprintf(&sb, "min_size = %s\n", num(c.Crop.MinSize))
	fmt.Fprintf(&sb, "ratio = %s\n\n", num(c.Crop.Ratio))

	sb.WriteString("[mask]\n")
	fmt.Fprintf(&sb, "effect = %s\n", c.Mask.Effect)
	fmt.Fprintf(&sb, "brush = %s\n", num(c.Mask.Brush))
	fmt.Fprintf(&sb, "block_size = %d\n", c.Mask.BlockSize)
	fmt.Fprintf(&sb, "blur_radius = %s\n\n", num(c.Mask.BlurRadius))

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "batch = %v\n", c.Notify.Batch)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		for _, line := range theme.Fields(c.Themes[name]) {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
