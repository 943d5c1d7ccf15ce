package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/pixelsuite/internal/theme"
)

// Parse reads configuration from an io.Reader. Missing keys keep their
// defaults and unknown keys are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		key, value, ok := splitLine(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case current != nil:
			err = theme.SetField(current, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		case section == "view":
			err = setViewField(&cfg.View, key, value)
		case section == "crop":
			err = setCropField(&cfg.Crop, key, value)
		case section == "mask":
			err = setMaskField(&cfg.Mask, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("line %d: root section: %w", lineNo, err)
			}
			return nil, fmt.Errorf("line %d: section [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

// splitLine accepts "key = value" and "key: value", with optional quotes.
func splitLine(line string) (string, string, bool) {
	sep := strings.IndexAny(line, "=:")
	if sep < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:sep])
	value := strings.TrimSpace(line[sep+1:])
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return key, value, key != ""
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return f, nil
}

// ParseRatio reads a width/height ratio such as "16:9", "4/3" or "1.5".
func ParseRatio(s string) (float64, error) { return parseRatio("ratio", s) }

// parseRatio accepts "16:9", "16/9" or a plain number.
func parseRatio(key, value string) (float64, error) {
	for _, sep := range []string{":", "/", "x"} {
		if a, b, ok := strings.Cut(value, sep); ok {
			w, err1 := strconv.ParseFloat(strings.TrimSpace(a), 64)
			h, err2 := strconv.ParseFloat(strings.TrimSpace(b), 64)
			if err1 != nil || err2 != nil || h == 0 {
				return 0, fmt.Errorf("invalid ratio for key %s: %q", key, value)
			}
			return w / h, nil
		}
	}
	return parseFloat(key, value)
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "output_dir":
		cfg.OutputDir = value
	case "format":
		cfg.Format = strings.ToLower(value)
	case "quality":
		cfg.Quality, err = parseFloat(key, value)
	}
	return err
}

func setViewField(v *View, key, value string) error {
	var dst *float64
	switch strings.ToLower(key) {
	case "padding":
		dst = &v.Padding
	case "zoom_step":
		dst = &v.ZoomStep
	case "wheel_step":
		dst = &v.WheelStep
	case "min_zoom":
		dst = &v.MinZoom
	case "max_zoom":
		dst = &v.MaxZoom
	default:
		return nil
	}
	f, err := parseFloat(key, value)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func setCropField(c *Crop, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "min_size":
		c.MinSize, err = parseFloat(key, value)
	case "ratio":
		c.Ratio, err = parseRatio(key, value)
	}
	return err
}

func setMaskField(m *Mask, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "effect":
		m.Effect = strings.ToLower(value)
	case "brush":
		m.Brush, err = parseFloat(key, value)
	case "block_size":
		m.BlockSize, err = strconv.Atoi(value)
		if err != nil {
			err = fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
	case "blur_radius":
		m.BlurRadius, err = parseFloat(key, value)
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "batch":
		n.Batch = b
	case "copy":
		n.Copy = b
	}
	return nil
}
