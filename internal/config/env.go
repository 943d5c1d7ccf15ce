package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PIXELSUITE_"

// Lookup reads one environment variable.
type Lookup func(key string) (string, bool)

// Environ returns a Lookup over the process environment, falling back to the
// values of any .env files given. Process variables win.
func Environ(dotenv ...string) (Lookup, error) {
	file := map[string]string{}
	for _, p := range dotenv {
		vals, err := godotenv.Read(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		for k, v := range vals {
			if _, ok := file[k]; !ok {
				file[k] = v
			}
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}, nil
}

// ApplyEnv overlays PIXELSUITE_* variables onto cfg. Keys mirror the rc file:
// PIXELSUITE_QUALITY, PIXELSUITE_VIEW_PADDING, PIXELSUITE_MASK_BLOCK_SIZE and
// so on.
func ApplyEnv(cfg *Config, lookup Lookup) error {
	sections := []struct {
		prefix string
		set    func(key, value string) error
	}{
		{"VIEW_", func(k, v string) error { return setViewField(&cfg.View, k, v) }},
		{"CROP_", func(k, v string) error { return setCropField(&cfg.Crop, k, v) }},
		{"MASK_", func(k, v string) error { return setMaskField(&cfg.Mask, k, v) }},
		{"NOTIFY_", func(k, v string) error { return setNotifyField(&cfg.Notify, k, v) }},
		{"", func(k, v string) error { return setRootField(cfg, k, v) }},
	}
	keys := map[string][]string{
		"":        {"theme", "output_dir", "format", "quality"},
		"VIEW_":   {"padding", "zoom_step", "wheel_step", "min_zoom", "max_zoom"},
		"CROP_":   {"min_size", "ratio"},
		"MASK_":   {"effect", "brush", "block_size", "blur_radius"},
		"NOTIFY_": {"export", "batch", "copy"},
	}
	for _, s := range sections {
		for _, k := range keys[s.prefix] {
			name := EnvPrefix + s.prefix + strings.ToUpper(k)
			v, ok := lookup(name)
			if !ok || strings.TrimSpace(v) == "" {
				continue
			}
			if err := s.set(k, strings.TrimSpace(v)); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}
