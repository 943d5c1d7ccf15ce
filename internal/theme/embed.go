package theme

import "embed"

// EmbeddedThemes carries the built-in theme files under defaults/.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS
