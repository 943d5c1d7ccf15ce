//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "sync"

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() { initErr = ErrUnsupported })
	return initErr
}

// WritePNG is unsupported on this platform.
func WritePNG([]byte) error { return ensureInit() }

// ReadPNG is unsupported on this platform.
func ReadPNG() ([]byte, error) { return nil, ensureInit() }
