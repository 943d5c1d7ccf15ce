//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import "sync"

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if hasDisplay() {
			initErr = ErrUnsupported
			return
		}
		initErr = ErrNoDisplay
	})
	return initErr
}

// WritePNG fails: the clipboard backend needs cgo.
func WritePNG([]byte) error { return ensureInit() }

// ReadPNG fails: the clipboard backend needs cgo.
func ReadPNG() ([]byte, error) { return nil, ensureInit() }
