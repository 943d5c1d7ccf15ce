package export

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for unknown format names and for data
	// no registered decoder understands.
	ErrUnsupportedFormat = errors.New("export: unsupported format")

	// ErrWebPUnavailable is returned when WEBP encoding was requested in a
	// build without the imagick tag.
	ErrWebPUnavailable = errors.New("export: webp encoding unavailable (build with -tags imagick)")
)

// ImageError ties a resource failure to the image it happened on.
type ImageError struct {
	ID  string
	Op  string
	Err error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }
