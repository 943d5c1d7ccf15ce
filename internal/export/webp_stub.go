//go:build !imagick

package export

import "image"

// WebPAvailable reports whether this build can encode WEBP.
const WebPAvailable = false

func encodeWebP(image.Image, float64) ([]byte, error) {
	return nil, ErrWebPUnavailable
}
