//go:build imagick

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"gopkg.in/gographics/imagick.v3/imagick"
)

// WebPAvailable reports whether this build can encode WEBP.
const WebPAvailable = true

// encodeWebP hands a lossless PNG of img to ImageMagick for WEBP conversion.
// q is in [0.1, 1].
func encodeWebP(img image.Image, q float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	imagick.Initialize()
	defer imagick.Terminate()

	mw := imagick.NewMagickWand()
	defer mw.Destroy()
	if err := mw.ReadImageBlob(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("imagick read: %w", err)
	}
	if err := mw.SetImageFormat("WEBP"); err != nil {
		return nil, fmt.Errorf("imagick format: %w", err)
	}
	if err := mw.SetImageCompressionQuality(uint(math.Round(q * 100))); err != nil {
		return nil, fmt.Errorf("imagick quality: %w", err)
	}
	return mw.GetImageBlob(), nil
}
