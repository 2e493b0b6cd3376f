// Package resize scales uploaded images to a fixed width and re-encodes them
// as JPEG.
package resize

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"tldr/internal/core"
)

// Resizer scales an image payload for storage under the resized prefix.
type Resizer interface {
	Resize(data []byte) ([]byte, error)
}

// ImageResizer implements Resizer with Catmull-Rom scaling.
type ImageResizer struct {
	width int
}

// NewImageResizer creates a resizer targeting the standard output width.
func NewImageResizer() *ImageResizer {
	return &ImageResizer{width: core.ResizedImageWidth}
}

// Resize decodes the image, scales it to the target width preserving aspect
// ratio, and encodes the result as JPEG. Images already narrower than the
// target are re-encoded without scaling up.
func (r *ImageResizer) Resize(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() > r.width {
		height := bounds.Dy() * r.width / bounds.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, r.width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}
