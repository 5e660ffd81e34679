package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/tsawler/palimpsest/model"
)

// cropPNG extracts a region from a decoded page image and returns it
// PNG-encoded for the engine. The region is clamped to the image first;
// a region with no area inside the image cannot be recognized.
func cropPNG(img image.Image, r model.Region) ([]byte, error) {
	b := img.Bounds()
	clamped := r.Clamp(b.Dx(), b.Dy())
	if clamped.IsEmpty() {
		return nil, fmt.Errorf("region %dx%d at (%d,%d) lies outside the image",
			r.Width, r.Height, r.Left, r.Top)
	}

	rect := clamped.Rect().Add(b.Min)
	crop := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(crop, crop.Bounds(), img, rect.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return nil, fmt.Errorf("encoding region crop: %w", err)
	}
	return buf.Bytes(), nil
}
