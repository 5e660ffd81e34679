// Package imaging holds shared image I/O helpers for the pipeline.
//
// Importing it registers decoders for every page-image format the pipeline
// accepts: PNG and JPEG from the standard library, TIFF and BMP from
// golang.org/x/image (scanners commonly emit both).
package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ReadConfig returns the pixel dimensions of the image at path without
// decoding the pixel data.
func ReadConfig(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image header %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Read decodes the image at path.
func Read(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}
	return img, nil
}

// WritePNG writes img to path as PNG, creating or truncating the file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// ToRGBA returns img as *image.RGBA, copying only when necessary.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}
