package inpaint

import (
	"image"

	"github.com/tsawler/palimpsest/model"
)

// erase is the mask value marking a pixel for reconstruction.
const erase = 255

// Mask builds a binary erase mask for the given regions over an image of
// the given bounds. Each region is expanded by margin pixels on every side
// and clamped to the image before being filled.
func Mask(bounds image.Rectangle, regions []model.Region, margin int) *image.Gray {
	m := image.NewGray(bounds)
	w, h := bounds.Dx(), bounds.Dy()

	for _, r := range regions {
		rect := r.Expand(margin).Clamp(w, h).Rect().Add(bounds.Min)
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			row := m.Pix[(y-bounds.Min.Y)*m.Stride:]
			for x := rect.Min.X; x < rect.Max.X; x++ {
				row[x-bounds.Min.X] = erase
			}
		}
	}
	return m
}

// Dilate applies one 3x3 morphological dilation pass, growing the masked
// area by one pixel in every direction. This removes hairline residue at
// box borders that a bare rectangle mask leaves behind.
func Dilate(m *image.Gray) *image.Gray {
	b := m.Bounds()
	out := image.NewGray(b)
	w, h := b.Dx(), b.Dy()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.Pix[y*m.Stride+x] < erase {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					out.Pix[ny*out.Stride+nx] = erase
				}
			}
		}
	}
	return out
}
