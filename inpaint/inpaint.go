// Package inpaint erases region contents from a page image and fills the
// erased area from the surrounding pixels.
//
// The fill is intentionally simple and fully deterministic: masked pixels
// are processed outside-in (by distance from the nearest unmasked pixel)
// and each becomes the inverse-distance-weighted average of the known
// pixels around it. That is enough to make erased text boxes blend into a
// scanned background; this is not a general photo-restoration tool.
package inpaint

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tsawler/palimpsest/internal/imaging"
	"github.com/tsawler/palimpsest/model"
)

// DefaultMargin is the default expansion in pixels applied around each
// region before erasing.
const DefaultMargin = 2

// DefaultRadius is the default search radius in pixels for the fill.
const DefaultRadius = 3

// Reconstruct erases the given regions from the image at path and writes
// the reconstructed result to a new PNG file next to the source, named
// "<base>_clean.png". The source file is never modified, so reruns do not
// degrade cumulatively. The new file's path is returned.
func Reconstruct(path string, regions []model.Region, margin, radius int) (string, error) {
	src, err := imaging.Read(path)
	if err != nil {
		return "", err
	}

	mask := Dilate(Mask(src.Bounds(), regions, margin))
	cleaned := Fill(src, mask, radius)

	ext := filepath.Ext(path)
	outPath := strings.TrimSuffix(path, ext) + "_clean.png"
	if err := imaging.WritePNG(outPath, cleaned); err != nil {
		return "", fmt.Errorf("writing reconstructed background: %w", err)
	}
	return outPath, nil
}

// Fill returns a copy of src with every masked pixel replaced by a blend
// of nearby unmasked pixels. The mask must share src's bounds; values of
// 255 mark pixels to reconstruct. The search radius bounds how far, in
// Chebyshev distance, the blend looks for known pixels.
func Fill(src image.Image, mask *image.Gray, radius int) *image.RGBA {
	if radius < 1 {
		radius = 1
	}

	out := imaging.ToRGBA(src)
	if out == src {
		// Work on a copy so the caller's image is untouched.
		clone := image.NewRGBA(out.Bounds())
		copy(clone.Pix, out.Pix)
		out = clone
	}

	b := out.Bounds()
	w, h := b.Dx(), b.Dy()

	known := make([]bool, w*h)
	masked := make([]image.Point, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*mask.Stride+x] < erase {
				known[y*w+x] = true
			} else {
				masked = append(masked, image.Point{X: x, Y: y})
			}
		}
	}
	if len(masked) == 0 {
		return out
	}

	dist := boundaryDistances(known, w, h)

	// Outside-in, raster order within each distance ring. The order is
	// fixed so repeated runs produce byte-identical output.
	sort.Slice(masked, func(i, j int) bool {
		pi, pj := masked[i], masked[j]
		di, dj := dist[pi.Y*w+pi.X], dist[pj.Y*w+pj.X]
		if di != dj {
			return di < dj
		}
		if pi.Y != pj.Y {
			return pi.Y < pj.Y
		}
		return pi.X < pj.X
	})

	for _, p := range masked {
		fillPixel(out, known, w, h, p.X, p.Y, radius)
		known[p.Y*w+p.X] = true
	}
	return out
}

// boundaryDistances computes, for every pixel, the 4-neighbor BFS distance
// to the nearest known pixel. Known pixels have distance zero. If the
// whole image is masked every distance stays at the maximum.
func boundaryDistances(known []bool, w, h int) []int32 {
	const unreached = math.MaxInt32
	dist := make([]int32, w*h)
	queue := make([]int, 0, w*h)

	for i, k := range known {
		if k {
			queue = append(queue, i)
		} else {
			dist[i] = unreached
		}
	}

	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%w, i/w
		next := dist[i] + 1
		if x > 0 && dist[i-1] > next {
			dist[i-1] = next
			queue = append(queue, i-1)
		}
		if x < w-1 && dist[i+1] > next {
			dist[i+1] = next
			queue = append(queue, i+1)
		}
		if y > 0 && dist[i-w] > next {
			dist[i-w] = next
			queue = append(queue, i-w)
		}
		if y < h-1 && dist[i+w] > next {
			dist[i+w] = next
			queue = append(queue, i+w)
		}
	}
	return dist
}

// fillPixel sets (x, y) to the weighted average of known pixels within the
// search radius, weighting by inverse squared distance. A fully isolated
// pixel (no known neighbor at all, only possible when the entire image is
// masked) becomes white, the usual scanned-paper background.
func fillPixel(img *image.RGBA, known []bool, w, h, x, y, radius int) {
	var sumR, sumG, sumB, sumW float64

	for dy := -radius; dy <= radius; dy++ {
		ny := y + dy
		if ny < 0 || ny >= h {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			nx := x + dx
			if nx < 0 || nx >= w {
				continue
			}
			if (dx == 0 && dy == 0) || !known[ny*w+nx] {
				continue
			}
			weight := 1.0 / float64(dx*dx+dy*dy)
			off := img.PixOffset(img.Bounds().Min.X+nx, img.Bounds().Min.Y+ny)
			sumR += weight * float64(img.Pix[off])
			sumG += weight * float64(img.Pix[off+1])
			sumB += weight * float64(img.Pix[off+2])
			sumW += weight
		}
	}

	off := img.PixOffset(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
	if sumW == 0 {
		img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = 255, 255, 255, 255
		return
	}
	img.Pix[off] = uint8(math.Round(sumR / sumW))
	img.Pix[off+1] = uint8(math.Round(sumG / sumW))
	img.Pix[off+2] = uint8(math.Round(sumB / sumW))
	img.Pix[off+3] = 255
}
