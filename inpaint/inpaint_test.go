package inpaint

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/palimpsest/internal/imaging"
	"github.com/tsawler/palimpsest/model"
)

// grayPage builds a uniform light-gray page with a dark "text" rectangle.
func grayPage(w, h int, text image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 230, G: 230, B: 230, A: 255}
			if image.Pt(x, y).In(text) {
				c = color.RGBA{R: 10, G: 10, B: 10, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFillRemovesMaskedContent(t *testing.T) {
	text := image.Rect(20, 20, 40, 30)
	src := grayPage(80, 60, text)
	region := model.Region{Left: 20, Top: 20, Width: 20, Height: 10}

	mask := Dilate(Mask(src.Bounds(), []model.Region{region}, 2))
	out := Fill(src, mask, 3)

	// The dark text should be gone: filled pixels blend from the light
	// surround, so they must be much brighter than the original ink.
	r, _, _, _ := out.At(30, 25).RGBA()
	if r>>8 < 150 {
		t.Errorf("masked pixel still dark after fill: %d", r>>8)
	}
}

func TestFillLeavesUnmaskedPixelsUntouched(t *testing.T) {
	src := grayPage(50, 50, image.Rect(10, 10, 20, 20))
	region := model.Region{Left: 10, Top: 10, Width: 10, Height: 10}

	mask := Dilate(Mask(src.Bounds(), []model.Region{region}, 0))
	out := Fill(src, mask, 3)

	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if mask.GrayAt(x, y).Y == erase {
				continue
			}
			if out.RGBAAt(x, y) != src.RGBAAt(x, y) {
				t.Fatalf("unmasked pixel (%d,%d) changed", x, y)
			}
		}
	}
}

func TestFillDoesNotMutateSource(t *testing.T) {
	src := grayPage(30, 30, image.Rect(5, 5, 15, 15))
	before := make([]uint8, len(src.Pix))
	copy(before, src.Pix)

	region := model.Region{Left: 5, Top: 5, Width: 10, Height: 10}
	mask := Mask(src.Bounds(), []model.Region{region}, 1)
	_ = Fill(src, mask, 3)

	if !bytes.Equal(before, src.Pix) {
		t.Error("Fill mutated the source image")
	}
}

func TestFillIsDeterministic(t *testing.T) {
	src := grayPage(60, 40, image.Rect(10, 10, 50, 30))
	region := model.Region{Left: 10, Top: 10, Width: 40, Height: 20}
	mask := Dilate(Mask(src.Bounds(), []model.Region{region}, 2))

	first := Fill(src, mask, 3)
	second := Fill(src, mask, 3)

	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("repeated fills differ")
	}
}

func TestFillEmptyMask(t *testing.T) {
	src := grayPage(20, 20, image.Rect(5, 5, 10, 10))
	mask := image.NewGray(src.Bounds())

	out := Fill(src, mask, 3)
	if !bytes.Equal(out.Pix, src.Pix) {
		t.Error("fill with empty mask altered pixels")
	}
}

func TestFillFullyMaskedImage(t *testing.T) {
	src := grayPage(10, 10, image.Rect(0, 0, 10, 10))
	mask := image.NewGray(src.Bounds())
	for i := range mask.Pix {
		mask.Pix[i] = erase
	}

	// Nothing known to blend from; the fill falls back to white rather
	// than hanging or panicking.
	out := Fill(src, mask, 3)
	if got := out.RGBAAt(5, 5); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("fully masked pixel = %v, want white", got)
	}
}

func TestReconstruct(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "page.png")
	src := grayPage(80, 60, image.Rect(20, 20, 40, 30))
	if err := imaging.WritePNG(srcPath, src); err != nil {
		t.Fatal(err)
	}
	srcBytes, err := os.ReadFile(srcPath)
	if err != nil {
		t.Fatal(err)
	}

	region := model.Region{Left: 20, Top: 20, Width: 20, Height: 10}
	outPath, err := Reconstruct(srcPath, []model.Region{region}, 2, 3)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}

	want := filepath.Join(dir, "page_clean.png")
	if outPath != want {
		t.Errorf("output path = %s, want %s", outPath, want)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("reconstructed file missing: %v", err)
	}

	// The source must be byte-identical to before the run.
	after, err := os.ReadFile(srcPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(srcBytes, after) {
		t.Error("Reconstruct modified the source image")
	}
}

func TestReconstructIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "page.png")
	src := grayPage(50, 40, image.Rect(10, 10, 30, 20))
	if err := imaging.WritePNG(srcPath, src); err != nil {
		t.Fatal(err)
	}
	region := model.Region{Left: 10, Top: 10, Width: 20, Height: 10}

	out1, err := Reconstruct(srcPath, []model.Region{region}, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(out1)
	if err != nil {
		t.Fatal(err)
	}

	out2, err := Reconstruct(srcPath, []model.Region{region}, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(out2)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("re-running reconstruction produced different bytes")
	}
}

func TestReconstructMissingSource(t *testing.T) {
	_, err := Reconstruct(filepath.Join(t.TempDir(), "missing.png"), nil, 2, 3)
	if err == nil {
		t.Fatal("expected error for missing source image")
	}
}
