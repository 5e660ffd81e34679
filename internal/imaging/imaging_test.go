package imaging

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPNG writes a solid-color PNG and returns its path.
func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "page.png")
	if err := WritePNG(path, img); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	return path
}

func TestReadConfig(t *testing.T) {
	path := writeTestPNG(t, 40, 25)
	w, h, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if w != 40 || h != 25 {
		t.Errorf("got %dx%d, want 40x25", w, h)
	}
}

func TestReadRoundTrip(t *testing.T) {
	path := writeTestPNG(t, 8, 8)
	img, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("bounds = %v, want 8x8", img.Bounds())
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, _, err := ReadConfig(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestToRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	gray.SetGray(1, 1, color.Gray{Y: 77})

	rgba := ToRGBA(gray)
	r, g, b, _ := rgba.At(1, 1).RGBA()
	if r>>8 != 77 || g>>8 != 77 || b>>8 != 77 {
		t.Errorf("converted pixel = (%d,%d,%d), want (77,77,77)", r>>8, g>>8, b>>8)
	}

	// Already-RGBA input should come back unchanged, not copied.
	if got := ToRGBA(rgba); got != rgba {
		t.Error("ToRGBA copied an *image.RGBA input")
	}
}
