package cli

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/tsawler/palimpsest/internal/imaging"
)

func writePageImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 235, G: 235, B: 235, A: 255})
		}
	}
	if err := imaging.WritePNG(path, img); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// execute resets the rebuild flags to their defaults first, so tests do
// not leak flag state into each other.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rebuildCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("resetting --%s: %v", f.Name, err)
		}
		f.Changed = false
	})

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	regions := filepath.Join(dir, "regions.json")
	writeFile(t, regions, `{
		"images": [
			{"path": "p1.png", "width": 2480, "height": 3508,
			 "boxes": [{"left": 300, "top": 150, "width": 600, "height": 120},
			           {"left": 10, "top": 20, "width": 30, "height": 40, "text": "kept"}]}
		]
	}`)

	out, err := execute(t, "inspect", regions)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{
		"page 1: p1.png (2480x3508 px, 2 boxes)",
		"box 1: (300,150) 600x120 <empty>",
		"box 2: (10,20) 30x40 kept",
		"1 pages, 2 boxes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestRebuildWritesRequestedOutputs(t *testing.T) {
	dir := t.TempDir()
	pagePath := filepath.Join(dir, "page1.png")
	writePageImage(t, pagePath, 200, 100)

	regions := filepath.Join(dir, "regions.json")
	writeFile(t, regions, `{
		"images": [
			{"path": "`+pagePath+`", "width": 200, "height": 100,
			 "boxes": [{"left": 10, "top": 10, "width": 50, "height": 20}]}
		]
	}`)

	outHTML := filepath.Join(dir, "preview.html")
	out, err := execute(t, "rebuild", "--regions", regions, "--html", outHTML)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	if _, err := os.Stat(outHTML); err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(out, outHTML) {
		t.Errorf("written path not printed:\n%s", out)
	}
}

func TestRebuildRequiresRegions(t *testing.T) {
	if _, err := execute(t, "rebuild", "--pptx", "out.pptx"); err == nil {
		t.Fatal("expected error when --regions is missing")
	}
}

func TestRebuildConfigFile(t *testing.T) {
	dir := t.TempDir()
	pagePath := filepath.Join(dir, "page1.png")
	writePageImage(t, pagePath, 200, 100)

	regions := filepath.Join(dir, "regions.json")
	writeFile(t, regions, `{
		"images": [{"path": "`+pagePath+`", "width": 200, "height": 100, "boxes": []}]
	}`)

	outHTML := filepath.Join(dir, "preview.html")
	cfg := filepath.Join(dir, "run.yaml")
	writeFile(t, cfg, "regions: "+regions+"\nhtml: "+outHTML+"\ndpi: 150\n")

	if _, err := execute(t, "rebuild", "--config", cfg); err != nil {
		t.Fatalf("rebuild with config: %v", err)
	}
	if _, err := os.Stat(outHTML); err != nil {
		t.Fatalf("output not written: %v", err)
	}

	// 200 px at the config's 150 dpi renders a 1.3333 inch wide page.
	preview, err := os.ReadFile(outHTML)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(preview), "width: 1.3333in") {
		t.Error("config dpi was not applied")
	}
}

func TestRebuildBadRTLMode(t *testing.T) {
	dir := t.TempDir()
	regions := filepath.Join(dir, "regions.json")
	writeFile(t, regions, `{"images": [{"path": "p.png", "width": 1, "height": 1, "boxes": []}]}`)

	if _, err := execute(t, "rebuild", "--regions", regions, "--html", "x.html", "--rtl", "sideways"); err == nil {
		t.Fatal("expected error for unknown rtl mode")
	}
}
