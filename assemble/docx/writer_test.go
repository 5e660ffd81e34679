package docx

import (
	"archive/zip"
	"encoding/xml"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/palimpsest/assemble"
	"github.com/tsawler/palimpsest/internal/imaging"
	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/units"
)

// Minimal mirrors of the document schema, enough to verify geometry.
type documentDoc struct {
	Anchors   []anchor `xml:"body>p>r>drawing>anchor"`
	BreakSect []sectPr `xml:"body>p>pPr>sectPr"`
	FinalSect []sectPr `xml:"body>sectPr"`
}

type anchor struct {
	BehindDoc string    `xml:"behindDoc,attr"`
	PosH      posOffset `xml:"positionH>posOffset"`
	PosV      posOffset `xml:"positionV>posOffset"`
	Extent    extent    `xml:"extent"`
	Texts     []string  `xml:"graphic>graphicData>wsp>txbx>txbxContent>p>r>t"`
	Blip      blip      `xml:"graphic>graphicData>pic>blipFill>blip"`
}

type blip struct {
	Embed string `xml:"embed,attr"`
}

type posOffset struct {
	Value int64 `xml:",chardata"`
}

type extent struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type sectPr struct {
	PgSz pgSz `xml:"pgSz"`
}

type pgSz struct {
	W int `xml:"w,attr"`
	H int `xml:"h,attr"`
}

func writeBackground(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
		}
	}
	path := filepath.Join(dir, "bg.png")
	if err := imaging.WritePNG(path, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// buildDoc assembles one page with the given regions and returns the
// produced package contents keyed by part name.
func buildDoc(t *testing.T, style assemble.Style, page *model.Page, bg string) map[string][]byte {
	t.Helper()
	out := filepath.Join(t.TempDir(), "doc.docx")
	conv, err := units.New(300)
	if err != nil {
		t.Fatal(err)
	}

	w := New(out, conv)
	if err := w.Begin(style); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := w.AddPage(page, bg); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	for _, r := range page.Regions {
		if err := w.AddTextRegion(r); err != nil {
			t.Fatalf("AddTextRegion: %v", err)
		}
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return readZip(t, out)
}

func readZip(t *testing.T, path string) map[string][]byte {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening produced package: %v", err)
	}
	defer zr.Close()

	parts := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening part %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading part %s: %v", f.Name, err)
		}
		parts[f.Name] = data
	}
	return parts
}

func parseDocument(t *testing.T, data []byte) documentDoc {
	t.Helper()
	var doc documentDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parsing document XML: %v", err)
	}
	return doc
}

func TestBackgroundAndSection(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir, 600, 300)
	page := &model.Page{Path: bg, Width: 600, Height: 300}

	parts := buildDoc(t, assemble.DefaultStyle(), page, bg)
	doc := parseDocument(t, parts["word/document.xml"])

	if len(doc.Anchors) != 1 {
		t.Fatalf("anchors = %d, want 1", len(doc.Anchors))
	}
	a := doc.Anchors[0]
	if a.BehindDoc != "1" {
		t.Errorf("background behindDoc = %q, want \"1\"", a.BehindDoc)
	}
	if a.PosH.Value != 0 || a.PosV.Value != 0 {
		t.Errorf("background offset = (%d, %d), want origin", a.PosH.Value, a.PosV.Value)
	}
	if a.Extent.Cx != 1828800 || a.Extent.Cy != 914400 {
		t.Errorf("background extent = (%d, %d), want (1828800, 914400)", a.Extent.Cx, a.Extent.Cy)
	}
	if a.Blip.Embed != "rId1" {
		t.Errorf("background embed = %q, want rId1", a.Blip.Embed)
	}

	// 600 px at 300 dpi is 144 pt = 2880 twips; 300 px is 1440 twips.
	if len(doc.FinalSect) != 1 {
		t.Fatalf("final sectPr count = %d, want 1", len(doc.FinalSect))
	}
	if got := doc.FinalSect[0].PgSz; got.W != 2880 || got.H != 1440 {
		t.Errorf("pgSz = %dx%d twips, want 2880x1440", got.W, got.H)
	}

	if _, ok := parts["word/media/image1.png"]; !ok {
		t.Error("missing media part word/media/image1.png")
	}
	if !strings.Contains(string(parts["word/_rels/document.xml.rels"]), `Target="media/image1.png"`) {
		t.Error("document rels missing image relationship")
	}
}

func TestRegionGeometryAndPlaceholder(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir, 600, 300)
	page := &model.Page{
		Path: bg, Width: 600, Height: 300,
		Regions: []model.Region{{Left: 300, Top: 150, Width: 120, Height: 60}},
	}

	parts := buildDoc(t, assemble.DefaultStyle(), page, bg)
	doc := parseDocument(t, parts["word/document.xml"])

	if len(doc.Anchors) != 2 {
		t.Fatalf("anchors = %d, want background plus one text box", len(doc.Anchors))
	}
	box := doc.Anchors[1]

	conv, err := units.New(300)
	if err != nil {
		t.Fatal(err)
	}
	if box.PosH.Value != conv.EMU(300) || box.PosV.Value != conv.EMU(150) {
		t.Errorf("text box offset = (%d, %d), want (%d, %d)",
			box.PosH.Value, box.PosV.Value, conv.EMU(300), conv.EMU(150))
	}
	if box.Extent.Cx != conv.EMU(120) || box.Extent.Cy != conv.EMU(60) {
		t.Errorf("text box extent = (%d, %d), want (%d, %d)",
			box.Extent.Cx, box.Extent.Cy, conv.EMU(120), conv.EMU(60))
	}
	if len(box.Texts) != 1 || box.Texts[0] != model.Placeholder {
		t.Errorf("text = %q, want placeholder %q", box.Texts, model.Placeholder)
	}
}

func TestRegionOrderPreserved(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir, 400, 400)
	page := &model.Page{
		Path: bg, Width: 400, Height: 400,
		Regions: []model.Region{
			{Left: 10, Top: 10, Width: 50, Height: 20, Text: "first"},
			{Left: 10, Top: 40, Width: 50, Height: 20, Text: "second"},
			{Left: 10, Top: 70, Width: 50, Height: 20, Text: "third"},
		},
	}

	parts := buildDoc(t, assemble.DefaultStyle(), page, bg)
	doc := parseDocument(t, parts["word/document.xml"])

	want := []string{"first", "second", "third"}
	if len(doc.Anchors) != len(want)+1 {
		t.Fatalf("anchors = %d, want %d", len(doc.Anchors), len(want)+1)
	}
	for i, text := range want {
		got := doc.Anchors[i+1].Texts
		if len(got) != 1 || got[0] != text {
			t.Errorf("region %d text = %q, want %q", i, got, text)
		}
	}
}

func TestShrinkToFitAndRTL(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir, 400, 200)
	page := &model.Page{
		Path: bg, Width: 400, Height: 200,
		Regions: []model.Region{{Left: 10, Top: 10, Width: 100, Height: 40, Text: "שלום"}},
	}

	style := assemble.DefaultStyle()
	style.ShrinkToFit = true
	style.RTL = assemble.RTLAuto

	parts := buildDoc(t, style, page, bg)
	raw := string(parts["word/document.xml"])

	if !strings.Contains(raw, "<a:normAutofit/>") {
		t.Error("shrink-to-fit box missing normAutofit")
	}
	if !strings.Contains(raw, "<w:bidi/>") {
		t.Error("Hebrew region missing bidi paragraph property")
	}
	// Autofit starts from 80 pt, carried as 160 half-points.
	if !strings.Contains(raw, `<w:sz w:val="160"/>`) {
		t.Error("autofit base size missing")
	}
}

func TestFixedFont(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir, 400, 200)
	page := &model.Page{
		Path: bg, Width: 400, Height: 200,
		Regions: []model.Region{{Left: 10, Top: 10, Width: 100, Height: 40, Text: "hello"}},
	}

	style := assemble.DefaultStyle()
	style.FontName = "Calibri"
	style.FontSizePt = 14

	parts := buildDoc(t, style, page, bg)
	raw := string(parts["word/document.xml"])

	if !strings.Contains(raw, `<w:sz w:val="28"/>`) {
		t.Error("explicit 14 pt size missing")
	}
	if !strings.Contains(raw, `<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/>`) {
		t.Error("explicit font missing")
	}
	if strings.Contains(raw, "normAutofit") {
		t.Error("fixed-size box should not autofit")
	}
}

func TestDebugOutline(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir, 400, 200)
	page := &model.Page{
		Path: bg, Width: 400, Height: 200,
		Regions: []model.Region{{Left: 10, Top: 10, Width: 100, Height: 40}},
	}

	style := assemble.DefaultStyle()
	style.DebugOutline = true

	parts := buildDoc(t, style, page, bg)
	raw := string(parts["word/document.xml"])
	if !strings.Contains(raw, `<a:srgbClr val="FF0000"/>`) {
		t.Error("debug outline missing")
	}

	style.DebugOutline = false
	parts = buildDoc(t, style, page, bg)
	if strings.Contains(string(parts["word/document.xml"]), "FF0000") {
		t.Error("outline present without debug mode")
	}
}

func TestXMLEscaping(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir, 400, 200)
	page := &model.Page{
		Path: bg, Width: 400, Height: 200,
		Regions: []model.Region{{Left: 10, Top: 10, Width: 100, Height: 40, Text: `a < b & "c"`}},
	}

	parts := buildDoc(t, assemble.DefaultStyle(), page, bg)
	doc := parseDocument(t, parts["word/document.xml"])
	got := doc.Anchors[1].Texts
	if len(got) != 1 || got[0] != `a < b & "c"` {
		t.Errorf("escaped text round trip = %q", got)
	}
}

func TestMultiLineText(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir, 400, 200)
	page := &model.Page{
		Path: bg, Width: 400, Height: 200,
		Regions: []model.Region{{Left: 10, Top: 10, Width: 100, Height: 60, Text: "line one\nline two"}},
	}

	parts := buildDoc(t, assemble.DefaultStyle(), page, bg)
	doc := parseDocument(t, parts["word/document.xml"])
	got := doc.Anchors[1].Texts
	if len(got) != 2 || got[0] != "line one" || got[1] != "line two" {
		t.Errorf("multi-line text = %q, want two paragraphs", got)
	}
}

func TestMultiPageSections(t *testing.T) {
	dir := t.TempDir()
	bg1 := writeBackground(t, dir, 600, 300)

	img := image.NewRGBA(image.Rect(0, 0, 300, 600))
	bg2 := filepath.Join(dir, "bg2.png")
	if err := imaging.WritePNG(bg2, img); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "doc.docx")
	conv, err := units.New(300)
	if err != nil {
		t.Fatal(err)
	}
	w := New(out, conv)
	if err := w.Begin(assemble.DefaultStyle()); err != nil {
		t.Fatal(err)
	}
	if err := w.AddPage(&model.Page{Path: bg1, Width: 600, Height: 300}, bg1); err != nil {
		t.Fatal(err)
	}
	if err := w.AddPage(&model.Page{Path: bg2, Width: 300, Height: 600}, bg2); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}

	parts := readZip(t, out)
	doc := parseDocument(t, parts["word/document.xml"])

	// Each page keeps its own section size: a break section for page one
	// and the body-final section for page two.
	if len(doc.BreakSect) != 1 {
		t.Fatalf("section break count = %d, want 1", len(doc.BreakSect))
	}
	if got := doc.BreakSect[0].PgSz; got.W != 2880 || got.H != 1440 {
		t.Errorf("page 1 pgSz = %dx%d, want 2880x1440", got.W, got.H)
	}
	if got := doc.FinalSect[0].PgSz; got.W != 1440 || got.H != 2880 {
		t.Errorf("page 2 pgSz = %dx%d, want 1440x2880", got.W, got.H)
	}

	for _, name := range []string{"word/media/image1.png", "word/media/image2.png"} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing media part %s", name)
		}
	}
	rels := string(parts["word/_rels/document.xml.rels"])
	if !strings.Contains(rels, `Id="rId1"`) || !strings.Contains(rels, `Id="rId2"`) {
		t.Error("document rels missing image relationships")
	}
}

func TestErrors(t *testing.T) {
	conv, err := units.New(300)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("region before page", func(t *testing.T) {
		w := New(filepath.Join(t.TempDir(), "doc.docx"), conv)
		if err := w.Begin(assemble.DefaultStyle()); err != nil {
			t.Fatal(err)
		}
		if err := w.AddTextRegion(model.Region{Width: 10, Height: 10}); err == nil {
			t.Error("expected error adding region before any page")
		}
	})

	t.Run("missing background", func(t *testing.T) {
		w := New(filepath.Join(t.TempDir(), "doc.docx"), conv)
		if err := w.Begin(assemble.DefaultStyle()); err != nil {
			t.Fatal(err)
		}
		page := &model.Page{Path: "nope.png", Width: 10, Height: 10}
		if err := w.AddPage(page, filepath.Join(t.TempDir(), "nope.png")); err == nil {
			t.Error("expected error for missing background image")
		}
	})

	t.Run("unsupported background", func(t *testing.T) {
		dir := t.TempDir()
		bad := filepath.Join(dir, "bg.xyz")
		if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
			t.Fatal(err)
		}
		w := New(filepath.Join(dir, "doc.docx"), conv)
		if err := w.Begin(assemble.DefaultStyle()); err != nil {
			t.Fatal(err)
		}
		page := &model.Page{Path: bad, Width: 10, Height: 10}
		if err := w.AddPage(page, bad); err == nil {
			t.Error("expected error for unrecognized image format")
		}
	})

	t.Run("finish without pages", func(t *testing.T) {
		w := New(filepath.Join(t.TempDir(), "doc.docx"), conv)
		if err := w.Begin(assemble.DefaultStyle()); err != nil {
			t.Fatal(err)
		}
		if err := w.Finish(); err == nil {
			t.Error("expected error finishing empty document")
		}
	})
}
