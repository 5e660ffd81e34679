// Package pdf assembles a PDF document: one page per page image, sized in
// points to the image's physical dimensions, the cleaned background drawn
// full page and each region's text placed over it.
//
// PDF text has no autofit, so shrink-to-fit styles fall back to the
// standard body size instead of the autofit base size.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/palimpsest/assemble"
	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/units"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DefaultFont is the core font used when the style names none, or names a
// font the PDF core set does not carry.
const DefaultFont = "Helvetica"

var coreFonts = map[string]string{
	"helvetica": "Helvetica",
	"arial":     "Helvetica",
	"courier":   "Courier",
	"times":     "Times",
}

// Writer assembles a PDF document. Create with New; use through the
// assemble.Assembler interface.
type Writer struct {
	outPath string
	conv    units.Converter
	style   assemble.Style
	pdf     *fpdf.Fpdf
	pages   int
}

// New creates a PDF assembler writing to outPath.
func New(outPath string, conv units.Converter) assemble.Assembler {
	return &Writer{outPath: outPath, conv: conv}
}

// Begin records the run's text style and resolves it against the PDF core
// font set.
func (w *Writer) Begin(style assemble.Style) error {
	w.style = style
	w.pdf = fpdf.New("P", "pt", "A4", "")
	// Pages map one-to-one to input images; text near the bottom edge
	// must never spill onto an implicit extra page.
	w.pdf.SetAutoPageBreak(false, 0)
	w.pdf.SetFont(w.fontName(), "", w.fontSize())
	return nil
}

func (w *Writer) fontName() string {
	if name, ok := coreFonts[strings.ToLower(w.style.FontName)]; ok {
		return name
	}
	return DefaultFont
}

// fontSize is the fixed size for all regions. Explicit sizes win; the
// autofit base size is ignored because the format cannot shrink text.
func (w *Writer) fontSize() float64 {
	if w.style.FontSizePt > 0 {
		return w.style.FontSizePt
	}
	return 12
}

// AddPage starts a new PDF page backed by the image at background. The
// page is sized to the image's physical dimensions in points.
func (w *Writer) AddPage(pg *model.Page, background string) error {
	data, err := os.ReadFile(background)
	if err != nil {
		return fmt.Errorf("reading background image: %w", err)
	}
	imageType, err := detectImageType(data)
	if err != nil {
		return fmt.Errorf("background image %s: %w", background, err)
	}

	wd := w.conv.Points(pg.Width)
	ht := w.conv.Points(pg.Height)
	w.pdf.AddPageFormat("P", fpdf.SizeType{Wd: wd, Ht: ht})
	w.pages++

	name := fmt.Sprintf("page%d", w.pages)
	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
	w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	w.pdf.ImageOptions(name, 0, 0, wd, ht, false, opts, 0, "")

	return w.pdf.Error()
}

// AddTextRegion draws r's text inside the region rectangle on the current
// page.
func (w *Writer) AddTextRegion(r model.Region) error {
	if w.pages == 0 {
		return errors.New("AddTextRegion called before AddPage")
	}

	x := w.conv.Points(r.Left)
	y := w.conv.Points(r.Top)
	wd := w.conv.Points(r.Width)
	ht := w.conv.Points(r.Height)

	if w.style.DebugOutline {
		w.pdf.SetDrawColor(255, 0, 0)
		w.pdf.SetLineWidth(0.5)
		w.pdf.Rect(x, y, wd, ht, "D")
	}

	content := r.TextOrPlaceholder()
	align := "L"
	if w.style.IsRTL(content) {
		align = "R"
	}

	// PDF text objects carry Latin-1; unencodable runes pass through raw.
	latin1, err := charmap.ISO8859_1.NewEncoder().String(content)
	if err != nil {
		latin1 = content
	}

	margin := w.style.MarginPt
	cellWidth := wd - 2*margin
	if cellWidth <= 0 {
		cellWidth = wd
		margin = 0
	}

	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.SetXY(x+margin, y+margin)
	w.pdf.MultiCell(cellWidth, w.fontSize()*assemble.LineSpacing, latin1, "", align, false)

	return w.pdf.Error()
}

// Finish writes the assembled PDF to the output path.
func (w *Writer) Finish() error {
	if w.pages == 0 {
		return errors.New("no pages added")
	}

	f, err := os.Create(w.outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.outPath, err)
	}
	if err := w.pdf.Output(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", w.outPath, err)
	}
	return f.Close()
}

// detectImageType names the image format the way the PDF image registry
// expects it.
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image config: %w", err)
	}
	return strings.ToUpper(format), nil
}
