// Package docx assembles a word-processing document: one section per page
// sized to the page image, the cleaned background anchored behind the
// document body, and one anchored text box per region at the region's
// converted position.
package docx

import (
	"archive/zip"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/tsawler/palimpsest/assemble"
	"github.com/tsawler/palimpsest/format"
	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/units"
)

const twipsPerPoint = 20

// Writer assembles a DOCX document. Create with New; use through the
// assemble.Assembler interface.
type Writer struct {
	outPath string
	conv    units.Converter
	style   assemble.Style
	pages   []*page
	nextID  int
}

type page struct {
	widthTw   int
	heightTw  int
	widthEMU  int64
	heightEMU int64
	image     []byte
	imageExt  string // media file extension without dot
	blocks    []string
}

// New creates a DOCX assembler writing to outPath.
func New(outPath string, conv units.Converter) assemble.Assembler {
	return &Writer{outPath: outPath, conv: conv, nextID: 1}
}

// Begin records the run's text style.
func (w *Writer) Begin(style assemble.Style) error {
	w.style = style
	return nil
}

// AddPage starts a new section backed by the image at background. Each
// section is sized to its own page, so mixed page dimensions keep their
// exact geometry.
func (w *Writer) AddPage(pg *model.Page, background string) error {
	data, err := os.ReadFile(background)
	if err != nil {
		return fmt.Errorf("reading background image: %w", err)
	}

	f := format.DetectFromMagic(data)
	if f == format.Unknown {
		f = format.Detect(background)
	}
	if f == format.Unknown {
		return fmt.Errorf("unsupported background image format: %s", background)
	}

	p := &page{
		widthTw:   int(math.Round(w.conv.Points(pg.Width) * twipsPerPoint)),
		heightTw:  int(math.Round(w.conv.Points(pg.Height) * twipsPerPoint)),
		widthEMU:  w.conv.EMU(pg.Width),
		heightEMU: w.conv.EMU(pg.Height),
		image:     data,
		imageExt:  strings.TrimPrefix(f.Extension(), "."),
	}
	p.blocks = append(p.blocks, fmt.Sprintf(backgroundTmpl,
		p.widthEMU, p.heightEMU,
		w.nextID, w.nextID, len(w.pages)+1,
		p.widthEMU, p.heightEMU))
	w.nextID++

	w.pages = append(w.pages, p)
	return nil
}

// AddTextRegion places an anchored text box for r on the current page.
func (w *Writer) AddTextRegion(r model.Region) error {
	if len(w.pages) == 0 {
		return errors.New("AddTextRegion called before AddPage")
	}
	p := w.pages[len(w.pages)-1]

	x := w.conv.EMU(r.Left)
	y := w.conv.EMU(r.Top)
	cx := w.conv.EMU(r.Width)
	cy := w.conv.EMU(r.Height)

	line := noLine
	if w.style.DebugOutline {
		line = debugLine
	}

	inset := units.EMUFromPoints(w.style.MarginPt)
	autofit := ""
	if w.style.ShrinkToFit {
		autofit = "<a:normAutofit/>"
	}

	p.blocks = append(p.blocks, fmt.Sprintf(textboxTmpl,
		x, y, cx, cy,
		w.nextID, cx, cy,
		line, w.paragraphs(r.TextOrPlaceholder()),
		inset, inset, inset, inset,
		autofit))
	w.nextID++
	return nil
}

// paragraphs renders region text as one w:p element per line inside the
// text box content.
func (w *Writer) paragraphs(content string) string {
	// w:line in twentieths of a point is relative to single spacing at
	// lineRule="auto", where 240 means 100%.
	pPr := fmt.Sprintf(`<w:spacing w:before="0" w:after="0" w:line="%d" w:lineRule="auto"/>`,
		int(math.Round(assemble.LineSpacing*240)))
	if w.style.IsRTL(content) {
		pPr = `<w:bidi/>` + pPr
	}

	// w:sz is half-points.
	rPr := fmt.Sprintf(`<w:sz w:val="%d"/>`, int(math.Round(w.style.EffectiveFontSizePt()*2)))
	if w.style.FontName != "" {
		font := assemble.EscapeXML(w.style.FontName)
		rPr = fmt.Sprintf(`<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`, font, font, font) + rPr
	}

	var b strings.Builder
	for _, line := range assemble.SplitLines(content) {
		fmt.Fprintf(&b, paragraphTmpl, pPr, rPr, assemble.EscapeXML(line))
	}
	return b.String()
}

// Finish writes the assembled document to the output path.
func (w *Writer) Finish() error {
	if len(w.pages) == 0 {
		return errors.New("no pages added")
	}

	f, err := os.Create(w.outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.outPath, err)
	}
	zw := zip.NewWriter(f)

	if err := w.writeParts(zw); err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("writing %s: %w", w.outPath, err)
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", w.outPath, err)
	}
	return f.Close()
}

func (w *Writer) writeParts(zw *zip.Writer) error {
	var body, imageRels strings.Builder
	for i, p := range w.pages {
		fmt.Fprintf(&imageRels, imageRelTmpl, i+1, i+1, p.imageExt)

		body.WriteString(strings.Join(p.blocks, ""))
		sectPr := fmt.Sprintf(sectPrTmpl, p.widthTw, p.heightTw)
		if i < len(w.pages)-1 {
			// Section break: the sectPr ending a non-final section
			// lives inside its own closing paragraph.
			fmt.Fprintf(&body, `<w:p><w:pPr>%s</w:pPr></w:p>`, sectPr)
		} else {
			body.WriteString(sectPr)
		}
	}

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", rootRels},
		{"word/document.xml", fmt.Sprintf(documentTmpl, body.String())},
		{"word/_rels/document.xml.rels", fmt.Sprintf(documentRelsTmpl, imageRels.String())},
	}

	for _, p := range parts {
		if err := writePart(zw, p.name, []byte(p.content)); err != nil {
			return err
		}
	}

	for i, p := range w.pages {
		media := fmt.Sprintf("word/media/image%d.%s", i+1, p.imageExt)
		if err := writePart(zw, media, p.image); err != nil {
			return err
		}
	}
	return nil
}

func writePart(zw *zip.Writer, name string, content []byte) error {
	part, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating part %s: %w", name, err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("writing part %s: %w", name, err)
	}
	return nil
}
