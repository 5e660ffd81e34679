// Package pptx assembles a slide-deck document: one slide per page image,
// the cleaned background stretched over the whole slide, and one editable
// text box per region at the region's converted position.
//
// The generated package is deliberately minimal: a blank master/layout
// pair plus per-slide parts built from templates, the same structures the
// reading side of Office Open XML presentations exposes.
package pptx

import (
	"archive/zip"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/tsawler/palimpsest/assemble"
	"github.com/tsawler/palimpsest/format"
	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/units"
)

// Writer assembles a PPTX document. Create with New; use through the
// assemble.Assembler interface.
type Writer struct {
	outPath string
	conv    units.Converter
	style   assemble.Style
	slides  []*slide
}

type slide struct {
	widthEMU  int64 // deck slide size, fixed by the first page
	heightEMU int64
	scaleX    float64 // page-to-slide stretch, 1 when sizes match
	scaleY    float64
	image     []byte
	imageExt  string // media file extension without dot
	shapes    []string
	nextID    int
}

func scaleEMU(v int64, factor float64) int64 {
	if factor == 1 {
		return v
	}
	return int64(math.Round(float64(v) * factor))
}

// New creates a PPTX assembler writing to outPath.
func New(outPath string, conv units.Converter) assemble.Assembler {
	return &Writer{outPath: outPath, conv: conv}
}

// Begin records the run's text style.
func (w *Writer) Begin(style assemble.Style) error {
	w.style = style
	return nil
}

// AddPage starts a new slide backed by the image at background. The slide
// deck has a single global slide size, fixed by the first page; a later
// page with different pixel dimensions is stretched to that size and its
// region geometry scaled to match, which is reported but not fatal.
func (w *Writer) AddPage(page *model.Page, background string) error {
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

	pw := w.conv.EMU(page.Width)
	ph := w.conv.EMU(page.Height)

	s := &slide{
		widthEMU:  pw,
		heightEMU: ph,
		scaleX:    1,
		scaleY:    1,
		image:     data,
		imageExt:  strings.TrimPrefix(f.Extension(), "."),
		nextID:    2,
	}

	if len(w.slides) > 0 {
		first := w.slides[0]
		if first.widthEMU != pw || first.heightEMU != ph {
			s.widthEMU = first.widthEMU
			s.heightEMU = first.heightEMU
			s.scaleX = float64(first.widthEMU) / float64(pw)
			s.scaleY = float64(first.heightEMU) / float64(ph)
			slog.Warn("slide size fixed by first page; stretching page to fit",
				"page", len(w.slides)+1,
				"page_emu", fmt.Sprintf("%dx%d", pw, ph),
				"slide_emu", fmt.Sprintf("%dx%d", first.widthEMU, first.heightEMU))
		}
	}

	s.shapes = append(s.shapes, fmt.Sprintf(backgroundTmpl, s.nextID, s.widthEMU, s.heightEMU))
	s.nextID++

	w.slides = append(w.slides, s)
	return nil
}

// AddTextRegion places a text box for r on the current slide.
func (w *Writer) AddTextRegion(r model.Region) error {
	if len(w.slides) == 0 {
		return errors.New("AddTextRegion called before AddPage")
	}
	s := w.slides[len(w.slides)-1]

	x := scaleEMU(w.conv.EMU(r.Left), s.scaleX)
	y := scaleEMU(w.conv.EMU(r.Top), s.scaleY)
	cx := scaleEMU(w.conv.EMU(r.Width), s.scaleX)
	cy := scaleEMU(w.conv.EMU(r.Height), s.scaleY)

	if w.style.DebugOutline {
		s.shapes = append(s.shapes, fmt.Sprintf(outlineTmpl, s.nextID, s.nextID, x, y, cx, cy))
		s.nextID++
	}

	inset := units.EMUFromPoints(w.style.MarginPt)
	autofit := ""
	if w.style.ShrinkToFit {
		autofit = "<a:normAutofit/>"
	}

	s.shapes = append(s.shapes, fmt.Sprintf(textShapeTmpl,
		s.nextID, s.nextID, x, y, cx, cy,
		inset, inset, inset, inset,
		autofit, w.paragraphs(r.TextOrPlaceholder())))
	s.nextID++
	return nil
}

/// paragraphs renders region text as one a:p element per line.
func (w *Writer) paragraphs(content string) string {
	rtlAttr := ""
	if w.style.IsRTL(content) {
		rtlAttr = ` rtl="1"`
	}
	spacing := int(math.Round(assemble.LineSpacing * 100000))

	runProps := fmt.Sprintf(`<a:rPr sz="%d"/>`, int(math.Round(w.style.EffectiveFontSizePt()*100)))
	if w.style.FontName != "" {
		runProps = fmt.Sprintf(`<a:rPr sz="%d"><a:latin typeface="%s"/></a:rPr>`,
			int(math.Round(w.style.EffectiveFontSizePt()*100)),
			assemble.EscapeXML(w.style.FontName))
	}

	var b strings.Builder
	for _, line := range assemble.SplitLines(content) {
		fmt.Fprintf(&b, paragraphTmpl, rtlAttr, spacing, runProps, assemble.EscapeXML(line))
	}
	return b.String()
}

// Finish writes the assembled presentation to the output path.
func (w *Writer) Finish() error {
	if len(w.slides) == 0 {
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
	var slideOverrides, slideIDs, slideRels strings.Builder
	for i := range w.slides {
		fmt.Fprintf(&slideOverrides, slideContentTypeTmpl, i+1)
		fmt.Fprintf(&slideIDs, slideIDTmpl, 256+i, i+2)
		fmt.Fprintf(&slideRels, presentationRelTmpl, i+2, i+1)
	}

	first := w.slides[0]
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", fmt.Sprintf(contentTypesTmpl, slideOverrides.String())},
		{"_rels/.rels", rootRels},
		{"ppt/presentation.xml", fmt.Sprintf(presentationTmpl, slideIDs.String(), first.widthEMU, first.heightEMU)},
		{"ppt/_rels/presentation.xml.rels", fmt.Sprintf(presentationRelsTmpl, slideRels.String())},
		{"ppt/slideMasters/slideMaster1.xml", slideMaster},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayout},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels},
		{"ppt/theme/theme1.xml", theme},
	}

	for _, p := range parts {
		if err := writePart(zw, p.name, []byte(p.content)); err != nil {
			return err
		}
	}

	for i, s := range w.slides {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		content := fmt.Sprintf(slideTmpl, strings.Join(s.shapes, ""))
		if err := writePart(zw, name, []byte(content)); err != nil {
			return err
		}

		rels := fmt.Sprintf(slideRelsTmpl, i+1, s.imageExt)
		if err := writePart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), []byte(rels)); err != nil {
			return err
		}

		media := fmt.Sprintf("ppt/media/image%d.%s", i+1, s.imageExt)
		if err := writePart(zw, media, s.image); err != nil {
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
