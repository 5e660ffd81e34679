package palimpsest

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsawler/palimpsest/assemble"
	"github.com/tsawler/palimpsest/assemble/docx"
	"github.com/tsawler/palimpsest/assemble/htmldoc"
	"github.com/tsawler/palimpsest/assemble/pdf"
	"github.com/tsawler/palimpsest/assemble/pptx"
	"github.com/tsawler/palimpsest/inpaint"
	"github.com/tsawler/palimpsest/internal/imaging"
	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/ocr"
	"github.com/tsawler/palimpsest/regionfile"
	"github.com/tsawler/palimpsest/units"
)

// Rebuilder provides a fluent interface for configuring and running a
// document reconstruction. Each configuration method returns a new
// Rebuilder instance, making it safe to branch a partially configured
// chain.
type Rebuilder struct {
	regionsPath string
	options     RunOptions
}

// clone creates a copy of the Rebuilder with a deep copy of options. This
// ensures immutability of partially built chains.
func (rb *Rebuilder) clone() *Rebuilder {
	return &Rebuilder{
		regionsPath: rb.regionsPath,
		options:     rb.options.clone(),
	}
}

// DPI sets the resolution used to convert pixel geometry to physical
// units. The default is 300.
func (rb *Rebuilder) DPI(dpi float64) *Rebuilder {
	newRb := rb.clone()
	newRb.options.dpi = dpi
	return newRb
}

// Erase enables the erase pass: each region is masked, the mask grown by
// expandPx pixels, and the pixels filled from the surrounding background
// within the given radius. Non-positive arguments keep the defaults.
func (rb *Rebuilder) Erase(expandPx, radius int) *Rebuilder {
	newRb := rb.clone()
	newRb.options.erase = true
	if expandPx >= 0 {
		newRb.options.expandPx = expandPx
	}
	if radius > 0 {
		newRb.options.radius = radius
	}
	return newRb
}

// OCR enables text recovery for regions without prefilled text. lang is a
// Tesseract language code (join multiples with "+"); psm is the page
// segmentation mode, usually ocr.PSM_SINGLE_BLOCK.
func (rb *Rebuilder) OCR(lang string, psm int) *Rebuilder {
	newRb := rb.clone()
	newRb.options.ocrEnabled = true
	if lang != "" {
		newRb.options.ocrConfig.Language = lang
	}
	newRb.options.ocrConfig.PageSegMode = psm
	return newRb
}

// Tessdata overrides the traineddata directory for OCR.
func (rb *Rebuilder) Tessdata(prefix string) *Rebuilder {
	newRb := rb.clone()
	newRb.options.ocrConfig.TessdataPrefix = prefix
	return newRb
}

// PPTX adds a slide-deck output at path.
func (rb *Rebuilder) PPTX(path string) *Rebuilder {
	return rb.output("pptx", path)
}

// DOCX adds a word-processor output at path.
func (rb *Rebuilder) DOCX(path string) *Rebuilder {
	return rb.output("docx", path)
}

// PDF adds a PDF output at path.
func (rb *Rebuilder) PDF(path string) *Rebuilder {
	return rb.output("pdf", path)
}

// HTML adds an editable HTML preview output at path.
func (rb *Rebuilder) HTML(path string) *Rebuilder {
	return rb.output("html", path)
}

func (rb *Rebuilder) output(format, path string) *Rebuilder {
	newRb := rb.clone()
	newRb.options.outputs = append(newRb.options.outputs, output{format: format, path: path})
	return newRb
}

// Font fixes the text style. A non-positive sizePt keeps size selection
// automatic.
func (rb *Rebuilder) Font(name string, sizePt float64) *Rebuilder {
	newRb := rb.clone()
	newRb.options.style.FontName = name
	newRb.options.style.FontSizePt = sizePt
	return newRb
}

// RTL sets the right-to-left handling mode.
func (rb *Rebuilder) RTL(mode assemble.RTLMode) *Rebuilder {
	newRb := rb.clone()
	newRb.options.style.RTL = mode
	return newRb
}

// ShrinkToFit asks formats that support it to shrink oversized text into
// its box.
func (rb *Rebuilder) ShrinkToFit() *Rebuilder {
	newRb := rb.clone()
	newRb.options.style.ShrinkToFit = true
	return newRb
}

// MarginPt sets the text inset inside each box, in points.
func (rb *Rebuilder) MarginPt(pt float64) *Rebuilder {
	newRb := rb.clone()
	newRb.options.style.MarginPt = pt
	return newRb
}

// DebugOutline draws each region's rectangle in the outputs.
func (rb *Rebuilder) DebugOutline() *Rebuilder {
	newRb := rb.clone()
	newRb.options.style.DebugOutline = true
	return newRb
}

// defaultRegistry lists the built-in output formats.
func defaultRegistry() *assemble.Registry {
	reg := assemble.NewRegistry()
	reg.Register("pptx", pptx.New)
	reg.Register("docx", docx.New)
	reg.Register("pdf", pdf.New)
	reg.Register("html", htmldoc.New)
	return reg
}

// Run executes the configured reconstruction and returns the paths of the
// written output files, in the order the outputs were requested. The
// first fatal error aborts the run.
func (rb *Rebuilder) Run() ([]string, error) {
	opts := rb.options

	if len(opts.outputs) == 0 {
		return nil, errors.New("no output format requested")
	}

	conv, err := units.New(opts.dpi)
	if err != nil {
		return nil, err
	}

	doc, err := regionfile.Load(rb.regionsPath)
	if err != nil {
		return nil, fmt.Errorf("loading region file: %w", err)
	}

	reg := defaultRegistry()
	assemblers := make([]assemble.Assembler, 0, len(opts.outputs))
	for _, out := range opts.outputs {
		factory, err := reg.Get(out.format)
		if err != nil {
			return nil, err
		}
		a := factory(out.path, conv)
		if err := a.Begin(opts.style); err != nil {
			return nil, fmt.Errorf("starting %s output: %w", out.format, err)
		}
		assemblers = append(assemblers, a)
	}

	for i := range doc.Pages {
		page := &doc.Pages[i]
		if err := rb.processPage(page, &opts, assemblers); err != nil {
			return nil, fmt.Errorf("page %d (%s): %w", i+1, page.Path, err)
		}
		slog.Info("page assembled", "page", i+1, "regions", len(page.Regions))
	}

	written := make([]string, 0, len(opts.outputs))
	for i, a := range assemblers {
		if err := a.Finish(); err != nil {
			return nil, fmt.Errorf("writing %s output: %w", opts.outputs[i].format, err)
		}
		written = append(written, opts.outputs[i].path)
	}
	return written, nil
}

func (rb *Rebuilder) processPage(page *model.Page, opts *RunOptions, assemblers []assemble.Assembler) error {
	width, height, err := imaging.ReadConfig(page.Path)
	if err != nil {
		return fmt.Errorf("reading page image: %w", err)
	}
	if width != page.Width || height != page.Height {
		return fmt.Errorf("image is %dx%d but region file says %dx%d",
			width, height, page.Width, page.Height)
	}

	if opts.ocrEnabled {
		rb.recoverText(page, opts)
	}

	background := page.Path
	if opts.erase {
		background, err = inpaint.Reconstruct(page.Path, page.Regions, opts.expandPx, opts.radius)
		if err != nil {
			return fmt.Errorf("erasing regions: %w", err)
		}
		slog.Info("background cleaned", "path", background)
	}

	for _, a := range assemblers {
		if err := a.AddPage(page, background); err != nil {
			return err
		}
		for _, r := range page.Regions {
			if err := a.AddTextRegion(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// recoverText fills empty region text from OCR on the original page
// image. Recovery failures leave the region empty so the assemblers fall
// back to the placeholder.
func (rb *Rebuilder) recoverText(page *model.Page, opts *RunOptions) {
	client, err := ocr.New(opts.ocrConfig)
	if err != nil {
		slog.Warn("OCR unavailable, regions keep the placeholder", "error", err)
		return
	}
	defer client.Close()

	img, err := imaging.Read(page.Path)
	if err != nil {
		slog.Warn("OCR skipped, page image unreadable", "path", page.Path, "error", err)
		return
	}

	for i := range page.Regions {
		r := &page.Regions[i]
		if r.Text != "" {
			continue
		}
		text, err := client.RecognizeRegion(img, *r)
		if err != nil {
			slog.Warn("OCR failed for region, keeping placeholder",
				"path", page.Path, "region", i, "error", err)
			continue
		}
		r.Text = text
	}
}
