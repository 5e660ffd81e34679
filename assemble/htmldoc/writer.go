// Package htmldoc assembles an editable HTML preview: one positioned div
// per page with the cleaned background behind it, and one contenteditable
// div per region at the region's converted position. The preview opens in
// any browser and references the background images by relative path.
package htmldoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/palimpsest/assemble"
	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/units"
)

const styleSheet = `body { margin: 0; background: #888; }
.page { position: relative; margin: 12px auto; background-size: 100% 100%; background-repeat: no-repeat; box-shadow: 0 1px 4px rgba(0,0,0,.5); }
.region { position: absolute; overflow: hidden; margin: 0; }
.region:focus { outline: 1px solid #36c; }`

// Writer assembles an HTML preview. Create with New; use through the
// assemble.Assembler interface.
type Writer struct {
	outPath string
	conv    units.Converter
	style   assemble.Style
	pages   []*html.Node
}

// New creates an HTML assembler writing to outPath.
func New(outPath string, conv units.Converter) assemble.Assembler {
	return &Writer{outPath: outPath, conv: conv}
}

// Begin records the run's text style.
func (w *Writer) Begin(style assemble.Style) error {
	w.style = style
	return nil
}

// AddPage starts a new page div backed by the image at background. The
// image is referenced relative to the output file so the preview can move
// with its directory.
func (w *Writer) AddPage(pg *model.Page, background string) error {
	if _, err := os.Stat(background); err != nil {
		return fmt.Errorf("reading background image: %w", err)
	}

	ref := background
	if rel, err := filepath.Rel(filepath.Dir(w.outPath), background); err == nil {
		ref = filepath.ToSlash(rel)
	}

	div := element(atom.Div,
		attr("class", "page"),
		attr("style", fmt.Sprintf("width: %.4fin; height: %.4fin; background-image: url('%s');",
			w.conv.Inches(pg.Width), w.conv.Inches(pg.Height), ref)))
	w.pages = append(w.pages, div)
	return nil
}

// AddTextRegion places an editable div for r on the current page.
func (w *Writer) AddTextRegion(r model.Region) error {
	if len(w.pages) == 0 {
		return errors.New("AddTextRegion called before AddPage")
	}
	page := w.pages[len(w.pages)-1]

	content := r.TextOrPlaceholder()

	var css strings.Builder
	fmt.Fprintf(&css, "left: %.4fin; top: %.4fin; width: %.4fin; height: %.4fin;",
		w.conv.Inches(r.Left), w.conv.Inches(r.Top),
		w.conv.Inches(r.Width), w.conv.Inches(r.Height))
	fmt.Fprintf(&css, " font-size: %.4gpt; line-height: %.4g; padding: %.4gpt;",
		w.style.EffectiveFontSizePt(), assemble.LineSpacing, w.style.MarginPt)
	if w.style.FontName != "" {
		fmt.Fprintf(&css, " font-family: '%s';", w.style.FontName)
	}
	if w.style.DebugOutline {
		css.WriteString(" outline: 1px solid red;")
	}

	div := element(atom.Div,
		attr("class", "region"),
		attr("contenteditable", "true"),
		attr("style", css.String()))
	if w.style.IsRTL(content) {
		div.Attr = append(div.Attr, html.Attribute{Key: "dir", Val: "rtl"})
	}

	for i, line := range assemble.SplitLines(content) {
		if i > 0 {
			div.AppendChild(element(atom.Br))
		}
		div.AppendChild(&html.Node{Type: html.TextNode, Data: line})
	}

	page.AppendChild(div)
	return nil
}

// Finish renders the assembled document to the output path.
func (w *Writer) Finish() error {
	if len(w.pages) == 0 {
		return errors.New("no pages added")
	}

	doc := w.document()
	f, err := os.Create(w.outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.outPath, err)
	}
	if err := html.Render(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", w.outPath, err)
	}
	return f.Close()
}

func (w *Writer) document() *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	meta := element(atom.Meta, attr("charset", "utf-8"))
	head.AppendChild(meta)

	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: filepath.Base(w.outPath)})
	head.AppendChild(title)

	style := element(atom.Style)
	style.AppendChild(&html.Node{Type: html.TextNode, Data: styleSheet})
	head.AppendChild(style)
	root.AppendChild(head)

	body := element(atom.Body)
	for _, page := range w.pages {
		body.AppendChild(page)
	}
	root.AppendChild(body)
	return doc
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}
