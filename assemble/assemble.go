// Package assemble builds a positioned-text-box document from cleaned page
// backgrounds and recovered regions.
//
// Each output format implements the Assembler interface once; the pipeline
// stays format-agnostic and feeds every requested assembler the same pages
// and regions. Geometry always flows through the units converter a writer
// was constructed with, so every format reproduces the same physical
// position and size for a region.
package assemble

import (
	"encoding/xml"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/text"
	"github.com/tsawler/palimpsest/units"
)

// ErrUnknownFormat is returned when a requested output format has no
// registered assembler.
var ErrUnknownFormat = errors.New("unknown output format")

// LineSpacing is the line-spacing multiple applied inside text boxes.
// Slightly over single spacing keeps wrapped lines readable while wasting
// as little of a small box as possible.
const LineSpacing = 1.05

// RTLMode selects right-to-left paragraph handling.
type RTLMode int

const (
	// RTLOff renders every region left-to-right.
	RTLOff RTLMode = iota
	// RTLOn renders every region right-to-left.
	RTLOn
	// RTLAuto chooses per region from the region's recovered text.
	RTLAuto
)

// ParseRTLMode converts a CLI/config string ("off", "on", "auto") to an
// RTLMode.
func ParseRTLMode(s string) (RTLMode, error) {
	switch strings.ToLower(s) {
	case "", "off", "false":
		return RTLOff, nil
	case "on", "true":
		return RTLOn, nil
	case "auto":
		return RTLAuto, nil
	default:
		return RTLOff, fmt.Errorf("invalid rtl mode %q (want off, on, or auto)", s)
	}
}

// Style carries the per-run text options applied uniformly to every
// region of every page.
type Style struct {
	// FontName overrides the font family; empty keeps each format's
	// default.
	FontName string

	// FontSizePt is a fixed font size in points. Zero means "choose":
	// see EffectiveFontSizePt.
	FontSizePt float64

	// RTL selects right-to-left paragraph rendering.
	RTL RTLMode

	// ShrinkToFit asks the target format's renderer to reduce the font
	// size until the text fits its box. The assembler only sets the
	// in-format option; it never measures text itself.
	ShrinkToFit bool

	// MarginPt is the internal text-box margin in points.
	MarginPt float64

	// DebugOutline additionally draws a thin unfilled rectangle over
	// each text box so alignment can be checked against the background.
	DebugOutline bool
}

// DefaultStyle returns the style used when the caller sets nothing.
func DefaultStyle() Style {
	return Style{MarginPt: 1.5}
}

// EffectiveFontSizePt resolves the font size to render: an explicit size
// wins; otherwise start large when the format will shrink text to fit, or
// fall back to a readable fixed size when it will not.
func (s Style) EffectiveFontSizePt() float64 {
	if s.FontSizePt > 0 {
		return s.FontSizePt
	}
	if s.ShrinkToFit {
		return 80
	}
	return 12
}

// IsRTL reports whether the region containing content should be rendered
// right to left.
func (s Style) IsRTL(content string) bool {
	switch s.RTL {
	case RTLOn:
		return true
	case RTLAuto:
		return text.Detect(content) == text.RTL
	default:
		return false
	}
}

// Assembler builds one output document. Calls arrive in a fixed order:
// Begin once, then for each page AddPage followed by AddTextRegion for
// each of its regions in traversal order, then Finish once, which writes
// the document to the assembler's output path.
type Assembler interface {
	Begin(style Style) error
	AddPage(page *model.Page, background string) error
	AddTextRegion(r model.Region) error
	Finish() error
}

// Factory creates an assembler writing to outPath with geometry converted
// at the given resolution.
type Factory func(outPath string, conv units.Converter) Assembler

// Registry maps format names to assembler factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a format under the given name, replacing any previous
// registration.
func (r *Registry) Register(name string, f Factory) {
	r.factories[strings.ToLower(name)] = f
}

// Get retrieves the factory for a format name.
func (r *Registry) Get(name string) (Factory, error) {
	f, ok := r.factories[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return f, nil
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EscapeXML escapes s for use as XML character data or attribute content.
func EscapeXML(s string) string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// SplitLines breaks region text into render lines. Output formats express
// explicit newlines as separate paragraphs or breaks, never as literal
// control characters in markup.
func SplitLines(s string) []string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	return lines
}
