// Package palimpsest provides a fluent API for rebuilding editable
// documents from scanned page images and user-marked text regions.
//
// Given a region file describing pages and the rectangles where text was
// found, a run can erase the marked text from the page images, recover
// the original text with OCR, and assemble slide-deck, word-processor,
// PDF, and HTML outputs with editable text boxes positioned exactly over
// the erased regions.
//
// Basic usage:
//
//	written, err := palimpsest.Open("regions.json").
//	    PPTX("deck.pptx").
//	    Run()
//	if err != nil {
//	    // handle error
//	}
//
// With erasing and OCR recovery:
//
//	written, err := palimpsest.Open("regions.json").
//	    DPI(300).
//	    Erase(2, 3).
//	    OCR("eng", ocr.PSM_SINGLE_BLOCK).
//	    PPTX("deck.pptx").
//	    DOCX("doc.docx").
//	    Run()
//
// For advanced use cases, the lower-level inpaint, ocr, and assemble
// packages are also available.
package palimpsest

// Open names the region file and returns a Rebuilder for fluent
// configuration. Nothing is read until Run is called.
//
// Example:
//
//	written, err := palimpsest.Open("regions.json").PPTX("deck.pptx").Run()
func Open(regionsPath string) *Rebuilder {
	return &Rebuilder{
		regionsPath: regionsPath,
		options:     defaultRunOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	written := palimpsest.Must(palimpsest.Open("regions.json").PPTX("deck.pptx").Run())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
