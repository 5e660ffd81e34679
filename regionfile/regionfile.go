// Package regionfile reads the region-description file produced by the
// annotation tool.
//
// The file is a JSON document listing page images and the text boxes drawn
// on each:
//
//	{"images": [{"path": "p1.png", "width": 2480, "height": 3508,
//	             "boxes": [{"left": 300, "top": 150, "width": 600, "height": 120}]}]}
//
// Box text is normally absent on input; the pipeline fills it during
// processing. Editing and re-saving the file is the annotation tool's job,
// never this library's.
package regionfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tsawler/palimpsest/model"
)

// ErrNoPages is returned when the region file parses cleanly but lists no
// images to process.
var ErrNoPages = errors.New("region file contains no images")

// Load reads and validates a region file.
func Load(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading region file: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing region file %s: %w", path, err)
	}

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPages)
	}

	for i, page := range doc.Pages {
		if err := validatePage(page); err != nil {
			return nil, fmt.Errorf("%s: image %d: %w", path, i, err)
		}
	}

	return &doc, nil
}

// validatePage checks a page record for malformed geometry. Boxes that
// extend past the page edge are allowed; the annotation tool legitimately
// produces them and downstream consumers clamp.
func validatePage(p model.Page) error {
	if p.Path == "" {
		return errors.New("missing image path")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid page dimensions %dx%d", p.Width, p.Height)
	}
	for j, r := range p.Regions {
		if r.Left < 0 || r.Top < 0 || r.Width < 0 || r.Height < 0 {
			return fmt.Errorf("box %d has negative geometry (left=%d top=%d width=%d height=%d)",
				j, r.Left, r.Top, r.Width, r.Height)
		}
	}
	return nil
}
