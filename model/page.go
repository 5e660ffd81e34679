package model

// Page is one source page image together with the regions drawn on it.
// Width and Height are the pixel dimensions recorded in the region file and
// must match the image on disk; the pipeline verifies this before any
// per-page work.
type Page struct {
	Path    string   `json:"path"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Regions []Region `json:"boxes"`
}

// Document is the ordered set of pages for one pipeline run. Page order is
// preserved end to end: page i of every output document corresponds to
// Pages[i], and region traversal order within a page follows creation
// order from the annotation tool.
type Document struct {
	Pages []Page `json:"images"`
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// RegionCount returns the total number of regions across all pages.
func (d *Document) RegionCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Regions)
	}
	return n
}
