package model

import "image"

// Placeholder is the sentinel text assigned to a region whose content has
// not been recovered. It is what the user sees in the output document as an
// invitation to type, so it is short and obviously editable.
const Placeholder = "[edit]"

// Region is a user-drawn rectangular text area on a page image. Coordinates
// are pixels with the origin at the top-left corner of the image.
type Region struct {
	Left   int    `json:"left"`
	Top    int    `json:"top"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Text   string `json:"text,omitempty"`
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
}

// Expand grows the region by margin pixels on every side. The result may
// have negative Left/Top; callers that touch pixel data clamp afterwards.
func (r Region) Expand(margin int) Region {
	return Region{
		Left:   r.Left - margin,
		Top:    r.Top - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
		Text:   r.Text,
	}
}

// Clamp restricts the region to a w-by-h page. Regions entirely outside the
// page collapse to an empty rectangle on the nearest edge.
func (r Region) Clamp(w, h int) Region {
	clipped := r.Rect().Intersect(image.Rect(0, 0, w, h))
	return Region{
		Left:   clipped.Min.X,
		Top:    clipped.Min.Y,
		Width:  clipped.Dx(),
		Height: clipped.Dy(),
		Text:   r.Text,
	}
}

// IsEmpty reports whether the region has no area.
func (r Region) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// TextOrPlaceholder returns the region's text, or Placeholder when no text
// has been set. An output document never renders an empty text box.
func (r Region) TextOrPlaceholder() string {
	if r.Text == "" {
		return Placeholder
	}
	return r.Text
}
