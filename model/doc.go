// Package model defines the data model shared by every stage of the
// reconstruction pipeline: user-drawn text regions, the page images they
// belong to, and the document that orders the pages.
//
// All geometry is integer pixel space with the origin at the top-left of
// the page image. Conversion to physical units happens downstream in the
// units package; nothing in this package depends on resolution.
//
// Regions are deliberately not validated against page bounds. A box drawn
// in the annotation tool may touch or slightly exceed the image border,
// and that is preserved as-is. Consumers that index into pixel data must
// clamp first (see Region.Clamp).
package model
