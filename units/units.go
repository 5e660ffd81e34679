// Package units converts pixel measurements to the physical and
// document-native units used by the output formats.
//
// A single resolution (dots per inch) is fixed for a whole pipeline run and
// is the only link between pixel space and physical space. Conversions run
// one way in the pipeline, pixel to physical; the inverse helpers exist for
// verifying geometry in produced documents.
package units

import (
	"fmt"
	"math"
)

const (
	// EMUPerInch is the number of English Metric Units per inch, the
	// fixed-point length unit used by Office Open XML documents.
	EMUPerInch = 914400

	// PointsPerInch is the number of typographic points per inch.
	PointsPerInch = 72
)

// Converter performs pixel-to-unit conversions at a fixed resolution.
// The zero value is not usable; construct with New.
type Converter struct {
	dpi float64
}

// New returns a Converter for the given resolution in dots per inch.
// A non-positive resolution is a caller bug, not a data condition, and is
// rejected with an error.
func New(dpi float64) (Converter, error) {
	if dpi <= 0 {
		return Converter{}, fmt.Errorf("resolution must be positive, got %g dpi", dpi)
	}
	return Converter{dpi: dpi}, nil
}

// DPI returns the converter's resolution.
func (c Converter) DPI() float64 {
	return c.dpi
}

// Inches converts a pixel count to inches.
func (c Converter) Inches(px int) float64 {
	return float64(px) / c.dpi
}

// Points converts a pixel count to typographic points.
func (c Converter) Points(px int) float64 {
	return c.Inches(px) * PointsPerInch
}

// EMU converts a pixel count to English Metric Units, rounded to the
// nearest whole unit.
func (c Converter) EMU(px int) int64 {
	return int64(math.Round(c.Inches(px) * EMUPerInch))
}

// PxFromInches converts inches back to pixels, rounded to the nearest
// whole pixel.
func (c Converter) PxFromInches(in float64) int {
	return int(math.Round(in * c.dpi))
}

// PxFromPoints converts typographic points back to pixels, rounded to the
// nearest whole pixel.
func (c Converter) PxFromPoints(pt float64) int {
	return c.PxFromInches(pt / PointsPerInch)
}

// PxFromEMU converts English Metric Units back to pixels, rounded to the
// nearest whole pixel.
func (c Converter) PxFromEMU(emu int64) int {
	return c.PxFromInches(float64(emu) / EMUPerInch)
}

// EMUFromPoints converts a point value to EMU, rounded. Text-box margins
// are specified in points but stored in EMU by the OOXML writers.
func EMUFromPoints(pt float64) int64 {
	return int64(math.Round(pt / PointsPerInch * EMUPerInch))
}
