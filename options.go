package palimpsest

import (
	"github.com/tsawler/palimpsest/assemble"
	"github.com/tsawler/palimpsest/inpaint"
	"github.com/tsawler/palimpsest/ocr"
)

// output pairs a registered format name with its destination path. Outputs
// are written in the order they were requested.
type output struct {
	format string
	path   string
}

// RunOptions holds configuration for a reconstruction run.
type RunOptions struct {
	// Geometry
	dpi float64

	// Erase pass
	erase    bool
	expandPx int
	radius   int

	// Text recovery
	ocrEnabled bool
	ocrConfig  ocr.Config

	// Outputs and text styling
	outputs []output
	style   assemble.Style
}

// defaultRunOptions returns the defaults for a reconstruction run.
func defaultRunOptions() RunOptions {
	return RunOptions{
		dpi:       300,
		expandPx:  inpaint.DefaultMargin,
		radius:    inpaint.DefaultRadius,
		ocrConfig: ocr.DefaultConfig(),
		style:     assemble.DefaultStyle(),
	}
}

// clone creates a deep copy of RunOptions.
func (o RunOptions) clone() RunOptions {
	newOpts := o
	if o.outputs != nil {
		newOpts.outputs = make([]output, len(o.outputs))
		copy(newOpts.outputs, o.outputs)
	}
	return newOpts
}
