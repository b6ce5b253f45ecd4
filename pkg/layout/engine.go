package layout

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/drawing"
	"github.com/matzehuels/pagefit/pkg/geom"
)

// Result describes what a run did to the drawing. Boxes are in millimeters.
type Result struct {
	// Source is the drawing's bounds after unit conversion, before trimming.
	Source r2.Box

	// Trimmed is the bounds after trimming and rotation; Min is the origin.
	Trimmed r2.Box

	// Bordered is Trimmed grown by the border extent. Equal to Trimmed when
	// the border is disabled.
	Bordered r2.Box

	// Rotated reports whether the drawing was turned a quarter.
	Rotated bool

	// Offset is where Bordered.Min lands on the page.
	Offset r2.Vec

	// Page and Anchor echo the placement options.
	Page   Page
	Anchor Anchor
}

// Size returns the page footprint of the placed content, border included.
func (r Result) Size() r2.Vec { return r.Bordered.Size() }

// Placed returns the page-space box the content occupies.
func (r Result) Placed() r2.Box {
	return r2.Box{Min: r.Offset, Max: r2.Add(r.Offset, r.Size())}
}

// Overflows reports whether the placed content extends past the usable area.
func (r Result) Overflows(padding float64) bool {
	return !geom.ContainsBox(r.Page.Usable(padding), r.Placed())
}

// Run trims, orients, frames and places doc on the configured page. The
// returned document is in page millimeters with Unit 1; doc is not
// modified.
func Run(doc drawing.Document, opts Options) (drawing.Document, Result, error) {
	if err := opts.Validate(); err != nil {
		return drawing.Document{}, Result{}, err
	}
	logger := opts.logger()

	unit, err := unitFactor(doc.Unit)
	if err != nil {
		return drawing.Document{}, Result{}, err
	}
	scaled := doc.Transform(geom.Scale(unit, unit))
	scaled.Unit = 1

	source, err := ExtractBounds(scaled)
	if err != nil {
		return drawing.Document{}, Result{}, err
	}
	logger.Debug("Extracted bounds", "elements", scaled.Len(), "min", source.Min, "max", source.Max)

	trimmedDoc, trimmed, rotated := Normalize(scaled, source)
	logger.Debug("Normalized", "width", geom.Width(trimmed), "height", geom.Height(trimmed), "rotated", rotated)

	framed, bordered := AddBorder(trimmedDoc, trimmed, opts.Border)
	if opts.Border.Enabled() {
		logger.Debug("Added border", "width", opts.Border.Width, "distance", opts.Border.Distance)
	}

	offset := Place(bordered.Size(), opts.Page, opts.PagePadding, opts.Anchor)
	placed := framed.Transform(geom.TranslateVec(r2.Sub(offset, bordered.Min)))
	logger.Debug("Placed", "page", opts.Page.Name, "anchor", opts.Anchor, "offset", offset)

	return placed, Result{
		Source:   source,
		Trimmed:  trimmed,
		Bordered: bordered,
		Rotated:  rotated,
		Offset:   offset,
		Page:     opts.Page,
		Anchor:   opts.Anchor,
	}, nil
}
