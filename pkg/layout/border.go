package layout

import (
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/drawing"
	"github.com/matzehuels/pagefit/pkg/geom"
)

// Border describes the optional frame drawn around the content.
// All lengths are in millimeters.
type Border struct {
	// Width is the stroke thickness. Zero disables the border.
	Width float64

	// Distance is the gap between the content and the inner stroke edge.
	Distance float64

	// Color is passed to the renderer as the stroke color, unparsed.
	Color string
}

// Enabled reports whether the border draws anything.
func (b Border) Enabled() bool { return b.Width != 0 }

// Extent returns how far the border's outer edge lies from the content.
func (b Border) Extent() float64 {
	if !b.Enabled() {
		return 0
	}
	return b.Distance + b.Width
}

// AddBorder appends a stroked rectangle whose inner edge sits
// border.Distance outside bounds on every side, and returns the bounds
// grown to the rectangle's outer edge. A disabled border returns doc and
// bounds unchanged.
func AddBorder(doc drawing.Document, bounds r2.Box, border Border) (drawing.Document, r2.Box) {
	if !border.Enabled() {
		return doc, bounds
	}

	// The stroke is centered on the outline, so the outline sits half a
	// stroke beyond the inner edge.
	centerline := geom.Grow(bounds, border.Distance+border.Width/2)
	size := centerline.Size()
	rect := drawing.Rect{X: centerline.Min.X, Y: centerline.Min.Y, W: size.X, H: size.Y}

	style := drawing.Style{
		{Name: "fill", Value: "none"},
		{Name: "stroke", Value: border.Color},
		{Name: "stroke-width", Value: strconv.FormatFloat(border.Width, 'f', -1, 64)},
	}
	el := drawing.NewElement(rect, style)
	el.ID = "pagefit-border"

	return doc.Append(el), geom.Grow(bounds, border.Extent())
}
