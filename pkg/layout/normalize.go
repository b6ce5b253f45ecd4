package layout

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/drawing"
	"github.com/matzehuels/pagefit/pkg/geom"
)

// NeedsRotation reports whether content with bounds b should be turned a
// quarter so that its height does not exceed its width. Squares keep their
// orientation.
func NeedsRotation(b r2.Box) bool {
	return geom.Height(b) > geom.Width(b)
}

// Normalize trims doc so its bounds start at the origin and, when
// [NeedsRotation] holds, rotates it 90° about the origin and moves it back
// into the positive quadrant. It returns the new document, its bounds and
// whether it was rotated.
func Normalize(doc drawing.Document, bounds r2.Box) (drawing.Document, r2.Box, bool) {
	m := geom.TranslateVec(r2.Scale(-1, bounds.Min))
	size := bounds.Size()

	rotated := NeedsRotation(bounds)
	if rotated {
		// (x, y) → (h − y, x) keeps the quarter-turned box in [0,h]×[0,w].
		m = geom.Translate(size.Y, 0).Mul(geom.Rotate90).Mul(m)
		size = r2.Vec{X: size.Y, Y: size.X}
	}

	return doc.Transform(m), r2.Box{Max: size}, rotated
}
