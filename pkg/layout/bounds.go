package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/drawing"
	"github.com/matzehuels/pagefit/pkg/errors"
	"github.com/matzehuels/pagefit/pkg/geom"
)

// ExtractBounds returns the axis-aligned bounding box of every element of
// doc in document space. It fails with an EMPTY_DOCUMENT error when doc has
// no element with geometry.
func ExtractBounds(doc drawing.Document) (r2.Box, error) {
	var (
		box   r2.Box
		found bool
	)
	for _, el := range doc.Elements {
		b, ok := ElementBounds(el)
		if !ok {
			continue
		}
		if !found {
			box, found = b, true
			continue
		}
		box = geom.Union(box, b)
	}
	if !found {
		return r2.Box{}, errors.EmptyDocument(doc.Source)
	}
	return box, nil
}

// ElementBounds returns the document-space box of a single element.
// The boolean is false for elements without geometry, such as an empty
// polyline.
func ElementBounds(el drawing.Element) (r2.Box, bool) {
	if el.Shape == nil {
		return r2.Box{}, false
	}
	return shapeBounds(el.Shape, el.CTM())
}

func shapeBounds(s drawing.Shape, m geom.Matrix) (r2.Box, bool) {
	switch s := s.(type) {
	case drawing.Polyline:
		return geom.TransformPoints(m, s.Points...)
	case drawing.Curve:
		return geom.TransformPoints(m, s.Hull()...)
	case drawing.Rect:
		return geom.TransformPoints(m, s.Corners()...)
	case drawing.Ellipse:
		return ellipseBounds(s, m), true
	case drawing.Path:
		return geom.TransformPoints(m, s.Points()...)
	default:
		return r2.Box{}, false
	}
}

// ellipseBounds returns the exact box of an axis-aligned ellipse under m.
// With u and v the images of the two semi-axes, the point at angle t is
// c + u·cos t + v·sin t, so each coordinate swings by hypot(u, v).
func ellipseBounds(e drawing.Ellipse, m geom.Matrix) r2.Box {
	c := m.Apply(e.Center)
	u := m.ApplyVector(r2.Vec{X: math.Abs(e.RX)})
	v := m.ApplyVector(r2.Vec{Y: math.Abs(e.RY)})
	half := r2.Vec{
		X: math.Hypot(u.X, v.X),
		Y: math.Hypot(u.Y, v.Y),
	}
	return r2.Box{Min: r2.Sub(c, half), Max: r2.Add(c, half)}
}
