package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PointBox returns the zero-area box holding only p.
func PointBox(p r2.Vec) r2.Box { return r2.Box{Min: p, Max: p} }

// Extend grows b so it contains p.
func Extend(b r2.Box, p r2.Vec) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y)},
		Max: r2.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y)},
	}
}

// Union returns the smallest box containing a and b. Zero-area inputs are
// kept, so the union of two points spans both.
func Union(a, b r2.Box) r2.Box {
	return Extend(Extend(a, b.Min), b.Max)
}

// BoundPoints returns the box around pts. The boolean is false when pts is
// empty, in which case there is no box.
func BoundPoints(pts ...r2.Vec) (r2.Box, bool) {
	if len(pts) == 0 {
		return r2.Box{}, false
	}
	b := PointBox(pts[0])
	for _, p := range pts[1:] {
		b = Extend(b, p)
	}
	return b, true
}

// TransformPoints maps pts through m and returns their box.
func TransformPoints(m Matrix, pts ...r2.Vec) (r2.Box, bool) {
	if len(pts) == 0 {
		return r2.Box{}, false
	}
	b := PointBox(m.Apply(pts[0]))
	for _, p := range pts[1:] {
		b = Extend(b, m.Apply(p))
	}
	return b, true
}

// TransformBox returns the axis-aligned box around the image of b under m.
func TransformBox(m Matrix, b r2.Box) r2.Box {
	out, _ := TransformPoints(m, b.Vertices()...)
	return out
}

// Grow expands b by d on every side.
func Grow(b r2.Box, d float64) r2.Box {
	return r2.Box{
		Min: r2.Sub(b.Min, r2.Vec{X: d, Y: d}),
		Max: r2.Add(b.Max, r2.Vec{X: d, Y: d}),
	}
}

// Width returns the horizontal extent of b.
func Width(b r2.Box) float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of b.
func Height(b r2.Box) float64 { return b.Max.Y - b.Min.Y }

// ContainsBox reports whether outer fully contains inner, edges included.
func ContainsBox(outer, inner r2.Box) bool {
	return outer.Min.X <= inner.Min.X && outer.Min.Y <= inner.Min.Y &&
		outer.Max.X >= inner.Max.X && outer.Max.Y >= inner.Max.Y
}
