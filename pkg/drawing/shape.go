package drawing

import "gonum.org/v1/gonum/spatial/r2"

// Kind identifies the concrete type of a Shape.
type Kind int

const (
	KindPolyline Kind = iota
	KindCurve
	KindRect
	KindEllipse
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindPolyline:
		return "polyline"
	case KindCurve:
		return "curve"
	case KindRect:
		return "rect"
	case KindEllipse:
		return "ellipse"
	case KindPath:
		return "path"
	default:
		return "<unknown Kind>"
	}
}

// Shape is a drawable primitive in local coordinates.
// The set of implementations is closed: Polyline, Curve, Rect, Ellipse and Path.
type Shape interface {
	Kind() Kind
	isShape()
}

// Polyline is an open or closed sequence of straight segments.
// A line is a polyline with two points.
type Polyline struct {
	Points []r2.Vec
	Closed bool
}

// Curve is a quadratic (one control point) or cubic (two control points)
// Bézier segment.
type Curve struct {
	Start    r2.Vec
	Controls []r2.Vec
	End      r2.Vec
}

// Quad returns a quadratic Bézier curve.
func Quad(start, ctrl, end r2.Vec) Curve {
	return Curve{Start: start, Controls: []r2.Vec{ctrl}, End: end}
}

// Cubic returns a cubic Bézier curve.
func Cubic(start, c1, c2, end r2.Vec) Curve {
	return Curve{Start: start, Controls: []r2.Vec{c1, c2}, End: end}
}

// Hull returns the control polygon: start, controls, end.
// The curve always lies inside the convex hull of these points.
func (c Curve) Hull() []r2.Vec {
	pts := make([]r2.Vec, 0, len(c.Controls)+2)
	pts = append(pts, c.Start)
	pts = append(pts, c.Controls...)
	return append(pts, c.End)
}

// Rect is an axis-aligned rectangle in local coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Corners returns the four corners, clockwise from the origin corner.
func (r Rect) Corners() []r2.Vec {
	return []r2.Vec{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H},
		{X: r.X, Y: r.Y + r.H},
	}
}

// Ellipse is an axis-aligned ellipse in local coordinates.
// A circle has RX == RY.
type Ellipse struct {
	Center r2.Vec
	RX, RY float64
}

// Segment is one piece of a subpath starting at the previous end point.
// No controls is a straight line, one a quadratic and two a cubic curve.
type Segment struct {
	Controls []r2.Vec
	End      r2.Vec
}

// Subpath is a connected run of segments.
type Subpath struct {
	Start    r2.Vec
	Segments []Segment
	Closed   bool
}

// Points returns the start point followed by every control and end point.
func (s Subpath) Points() []r2.Vec {
	pts := []r2.Vec{s.Start}
	for _, seg := range s.Segments {
		pts = append(pts, seg.Controls...)
		pts = append(pts, seg.End)
	}
	return pts
}

// Path is a sequence of subpaths sharing one style, as produced by an SVG
// path element.
type Path struct {
	Subpaths []Subpath
}

// Points returns every point of every subpath, controls included.
func (p Path) Points() []r2.Vec {
	var pts []r2.Vec
	for _, s := range p.Subpaths {
		pts = append(pts, s.Points()...)
	}
	return pts
}

func (Polyline) Kind() Kind { return KindPolyline }
func (Curve) Kind() Kind    { return KindCurve }
func (Rect) Kind() Kind     { return KindRect }
func (Ellipse) Kind() Kind  { return KindEllipse }
func (Path) Kind() Kind     { return KindPath }

func (Polyline) isShape() {}
func (Curve) isShape()    {}
func (Rect) isShape()     {}
func (Ellipse) isShape()  {}
func (Path) isShape()     {}
