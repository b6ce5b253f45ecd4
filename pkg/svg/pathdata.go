package svg

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/drawing"
)

// pathBuilder accumulates subpaths while path data is parsed.
type pathBuilder struct {
	path  drawing.Path
	sub   *drawing.Subpath
	cur   r2.Vec
	start r2.Vec
	moved bool

	// last control point of the previous C/S or Q/T segment, for reflection.
	lastCubic, lastQuad *r2.Vec
}

func (b *pathBuilder) moveTo(p r2.Vec) {
	b.flush()
	b.sub = &drawing.Subpath{Start: p}
	b.cur, b.start = p, p
	b.moved = true
}

func (b *pathBuilder) segment(end r2.Vec, controls ...r2.Vec) {
	if b.sub == nil {
		// Drawing after Z continues from the closed subpath's start.
		b.sub = &drawing.Subpath{Start: b.cur}
	}
	b.sub.Segments = append(b.sub.Segments, drawing.Segment{Controls: controls, End: end})
	b.cur = end
}

func (b *pathBuilder) close() {
	if b.sub != nil {
		b.sub.Closed = true
	}
	b.flush()
	b.cur = b.start
}

// flush keeps subpaths that draw something; a bare moveto does not.
func (b *pathBuilder) flush() {
	if b.sub != nil && len(b.sub.Segments) > 0 {
		b.path.Subpaths = append(b.path.Subpaths, *b.sub)
	}
	b.sub = nil
}

// parsePathData parses the d attribute of a path element.
func parsePathData(d string) (drawing.Path, error) {
	sc := &scanner{s: d}
	b := &pathBuilder{}

	var cmd byte
	for !sc.done() {
		if c := sc.peek(); isLetter(c) {
			cmd = c
			sc.pos++
		} else if cmd == 0 {
			return drawing.Path{}, sc.errorf("path data must start with a moveto")
		}
		if !b.moved && cmd != 'M' && cmd != 'm' {
			return drawing.Path{}, sc.errorf("path data must start with a moveto")
		}

		var err error
		cmd, err = b.command(sc, cmd)
		if err != nil {
			return drawing.Path{}, err
		}
	}
	b.flush()
	return b.path, nil
}

// command consumes the arguments of one command and returns the command
// implied for repeated argument groups.
func (b *pathBuilder) command(sc *scanner, cmd byte) (byte, error) {
	rel := cmd >= 'a'
	at := func(x, y float64) r2.Vec {
		if rel {
			return r2.Vec{X: b.cur.X + x, Y: b.cur.Y + y}
		}
		return r2.Vec{X: x, Y: y}
	}
	next := cmd
	var lastCubic, lastQuad *r2.Vec

	switch cmd {
	case 'M', 'm':
		a, err := sc.numbers(2)
		if err != nil {
			return 0, err
		}
		b.moveTo(at(a[0], a[1]))
		next = 'L'
		if rel {
			next = 'l'
		}
	case 'Z', 'z':
		b.close()
		b.lastCubic, b.lastQuad = nil, nil
		return cmd, b.expectCommand(sc)
	case 'L', 'l':
		a, err := sc.numbers(2)
		if err != nil {
			return 0, err
		}
		b.segment(at(a[0], a[1]))
	case 'H', 'h':
		x, err := sc.number()
		if err != nil {
			return 0, err
		}
		if rel {
			x += b.cur.X
		}
		b.segment(r2.Vec{X: x, Y: b.cur.Y})
	case 'V', 'v':
		y, err := sc.number()
		if err != nil {
			return 0, err
		}
		if rel {
			y += b.cur.Y
		}
		b.segment(r2.Vec{X: b.cur.X, Y: y})
	case 'C', 'c':
		a, err := sc.numbers(6)
		if err != nil {
			return 0, err
		}
		c1, c2, end := at(a[0], a[1]), at(a[2], a[3]), at(a[4], a[5])
		b.segment(end, c1, c2)
		lastCubic = &c2
	case 'S', 's':
		a, err := sc.numbers(4)
		if err != nil {
			return 0, err
		}
		c1 := b.reflect(b.lastCubic)
		c2, end := at(a[0], a[1]), at(a[2], a[3])
		b.segment(end, c1, c2)
		lastCubic = &c2
	case 'Q', 'q':
		a, err := sc.numbers(4)
		if err != nil {
			return 0, err
		}
		c, end := at(a[0], a[1]), at(a[2], a[3])
		b.segment(end, c)
		lastQuad = &c
	case 'T', 't':
		a, err := sc.numbers(2)
		if err != nil {
			return 0, err
		}
		c := b.reflect(b.lastQuad)
		b.segment(at(a[0], a[1]), c)
		lastQuad = &c
	case 'A', 'a':
		if err := b.arc(sc, at); err != nil {
			return 0, err
		}
	default:
		return 0, sc.errorf("unknown path command %q", cmd)
	}

	b.lastCubic, b.lastQuad = lastCubic, lastQuad
	return next, nil
}

// expectCommand ensures that no bare numbers follow a closepath.
func (b *pathBuilder) expectCommand(sc *scanner) error {
	if !sc.done() && !isLetter(sc.peek()) {
		return sc.errorf("unexpected number after closepath")
	}
	return nil
}

// reflect mirrors the previous control point through the current point, or
// returns the current point when the previous segment was of another kind.
func (b *pathBuilder) reflect(ctrl *r2.Vec) r2.Vec {
	if ctrl == nil {
		return b.cur
	}
	return r2.Sub(r2.Scale(2, b.cur), *ctrl)
}

func (b *pathBuilder) arc(sc *scanner, at func(x, y float64) r2.Vec) error {
	radii, err := sc.numbers(3)
	if err != nil {
		return err
	}
	large, err := sc.flag()
	if err != nil {
		return err
	}
	sweep, err := sc.flag()
	if err != nil {
		return err
	}
	a, err := sc.numbers(2)
	if err != nil {
		return err
	}
	end := at(a[0], a[1])

	for _, seg := range arcSegments(b.cur, radii[0], radii[1], radii[2], large, sweep, end) {
		b.segment(seg.End, seg.Controls...)
	}
	return nil
}

// arcSegments converts an elliptical arc in endpoint form to cubic Bézier
// segments spanning at most a quarter turn each. A zero radius degrades the
// arc to a line; coincident endpoints draw nothing.
func arcSegments(from r2.Vec, rx, ry, rotation float64, large, sweep bool, to r2.Vec) []drawing.Segment {
	if from == to {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []drawing.Segment{{End: to}}
	}

	sinPhi, cosPhi := math.Sincos(radians(rotation))
	dx, dy := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	// Scale up radii that cannot span the endpoints.
	if l := x1*x1/(rx*rx) + y1*y1/(ry*ry); l > 1 {
		s := math.Sqrt(l)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(math.Max(0, num/den))
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx
	center := r2.Vec{
		X: cosPhi*cx1 - sinPhi*cy1 + (from.X+to.X)/2,
		Y: sinPhi*cx1 + cosPhi*cy1 + (from.Y+to.Y)/2,
	}

	ux, uy := (x1-cx1)/rx, (y1-cy1)/ry
	vx, vy := (-x1-cx1)/rx, (-y1-cy1)/ry
	theta := math.Atan2(uy, ux)
	delta := math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	point := func(t float64) r2.Vec {
		sin, cos := math.Sincos(t)
		return r2.Vec{
			X: center.X + rx*cos*cosPhi - ry*sin*sinPhi,
			Y: center.Y + rx*cos*sinPhi + ry*sin*cosPhi,
		}
	}
	tangent := func(t float64) r2.Vec {
		sin, cos := math.Sincos(t)
		return r2.Vec{
			X: -rx*sin*cosPhi - ry*cos*sinPhi,
			Y: -rx*sin*sinPhi + ry*cos*cosPhi,
		}
	}

	n := int(math.Ceil(math.Abs(delta)/(math.Pi/2) - 1e-9))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	segs := make([]drawing.Segment, 0, n)
	p0, t0 := from, theta
	for i := 1; i <= n; i++ {
		t1 := theta + step*float64(i)
		p1 := point(t1)
		if i == n {
			p1 = to
		}
		c1 := r2.Add(p0, r2.Scale(k, tangent(t0)))
		c2 := r2.Sub(p1, r2.Scale(k, tangent(t1)))
		segs = append(segs, drawing.Segment{Controls: []r2.Vec{c1, c2}, End: p1})
		p0, t0 = p1, t1
	}
	return segs
}
