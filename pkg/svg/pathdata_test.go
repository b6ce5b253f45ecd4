package svg

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/drawing"
	"github.com/matzehuels/pagefit/pkg/errors"
	"github.com/matzehuels/pagefit/pkg/geom"
)

const tol = 1e-9

func nearVec(a, b r2.Vec, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func ends(sub drawing.Subpath) []r2.Vec {
	out := make([]r2.Vec, len(sub.Segments))
	for i, s := range sub.Segments {
		out[i] = s.End
	}
	return out
}

func TestParseNumbers(t *testing.T) {
	got, err := parseNumbers("1-2.5.5e1,3 ,  -.25E-1")
	if err != nil {
		t.Fatalf("parseNumbers error: %v", err)
	}
	want := []float64{1, -2.5, 5, 3, -0.025}
	if len(got) != len(want) {
		t.Fatalf("parseNumbers = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("number %d = %v, want %v", i, got[i], want[i])
		}
	}

	for _, bad := range []string{"1 x 2", "1e999", "-", "1 . 2"} {
		if _, err := parseNumbers(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parseNumbers(%q) error = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestParsePathData(t *testing.T) {
	tests := []struct {
		name   string
		d      string
		starts []r2.Vec
		ends   [][]r2.Vec
		closed []bool
	}{
		{
			name:   "absolute closed",
			d:      "M0 0 L10 0 L10 10 Z",
			starts: []r2.Vec{{}},
			ends:   [][]r2.Vec{{{X: 10}, {X: 10, Y: 10}}},
			closed: []bool{true},
		},
		{
			name:   "relative with horizontal and vertical",
			d:      "m1 1 l2 0 h3 v4",
			starts: []r2.Vec{{X: 1, Y: 1}},
			ends:   [][]r2.Vec{{{X: 3, Y: 1}, {X: 6, Y: 1}, {X: 6, Y: 5}}},
			closed: []bool{false},
		},
		{
			name:   "implicit lineto after moveto",
			d:      "M0,0 10,0 10,10",
			starts: []r2.Vec{{}},
			ends:   [][]r2.Vec{{{X: 10}, {X: 10, Y: 10}}},
			closed: []bool{false},
		},
		{
			name:   "implicit relative lineto",
			d:      "m5 5 1 0 0 1",
			starts: []r2.Vec{{X: 5, Y: 5}},
			ends:   [][]r2.Vec{{{X: 6, Y: 5}, {X: 6, Y: 6}}},
			closed: []bool{false},
		},
		{
			name:   "two subpaths",
			d:      "M0 0 L1 1 M5 5 L6 6",
			starts: []r2.Vec{{}, {X: 5, Y: 5}},
			ends:   [][]r2.Vec{{{X: 1, Y: 1}}, {{X: 6, Y: 6}}},
			closed: []bool{false, false},
		},
		{
			name:   "drawing after closepath restarts at subpath start",
			d:      "M2 2 L10 2 Z L2 10",
			starts: []r2.Vec{{X: 2, Y: 2}, {X: 2, Y: 2}},
			ends:   [][]r2.Vec{{{X: 10, Y: 2}}, {{X: 2, Y: 10}}},
			closed: []bool{true, false},
		},
		{
			name:   "bare moveto draws nothing",
			d:      "M5 5 M0 0 L1 0",
			starts: []r2.Vec{{}},
			ends:   [][]r2.Vec{{{X: 1}}},
			closed: []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parsePathData(tt.d)
			if err != nil {
				t.Fatalf("parsePathData(%q) error: %v", tt.d, err)
			}
			if len(p.Subpaths) != len(tt.starts) {
				t.Fatalf("got %d subpaths, want %d", len(p.Subpaths), len(tt.starts))
			}
			for i, sub := range p.Subpaths {
				if sub.Start != tt.starts[i] {
					t.Errorf("subpath %d start = %v, want %v", i, sub.Start, tt.starts[i])
				}
				got := ends(sub)
				if len(got) != len(tt.ends[i]) {
					t.Fatalf("subpath %d ends = %v, want %v", i, got, tt.ends[i])
				}
				for j := range got {
					if got[j] != tt.ends[i][j] {
						t.Errorf("subpath %d end %d = %v, want %v", i, j, got[j], tt.ends[i][j])
					}
				}
				if sub.Closed != tt.closed[i] {
					t.Errorf("subpath %d closed = %v, want %v", i, sub.Closed, tt.closed[i])
				}
			}
		})
	}
}

func TestParsePathDataCurves(t *testing.T) {
	p, err := parsePathData("M0 0 C 0 10 10 10 10 0 S 20 -10 20 0")
	if err != nil {
		t.Fatal(err)
	}
	segs := p.Subpaths[0].Segments
	if len(segs) != 2 || len(segs[1].Controls) != 2 {
		t.Fatalf("segments = %+v", segs)
	}
	if want := (r2.Vec{X: 10, Y: -10}); segs[1].Controls[0] != want {
		t.Errorf("reflected control = %v, want %v", segs[1].Controls[0], want)
	}

	p, err = parsePathData("M0 0 Q5 10 10 0 T20 0")
	if err != nil {
		t.Fatal(err)
	}
	segs = p.Subpaths[0].Segments
	if want := (r2.Vec{X: 15, Y: -10}); len(segs) != 2 || segs[1].Controls[0] != want {
		t.Errorf("smooth quadratic segments = %+v, want control %v", segs, want)
	}

	// Without a preceding curve the reflected control is the current point.
	p, err = parsePathData("M3 4 S 10 10 20 0")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Subpaths[0].Segments[0].Controls[0]; got != (r2.Vec{X: 3, Y: 4}) {
		t.Errorf("first control = %v, want current point", got)
	}
}

func TestParsePathDataArc(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want r2.Box
		end  r2.Vec
	}{
		{"upper semicircle", "M0 0 A5 5 0 0 1 10 0", r2.Box{Min: r2.Vec{Y: -5}, Max: r2.Vec{X: 10}}, r2.Vec{X: 10}},
		{"lower semicircle", "M0 0 A5 5 0 0 0 10 0", r2.Box{Max: r2.Vec{X: 10, Y: 5}}, r2.Vec{X: 10}},
		{"compact flags", "M0 0 a5 5 0 0110 0", r2.Box{Min: r2.Vec{Y: -5}, Max: r2.Vec{X: 10}}, r2.Vec{X: 10}},
		{"radii scaled up", "M0 0 A1 1 0 0 1 10 0", r2.Box{Min: r2.Vec{Y: -5}, Max: r2.Vec{X: 10}}, r2.Vec{X: 10}},
		{"zero radius is a line", "M0 0 A0 5 0 0 1 10 4", r2.Box{Max: r2.Vec{X: 10, Y: 4}}, r2.Vec{X: 10, Y: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parsePathData(tt.d)
			if err != nil {
				t.Fatalf("parsePathData(%q) error: %v", tt.d, err)
			}
			got, ok := geom.BoundPoints(p.Points()...)
			if !ok {
				t.Fatal("no points")
			}
			if !nearVec(got.Min, tt.want.Min, 1e-6) || !nearVec(got.Max, tt.want.Max, 1e-6) {
				t.Errorf("bounds = %v, want %v", got, tt.want)
			}
			segs := p.Subpaths[0].Segments
			if last := segs[len(segs)-1].End; last != tt.end {
				t.Errorf("arc ends at %v, want %v", last, tt.end)
			}
		})
	}
}

func TestArcSegmentsLieOnEllipse(t *testing.T) {
	from, to := r2.Vec{X: 0, Y: 0}, r2.Vec{X: 8, Y: 3}
	segs := arcSegments(from, 6, 4, 30, true, false, to)
	if len(segs) < 2 {
		t.Fatalf("large arc split into %d segments", len(segs))
	}
	if segs[len(segs)-1].End != to {
		t.Errorf("last end = %v, want exact endpoint %v", segs[len(segs)-1].End, to)
	}
	for _, s := range segs {
		if len(s.Controls) != 2 {
			t.Fatalf("segment has %d controls, want 2", len(s.Controls))
		}
	}
	if got := arcSegments(from, 5, 5, 0, false, true, from); got != nil {
		t.Errorf("coincident endpoints produced %d segments", len(got))
	}
}

func TestParsePathDataErrors(t *testing.T) {
	for _, d := range []string{
		"L1 1",
		"10 10",
		"M0",
		"M0 0 X1 1",
		"M0 0 L1",
		"M0 0 Z 5",
		"M0 0 A5 5 0 2 1 10 0",
	} {
		if _, err := parsePathData(d); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parsePathData(%q) error = %v, want INVALID_INPUT", d, err)
		}
	}
}
