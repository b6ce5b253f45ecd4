package layout

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/errors"
)

func TestParseAnchor(t *testing.T) {
	tests := []struct {
		in   string
		want Anchor
	}{
		{"TL", TopLeft},
		{"tc", TopCenter},
		{"Tr", TopRight},
		{"CL", CenterLeft},
		{" cc ", CenterCenter},
		{"CR", CenterRight},
		{"BL", BottomLeft},
		{"BC", BottomCenter},
		{"br", BottomRight},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAnchor(tt.in)
			if err != nil {
				t.Fatalf("ParseAnchor(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAnchor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAnchorInvalid(t *testing.T) {
	for _, in := range []string{"", "LT", "XX", "TLL", "center"} {
		_, err := ParseAnchor(in)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("ParseAnchor(%q) error = %v, want INVALID_CONFIG", in, err)
		}
	}
}

func TestAnchorString(t *testing.T) {
	want := []string{"TL", "TC", "TR", "CL", "CC", "CR", "BL", "BC", "BR"}
	for i, a := range Anchors() {
		if got := a.String(); got != want[i] {
			t.Errorf("Anchors()[%d].String() = %q, want %q", i, got, want[i])
		}
	}
	if got := (Anchor{H: 7}).String(); got != "Anchor(7,0)" {
		t.Errorf("invalid anchor String() = %q", got)
	}
}

func TestAnchorText(t *testing.T) {
	b, err := BottomCenter.MarshalText()
	if err != nil || string(b) != "BC" {
		t.Fatalf("MarshalText() = %q, %v", b, err)
	}

	var a Anchor
	if err := a.UnmarshalText([]byte("cr")); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if a != CenterRight {
		t.Errorf("UnmarshalText = %v, want CR", a)
	}
	if err := a.UnmarshalText([]byte("nope")); err == nil {
		t.Error("expected error for unknown anchor")
	}
	if a != CenterRight {
		t.Error("failed UnmarshalText modified the receiver")
	}

	if _, err := (Anchor{V: -1}).MarshalText(); err == nil {
		t.Error("expected error marshaling invalid anchor")
	}
}

func TestPlace(t *testing.T) {
	content := r2.Vec{X: 20, Y: 5}
	tests := []struct {
		anchor Anchor
		want   r2.Vec
	}{
		{TopLeft, r2.Vec{X: 10, Y: 10}},
		{TopCenter, r2.Vec{X: 95, Y: 10}},
		{TopRight, r2.Vec{X: 180, Y: 10}},
		{CenterLeft, r2.Vec{X: 10, Y: 146}},
		{CenterCenter, r2.Vec{X: 95, Y: 146}},
		{CenterRight, r2.Vec{X: 180, Y: 146}},
		{BottomLeft, r2.Vec{X: 10, Y: 282}},
		{BottomCenter, r2.Vec{X: 95, Y: 282}},
		{BottomRight, r2.Vec{X: 180, Y: 282}},
	}
	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			if got := Place(content, A4, 10, tt.anchor); got != tt.want {
				t.Errorf("Place(%v) = %v, want %v", tt.anchor, got, tt.want)
			}
		})
	}
}

func TestPlaceSymmetry(t *testing.T) {
	pages := []Page{A3, A4, A5, Letter, Legal}
	contents := []r2.Vec{{X: 20, Y: 5}, {X: 100, Y: 40}, {X: 0, Y: 0}}
	paddings := []float64{0, 10, 25}

	for _, page := range pages {
		for _, c := range contents {
			for _, p := range paddings {
				tl := Place(c, page, p, TopLeft)
				br := Place(c, page, p, BottomRight)

				diff := r2.Sub(br, tl)
				want := r2.Vec{X: page.Width - 2*p - c.X, Y: page.Height - 2*p - c.Y}
				if !nearVec(diff, want) {
					t.Errorf("%s %v p=%v: BR-TL = %v, want %v", page.Name, c, p, diff, want)
				}

				sum := r2.Add(br, tl)
				wantSum := r2.Vec{X: page.Width - c.X, Y: page.Height - c.Y}
				if !nearVec(sum, wantSum) {
					t.Errorf("%s %v p=%v: BR+TL = %v, want %v", page.Name, c, p, sum, wantSum)
				}

				cc := Place(c, page, p, CenterCenter)
				if !nearVec(r2.Scale(2, cc), sum) {
					t.Errorf("%s %v p=%v: CC = %v is not midway between TL and BR", page.Name, c, p, cc)
				}
			}
		}
	}
}

func TestPlaceOverflow(t *testing.T) {
	content := r2.Vec{X: 300, Y: 50}

	got := Place(content, A4, 10, TopRight)
	if want := (r2.Vec{X: -100, Y: 10}); got != want {
		t.Errorf("Place = %v, want %v", got, want)
	}
	got = Place(content, A4, 10, CenterCenter)
	if got.X >= 0 {
		t.Errorf("centered overflow X = %v, want negative", got.X)
	}
}

func nearVec(a, b r2.Vec) bool {
	return nearBox(r2.Box{Min: a, Max: a}, r2.Box{Min: b, Max: b}, 1e-9)
}
