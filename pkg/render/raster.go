package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/drawing"
	"github.com/matzehuels/pagefit/pkg/errors"
	"github.com/matzehuels/pagefit/pkg/geom"
	"github.com/matzehuels/pagefit/pkg/layout"
)

// PixelsPerMM is the raster density matching rsvg-convert at scale 1 (96 dpi).
const PixelsPerMM = 96 / 25.4

// Rasterize paints doc, which must be in page millimeters, onto a white page.
// Fill and stroke are read from the presentation attributes and the style
// attribute; gradients, patterns and markers are not supported and paint
// as black.
func Rasterize(doc drawing.Document, page layout.Page, scale float64) *image.RGBA {
	dpmm := PixelsPerMM * scale
	w := max(1, int(math.Ceil(page.Width*dpmm)))
	h := max(1, int(math.Ceil(page.Height*dpmm)))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	filler := rasterx.NewFiller(w, h, scanner)
	dasher := rasterx.NewDasher(w, h, scanner)

	for _, el := range doc.Elements {
		ctm := geom.Scale(dpmm, dpmm).Mul(el.CTM())
		p := paintOf(el.Style)

		if p.fill != nil {
			filler.Clear()
			filler.SetColor(p.fill)
			trace(el.Shape, &rasterx.MatrixAdder{Adder: filler, M: toRaster(ctm)})
			filler.Draw()
		}
		if p.stroke != nil && p.width > 0 {
			px := p.width * math.Sqrt(math.Abs(ctm[0]*ctm[4]-ctm[1]*ctm[3]))
			dasher.Clear()
			dasher.SetStroke(fixed.Int26_6(px*64), fixed.Int26_6(p.miter*64),
				p.capFunc, nil, rasterx.FlatGap, p.join, nil, 0)
			dasher.SetColor(p.stroke)
			trace(el.Shape, &rasterx.MatrixAdder{Adder: dasher, M: toRaster(ctm)})
			dasher.Draw()
		}
	}
	return img
}

// RasterizePNG rasterizes doc and encodes the result as PNG.
func RasterizePNG(doc drawing.Document, page layout.Page, scale float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Rasterize(doc, page, scale)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

func toRaster(m geom.Matrix) rasterx.Matrix2D {
	s := m.SVG()
	return rasterx.Matrix2D{A: s[0], B: s[1], C: s[2], D: s[3], E: s[4], F: s[5]}
}

func pt(x, y float64) fixed.Point26_6 { return rasterx.ToFixedP(x, y) }

// trace feeds the outline of s to a in local coordinates.
func trace(s drawing.Shape, a rasterx.Adder) {
	switch s := s.(type) {
	case drawing.Polyline:
		if len(s.Points) == 0 {
			return
		}
		a.Start(pt(s.Points[0].X, s.Points[0].Y))
		for _, p := range s.Points[1:] {
			a.Line(pt(p.X, p.Y))
		}
		a.Stop(s.Closed)
	case drawing.Curve:
		a.Start(pt(s.Start.X, s.Start.Y))
		segment(a, s.Controls, s.End.X, s.End.Y)
		a.Stop(false)
	case drawing.Rect:
		if s.W <= 0 || s.H <= 0 {
			return
		}
		rasterx.AddRect(s.X, s.Y, s.X+s.W, s.Y+s.H, 0, a)
	case drawing.Ellipse:
		if s.RX <= 0 || s.RY <= 0 {
			return
		}
		rasterx.AddEllipse(s.Center.X, s.Center.Y, s.RX, s.RY, 0, a)
	case drawing.Path:
		for _, sub := range s.Subpaths {
			a.Start(pt(sub.Start.X, sub.Start.Y))
			for _, seg := range sub.Segments {
				segment(a, seg.Controls, seg.End.X, seg.End.Y)
			}
			a.Stop(sub.Closed)
		}
	}
}

func segment(a rasterx.Adder, ctrl []r2.Vec, x, y float64) {
	switch len(ctrl) {
	case 0:
		a.Line(pt(x, y))
	case 1:
		a.QuadBezier(pt(ctrl[0].X, ctrl[0].Y), pt(x, y))
	default:
		a.CubeBezier(pt(ctrl[0].X, ctrl[0].Y), pt(ctrl[1].X, ctrl[1].Y), pt(x, y))
	}
}

type paint struct {
	fill, stroke color.Color
	width, miter float64
	capFunc      rasterx.CapFunc
	join         rasterx.JoinMode
}

// paintOf resolves the SVG painting properties of an element. The style
// attribute wins over presentation attributes of the same name.
func paintOf(style drawing.Style) paint {
	decl := declarations(style)
	get := func(name string) (string, bool) {
		if v, ok := decl[name]; ok {
			return v, true
		}
		return style.Get(name)
	}
	num := func(name string, def float64) float64 {
		if v, ok := get(name); ok {
			if f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64); err == nil {
				return f
			}
		}
		return def
	}

	p := paint{
		fill:    color.Black,
		width:   num("stroke-width", 1),
		miter:   num("stroke-miterlimit", 4),
		capFunc: rasterx.ButtCap,
		join:    rasterx.Miter,
	}
	opacity := num("opacity", 1)
	if v, ok := get("fill"); ok {
		p.fill = parseColor(v)
	}
	if v, ok := get("stroke"); ok {
		p.stroke = parseColor(v)
	}
	p.fill = withAlpha(p.fill, opacity*num("fill-opacity", 1))
	p.stroke = withAlpha(p.stroke, opacity*num("stroke-opacity", 1))

	if v, ok := get("stroke-linecap"); ok {
		switch strings.TrimSpace(v) {
		case "round":
			p.capFunc = rasterx.RoundCap
		case "square":
			p.capFunc = rasterx.SquareCap
		}
	}
	if v, ok := get("stroke-linejoin"); ok {
		switch strings.TrimSpace(v) {
		case "round":
			p.join = rasterx.Round
		case "bevel":
			p.join = rasterx.Bevel
		}
	}
	return p
}

// declarations splits the style attribute into property: value pairs.
func declarations(style drawing.Style) map[string]string {
	raw, ok := style.Get("style")
	if !ok {
		return nil
	}
	out := make(map[string]string)
	for _, d := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(d, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return out
}

// parseColor understands none, #rgb, #rrggbb, rgb(r, g, b) and the SVG
// color keywords. Anything else paints black.
func parseColor(s string) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none" || s == "transparent":
		return nil
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil && len(hex) == 6 {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
		}
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) == 3 {
			var c [3]uint8
			for i, part := range parts {
				part = strings.TrimSpace(part)
				var f float64
				var err error
				if pct, ok := strings.CutSuffix(part, "%"); ok {
					f, err = strconv.ParseFloat(pct, 64)
					f *= 2.55
				} else {
					f, err = strconv.ParseFloat(part, 64)
				}
				if err != nil {
					return color.Black
				}
				c[i] = uint8(math.Round(math.Max(0, math.Min(255, f))))
			}
			return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
		}
	default:
		if c, ok := colornames.Map[s]; ok {
			return c
		}
	}
	return color.Black
}

func withAlpha(c color.Color, alpha float64) color.Color {
	if c == nil || alpha >= 1 {
		return c
	}
	return rasterx.ApplyOpacity(c, math.Max(0, alpha))
}
