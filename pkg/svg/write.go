package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/pagefit/pkg/drawing"
	"github.com/matzehuels/pagefit/pkg/geom"
	"github.com/matzehuels/pagefit/pkg/layout"
)

// PageOption configures page rendering.
type PageOption func(*pageWriter)

type pageWriter struct {
	precision int
	title     string
}

// WithPrecision sets the number of decimals written for coordinates
// (default 4, a tenth of a micrometer on a millimeter page).
func WithPrecision(digits int) PageOption {
	return func(w *pageWriter) { w.precision = digits }
}

// WithTitle adds a title element to the page.
func WithTitle(title string) PageOption {
	return func(w *pageWriter) { w.title = title }
}

// RenderPage returns doc drawn on a page of the given size. Document
// coordinates are millimeters from the page's top-left corner.
func RenderPage(doc drawing.Document, page layout.Page, opts ...PageOption) []byte {
	w := pageWriter{precision: 4}
	for _, opt := range opts {
		opt(&w)
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="%s" version="1.1" width="%smm" height="%smm" viewBox="0 0 %s %s">`+"\n",
		Namespace, w.num(page.Width), w.num(page.Height), w.num(page.Width), w.num(page.Height))
	if w.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(w.title))
	}
	for _, el := range doc.Elements {
		w.element(&buf, el)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WritePage writes the output of [RenderPage] to out.
func WritePage(out io.Writer, doc drawing.Document, page layout.Page, opts ...PageOption) error {
	_, err := out.Write(RenderPage(doc, page, opts...))
	return err
}

func (w pageWriter) element(buf *bytes.Buffer, el drawing.Element) {
	tag, geometry := w.shape(el.Shape)
	buf.WriteString("  <" + tag)
	if el.ID != "" {
		writeAttr(buf, "id", el.ID)
	}
	for _, a := range geometry {
		writeAttr(buf, a.Name, a.Value)
	}
	if m := el.CTM(); !m.IsIdentity() {
		writeAttr(buf, "transform", w.matrix(m))
	}
	for _, a := range el.Style {
		writeAttr(buf, a.Name, a.Value)
	}
	buf.WriteString("/>\n")
}

func (w pageWriter) shape(s drawing.Shape) (string, drawing.Style) {
	switch s := s.(type) {
	case drawing.Rect:
		return "rect", drawing.Style{
			{Name: "x", Value: w.num(s.X)},
			{Name: "y", Value: w.num(s.Y)},
			{Name: "width", Value: w.num(s.W)},
			{Name: "height", Value: w.num(s.H)},
		}
	case drawing.Ellipse:
		return "ellipse", drawing.Style{
			{Name: "cx", Value: w.num(s.Center.X)},
			{Name: "cy", Value: w.num(s.Center.Y)},
			{Name: "rx", Value: w.num(s.RX)},
			{Name: "ry", Value: w.num(s.RY)},
		}
	case drawing.Polyline:
		tag := "polyline"
		if s.Closed {
			tag = "polygon"
		}
		pts := make([]string, len(s.Points))
		for i, p := range s.Points {
			pts[i] = w.num(p.X) + "," + w.num(p.Y)
		}
		return tag, drawing.Style{{Name: "points", Value: strings.Join(pts, " ")}}
	case drawing.Curve:
		sub := drawing.Subpath{Start: s.Start, Segments: []drawing.Segment{{Controls: s.Controls, End: s.End}}}
		return "path", drawing.Style{{Name: "d", Value: w.pathData(sub)}}
	case drawing.Path:
		parts := make([]string, len(s.Subpaths))
		for i, sub := range s.Subpaths {
			parts[i] = w.pathData(sub)
		}
		return "path", drawing.Style{{Name: "d", Value: strings.Join(parts, " ")}}
	}
	return "g", nil
}

func (w pageWriter) pathData(sub drawing.Subpath) string {
	var b strings.Builder
	b.WriteString("M" + w.num(sub.Start.X) + " " + w.num(sub.Start.Y))
	for _, seg := range sub.Segments {
		switch len(seg.Controls) {
		case 0:
			b.WriteString(" L")
		case 1:
			b.WriteString(" Q")
		default:
			b.WriteString(" C")
		}
		for _, c := range seg.Controls {
			b.WriteString(w.num(c.X) + " " + w.num(c.Y) + " ")
		}
		b.WriteString(w.num(seg.End.X) + " " + w.num(seg.End.Y))
	}
	if sub.Closed {
		b.WriteString(" Z")
	}
	return b.String()
}

func (w pageWriter) matrix(m geom.Matrix) string {
	c := m.SVG()
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = w.num(v)
	}
	return "matrix(" + strings.Join(parts, " ") + ")"
}

// num formats v with at most the configured decimals and no trailing zeros.
func (w pageWriter) num(v float64) string {
	s := strconv.FormatFloat(v, 'f', w.precision, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteString(" " + name + `="` + escapeXML(value) + `"`)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
