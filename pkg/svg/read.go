package svg

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/net/html/charset"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/drawing"
	"github.com/matzehuels/pagefit/pkg/errors"
	"github.com/matzehuels/pagefit/pkg/geom"
)

// Namespace is the SVG XML namespace.
const Namespace = "http://www.w3.org/2000/svg"

// Elements whose subtree is never drawn.
var skipped = map[string]bool{
	"title":          true,
	"desc":           true,
	"metadata":       true,
	"defs":           true,
	"style":          true,
	"script":         true,
	"symbol":         true,
	"clipPath":       true,
	"mask":           true,
	"marker":         true,
	"pattern":        true,
	"filter":         true,
	"linearGradient": true,
	"radialGradient": true,
	// Text extents are unknown without font metrics, so text is dropped.
	"text": true,
}

// Attributes consumed as geometry rather than passed through as style.
var geometryAttrs = map[string][]string{
	"svg":      {"width", "height", "viewBox", "x", "y", "preserveAspectRatio", "version", "baseProfile"},
	"rect":     {"x", "y", "width", "height"},
	"circle":   {"cx", "cy", "r"},
	"ellipse":  {"cx", "cy", "rx", "ry"},
	"line":     {"x1", "y1", "x2", "y2"},
	"polyline": {"points"},
	"polygon":  {"points"},
	"path":     {"d"},
}

// ReadFile reads the SVG file at path.
func ReadFile(path string) (drawing.Document, error) {
	if err := errors.ValidateInputPath(path); err != nil {
		return drawing.Document{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return drawing.Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s not found", path)
		}
		return drawing.Document{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return drawing.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// Read parses an SVG document. Elements are returned in document order with
// their group transforms as ancestors and their inherited attributes folded
// into their style.
func Read(r io.Reader) (drawing.Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	rd := &reader{dec: dec}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return drawing.Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse svg")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := rd.start(t); err != nil {
				return drawing.Document{}, err
			}
		case xml.EndElement:
			// Leaf and skipped elements are consumed whole, so only
			// containers end here.
			rd.frames = rd.frames[:len(rd.frames)-1]
		}
	}
	if !rd.root {
		return drawing.Document{}, errors.New(errors.ErrCodeInvalidInput, "no <svg> root element")
	}
	return rd.doc, nil
}

type reader struct {
	dec    *xml.Decoder
	doc    drawing.Document
	frames []frame
	root   bool
}

// frame is an open container element.
type frame struct {
	transform    geom.Matrix
	hasTransform bool
	style        drawing.Style
}

func isSVG(name xml.Name) bool { return name.Space == "" || name.Space == Namespace }

func (rd *reader) start(se xml.StartElement) error {
	tag := se.Name.Local
	if !rd.root {
		if !isSVG(se.Name) || tag != "svg" {
			return errors.New(errors.ErrCodeInvalidInput, "root element is <%s>, not <svg>", tag)
		}
		rd.root = true
		return rd.openRoot(se)
	}

	// Editor extensions such as sodipodi:namedview carry no geometry.
	if !isSVG(se.Name) || skipped[tag] {
		return rd.skip()
	}

	switch tag {
	case "g", "a":
		return rd.open(se)
	case "svg":
		return errors.New(errors.ErrCodeUnsupported, "nested <svg> elements are not supported")
	}

	shape, err := readShape(tag, attrMap(se.Attr))
	if err != nil {
		return err
	}
	if shape != nil {
		if err := rd.emit(se, shape); err != nil {
			return err
		}
	}
	return rd.skip()
}

// skip consumes the rest of the current element.
func (rd *reader) skip() error {
	if err := rd.dec.Skip(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse svg")
	}
	return nil
}

func (rd *reader) openRoot(se xml.StartElement) error {
	attrs := attrMap(se.Attr)
	unit, err := viewport{
		width:   attrs["width"],
		height:  attrs["height"],
		viewBox: attrs["viewBox"],
	}.unitFactor()
	if err != nil {
		return err
	}
	rd.doc.Unit = unit
	return rd.open(se)
}

func (rd *reader) open(se xml.StartElement) error {
	f := frame{transform: geom.Identity, style: rd.inherited()}
	if v, ok := attrValue(se.Attr, "transform"); ok {
		m, err := parseTransform(v)
		if err != nil {
			return err
		}
		f.transform, f.hasTransform = m, true
	}
	f.style = inheritable(mergeStyle(f.style, se.Name.Local, se.Attr))
	rd.frames = append(rd.frames, f)
	return nil
}

func (rd *reader) inherited() drawing.Style {
	if len(rd.frames) == 0 {
		return nil
	}
	return rd.frames[len(rd.frames)-1].style
}

func (rd *reader) emit(se xml.StartElement, shape drawing.Shape) error {
	el := drawing.NewElement(shape, mergeStyle(rd.inherited(), se.Name.Local, se.Attr))
	el.ID, _ = attrValue(se.Attr, "id")
	if v, ok := attrValue(se.Attr, "transform"); ok {
		m, err := parseTransform(v)
		if err != nil {
			return err
		}
		el.Local = m
	}
	for _, f := range rd.frames {
		if f.hasTransform {
			el.Ancestors = append(el.Ancestors, f.transform)
		}
	}
	rd.doc.Elements = append(rd.doc.Elements, el)
	return nil
}

// mergeStyle overlays the presentation attributes of an element on the
// style it inherits. Declarations in style attributes are concatenated so
// the element's own declarations win.
func mergeStyle(inherited drawing.Style, tag string, attrs []xml.Attr) drawing.Style {
	out := inherited
	for _, a := range attrs {
		if a.Name.Space != "" || isGeometry(tag, a.Name.Local) {
			continue
		}
		switch a.Name.Local {
		case "id", "transform", "xmlns":
			continue
		case "style":
			if prev, ok := out.Get("style"); ok && strings.TrimSpace(prev) != "" {
				out = out.With("style", strings.TrimRight(prev, "; ")+";"+a.Value)
				continue
			}
		}
		out = out.With(a.Name.Local, a.Value)
	}
	return out
}

// groupOnly properties apply to a container as a whole and never reach its
// children.
var groupOnly = []string{"opacity", "clip-path", "mask", "filter"}

// inheritable drops group-only properties from a container's style, both as
// attributes and as declarations inside its style attribute.
func inheritable(style drawing.Style) drawing.Style {
	var out drawing.Style
	for _, a := range style {
		if slices.Contains(groupOnly, a.Name) {
			continue
		}
		if a.Name == "style" {
			var kept []string
			for _, d := range strings.Split(a.Value, ";") {
				name, _, _ := strings.Cut(d, ":")
				if strings.TrimSpace(d) == "" || slices.Contains(groupOnly, strings.TrimSpace(name)) {
					continue
				}
				kept = append(kept, strings.TrimSpace(d))
			}
			if len(kept) == 0 {
				continue
			}
			a.Value = strings.Join(kept, ";")
		}
		out = append(out, a)
	}
	return out
}

func isGeometry(tag, name string) bool {
	for _, g := range geometryAttrs[tag] {
		if g == name {
			return true
		}
	}
	return false
}

func attrValue(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "" {
			m[a.Name.Local] = a.Value
		}
	}
	return m
}

// readShape builds the primitive for a shape element. It returns nil for
// shapes that do not render, such as zero-sized rectangles.
func readShape(tag string, attrs map[string]string) (drawing.Shape, error) {
	switch tag {
	case "rect":
		v, err := coordinates(attrs, "x", "y", "width", "height")
		if err != nil {
			return nil, err
		}
		if v[2] < 0 || v[3] < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "rect has negative size %gx%g", v[2], v[3])
		}
		if v[2] == 0 || v[3] == 0 {
			return nil, nil
		}
		return drawing.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil

	case "circle":
		v, err := coordinates(attrs, "cx", "cy", "r")
		if err != nil {
			return nil, err
		}
		return ellipse(v[0], v[1], v[2], v[2])

	case "ellipse":
		v, err := coordinates(attrs, "cx", "cy", "rx", "ry")
		if err != nil {
			return nil, err
		}
		return ellipse(v[0], v[1], v[2], v[3])

	case "line":
		v, err := coordinates(attrs, "x1", "y1", "x2", "y2")
		if err != nil {
			return nil, err
		}
		return drawing.Polyline{Points: []r2.Vec{{X: v[0], Y: v[1]}, {X: v[2], Y: v[3]}}}, nil

	case "polyline", "polygon":
		nums, err := parseNumbers(attrs["points"])
		if err != nil {
			return nil, err
		}
		if len(nums)%2 != 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s has an odd number of coordinates", tag)
		}
		if len(nums) == 0 {
			return nil, nil
		}
		pts := make([]r2.Vec, 0, len(nums)/2)
		for i := 0; i < len(nums); i += 2 {
			pts = append(pts, r2.Vec{X: nums[i], Y: nums[i+1]})
		}
		return drawing.Polyline{Points: pts, Closed: tag == "polygon"}, nil

	case "path":
		d := strings.TrimSpace(attrs["d"])
		if d == "" || d == "none" {
			return nil, nil
		}
		p, err := parsePathData(d)
		if err != nil {
			return nil, err
		}
		if len(p.Subpaths) == 0 {
			return nil, nil
		}
		return p, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported element <%s>", tag)
}

func ellipse(cx, cy, rx, ry float64) (drawing.Shape, error) {
	if rx < 0 || ry < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "negative radius %g/%g", rx, ry)
	}
	if rx == 0 || ry == 0 {
		return nil, nil
	}
	return drawing.Ellipse{Center: r2.Vec{X: cx, Y: cy}, RX: rx, RY: ry}, nil
}

// coordinates parses the named attributes; missing ones are zero.
func coordinates(attrs map[string]string, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		s, ok := attrs[name]
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		v, err := coordinate(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
