// Package svg reads CAD SVG exports into drawings and writes placed drawings
// back out as single SVG pages.
//
// # Reading
//
// [Read] and [ReadFile] walk the XML tree and turn every supported shape
// element (path, line, polyline, polygon, rect, circle, ellipse) into a
// [drawing.Element]. Group transforms become the element's ancestor chain,
// inherited presentation attributes are folded into its style, and the unit
// factor is derived from the root element's width, height and viewBox:
//
//	doc, err := svg.ReadFile("part.svg")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(doc.Len(), "elements,", doc.Unit, "mm per unit")
//
// Metadata (title, desc, metadata), definitions (defs, style, gradients,
// symbols) and text are skipped. Arcs in path data are converted to cubic
// Béziers so their control polygons bound the arc.
//
// # Writing
//
// [RenderPage] emits a page sized in millimeters whose viewBox matches the
// page, so a document produced by the layout engine can be written without
// further scaling. Each element keeps its order and style; its transform is
// written as a single matrix.
//
//	page := svg.RenderPage(placed, layout.A4)
//	pdf, err := render.ToPDF(ctx, page)
package svg
