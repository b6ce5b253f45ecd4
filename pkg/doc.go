// Package pkg holds the pagefit libraries.
//
// pagefit takes a vector drawing, trims the whitespace around it, turns it
// to landscape when it is taller than wide, frames it with a border and
// places it on a printable page. The packages follow that flow:
//
//	SVG file
//	    ↓
//	[svg] Read       parse shapes, transforms and units into a drawing.Document
//	    ↓
//	[layout] Run     scale to mm → bounds → trim/rotate → border → place
//	    ↓
//	[svg] RenderPage one page-sized SVG in millimeters
//	    ↓
//	[render]         optional PDF/PNG via rsvg-convert, cached in [cache]
//
// Supporting packages:
//
//   - [geom]: affine matrices and bounding-box helpers over gonum's r2
//   - [drawing]: shapes, elements, styles and documents
//   - [config]: TOML configuration files
//   - [errors]: error codes shared by all packages
//   - [observability]: hooks for placement and conversion events
//   - [buildinfo]: version information
//
// Lengths are millimeters throughout [layout]; a document's Unit converts
// its user units to millimeters and is applied exactly once.
package pkg
