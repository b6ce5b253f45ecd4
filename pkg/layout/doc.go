// Package layout trims, orients and places a drawing on a printable page.
//
// # Pipeline
//
// [Run] executes the stages in a fixed order, each consuming an immutable
// document and producing a new one:
//
//  1. Validate options (fail fast, before any geometry work)
//  2. Convert document units to millimeters, once
//  3. [ExtractBounds]: tight axis-aligned box of all drawable geometry
//  4. [Normalize]: move the box origin to (0,0), rotate 90° if taller than wide
//  5. [AddBorder]: optional stroked rectangle around the trimmed content
//  6. [Place]: offset of the content on the padded page for the chosen [Anchor]
//
// The final translation is applied once; bounds are never recomputed after
// placement.
//
// # Bounds
//
// Rectangles and ellipses are bounded after their full transform, so a
// rotated rectangle contributes the box around its rotated corners and an
// ellipse the exact box of its transformed outline. Curves are bounded by
// their control polygon, which may be larger than the curve but never
// smaller.
//
// # Errors
//
// A document without drawable primitives fails with an EMPTY_DOCUMENT error
// and a negative dimension or unknown anchor with INVALID_CONFIG (see
// [github.com/matzehuels/pagefit/pkg/errors]). Content larger than the page
// and zero-area drawings are placed best effort and are not errors.
//
// # Usage
//
//	opts := layout.DefaultOptions()
//	opts.Anchor = layout.CenterCenter
//	placed, res, err := layout.Run(doc, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Rotated, res.Offset)
package layout
