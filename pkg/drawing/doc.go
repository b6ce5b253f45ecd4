// Package drawing defines the geometry model shared by the SVG reader, the
// layout engine and the page writer.
//
// A [Document] is an ordered list of [Element] values. Each element holds one
// [Shape] in its own local coordinates, the transform attached to it, the
// transforms of the groups enclosing it and an opaque [Style]. Element order
// is paint order and is never changed by any stage.
//
// Documents are treated as immutable once read: every operation that moves
// geometry returns a new Document and leaves its input untouched, so the
// parsed drawing stays available for diagnostics.
package drawing
