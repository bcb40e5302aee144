package edges

import (
	"math"

	"github.com/tsawler/trellis/model"
)

// Classify determines the orientation of a segment. A segment is horizontal
// when its vertical delta stays within tol and vertical when its horizontal
// delta does; anything else is diagonal. Near-axis segments within the
// tolerance are treated as perfectly axis-aligned, which absorbs the small
// skews real renderers produce.
func Classify(seg model.LineSegment, tol float64) Orientation {
	dx := math.Abs(seg.End.X - seg.Start.X)
	dy := math.Abs(seg.End.Y - seg.Start.Y)

	if dy <= tol && dx >= dy {
		return Horizontal
	}
	if dx <= tol {
		return Vertical
	}
	return Diagonal
}

// IsDegenerate reports whether a segment is too small to carry structure:
// both deltas within tol, or any non-finite coordinate.
func IsDegenerate(seg model.LineSegment, tol float64) bool {
	if !seg.IsFinite() {
		return true
	}
	dx := math.Abs(seg.End.X - seg.Start.X)
	dy := math.Abs(seg.End.Y - seg.Start.Y)
	return dx <= tol && dy <= tol
}
