package edges

import "github.com/tsawler/trellis/model"

// Orientation classifies a segment as horizontal, vertical, or diagonal.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
	Diagonal
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Diagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}

// Source identifies where an edge came from.
type Source int

const (
	// SourceLine means the edge came from a stroked path segment
	SourceLine Source = iota
	// SourceRect means the edge came from a rectangle outline
	SourceRect
	// SourceText means the edge was inferred from word alignment
	SourceText
	// SourceExplicit means the edge came from caller-supplied coordinates
	SourceExplicit
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceLine:
		return "line"
	case SourceRect:
		return "rect"
	case SourceText:
		return "text"
	case SourceExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// Edge is an axis-aligned structural edge. Horizontal edges run at
// Y=Position from X=Start to X=End; vertical edges run at X=Position from
// Y=Start to Y=End. Start <= End always holds after extraction.
//
// Edges are derived values: they are recomputed on every detection call and
// never persisted.
type Edge struct {
	Orientation Orientation
	Position    float64
	Start       float64
	End         float64
	Width       float64 // stroke width, 0 for inferred edges
	Source      Source
}

// Length returns the extent of the edge along its own axis.
func (e Edge) Length() float64 {
	return e.End - e.Start
}

// Found reports whether the edge was discovered on the page rather than
// supplied by the caller.
func (e Edge) Found() bool {
	return e.Source != SourceExplicit
}

// BBox returns the zero-thickness bounding box of the edge, useful for
// overlap tests and debug overlays.
func (e Edge) BBox() model.BBox {
	if e.Orientation == Vertical {
		return model.BBox{X: e.Position, Y: e.Start, Width: 0, Height: e.Length()}
	}
	return model.BBox{X: e.Start, Y: e.Position, Width: e.Length(), Height: 0}
}

// Covers reports whether the edge's span covers at least fraction of the
// interval [start, end], after expanding the span by tol at both ends.
func (e Edge) Covers(start, end, tol, fraction float64) bool {
	if end <= start {
		return false
	}
	lo := e.Start - tol
	hi := e.End + tol
	if lo < start {
		lo = start
	}
	if hi > end {
		hi = end
	}
	if hi <= lo {
		return false
	}
	return (hi-lo)/(end-start) >= fraction
}
