package model

// Char represents a single positioned glyph on a page
type Char struct {
	Text string
	BBox BBox
}

// Word represents a positioned run of text, typically produced by an
// upstream word assembler. Words are optional hints for text-based
// column and row inference.
type Word struct {
	Text string
	BBox BBox
}

// LineSegment represents a stroked path segment on a page
type LineSegment struct {
	Start Point
	End   Point
	Width float64 // stroke width
}

// BBox returns the bounding box spanned by the segment endpoints
func (l LineSegment) BBox() BBox {
	return NewBBoxFromPoints(l.Start, l.End)
}

// Length returns the Euclidean length of the segment
func (l LineSegment) Length() float64 {
	return l.Start.Distance(l.End)
}

// IsFinite returns true if both endpoints have finite coordinates
func (l LineSegment) IsFinite() bool {
	return l.Start.IsFinite() && l.End.IsFinite()
}

// Rect represents a rectangle drawn on the page. Filled rectangles are
// commonly used as cell backgrounds, stroked ones as cell borders; a
// rectangle can be both.
type Rect struct {
	BBox    BBox
	Filled  bool
	Stroked bool
	Width   float64 // stroke width
}
