package model

// Page carries the decoded primitives of a single document page. Upstream
// decoders fill one Page per source page; the reconstruction pipeline reads
// it and never mutates it.
type Page struct {
	Number int     // 1-indexed page number
	Width  float64 // Page width in points, zero when unknown
	Height float64 // Page height in points, zero when unknown

	Chars []Char        // Positioned glyphs
	Words []Word        // Optional pre-assembled words
	Lines []LineSegment // Stroked path segments
	Rects []Rect        // Drawn rectangles
}

// NewPage creates an empty page with the given number
func NewPage(number int) *Page {
	return &Page{Number: number}
}

// IsEmpty reports whether the page carries no primitives at all
func (p *Page) IsEmpty() bool {
	return len(p.Chars) == 0 && len(p.Words) == 0 && len(p.Lines) == 0 && len(p.Rects) == 0
}

// Extent returns the drawable area of the page: the declared dimensions when
// present, otherwise the union of all finite primitive boxes.
func (p *Page) Extent() BBox {
	if p.Width > 0 && p.Height > 0 {
		return BBox{Width: p.Width, Height: p.Height}
	}

	var (
		box   BBox
		found bool
	)
	grow := func(b BBox) {
		if !b.IsFinite() {
			return
		}
		if !found {
			box, found = b, true
			return
		}
		box = box.Union(b)
	}

	for _, c := range p.Chars {
		grow(c.BBox)
	}
	for _, w := range p.Words {
		grow(w.BBox)
	}
	for _, l := range p.Lines {
		if l.IsFinite() {
			grow(l.BBox())
		}
	}
	for _, r := range p.Rects {
		grow(r.BBox)
	}
	return box
}
