package tables

import "github.com/tsawler/trellis/model"

// nestedItem is one cell region pending a nested-table search.
type nestedItem struct {
	parent *model.Table
	row    int
	col    int
	region model.BBox
	depth  int
}

// FindNested searches the non-empty cells of a table for tables nested
// inside them, attaching any candidate that clears the nested confidence
// bar and sits strictly inside its cell. The search runs an explicit
// worklist with a hard depth bound instead of recursing. Strict
// containment matters as much as the bound: the outer table's edge set is
// still visible from inside any of its cells and would otherwise
// regenerate the parent grid as its own child, since that regenerated box
// coincides with the cell boundary rather than sitting inside it.
func (d *Detector) FindNested(t *model.Table, chars []model.Char, lines []model.LineSegment, rects []model.Rect, maxDepth int) {
	if t == nil || maxDepth < 1 {
		return
	}

	queue := cellRegions(t, 1)
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		regionChars, regionLines, regionRects := clipToRegion(chars, lines, rects, item.region)
		for _, cand := range d.findInRegion(regionChars, regionLines, regionRects, item) {
			if cand.Confidence < d.cfg.MinNestedConfidence {
				continue
			}
			if !item.region.ContainsStrict(cand.BBox) {
				continue
			}
			cand.Parent = &model.CellRef{Row: item.row, Col: item.col}
			item.parent.Nested = append(item.parent.Nested, cand)
			if item.depth < maxDepth {
				queue = append(queue, cellRegions(cand, item.depth+1)...)
			}
		}
	}
}

// findInRegion runs the detection pipeline over one clipped cell region.
// The borderless fallback stays out of nested searches; any paragraph of
// text inside a cell would otherwise sprout phantom tables.
func (d *Detector) findInRegion(chars []model.Char, lines []model.LineSegment, rects []model.Rect, item nestedItem) []*model.Table {
	return d.detect(chars, lines, rects, item.parent.Page, false).Tables
}

// cellRegions queues the searchable cells of a table: non-empty, with a
// real box, skipping positions covered by merged spans.
func cellRegions(t *model.Table, depth int) []nestedItem {
	var items []nestedItem
	for r := 0; r < t.RowCount(); r++ {
		for c := 0; c < t.ColCount(); c++ {
			cell := t.GetCell(r, c)
			if cell == nil || cell.Text == "" || cell.RowSpan < 1 || cell.ColSpan < 1 {
				continue
			}
			if cell.BBox.IsEmpty() {
				continue
			}
			items = append(items, nestedItem{
				parent: t,
				row:    r,
				col:    c,
				region: cell.BBox,
				depth:  depth,
			})
		}
	}
	return items
}

// clipToRegion restricts the primitive sets to one cell region: characters
// by center containment, segments clamped into the region, rectangles by
// intersection.
func clipToRegion(chars []model.Char, lines []model.LineSegment, rects []model.Rect, region model.BBox) ([]model.Char, []model.LineSegment, []model.Rect) {
	var cc []model.Char
	for _, ch := range chars {
		if ch.BBox.IsFinite() && region.Contains(ch.BBox.Center()) {
			cc = append(cc, ch)
		}
	}

	var ll []model.LineSegment
	for _, seg := range lines {
		if !seg.IsFinite() || !seg.BBox().Intersects(region) {
			continue
		}
		ll = append(ll, clampSegment(seg, region))
	}

	var rr []model.Rect
	for _, rect := range rects {
		overlap := rect.BBox.Intersection(region)
		if overlap.IsEmpty() {
			continue
		}
		clipped := rect
		clipped.BBox = overlap
		rr = append(rr, clipped)
	}
	return cc, ll, rr
}

// clampSegment clamps a segment's endpoints into the region. Exact for
// axis-aligned segments; skewed ones distort, but classification discards
// those anyway.
func clampSegment(seg model.LineSegment, region model.BBox) model.LineSegment {
	seg.Start.X = clamp(seg.Start.X, region.Left(), region.Right())
	seg.End.X = clamp(seg.End.X, region.Left(), region.Right())
	seg.Start.Y = clamp(seg.Start.Y, region.Top(), region.Bottom())
	seg.End.Y = clamp(seg.End.Y, region.Top(), region.Bottom())
	return seg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
