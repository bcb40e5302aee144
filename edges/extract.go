package edges

import (
	"sort"

	"github.com/tsawler/trellis/model"
)

// Extractor turns page primitives into canonical structural edges. The
// tolerances come from the detector configuration driving the extraction.
type Extractor struct {
	SnapTolerance    float64
	JoinTolerance    float64
	MinLength        float64
	AngularTolerance float64
}

// FromLines converts stroked segments into raw edges. Non-finite and
// degenerate segments are filtered out, diagonal segments are skipped.
func (e *Extractor) FromLines(lines []model.LineSegment) []Edge {
	var out []Edge
	for _, seg := range lines {
		if IsDegenerate(seg, e.AngularTolerance) {
			continue
		}
		switch Classify(seg, e.AngularTolerance) {
		case Horizontal:
			start, end := order(seg.Start.X, seg.End.X)
			out = append(out, Edge{
				Orientation: Horizontal,
				Position:    (seg.Start.Y + seg.End.Y) / 2,
				Start:       start,
				End:         end,
				Width:       seg.Width,
				Source:      SourceLine,
			})
		case Vertical:
			start, end := order(seg.Start.Y, seg.End.Y)
			out = append(out, Edge{
				Orientation: Vertical,
				Position:    (seg.Start.X + seg.End.X) / 2,
				Start:       start,
				End:         end,
				Width:       seg.Width,
				Source:      SourceLine,
			})
		}
	}
	return out
}

// FromRects converts rectangle outlines into raw edges, one per side. A
// zero-height or zero-width rectangle degenerates naturally: its two long
// sides collapse into one edge during merging and its short sides fall to
// the minimum length filter.
func (e *Extractor) FromRects(rects []model.Rect) []Edge {
	var out []Edge
	for _, r := range rects {
		b := r.BBox
		if !b.IsFinite() || b.Width < 0 || b.Height < 0 {
			continue
		}
		if b.Width == 0 && b.Height == 0 {
			continue
		}
		out = append(out,
			Edge{Orientation: Horizontal, Position: b.Top(), Start: b.Left(), End: b.Right(), Width: r.Width, Source: SourceRect},
			Edge{Orientation: Horizontal, Position: b.Bottom(), Start: b.Left(), End: b.Right(), Width: r.Width, Source: SourceRect},
			Edge{Orientation: Vertical, Position: b.Left(), Start: b.Top(), End: b.Bottom(), Width: r.Width, Source: SourceRect},
			Edge{Orientation: Vertical, Position: b.Right(), Start: b.Top(), End: b.Bottom(), Width: r.Width, Source: SourceRect},
		)
	}
	return out
}

// FromExplicit converts caller-supplied boundary coordinates into synthetic
// edges spanning [start, end]. The coordinates are taken as-is; validating
// and ordering them is the caller's job.
func (e *Extractor) FromExplicit(coords []float64, o Orientation, start, end float64) []Edge {
	out := make([]Edge, 0, len(coords))
	for _, c := range coords {
		out = append(out, Edge{
			Orientation: o,
			Position:    c,
			Start:       start,
			End:         end,
			Source:      SourceExplicit,
		})
	}
	return out
}

// Merge canonicalizes raw edges. Collinear edges whose positions chain
// within SnapTolerance collapse onto the group's lowest position, their
// spans union when overlapping or separated by no more than JoinTolerance,
// and merged edges shorter than MinLength are dropped. Horizontal and
// vertical edges merge independently.
func (e *Extractor) Merge(list []Edge) []Edge {
	var hs, vs []Edge
	for _, ed := range list {
		switch ed.Orientation {
		case Horizontal:
			hs = append(hs, ed)
		case Vertical:
			vs = append(vs, ed)
		}
	}

	out := e.mergeOriented(hs)
	return append(out, e.mergeOriented(vs)...)
}

// mergeOriented merges edges of a single orientation.
func (e *Extractor) mergeOriented(list []Edge) []Edge {
	if len(list) == 0 {
		return nil
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Position != list[j].Position {
			return list[i].Position < list[j].Position
		}
		return list[i].Start < list[j].Start
	})

	var out []Edge
	groupStart := 0
	for i := 1; i <= len(list); i++ {
		if i < len(list) && list[i].Position-list[i-1].Position <= e.SnapTolerance {
			continue
		}
		out = append(out, e.joinGroup(list[groupStart:i])...)
		groupStart = i
	}
	return out
}

// joinGroup unions the spans of edges snapped to one position. The group
// arrives sorted by position, so its first member carries the lowest
// position, which becomes the representative.
func (e *Extractor) joinGroup(group []Edge) []Edge {
	pos := group[0].Position

	sort.Slice(group, func(i, j int) bool {
		return group[i].Start < group[j].Start
	})

	var joined []Edge
	cur := group[0]
	cur.Position = pos
	for _, next := range group[1:] {
		if next.Start-cur.End <= e.JoinTolerance {
			if next.End > cur.End {
				cur.End = next.End
			}
			if next.Width > cur.Width {
				cur.Width = next.Width
			}
			cur.Source = dominantSource(cur.Source, next.Source)
		} else {
			joined = append(joined, cur)
			cur = next
			cur.Position = pos
		}
	}
	joined = append(joined, cur)

	kept := joined[:0]
	for _, ed := range joined {
		if ed.Length() >= e.MinLength {
			kept = append(kept, ed)
		}
	}
	return kept
}

// Utility functions

// dominantSource picks the stronger of two sources when edges merge: drawn
// geometry beats inferred text alignment, and any found source beats
// explicit coordinates.
func dominantSource(a, b Source) Source {
	if sourceRank(b) > sourceRank(a) {
		return b
	}
	return a
}

func sourceRank(s Source) int {
	switch s {
	case SourceLine:
		return 3
	case SourceRect:
		return 2
	case SourceText:
		return 1
	default:
		return 0
	}
}

// order returns its arguments sorted ascending.
func order(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}
