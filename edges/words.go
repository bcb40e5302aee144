package edges

import (
	"math"
	"sort"

	"github.com/tsawler/trellis/model"
)

// alignment selects which X coordinate of a word an aligned column shares.
type alignment int

const (
	alignLeft alignment = iota
	alignRight
	alignCenter
)

// WordAligner infers structural edges from the alignment of pre-assembled
// words. Columns of words sharing an X coordinate stand in for vertical
// rules, rows of words for horizontal ones.
type WordAligner struct {
	SnapTolerance      float64
	MinWordsVertical   int
	MinWordsHorizontal int
}

// VerticalEdges finds vertical edges from columns of words sharing a left,
// right, or center X coordinate within SnapTolerance. Clusters with fewer
// than MinWordsVertical members are discarded, and clusters occupying the
// same area condense into the largest one, so a column aligned on several
// keys at once still yields a single boundary. Each surviving column
// contributes an edge along its left extent, plus one closing edge along
// the rightmost extent, all spanning the columns' full vertical reach.
func (a *WordAligner) VerticalEdges(words []model.Word) []Edge {
	words = finiteWords(words)
	if len(words) == 0 {
		return nil
	}

	var clusters [][]model.Word
	for _, key := range []alignment{alignLeft, alignRight, alignCenter} {
		for _, g := range a.groupByCoord(words, a.coord(key)) {
			if len(g) >= a.MinWordsVertical {
				clusters = append(clusters, g)
			}
		}
	}
	if len(clusters) == 0 {
		return nil
	}

	// Bigger clusters claim their area first; ties keep key order so the
	// outcome is deterministic.
	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i]) > len(clusters[j])
	})

	var columns []model.BBox
	for _, g := range clusters {
		b := wordsBBox(g)
		claimed := false
		for _, c := range columns {
			if b.Intersects(c) {
				claimed = true
				break
			}
		}
		if !claimed {
			columns = append(columns, b)
		}
	}
	sort.Slice(columns, func(i, j int) bool {
		return columns[i].Left() < columns[j].Left()
	})

	top, bottom, right := columns[0].Top(), columns[0].Bottom(), columns[0].Right()
	for _, c := range columns[1:] {
		top = math.Min(top, c.Top())
		bottom = math.Max(bottom, c.Bottom())
		right = math.Max(right, c.Right())
	}

	out := make([]Edge, 0, len(columns)+1)
	for _, c := range columns {
		out = append(out, Edge{
			Orientation: Vertical,
			Position:    c.Left(),
			Start:       top,
			End:         bottom,
			Source:      SourceText,
		})
	}
	return append(out, Edge{
		Orientation: Vertical,
		Position:    right,
		Start:       top,
		End:         bottom,
		Source:      SourceText,
	})
}

// HorizontalEdges finds horizontal edges from rows of words sharing a top
// coordinate within SnapTolerance. Each row with at least
// MinWordsHorizontal members emits two edges, one along its top and one
// along its bottom, all spanning the widest row so that ragged rows still
// cross the rightmost column boundary.
func (a *WordAligner) HorizontalEdges(words []model.Word) []Edge {
	words = finiteWords(words)
	if len(words) == 0 {
		return nil
	}

	var rows []model.BBox
	for _, g := range a.groupByCoord(words, func(w model.Word) float64 { return w.BBox.Top() }) {
		if len(g) >= a.MinWordsHorizontal {
			rows = append(rows, wordsBBox(g))
		}
	}
	if len(rows) == 0 {
		return nil
	}

	left, right := rows[0].Left(), rows[0].Right()
	for _, r := range rows[1:] {
		left = math.Min(left, r.Left())
		right = math.Max(right, r.Right())
	}

	out := make([]Edge, 0, 2*len(rows))
	for _, r := range rows {
		out = append(out,
			Edge{Orientation: Horizontal, Position: r.Top(), Start: left, End: right, Source: SourceText},
			Edge{Orientation: Horizontal, Position: r.Bottom(), Start: left, End: right, Source: SourceText},
		)
	}
	return out
}

// coord returns the X coordinate selector for one alignment key.
func (a *WordAligner) coord(key alignment) func(model.Word) float64 {
	return func(w model.Word) float64 {
		switch key {
		case alignRight:
			return w.BBox.Right()
		case alignCenter:
			return w.BBox.Center().X
		default:
			return w.BBox.Left()
		}
	}
}

// groupByCoord orders words by the key coordinate and chains them into
// groups using the same gap rule as Cluster.
func (a *WordAligner) groupByCoord(words []model.Word, coord func(model.Word) float64) [][]model.Word {
	sorted := make([]model.Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		return coord(sorted[i]) < coord(sorted[j])
	})

	var groups [][]model.Word
	cur := []model.Word{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if coord(sorted[i])-coord(sorted[i-1]) > a.SnapTolerance {
			groups = append(groups, cur)
			cur = nil
		}
		cur = append(cur, sorted[i])
	}
	return append(groups, cur)
}

// wordsBBox unions the bounding boxes of a word group.
func wordsBBox(g []model.Word) model.BBox {
	b := g[0].BBox
	for _, w := range g[1:] {
		b = b.Union(w.BBox)
	}
	return b
}

// finiteWords drops words with non-finite geometry without touching the
// caller's slice.
func finiteWords(words []model.Word) []model.Word {
	out := make([]model.Word, 0, len(words))
	for _, w := range words {
		if w.BBox.IsFinite() {
			out = append(out, w)
		}
	}
	return out
}
