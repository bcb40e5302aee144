package tables

import (
	"math"
	"sort"

	"github.com/tsawler/trellis/edges"
	"github.com/tsawler/trellis/model"
)

// hybridOverlap is the overlap ratio between the line-supported and
// text-supported areas above which a table reports the hybrid method.
const hybridOverlap = 0.8

// scorer computes table confidence and resolves the detection method from
// the sources that support the grid boundaries.
type scorer struct {
	cfg Config
}

// score combines edge completeness, content coverage, and grid regularity
// into one confidence value. The configured weights are renormalized to
// sum to 1, so callers can disable a component by zeroing its weight
// without deflating the rest.
func (s *scorer) score(grid *model.Grid, horizontal, vertical []edges.Edge, t *model.Table) float64 {
	wc := s.cfg.WeightCompleteness
	wv := s.cfg.WeightCoverage
	wr := s.cfg.WeightRegularity
	total := wc + wv + wr
	if total <= 0 {
		wc, wv, wr = 1, 1, 1
		total = 3
	}

	score := 0.0

	// Factor 1: edge completeness, how much of the boundary structure is
	// backed by found edges rather than interpolation.
	score += s.edgeCompleteness(grid, horizontal, vertical) * wc / total

	// Factor 2: content coverage, the fraction of cells holding text.
	score += s.contentCoverage(t) * wv / total

	// Factor 3: grid regularity, how uniform the row and column sizes are.
	score += s.gridRegularity(grid) * wr / total

	return clamp01(score)
}

// edgeCompleteness returns the fraction of grid boundaries supported by
// found edges. A boundary counts as supported when edges within the snap
// tolerance cover at least half of the table's extent along it; explicit
// caller-supplied coordinates never count, which is what gives an
// explicit-only table its low score.
func (s *scorer) edgeCompleteness(grid *model.Grid, horizontal, vertical []edges.Edge) float64 {
	boundaries := len(grid.Rows) + len(grid.Cols)
	if boundaries == 0 {
		return 0
	}

	left, right := grid.Cols[0], grid.Cols[len(grid.Cols)-1]
	top, bottom := grid.Rows[0], grid.Rows[len(grid.Rows)-1]
	tol := s.cfg.SnapTolerance

	supported := 0
	for _, y := range grid.Rows {
		if coveredLength(horizontal, y, left, right, tol, true) >= 0.5*(right-left) {
			supported++
		}
	}
	for _, x := range grid.Cols {
		if coveredLength(vertical, x, top, bottom, tol, true) >= 0.5*(bottom-top) {
			supported++
		}
	}
	return float64(supported) / float64(boundaries)
}

// contentCoverage returns the fraction of grid positions holding text.
// Positions covered by a merged span inherit the anchor cell's state, so a
// populated 2x1 span counts as two filled positions, not one filled and
// one empty.
func (s *scorer) contentCoverage(t *model.Table) float64 {
	rows, cols := t.RowCount(), t.ColCount()
	if rows == 0 || cols == 0 {
		return 0
	}

	filled := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := t.GetCell(r, c)
			if cell == nil {
				continue
			}
			if cell.RowSpan == 0 && cell.ColSpan == 0 {
				if anchor := spanAnchor(t, r, c); anchor != nil && anchor.Text != "" {
					filled++
				}
				continue
			}
			if cell.Text != "" {
				filled++
			}
		}
	}
	return float64(filled) / float64(rows*cols)
}

// spanAnchor finds the spanning cell covering position (row, col), or nil.
func spanAnchor(t *model.Table, row, col int) *model.Cell {
	for r := row; r >= 0; r-- {
		for c := col; c >= 0; c-- {
			anchor := t.GetCell(r, c)
			if anchor == nil || anchor.RowSpan < 1 || anchor.ColSpan < 1 {
				continue
			}
			if r+anchor.RowSpan > row && c+anchor.ColSpan > col {
				return anchor
			}
		}
	}
	return nil
}

// gridRegularity scores how uniform the row heights and column widths are,
// one minus the coefficient of variation per axis, clamped and averaged.
func (s *scorer) gridRegularity(grid *model.Grid) float64 {
	rowScore := 1 - coefficientOfVariation(spacings(grid.Rows))
	colScore := 1 - coefficientOfVariation(spacings(grid.Cols))
	return (clamp01(rowScore) + clamp01(colScore)) / 2
}

// resolveMethod reports how the table's structure was derived, from the
// edge sources supporting its boundaries. Tables whose only support is
// caller-supplied coordinates are explicit; pure drawn structure is lines;
// pure alignment inference is text. When drawn and inferred boundaries
// both contribute and their supported areas mostly coincide the table is
// hybrid, otherwise the richer source wins.
func (s *scorer) resolveMethod(grid *model.Grid, horizontal, vertical []edges.Edge) model.DetectionMethod {
	tol := s.cfg.SnapTolerance
	left, right := grid.Cols[0], grid.Cols[len(grid.Cols)-1]
	top, bottom := grid.Rows[0], grid.Rows[len(grid.Rows)-1]

	var lineRows, textRows, lineCols, textCols []float64
	lineCount, textCount, explicitCount := 0, 0, 0

	for _, y := range grid.Rows {
		sup := supportAt(horizontal, y, left, right, tol)
		if sup.line {
			lineCount++
			lineRows = append(lineRows, y)
		}
		if sup.text {
			textCount++
			textRows = append(textRows, y)
		}
		if sup.explicit && !sup.line && !sup.text {
			explicitCount++
		}
	}
	for _, x := range grid.Cols {
		sup := supportAt(vertical, x, top, bottom, tol)
		if sup.line {
			lineCount++
			lineCols = append(lineCols, x)
		}
		if sup.text {
			textCount++
			textCols = append(textCols, x)
		}
		if sup.explicit && !sup.line && !sup.text {
			explicitCount++
		}
	}

	switch {
	case lineCount == 0 && textCount == 0:
		return model.MethodExplicit
	case lineCount > 0 && textCount == 0:
		if explicitCount > lineCount {
			return model.MethodExplicit
		}
		return model.MethodLines
	case textCount > 0 && lineCount == 0:
		if explicitCount > textCount {
			return model.MethodExplicit
		}
		return model.MethodText
	}

	// Both drawn and inferred boundaries contribute. Compare the areas
	// each source supports; a source backing only one axis spans the full
	// table on the other.
	tableBox := grid.BBox()
	lineBox := supportBox(lineRows, lineCols, tableBox)
	textBox := supportBox(textRows, textCols, tableBox)
	if lineBox.OverlapRatio(textBox) >= hybridOverlap {
		return model.MethodHybrid
	}
	if textCount > lineCount {
		return model.MethodText
	}
	return model.MethodLines
}

// boundarySupport records which edge source families back one boundary.
type boundarySupport struct {
	line     bool
	text     bool
	explicit bool
}

// supportAt inspects the edges within tol of pos that overlap [lo, hi] and
// reports their source families. Rectangle edges count as drawn lines.
func supportAt(es []edges.Edge, pos, lo, hi, tol float64) boundarySupport {
	var sup boundarySupport
	for _, e := range es {
		if math.Abs(e.Position-pos) > tol {
			continue
		}
		if e.End < lo || e.Start > hi {
			continue
		}
		switch e.Source {
		case edges.SourceLine, edges.SourceRect:
			sup.line = true
		case edges.SourceText:
			sup.text = true
		case edges.SourceExplicit:
			sup.explicit = true
		}
	}
	return sup
}

// supportBox builds the bbox spanned by the supported boundary positions,
// falling back to the table extent on an axis the source never touches.
func supportBox(rows, cols []float64, table model.BBox) model.BBox {
	top, bottom := table.Top(), table.Bottom()
	if len(rows) > 0 {
		top, bottom = rows[0], rows[len(rows)-1]
	}
	left, right := table.Left(), table.Right()
	if len(cols) > 0 {
		left, right = cols[0], cols[len(cols)-1]
	}
	return model.BBox{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// coveredLength returns the total length of [lo, hi] covered by the spans
// of edges lying within tol of pos. Overlapping spans count once. With
// foundOnly set, explicit caller-supplied edges are skipped.
func coveredLength(es []edges.Edge, pos, lo, hi, tol float64, foundOnly bool) float64 {
	type span struct{ start, end float64 }
	var spans []span
	for _, e := range es {
		if foundOnly && !e.Found() {
			continue
		}
		if math.Abs(e.Position-pos) > tol {
			continue
		}
		start, end := maxFloat(e.Start, lo), minFloat(e.End, hi)
		if end > start {
			spans = append(spans, span{start, end})
		}
	}
	if len(spans) == 0 {
		return 0
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	total := 0.0
	cur := spans[0]
	for _, sp := range spans[1:] {
		if sp.start <= cur.end {
			if sp.end > cur.end {
				cur.end = sp.end
			}
			continue
		}
		total += cur.end - cur.start
		cur = sp
	}
	total += cur.end - cur.start
	return total
}

// spacings returns the gaps between consecutive boundary positions.
func spacings(bounds []float64) []float64 {
	if len(bounds) < 2 {
		return nil
	}
	out := make([]float64, 0, len(bounds)-1)
	for i := 1; i < len(bounds); i++ {
		out = append(out, bounds[i]-bounds[i-1])
	}
	return out
}

// coefficientOfVariation calculates CV (std dev / mean)
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := 0.0
	for _, v := range values {
		m += v
	}
	m /= float64(len(values))

	if m == 0 {
		return 0
	}

	v := 0.0
	for _, val := range values {
		diff := val - m
		v += diff * diff
	}
	v /= float64(len(values))

	return math.Sqrt(v) / m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
