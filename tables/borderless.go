package tables

import (
	"sort"

	"github.com/tsawler/trellis/model"
)

const (
	// borderlessCap is the ceiling on borderless confidence; whitespace
	// inference is never as certain as drawn structure.
	borderlessCap = 0.6

	// columnGapFactor and rowGapFactor derive the default band-splitting
	// gaps from the average glyph dimensions. Columns need a wide gap,
	// since word spacing already approaches one glyph width; rows split
	// on much smaller leading.
	columnGapFactor = 1.5
	rowGapFactor    = 0.5

	// Glyph size fallbacks for pathological input where every character
	// reports a zero-size box.
	defaultAvgCharWidth  = 5.0
	defaultAvgCharHeight = 10.0
)

// DetectBorderless looks for tabular structure on a page with no drawn
// rules at all by carving the character cloud along its whitespace bands.
// Characters are projected onto each axis and their covered intervals
// merged; column boundaries fall at the centers of horizontal gaps wider
// than the column gap threshold, row boundaries at the centers of vertical
// gaps wider than the row gap threshold. Pages whose band structure is
// smaller than MinRows x MinCols produce nothing, and the confidence of
// anything found is capped below drawn-structure levels.
func (d *Detector) DetectBorderless(chars []model.Char, pageNumber int) []*model.Table {
	usable := make([]model.Char, 0, len(chars))
	for _, ch := range chars {
		if ch.BBox.IsFinite() {
			usable = append(usable, ch)
		}
	}
	if len(usable) == 0 {
		return nil
	}

	avgW := d.cfg.AvgCharWidth
	if avgW <= 0 {
		avgW = meanCharWidth(usable)
	}
	if avgW <= 0 {
		avgW = defaultAvgCharWidth
	}
	avgH := d.cfg.AvgCharHeight
	if avgH <= 0 {
		avgH = meanCharHeight(usable)
	}
	if avgH <= 0 {
		avgH = defaultAvgCharHeight
	}

	gapX := d.cfg.MinColumnGap
	if gapX <= 0 {
		gapX = columnGapFactor * avgW
	}
	gapY := d.cfg.MinRowGap
	if gapY <= 0 {
		gapY = rowGapFactor * avgH
	}

	cols := bandBoundaries(usable, gapX, func(ch model.Char) (float64, float64) {
		return ch.BBox.Left(), ch.BBox.Right()
	})
	rows := bandBoundaries(usable, gapY, func(ch model.Char) (float64, float64) {
		return ch.BBox.Top(), ch.BBox.Bottom()
	})

	minRows, minCols := d.cfg.MinRows, d.cfg.MinCols
	if minRows < 1 {
		minRows = 1
	}
	if minCols < 1 {
		minCols = 1
	}
	if len(rows)-1 < minRows || len(cols)-1 < minCols {
		return nil
	}

	grid := &model.Grid{Rows: rows, Cols: cols}
	t := d.newTableFromGrid(grid, usable, pageNumber)
	t.Method = model.MethodText

	sc := &scorer{cfg: d.cfg}
	conf := sc.score(grid, nil, nil, t)
	if conf > borderlessCap {
		conf = borderlessCap
	}
	t.Confidence = conf
	if t.Confidence < d.cfg.MinConfidence {
		return nil
	}
	return []*model.Table{t}
}

// bandBoundaries projects the characters onto one axis, merges the covered
// intervals, and returns band boundaries: the content extremes plus the
// center of every gap at least minGap wide. Every resulting band holds
// content by construction.
func bandBoundaries(chars []model.Char, minGap float64, extent func(model.Char) (float64, float64)) []float64 {
	type span struct{ lo, hi float64 }
	spans := make([]span, 0, len(chars))
	for _, ch := range chars {
		lo, hi := extent(ch)
		spans = append(spans, span{lo, hi})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })

	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.lo <= last.hi {
			if sp.hi > last.hi {
				last.hi = sp.hi
			}
			continue
		}
		merged = append(merged, sp)
	}

	bounds := []float64{merged[0].lo}
	for i := 0; i < len(merged)-1; i++ {
		gap := merged[i+1].lo - merged[i].hi
		if gap >= minGap {
			bounds = append(bounds, merged[i].hi+gap/2)
		}
	}
	return append(bounds, merged[len(merged)-1].hi)
}

// meanCharHeight averages the positive glyph heights, 0 when none exist.
func meanCharHeight(chars []model.Char) float64 {
	sum, n := 0.0, 0
	for _, ch := range chars {
		if ch.BBox.Height > 0 {
			sum += ch.BBox.Height
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
