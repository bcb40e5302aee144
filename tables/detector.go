package tables

import (
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/trellis/edges"
	"github.com/tsawler/trellis/model"
)

// Warning describes a non-fatal condition met during detection, such as a
// malformed explicit coordinate list. Warnings accompany a degraded result
// instead of failing it; an empty page is a success, not a warning.
type Warning struct {
	Op      string
	Message string
}

// String implements fmt.Stringer.
func (w Warning) String() string {
	return w.Op + ": " + w.Message
}

// Result carries the tables found on one page together with the geometry
// that produced them, for callers that want to inspect or render the
// detection.
type Result struct {
	Tables          []*model.Table
	HorizontalEdges []edges.Edge
	VerticalEdges   []edges.Edge
	Intersections   []Intersection
	Warnings        []Warning
}

func (r *Result) warn(op, message string) {
	r.Warnings = append(r.Warnings, Warning{Op: op, Message: message})
}

// Detector reconstructs tables from page primitives. A Detector is pure
// configuration: it keeps no state between calls, so one instance may
// serve any number of pages concurrently.
type Detector struct {
	cfg Config
}

// NewDetector creates a detector. A nil config selects DefaultConfig. The
// configuration is validated once here; detection itself never fails.
func NewDetector(cfg *Config) (*Detector, error) {
	c := DefaultConfig()
	if cfg != nil {
		c = cfg.normalized()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: c}, nil
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// ExtractTables finds the tables on one page and returns them in reading
// order: top to bottom, then left to right. Finding nothing returns an
// empty slice.
func (d *Detector) ExtractTables(chars []model.Char, lines []model.LineSegment, rects []model.Rect, pageNumber int) []*model.Table {
	return d.FindTables(chars, lines, rects, pageNumber).Tables
}

// FindTables runs the full pipeline and returns the tables along with the
// edges, intersections, and warnings behind them. With nested detection on,
// a table sitting inside another table's cell moves from the top-level list
// to its parent's Nested slice.
func (d *Detector) FindTables(chars []model.Char, lines []model.LineSegment, rects []model.Rect, pageNumber int) *Result {
	res := d.detect(chars, lines, rects, pageNumber, true)
	if d.cfg.DetectNested && d.cfg.MaxNestedDepth >= 1 {
		res.Tables = dropEnclosed(res.Tables)
		for _, t := range res.Tables {
			d.FindNested(t, chars, lines, rects, d.cfg.MaxNestedDepth)
		}
	}
	return res
}

// FindTablesOnPage runs FindTables against one page's primitives. When the
// page carries pre-segmented words they take the place of Config.Words for
// this call only; the detector itself is not modified.
func (d *Detector) FindTablesOnPage(page *model.Page) *Result {
	if page == nil {
		return &Result{}
	}
	det := d
	if len(page.Words) > 0 {
		clone := *d
		clone.cfg.Words = page.Words
		det = &clone
	}
	return det.FindTables(page.Chars, page.Lines, page.Rects, page.Number)
}

// detect is the pipeline core. fallback gates the borderless pass so the
// nested search can keep it off.
func (d *Detector) detect(chars []model.Char, lines []model.LineSegment, rects []model.Rect, pageNumber int, fallback bool) *Result {
	res := &Result{}

	// Step 1: produce raw edges under each axis strategy
	raw := d.produceEdges(chars, lines, rects, res)

	// Step 2: snap, join, and filter them into canonical edges
	var horizontal, vertical []edges.Edge
	for _, e := range d.extractor().Merge(raw) {
		if e.Orientation == edges.Horizontal {
			horizontal = append(horizontal, e)
		} else {
			vertical = append(vertical, e)
		}
	}
	res.HorizontalEdges = horizontal
	res.VerticalEdges = vertical

	// Step 3: with no usable edges at all, optionally infer structure
	// from whitespace alone
	if len(horizontal)+len(vertical) == 0 {
		if fallback && d.cfg.BorderlessFallback {
			res.Tables = d.DetectBorderless(chars, pageNumber)
		}
		return res
	}

	// Step 4: cross the edge sets and group them into table regions
	res.Intersections = FindIntersections(horizontal, vertical, d.cfg.IntersectionTolerance)
	regions := findRegions(horizontal, vertical, res.Intersections)
	adoptOrphans(regions, horizontal, vertical, d.cfg.SnapTolerance,
		d.cfg.HorizontalStrategy != StrategyLinesStrict,
		d.cfg.VerticalStrategy != StrategyLinesStrict)

	// Step 5: build one table per region
	for _, reg := range regions {
		if t := d.buildTable(reg, horizontal, vertical, chars, pageNumber); t != nil {
			res.Tables = append(res.Tables, t)
		}
	}

	// Step 6: reading order
	sortTables(res.Tables)
	return res
}

// produceEdges runs the configured strategy for each axis. The vertical
// strategy governs vertical edges only and the horizontal strategy
// horizontal edges only, so mixed pairs stay independent.
func (d *Detector) produceEdges(chars []model.Char, lines []model.LineSegment, rects []model.Rect, res *Result) []edges.Edge {
	ext := d.extractor()
	lineEdges := ext.FromLines(lines)
	rectEdges := ext.FromRects(rects)

	var words []model.Word
	if d.cfg.VerticalStrategy == StrategyText || d.cfg.HorizontalStrategy == StrategyText {
		words = d.cfg.Words
		if len(words) == 0 {
			words = deriveWords(chars, d.cfg.SnapTolerance)
		}
	}

	box, haveBox := workingBBox(chars, words, lines, rects,
		d.cfg.ExplicitVerticalLines, d.cfg.ExplicitHorizontalLines)

	out := d.axisEdges(edges.Vertical, d.cfg.VerticalStrategy, lineEdges, rectEdges, words, box, haveBox, res)
	return append(out, d.axisEdges(edges.Horizontal, d.cfg.HorizontalStrategy, lineEdges, rectEdges, words, box, haveBox, res)...)
}

// axisEdges produces the raw edges of one orientation under one strategy.
func (d *Detector) axisEdges(o edges.Orientation, s Strategy, lineEdges, rectEdges []edges.Edge, words []model.Word, box model.BBox, haveBox bool, res *Result) []edges.Edge {
	switch s {
	case StrategyLines:
		return append(filterOrientation(lineEdges, o), filterOrientation(rectEdges, o)...)

	case StrategyLinesStrict:
		return filterOrientation(lineEdges, o)

	case StrategyText:
		aligner := &edges.WordAligner{
			SnapTolerance:      d.cfg.SnapTolerance,
			MinWordsVertical:   d.cfg.MinWordsVertical,
			MinWordsHorizontal: d.cfg.MinWordsHorizontal,
		}
		if o == edges.Vertical {
			return aligner.VerticalEdges(words)
		}
		return aligner.HorizontalEdges(words)

	case StrategyExplicit:
		coords := d.cfg.ExplicitVerticalLines
		axis := "vertical"
		if o == edges.Horizontal {
			coords = d.cfg.ExplicitHorizontalLines
			axis = "horizontal"
		}
		valid, reason := validateExplicit(coords)
		if reason != "" {
			res.warn("explicit", fmt.Sprintf("%s coordinates %s; axis degraded", axis, reason))
			return nil
		}
		if !haveBox {
			return nil
		}
		start, end := box.Top(), box.Bottom()
		if o == edges.Horizontal {
			start, end = box.Left(), box.Right()
		}
		return d.extractor().FromExplicit(valid, o, start, end)
	}
	return nil
}

// buildTable assembles one table from a region: cluster the boundaries,
// pour in the text, merge spans across missing walls, then score.
func (d *Detector) buildTable(reg *region, horizontal, vertical []edges.Edge, chars []model.Char, pageNumber int) *model.Table {
	grid := reg.grid(horizontal, vertical, d.cfg.SnapTolerance)
	if grid == nil {
		return nil
	}

	t := d.newTableFromGrid(grid, chars, pageNumber)

	regionH := edgeSubset(reg.hIdx, horizontal)
	regionV := edgeSubset(reg.vIdx, vertical)

	if d.cfg.DetectMergedCells && d.cfg.VerticalStrategy.linesBased() && d.cfg.HorizontalStrategy.linesBased() {
		mergeSpans(t, grid, buildWalls(grid, regionH, regionV, d.cfg.SnapTolerance))
	}

	sc := &scorer{cfg: d.cfg}
	t.Confidence = sc.score(grid, regionH, regionV, t)
	t.Method = sc.resolveMethod(grid, regionH, regionV)

	if t.Confidence < d.cfg.MinConfidence {
		return nil
	}
	return t
}

// newTableFromGrid builds a table skeleton: text matrix filled from the
// characters, per-cell boxes, page and bounds set.
func (d *Detector) newTableFromGrid(grid *model.Grid, chars []model.Char, pageNumber int) *model.Table {
	filler := &cellFiller{snapTolerance: d.cfg.SnapTolerance}
	texts := filler.fill(grid, chars)

	t := model.NewTable(grid.RowCount(), grid.ColCount())
	t.Page = pageNumber
	t.BBox = grid.BBox()
	for r := range texts {
		for c, s := range texts[r] {
			t.Rows[r][c] = s
			cell := t.GetCell(r, c)
			cell.Text = s
			cell.BBox = grid.CellBBox(r, c)
		}
	}
	return t
}

// extractor builds the edge extractor from the configured tolerances.
func (d *Detector) extractor() *edges.Extractor {
	return &edges.Extractor{
		SnapTolerance:    d.cfg.SnapTolerance,
		JoinTolerance:    d.cfg.JoinTolerance,
		MinLength:        d.cfg.EdgeMinLength,
		AngularTolerance: d.cfg.AngularTolerance,
	}
}

// filterOrientation keeps the edges of one orientation.
func filterOrientation(es []edges.Edge, o edges.Orientation) []edges.Edge {
	var out []edges.Edge
	for _, e := range es {
		if e.Orientation == o {
			out = append(out, e)
		}
	}
	return out
}

// validateExplicit vets caller-supplied coordinates. Any defect degrades
// the axis rather than failing the call; the reason is empty for usable
// input.
func validateExplicit(coords []float64) ([]float64, string) {
	if len(coords) < 2 {
		return nil, "have fewer than two entries"
	}
	for _, v := range coords {
		if !isFiniteValue(v) {
			return nil, "contain a non-finite value"
		}
	}
	if !sort.Float64sAreSorted(coords) {
		return nil, "are not sorted ascending"
	}
	return coords, ""
}

// workingBBox is the extent explicit edges span: the union of every finite
// primitive box plus the explicit coordinates themselves on their own
// axes. ok is false when nothing contributes at all.
func workingBBox(chars []model.Char, words []model.Word, lines []model.LineSegment, rects []model.Rect, explicitV, explicitH []float64) (box model.BBox, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	add := func(b model.BBox) {
		if !b.IsFinite() {
			return
		}
		minX = math.Min(minX, b.Left())
		maxX = math.Max(maxX, b.Right())
		minY = math.Min(minY, b.Top())
		maxY = math.Max(maxY, b.Bottom())
	}
	for _, ch := range chars {
		add(ch.BBox)
	}
	for _, w := range words {
		add(w.BBox)
	}
	for _, seg := range lines {
		if seg.IsFinite() {
			add(seg.BBox())
		}
	}
	for _, r := range rects {
		add(r.BBox)
	}
	for _, x := range explicitV {
		if isFiniteValue(x) {
			minX = math.Min(minX, x)
			maxX = math.Max(maxX, x)
		}
	}
	for _, y := range explicitH {
		if isFiniteValue(y) {
			minY = math.Min(minY, y)
			maxY = math.Max(maxY, y)
		}
	}

	if minX > maxX && minY > maxY {
		return model.BBox{}, false
	}
	if minX > maxX {
		minX, maxX = 0, 0
	}
	if minY > maxY {
		minY, maxY = 0, 0
	}
	return model.BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// sortTables orders tables in reading order, top to bottom then left to
// right.
func sortTables(tables []*model.Table) {
	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].BBox.Top() != tables[j].BBox.Top() {
			return tables[i].BBox.Top() < tables[j].BBox.Top()
		}
		return tables[i].BBox.Left() < tables[j].BBox.Left()
	})
}

// dropEnclosed removes tables that sit strictly inside a cell of another
// table. The nested search rediscovers them from the parent's cell regions,
// so keeping them at the top level would report the same table twice.
func dropEnclosed(tables []*model.Table) []*model.Table {
	var kept []*model.Table
	for i, t := range tables {
		if !insideAnyCell(t, tables, i) {
			kept = append(kept, t)
		}
	}
	return kept
}

// insideAnyCell reports whether t's bounding box is strictly contained by a
// cell of any table other than tables[self].
func insideAnyCell(t *model.Table, tables []*model.Table, self int) bool {
	for i, other := range tables {
		if i == self {
			continue
		}
		for _, row := range other.Cells {
			for _, cell := range row {
				if cell.RowSpan < 1 || cell.ColSpan < 1 {
					continue
				}
				if cell.BBox.ContainsStrict(t.BBox) {
					return true
				}
			}
		}
	}
	return false
}

func isFiniteValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
