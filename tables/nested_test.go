package tables

import (
	"reflect"
	"testing"

	"github.com/tsawler/trellis/model"
)

// hseg returns a horizontal stroke at y spanning [x0, x1].
func hseg(y, x0, x1 float64) model.LineSegment {
	return model.LineSegment{Start: model.Point{X: x0, Y: y}, End: model.Point{X: x1, Y: y}, Width: 1}
}

// vseg returns a vertical stroke at x spanning [y0, y1].
func vseg(x, y0, y1 float64) model.LineSegment {
	return model.LineSegment{Start: model.Point{X: x, Y: y0}, End: model.Point{X: x, Y: y1}, Width: 1}
}

// nestedFixture is a one-row, two-column ruled frame whose first cell holds
// a complete 2x2 ruled table, plus one loose glyph in the second cell.
func nestedFixture() ([]model.Char, []model.LineSegment) {
	lines := []model.LineSegment{
		// outer frame: one row, columns split at x=150
		hseg(0, 0, 300),
		hseg(200, 0, 300),
		vseg(0, 0, 200),
		vseg(150, 0, 200),
		vseg(300, 0, 200),
		// inner grid inside the outer first cell
		hseg(40, 20, 120),
		hseg(80, 20, 120),
		hseg(120, 20, 120),
		vseg(20, 40, 120),
		vseg(70, 40, 120),
		vseg(120, 40, 120),
	}
	chars := []model.Char{
		char("a", 40, 55, 8, 8),
		char("b", 90, 55, 8, 8),
		char("c", 40, 95, 8, 8),
		char("d", 90, 95, 8, 8),
		char("Z", 200, 90, 8, 8),
	}
	return chars, lines
}

func TestFindTablesNested(t *testing.T) {
	chars, lines := nestedFixture()

	cfg := DefaultConfig()
	cfg.DetectNested = true
	d := newTestDetector(t, &cfg)

	res := d.FindTables(chars, lines, nil, 1)
	if len(res.Tables) != 1 {
		t.Fatalf("FindTables() returned %d top-level tables, want 1", len(res.Tables))
	}

	outer := res.Tables[0]
	wantOuter := [][]string{{"a b c d", "Z"}}
	if !reflect.DeepEqual(outer.Rows, wantOuter) {
		t.Errorf("outer.Rows = %v, want %v", outer.Rows, wantOuter)
	}
	if len(outer.Nested) != 1 {
		t.Fatalf("len(outer.Nested) = %d, want 1", len(outer.Nested))
	}

	inner := outer.Nested[0]
	if inner.Parent == nil || *inner.Parent != (model.CellRef{Row: 0, Col: 0}) {
		t.Fatalf("inner.Parent = %v, want &{0 0}", inner.Parent)
	}
	wantInner := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(inner.Rows, wantInner) {
		t.Errorf("inner.Rows = %v, want %v", inner.Rows, wantInner)
	}
	if inner.Method != model.MethodLines {
		t.Errorf("inner.Method = %q, want %q", inner.Method, model.MethodLines)
	}
	if cell := outer.GetCell(0, 0); !cell.BBox.ContainsStrict(inner.BBox) {
		t.Errorf("nested table box %v not strictly inside cell box %v", inner.BBox, cell.BBox)
	}
}

func TestFindTablesNestedOff(t *testing.T) {
	chars, lines := nestedFixture()

	d := newTestDetector(t, nil)
	res := d.FindTables(chars, lines, nil, 1)

	// Without nested detection the inner grid is just a second table on
	// the page, listed after the outer frame in reading order.
	if len(res.Tables) != 2 {
		t.Fatalf("FindTables() returned %d tables, want 2", len(res.Tables))
	}
	if got := res.Tables[0].RowCount(); got != 1 {
		t.Errorf("first table has %d rows, want 1", got)
	}
	if got := res.Tables[1].RowCount(); got != 2 {
		t.Errorf("second table has %d rows, want 2", got)
	}
	for _, tab := range res.Tables {
		if len(tab.Nested) != 0 {
			t.Errorf("table at %v has %d nested tables, want 0", tab.BBox, len(tab.Nested))
		}
	}
}

func TestFindTablesNestedDepthZero(t *testing.T) {
	chars, lines := nestedFixture()

	cfg := DefaultConfig()
	cfg.DetectNested = true
	cfg.MaxNestedDepth = 0
	d := newTestDetector(t, &cfg)

	// A zero depth bound disables the search entirely, including the
	// enclosed-table dedupe that feeds it.
	res := d.FindTables(chars, lines, nil, 1)
	if len(res.Tables) != 2 {
		t.Fatalf("FindTables() returned %d tables, want 2", len(res.Tables))
	}
	for _, tab := range res.Tables {
		if len(tab.Nested) != 0 {
			t.Errorf("table at %v has %d nested tables, want 0", tab.BBox, len(tab.Nested))
		}
	}
}

func TestFindNestedConfidenceBar(t *testing.T) {
	chars, lines := nestedFixture()

	// Thin out one inner cell so the nested candidate scores below a
	// raised bar: completeness 1, coverage 3/4, regularity 1.
	var thinned []model.Char
	for _, ch := range chars {
		if ch.Text != "d" {
			thinned = append(thinned, ch)
		}
	}

	cfg := DefaultConfig()
	cfg.DetectNested = true
	cfg.MinNestedConfidence = 0.95
	d := newTestDetector(t, &cfg)

	res := d.FindTables(thinned, lines, nil, 1)
	if len(res.Tables) != 1 {
		t.Fatalf("FindTables() returned %d top-level tables, want 1", len(res.Tables))
	}
	if got := len(res.Tables[0].Nested); got != 0 {
		t.Errorf("len(Nested) = %d, want 0 below the confidence bar", got)
	}
}

func TestCellRegions(t *testing.T) {
	tab := model.NewTable(1, 3)
	tab.Cells[0][0].Text = "x"
	tab.Cells[0][0].BBox = model.BBox{X: 0, Y: 0, Width: 50, Height: 50}
	// (0,1) stays empty; (0,2) is covered by a merged span
	tab.Cells[0][2].Text = "covered"
	tab.Cells[0][2].BBox = model.BBox{X: 100, Y: 0, Width: 50, Height: 50}
	tab.Cells[0][2].RowSpan = 0
	tab.Cells[0][2].ColSpan = 0

	items := cellRegions(tab, 1)
	if len(items) != 1 {
		t.Fatalf("cellRegions() returned %d items, want 1", len(items))
	}
	if items[0].row != 0 || items[0].col != 0 {
		t.Errorf("cellRegions() item at (%d, %d), want (0, 0)", items[0].row, items[0].col)
	}
	if items[0].depth != 1 {
		t.Errorf("cellRegions() item depth = %d, want 1", items[0].depth)
	}
}

func TestClipToRegion(t *testing.T) {
	region := model.BBox{X: 0, Y: 0, Width: 100, Height: 100}
	chars := []model.Char{
		char("in", 40, 40, 10, 10),
		char("out", 200, 40, 10, 10),
	}
	lines := []model.LineSegment{
		hseg(50, -50, 150), // crosses the region
		hseg(50, 300, 400), // disjoint
	}
	rects := []model.Rect{
		{BBox: model.BBox{X: 80, Y: 80, Width: 60, Height: 10}, Stroked: true},
		{BBox: model.BBox{X: 300, Y: 0, Width: 10, Height: 10}, Stroked: true},
	}

	cc, ll, rr := clipToRegion(chars, lines, rects, region)

	if len(cc) != 1 || cc[0].Text != "in" {
		t.Errorf("clipToRegion() chars = %v, want only the in-region char", cc)
	}
	if len(ll) != 1 {
		t.Fatalf("clipToRegion() kept %d lines, want 1", len(ll))
	}
	if ll[0].Start.X != 0 || ll[0].End.X != 100 {
		t.Errorf("clipToRegion() line spans [%v, %v], want [0, 100]", ll[0].Start.X, ll[0].End.X)
	}
	if len(rr) != 1 {
		t.Fatalf("clipToRegion() kept %d rects, want 1", len(rr))
	}
	want := model.BBox{X: 80, Y: 80, Width: 20, Height: 10}
	if rr[0].BBox != want {
		t.Errorf("clipToRegion() rect box = %v, want %v", rr[0].BBox, want)
	}
}

func TestClampSegment(t *testing.T) {
	region := model.BBox{X: 10, Y: 10, Width: 80, Height: 80}

	got := clampSegment(vseg(50, -100, 500), region)
	if got.Start.Y != 10 || got.End.Y != 90 {
		t.Errorf("clampSegment() spans [%v, %v], want [10, 90]", got.Start.Y, got.End.Y)
	}
	if got.Start.X != 50 || got.End.X != 50 {
		t.Errorf("clampSegment() moved x to [%v, %v], want 50", got.Start.X, got.End.X)
	}
}

func TestDropEnclosed(t *testing.T) {
	host := model.NewTable(1, 1)
	host.BBox = model.BBox{X: 0, Y: 0, Width: 300, Height: 200}
	host.Cells[0][0].BBox = host.BBox

	guest := model.NewTable(1, 1)
	guest.BBox = model.BBox{X: 20, Y: 40, Width: 100, Height: 80}
	guest.Cells[0][0].BBox = guest.BBox

	peer := model.NewTable(1, 1)
	peer.BBox = model.BBox{X: 400, Y: 0, Width: 100, Height: 100}
	peer.Cells[0][0].BBox = peer.BBox

	kept := dropEnclosed([]*model.Table{host, guest, peer})
	if len(kept) != 2 {
		t.Fatalf("dropEnclosed() kept %d tables, want 2", len(kept))
	}
	if kept[0] != host || kept[1] != peer {
		t.Errorf("dropEnclosed() kept the wrong tables")
	}
}

func TestDropEnclosedIgnoresCoveredCells(t *testing.T) {
	host := model.NewTable(1, 1)
	host.BBox = model.BBox{X: 0, Y: 0, Width: 300, Height: 200}
	host.Cells[0][0].BBox = host.BBox
	host.Cells[0][0].RowSpan = 0
	host.Cells[0][0].ColSpan = 0

	guest := model.NewTable(1, 1)
	guest.BBox = model.BBox{X: 20, Y: 40, Width: 100, Height: 80}
	guest.Cells[0][0].BBox = guest.BBox

	kept := dropEnclosed([]*model.Table{host, guest})
	if len(kept) != 2 {
		t.Errorf("dropEnclosed() kept %d tables, want 2 when the covering cell is a span remnant", len(kept))
	}
}
