package tables

import (
	"testing"

	"github.com/tsawler/trellis/model"
)

func newTestDetector(t *testing.T, cfg *Config) *Detector {
	t.Helper()
	d, err := NewDetector(cfg)
	if err != nil {
		t.Fatalf("NewDetector() failed: %v", err)
	}
	return d
}

// borderlessChars lays out a 2x2 character grid with clear whitespace
// bands between the rows and columns and no drawn structure at all.
func borderlessChars() []model.Char {
	return []model.Char{
		char("N", 50, 100, 10, 10),
		char("V", 150, 100, 10, 10),
		char("S", 50, 160, 10, 10),
		char("E", 150, 160, 10, 10),
	}
}

func TestDetectBorderless(t *testing.T) {
	d := newTestDetector(t, nil)

	tables := d.DetectBorderless(borderlessChars(), 1)
	if len(tables) != 1 {
		t.Fatalf("DetectBorderless() = %d tables, want 1", len(tables))
	}

	tab := tables[0]
	if tab.RowCount() != 2 || tab.ColCount() != 2 {
		t.Fatalf("table is %dx%d, want 2x2", tab.RowCount(), tab.ColCount())
	}
	want := [][]string{{"N", "V"}, {"S", "E"}}
	for r := range want {
		for c := range want[r] {
			if tab.Rows[r][c] != want[r][c] {
				t.Errorf("Rows[%d][%d] = %q, want %q", r, c, tab.Rows[r][c], want[r][c])
			}
		}
	}
	if tab.Method != model.MethodText {
		t.Errorf("Method = %q, want %q", tab.Method, model.MethodText)
	}
	if tab.Confidence <= 0 || tab.Confidence > borderlessCap {
		t.Errorf("Confidence = %v, want in (0, %v]", tab.Confidence, borderlessCap)
	}
	if tab.Page != 1 {
		t.Errorf("Page = %d, want 1", tab.Page)
	}
}

func TestDetectBorderlessSingleParagraph(t *testing.T) {
	d := newTestDetector(t, nil)

	// One tightly packed line of text has no band structure.
	chars := []model.Char{
		char("w", 50, 100, 10, 10),
		char("o", 60, 100, 10, 10),
		char("r", 70, 100, 10, 10),
		char("d", 80, 100, 10, 10),
	}
	if tables := d.DetectBorderless(chars, 1); tables != nil {
		t.Errorf("DetectBorderless() = %d tables for one paragraph, want none", len(tables))
	}
}

func TestDetectBorderlessEmptyInput(t *testing.T) {
	d := newTestDetector(t, nil)
	if tables := d.DetectBorderless(nil, 1); tables != nil {
		t.Errorf("DetectBorderless(nil) = %d tables, want none", len(tables))
	}
}

func TestDetectBorderlessMinBandGate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinRows = 3
	d := newTestDetector(t, &cfg)

	// The 2x2 layout no longer clears a three-row minimum.
	if tables := d.DetectBorderless(borderlessChars(), 1); tables != nil {
		t.Errorf("DetectBorderless() = %d tables below the row minimum, want none", len(tables))
	}
}

func TestDetectBorderlessExplicitGaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinColumnGap = 500 // wider than any gap on the page
	d := newTestDetector(t, &cfg)

	if tables := d.DetectBorderless(borderlessChars(), 1); tables != nil {
		t.Errorf("DetectBorderless() = %d tables with an unreachable column gap, want none", len(tables))
	}
}

func TestBandBoundaries(t *testing.T) {
	chars := borderlessChars()

	cols := bandBoundaries(chars, 15, func(ch model.Char) (float64, float64) {
		return ch.BBox.Left(), ch.BBox.Right()
	})
	wantCols := []float64{50, 105, 160}
	if len(cols) != len(wantCols) {
		t.Fatalf("bandBoundaries() = %v, want %v", cols, wantCols)
	}
	for i := range wantCols {
		if cols[i] != wantCols[i] {
			t.Errorf("cols[%d] = %v, want %v", i, cols[i], wantCols[i])
		}
	}

	rows := bandBoundaries(chars, 5, func(ch model.Char) (float64, float64) {
		return ch.BBox.Top(), ch.BBox.Bottom()
	})
	wantRows := []float64{100, 135, 170}
	for i := range wantRows {
		if rows[i] != wantRows[i] {
			t.Errorf("rows[%d] = %v, want %v", i, rows[i], wantRows[i])
		}
	}
}

func TestBandBoundariesIgnoresNarrowGaps(t *testing.T) {
	chars := []model.Char{
		char("a", 0, 0, 10, 10),
		char("b", 12, 0, 10, 10), // 2 wide, below any plausible threshold
	}
	bounds := bandBoundaries(chars, 15, func(ch model.Char) (float64, float64) {
		return ch.BBox.Left(), ch.BBox.Right()
	})
	if len(bounds) != 2 {
		t.Errorf("bandBoundaries() = %v, want just the content extremes", bounds)
	}
}

func TestMeanCharHeight(t *testing.T) {
	chars := []model.Char{
		char("a", 0, 0, 5, 8),
		char("b", 0, 0, 5, 12),
	}
	if got := meanCharHeight(chars); got != 10 {
		t.Errorf("meanCharHeight() = %v, want 10", got)
	}
}
