package tables

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/trellis/edges"
	"github.com/tsawler/trellis/model"
)

const (
	// spaceGapFactor scales the mean glyph width into the horizontal gap
	// that separates words inside a cell.
	spaceGapFactor = 0.3

	// minSpaceGap is the word gap used when glyph widths are unavailable.
	minSpaceGap = 1.0

	// wallCoverage is the fraction of a boundary segment an edge must
	// cover to count as a cell wall.
	wallCoverage = 0.5
)

// cellFiller assigns characters to grid cells and assembles their text.
type cellFiller struct {
	snapTolerance float64
}

// fill buckets characters into cells by their center point and returns the
// assembled text matrix. Characters outside the grid are ignored.
func (f *cellFiller) fill(grid *model.Grid, chars []model.Char) [][]string {
	buckets := make([][][]model.Char, grid.RowCount())
	for i := range buckets {
		buckets[i] = make([][]model.Char, grid.ColCount())
	}
	for _, ch := range chars {
		if !ch.BBox.IsFinite() {
			continue
		}
		row, col := findCell(grid, ch.BBox.Center())
		if row < 0 || col < 0 {
			continue
		}
		buckets[row][col] = append(buckets[row][col], ch)
	}

	texts := make([][]string, grid.RowCount())
	for i := range texts {
		texts[i] = make([]string, grid.ColCount())
		for j := range texts[i] {
			texts[i][j] = f.assemble(buckets[i][j])
		}
	}
	return texts
}

// assemble orders a cell's characters into reading order and joins them.
// Characters cluster into visual lines by vertical center; within a line a
// horizontal gap wider than a fraction of the mean glyph width becomes a
// space, and the lines themselves join with single spaces. The result is
// whitespace-collapsed and NFC-normalized so that visually identical cells
// compare equal.
func (f *cellFiller) assemble(chars []model.Char) string {
	if len(chars) == 0 {
		return ""
	}

	gap := spaceGapFactor * meanCharWidth(chars)
	if gap <= 0 {
		gap = minSpaceGap
	}

	var b strings.Builder
	for li, line := range groupIntoLines(chars, f.snapTolerance) {
		if li > 0 {
			b.WriteByte(' ')
		}
		for i, ch := range line {
			if i > 0 && ch.BBox.Left()-line[i-1].BBox.Right() > gap {
				b.WriteByte(' ')
			}
			b.WriteString(ch.Text)
		}
	}
	return norm.NFC.String(strings.Join(strings.Fields(b.String()), " "))
}

// findCell returns the row and column indices of the grid cell containing
// the point, or -1 for both when the point falls outside the grid.
func findCell(grid *model.Grid, p model.Point) (row, col int) {
	row = -1
	col = -1

	for i := 0; i < grid.RowCount(); i++ {
		if p.Y >= grid.Rows[i] && p.Y <= grid.Rows[i+1] {
			row = i
			break
		}
	}
	for i := 0; i < grid.ColCount(); i++ {
		if p.X >= grid.Cols[i] && p.X <= grid.Cols[i+1] {
			col = i
			break
		}
	}
	return row, col
}

// groupIntoLines splits characters into visual lines: sorted by vertical
// center, a new line starts when the gap to the previous center exceeds
// tol. Each line comes back sorted left to right. The input is not
// mutated.
func groupIntoLines(chars []model.Char, tol float64) [][]model.Char {
	sorted := append([]model.Char(nil), chars...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Center().Y < sorted[j].BBox.Center().Y
	})

	var lines [][]model.Char
	for i, ch := range sorted {
		if i == 0 || ch.BBox.Center().Y-sorted[i-1].BBox.Center().Y > tol {
			lines = append(lines, nil)
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], ch)
	}
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].BBox.Left() < line[j].BBox.Left()
		})
	}
	return lines
}

// deriveWords groups loose characters into words when the caller supplies
// none, so the text strategy still has something to align. Characters on
// the same visual line split into words at gaps wider than tol.
func deriveWords(chars []model.Char, tol float64) []model.Word {
	usable := make([]model.Char, 0, len(chars))
	for _, ch := range chars {
		if ch.Text != "" && ch.BBox.IsFinite() {
			usable = append(usable, ch)
		}
	}
	if len(usable) == 0 {
		return nil
	}

	var words []model.Word
	for _, line := range groupIntoLines(usable, tol) {
		start := 0
		for i := 1; i <= len(line); i++ {
			if i == len(line) || line[i].BBox.Left()-line[i-1].BBox.Right() > tol {
				words = append(words, buildWord(line[start:i]))
				start = i
			}
		}
	}
	return words
}

// buildWord concatenates a run of characters into one word.
func buildWord(run []model.Char) model.Word {
	w := model.Word{Text: run[0].Text, BBox: run[0].BBox}
	for _, ch := range run[1:] {
		w.Text += ch.Text
		w.BBox = w.BBox.Union(ch.BBox)
	}
	return w
}

// meanCharWidth averages the positive glyph widths, 0 when none exist.
func meanCharWidth(chars []model.Char) float64 {
	sum, n := 0.0, 0
	for _, ch := range chars {
		if ch.BBox.Width > 0 {
			sum += ch.BBox.Width
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// walls records which boundary segments of a grid have a covering edge.
// h[i][c] is the segment of row boundary i crossing column c; v[r][j] is
// the segment of column boundary j crossing row r.
type walls struct {
	h [][]bool
	v [][]bool
}

// buildWalls tests every boundary segment of the grid for a covering edge.
func buildWalls(grid *model.Grid, horizontal, vertical []edges.Edge, tol float64) *walls {
	rows, cols := grid.RowCount(), grid.ColCount()
	w := &walls{
		h: make([][]bool, rows+1),
		v: make([][]bool, rows),
	}
	for i := range w.h {
		w.h[i] = make([]bool, cols)
	}
	for r := range w.v {
		w.v[r] = make([]bool, cols+1)
	}

	for i, y := range grid.Rows {
		for c := 0; c < cols; c++ {
			w.h[i][c] = segmentCovered(horizontal, y, grid.Cols[c], grid.Cols[c+1], tol)
		}
	}
	for j, x := range grid.Cols {
		for r := 0; r < rows; r++ {
			w.v[r][j] = segmentCovered(vertical, x, grid.Rows[r], grid.Rows[r+1], tol)
		}
	}
	return w
}

// segmentCovered reports whether the edges lying within tol of pos cover
// at least half of the segment [lo, hi].
func segmentCovered(es []edges.Edge, pos, lo, hi, tol float64) bool {
	return coveredLength(es, pos, lo, hi, tol, false) >= wallCoverage*(hi-lo)
}

// mergeSpans widens cells across missing internal walls into rectangular
// spans, scanning row-major and growing each span right, then down. A span
// only grows downward into rows whose own wall pattern matches, so the
// result stays rectangular and spans never overlap. The anchor cell keeps
// the merged text and box; covered positions get zero spans.
func mergeSpans(t *model.Table, grid *model.Grid, w *walls) {
	rows, cols := t.RowCount(), t.ColCount()
	taken := make([][]bool, rows)
	for i := range taken {
		taken[i] = make([]bool, cols)
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if taken[r][c] {
				continue
			}

			width, height := 1, 1
			for c+width < cols && !taken[r][c+width] && !w.v[r][c+width] {
				width++
			}
		grow:
			for r+height < rows {
				next := r + height
				for cc := c; cc < c+width; cc++ {
					if taken[next][cc] || w.h[next][cc] {
						break grow
					}
				}
				for j := c + 1; j < c+width; j++ {
					if w.v[next][j] {
						break grow
					}
				}
				height++
			}

			markSpan(t, grid, taken, r, c, width, height)
		}
	}
}

// markSpan records one merged block on the table.
func markSpan(t *model.Table, grid *model.Grid, taken [][]bool, row, col, width, height int) {
	for r := row; r < row+height; r++ {
		for c := col; c < col+width; c++ {
			taken[r][c] = true
		}
	}
	if width == 1 && height == 1 {
		return
	}

	var parts []string
	for r := row; r < row+height; r++ {
		for c := col; c < col+width; c++ {
			if t.Rows[r][c] != "" {
				parts = append(parts, t.Rows[r][c])
			}
			if r == row && c == col {
				continue
			}
			t.Rows[r][c] = ""
			covered := t.GetCell(r, c)
			covered.Text = ""
			covered.RowSpan = 0
			covered.ColSpan = 0
		}
	}

	anchor := t.GetCell(row, col)
	anchor.RowSpan = height
	anchor.ColSpan = width
	anchor.Text = strings.Join(parts, " ")
	anchor.BBox = model.BBox{
		X:      grid.Cols[col],
		Y:      grid.Rows[row],
		Width:  grid.Cols[col+width] - grid.Cols[col],
		Height: grid.Rows[row+height] - grid.Rows[row],
	}
	t.Rows[row][col] = anchor.Text
}
