package model

import (
	"fmt"
	"strings"
)

// DetectionMethod identifies how a table's structure was derived
type DetectionMethod string

const (
	// MethodLines means the grid was built from ruled lines and rectangle borders
	MethodLines DetectionMethod = "lines"
	// MethodText means the grid was inferred from text alignment alone
	MethodText DetectionMethod = "text"
	// MethodExplicit means the grid came from caller-supplied coordinates
	MethodExplicit DetectionMethod = "explicit"
	// MethodHybrid means ruled lines and text alignment each contributed
	MethodHybrid DetectionMethod = "hybrid"
)

// CellRef identifies a cell position within a parent table
type CellRef struct {
	Row int
	Col int
}

// Cell represents a table cell. RowSpan and ColSpan are 1 for an ordinary
// cell, larger on the anchor of a merged block, and 0 on positions covered
// by another cell's span.
type Cell struct {
	Row     int
	Col     int
	Text    string
	BBox    BBox
	RowSpan int
	ColSpan int
}

// Table represents a reconstructed table. Rows holds the text matrix and
// Cells the full cell records; both always have identical dimensions, with
// every grid position present even when empty.
type Table struct {
	Page       int
	BBox       BBox
	Rows       [][]string
	Cells      [][]Cell
	Confidence float64         // Detection confidence (0-1)
	Method     DetectionMethod // How the structure was derived
	Nested     []*Table        // Tables found inside cells
	Parent     *CellRef        // Set on nested tables: the containing cell
}

// NewTable creates a new table with given dimensions
func NewTable(rows, cols int) *Table {
	table := &Table{
		Rows:       make([][]string, rows),
		Cells:      make([][]Cell, rows),
		Confidence: 1.0,
	}
	for i := 0; i < rows; i++ {
		table.Rows[i] = make([]string, cols)
		table.Cells[i] = make([]Cell, cols)
		for j := 0; j < cols; j++ {
			table.Cells[i][j] = Cell{
				Row:     i,
				Col:     j,
				RowSpan: 1,
				ColSpan: 1,
			}
		}
	}
	return table
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the first row
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// GetCell returns the cell at the given row and column (0-indexed)
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Cells) {
		return nil
	}
	if col < 0 || col >= len(t.Cells[row]) {
		return nil
	}
	return &t.Cells[row][col]
}

// SetText sets the text at the given position, keeping the text matrix and
// the cell record in sync
func (t *Table) SetText(row, col int, text string) error {
	if row < 0 || row >= len(t.Cells) {
		return fmt.Errorf("row index %d out of bounds", row)
	}
	if col < 0 || col >= len(t.Cells[row]) {
		return fmt.Errorf("col index %d out of bounds", col)
	}
	t.Cells[row][col].Text = text
	t.Rows[row][col] = text
	return nil
}

// GetText returns the table content as tab-separated rows
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, text := range row {
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	// Header row
	for j, text := range t.Rows[0] {
		sb.WriteString("| ")
		sb.WriteString(strings.ReplaceAll(text, "\n", " "))
		sb.WriteString(" ")
		if j == len(t.Rows[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	// Separator
	for j := range t.Rows[0] {
		sb.WriteString("|---")
		if j == len(t.Rows[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	// Data rows
	for i := 1; i < len(t.Rows); i++ {
		for j, text := range t.Rows[i] {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(text, "\n", " "))
			sb.WriteString(" ")
			if j == len(t.Rows[i])-1 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToCSV converts the table to CSV format
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, text := range row {
			// Escape quotes and wrap in quotes if necessary
			if strings.Contains(text, ",") || strings.Contains(text, "\"") || strings.Contains(text, "\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Grid represents the boundary coordinates of a reconstructed table:
// len(Rows)-1 rows of cells by len(Cols)-1 columns
type Grid struct {
	Rows []float64 // Y-coordinates of row boundaries, ascending
	Cols []float64 // X-coordinates of column boundaries, ascending
}

// RowCount returns the number of rows
func (g *Grid) RowCount() int {
	if len(g.Rows) <= 1 {
		return 0
	}
	return len(g.Rows) - 1
}

// ColCount returns the number of columns
func (g *Grid) ColCount() int {
	if len(g.Cols) <= 1 {
		return 0
	}
	return len(g.Cols) - 1
}

// CellBBox returns the bounding box for a cell
func (g *Grid) CellBBox(row, col int) BBox {
	if row < 0 || row >= g.RowCount() || col < 0 || col >= g.ColCount() {
		return BBox{}
	}
	return BBox{
		X:      g.Cols[col],
		Y:      g.Rows[row],
		Width:  g.Cols[col+1] - g.Cols[col],
		Height: g.Rows[row+1] - g.Rows[row],
	}
}

// BBox returns the outer bounding box of the grid
func (g *Grid) BBox() BBox {
	if len(g.Rows) == 0 || len(g.Cols) == 0 {
		return BBox{}
	}
	return BBox{
		X:      g.Cols[0],
		Y:      g.Rows[0],
		Width:  g.Cols[len(g.Cols)-1] - g.Cols[0],
		Height: g.Rows[len(g.Rows)-1] - g.Rows[0],
	}
}
