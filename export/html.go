package export

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/trellis/model"
)

// HTML renders each table as an HTML <table> element and writes them to w,
// one per line. Merged cells carry rowspan/colspan attributes and the
// positions they cover are not emitted; nested tables render as <table>
// elements inside the cell that contains them.
func HTML(w io.Writer, tables []*model.Table) error {
	for _, t := range tables {
		if err := html.Render(w, tableNode(t)); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// tableNode builds the node tree for one table, recursing into nested
// tables.
func tableNode(t *model.Table) *html.Node {
	table := element(atom.Table)

	for r := 0; r < t.RowCount(); r++ {
		tr := element(atom.Tr)
		for c := 0; c < t.ColCount(); c++ {
			cell := t.GetCell(r, c)
			if cell == nil || cell.RowSpan < 1 || cell.ColSpan < 1 {
				// Covered by another cell's span
				continue
			}

			td := element(atom.Td)
			if cell.RowSpan > 1 {
				td.Attr = append(td.Attr, html.Attribute{Key: "rowspan", Val: strconv.Itoa(cell.RowSpan)})
			}
			if cell.ColSpan > 1 {
				td.Attr = append(td.Attr, html.Attribute{Key: "colspan", Val: strconv.Itoa(cell.ColSpan)})
			}
			if cell.Text != "" {
				td.AppendChild(&html.Node{Type: html.TextNode, Data: cell.Text})
			}
			for _, nested := range nestedIn(t, r, c) {
				td.AppendChild(tableNode(nested))
			}

			tr.AppendChild(td)
		}
		table.AppendChild(tr)
	}

	return table
}

// nestedIn returns the nested tables anchored to the given cell.
func nestedIn(t *model.Table, row, col int) []*model.Table {
	var out []*model.Table
	for _, n := range t.Nested {
		if n.Parent != nil && n.Parent.Row == row && n.Parent.Col == col {
			out = append(out, n)
		}
	}
	return out
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
