package report

import "strings"

// Cell is one data cell bound to a column identifier.
type Cell struct {
	Column string
	Value  string
}

// Row is an immutable, ordered set of cells.
type Row struct {
	cells []Cell
}

// NewRow copies the cells and trims every value.
func NewRow(cells ...Cell) Row {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = Cell{Column: c.Column, Value: strings.TrimSpace(c.Value)}
	}
	return Row{cells: out}
}

// Cells returns a copy of the row's cells in order.
func (r Row) Cells() []Cell {
	return append([]Cell(nil), r.cells...)
}

// Value returns the first cell value bound to the column.
func (r Row) Value(column string) (string, bool) {
	for _, c := range r.cells {
		if c.Column == column {
			return c.Value, true
		}
	}
	return "", false
}
