package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bekirdag/task-report/internal/report"
)

// cellPadding is the horizontal padding the header and cell styles add to
// every column.
const cellPadding = 2

// reportTable renders the visible part of a session with bubbles/table and
// maps screen columns back to report columns.
type reportTable struct {
	table         table.Model
	pixelsPerCell int
	columns       []report.Column
	cellWidths    []int
	rows          []report.Row
	width         int
	height        int
}

func newReportTable(pixelsPerCell int, s styles) *reportTable {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
	)
	tStyles := table.DefaultStyles()
	tStyles.Header = s.header
	tStyles.Cell = s.cell
	tStyles.Selected = s.selected
	t.SetStyles(tStyles)
	if pixelsPerCell <= 0 {
		pixelsPerCell = defaultPixelsPerCell
	}
	return &reportTable{table: t, pixelsPerCell: pixelsPerCell}
}

func (t *reportTable) cells(px int) int {
	c := px / t.pixelsPerCell
	if c < 1 {
		c = 1
	}
	return c
}

// Refresh rebuilds columns and rows from the session. focus marks the
// focused column header; filtered columns get a trailing '='.
func (t *reportTable) Refresh(s *report.Session, focus int) {
	t.columns = s.VisibleColumns()
	t.rows = s.VisibleRows()
	t.cellWidths = make([]int, len(t.columns))

	cols := make([]table.Column, len(t.columns))
	for i, col := range t.columns {
		title := col.ID
		if s.Filter(col.ID) != "" {
			title += " ="
		}
		if i == focus {
			title = "›" + title
		}
		t.cellWidths[i] = t.cells(col.Width)
		cols[i] = table.Column{Title: title, Width: t.cellWidths[i]}
	}

	rows := make([]table.Row, len(t.rows))
	for i, row := range t.rows {
		values := make(table.Row, len(t.columns))
		for j, col := range t.columns {
			values[j], _ = row.Value(col.ID)
		}
		rows[i] = values
	}

	cursor := t.table.Cursor()
	// Rows first so the new column set never indexes past a row's cells.
	t.table.SetRows(nil)
	t.table.SetColumns(cols)
	t.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	t.table.SetCursor(cursor)
}

func (t *reportTable) SetSize(width, height int) {
	if height < 3 {
		height = 3
	}
	t.width = width
	t.height = height
	t.table.SetWidth(width)
	t.table.SetHeight(height)
}

func (t *reportTable) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return cmd
}

func (t *reportTable) View() string {
	if len(t.columns) == 0 {
		return "(todas as colunas ocultas)"
	}
	return t.table.View()
}

// spans returns the first screen column of each visible column.
func (t *reportTable) spans() []int {
	starts := make([]int, len(t.cellWidths))
	x := 0
	for i, w := range t.cellWidths {
		starts[i] = x
		x += w + cellPadding
	}
	return starts
}

// boundaryAt returns the column whose right edge is within one cell of x.
func (t *reportTable) boundaryAt(x int) (int, bool) {
	starts := t.spans()
	for i, start := range starts {
		edge := start + t.cellWidths[i] + cellPadding - 1
		if x >= edge-1 && x <= edge+1 {
			return i, true
		}
	}
	return 0, false
}

// columnAt returns the column drawn at screen column x.
func (t *reportTable) columnAt(x int) (int, bool) {
	starts := t.spans()
	for i, start := range starts {
		if x >= start && x < start+t.cellWidths[i]+cellPadding {
			return i, true
		}
	}
	return 0, false
}

func (t *reportTable) column(i int) (report.Column, bool) {
	if i < 0 || i >= len(t.columns) {
		return report.Column{}, false
	}
	return t.columns[i], true
}

func (t *reportTable) selectedRow() (report.Row, bool) {
	idx := t.table.Cursor()
	if idx < 0 || idx >= len(t.rows) {
		return report.Row{}, false
	}
	return t.rows[idx], true
}

// selectedText joins the visible cells of the selected row with tabs.
func (t *reportTable) selectedText() (string, bool) {
	row, ok := t.selectedRow()
	if !ok {
		return "", false
	}
	values := make([]string, len(t.columns))
	for i, col := range t.columns {
		values[i], _ = row.Value(col.ID)
	}
	return strings.Join(values, "\t"), true
}
