package report

// Options seeds a Session from the rendered document.
type Options struct {
	Headers    []Header
	Rows       []Row
	Filterable []string
	// TableWidth is the rendered table width. Zero derives it from the
	// header widths.
	TableWidth int
}

// Session owns every piece of mutable table state. All transitions go
// through its methods.
type Session struct {
	columns    *Registry
	table      *TableWidth
	rows       []Row
	index      FilterIndex
	filters    *FilterEngine
	resizer    *Resizer
	visibility *VisibilityController
	menuOpen   bool
}

// NewSession builds the registry, indexes filter options and runs the first
// recompute pass.
func NewSession(opts Options) *Session {
	columns := NewRegistry(opts.Headers)
	table := &TableWidth{}
	if opts.TableWidth > 0 {
		table.set(opts.TableWidth)
	} else {
		table.set(columns.visibleSum())
	}
	rows := append([]Row(nil), opts.Rows...)
	index := BuildFilterIndex(rows, opts.Filterable)
	filters := NewFilterEngine(columns, rows, index)
	return &Session{
		columns:    columns,
		table:      table,
		rows:       rows,
		index:      index,
		filters:    filters,
		resizer:    NewResizer(columns, table),
		visibility: NewVisibilityController(columns, table, filters),
	}
}

// Columns returns every column in document order.
func (s *Session) Columns() []Column { return s.columns.Columns() }

// Column returns one column by identifier.
func (s *Session) Column(id string) (Column, error) { return s.columns.Get(id) }

// VisibleColumns returns the displayed columns in document order.
func (s *Session) VisibleColumns() []Column {
	all := s.columns.Columns()
	out := all[:0]
	for _, col := range all {
		if !col.Hidden {
			out = append(out, col)
		}
	}
	return out
}

// Rows returns every row, shown or not.
func (s *Session) Rows() []Row { return append([]Row(nil), s.rows...) }

// VisibleRows returns the rows that pass the current filters.
func (s *Session) VisibleRows() []Row {
	visible := s.filters.visible
	out := make([]Row, 0, len(s.rows))
	for i, row := range s.rows {
		if visible[i] {
			out = append(out, row)
		}
	}
	return out
}

// RowVisibility returns the shown flag for every row by position.
func (s *Session) RowVisibility() []bool { return s.filters.Visible() }

// TableWidth returns the tracked total width in pixels.
func (s *Session) TableWidth() int { return s.table.Value() }

// VisibleWidthSum returns the sum of displayed column widths.
func (s *Session) VisibleWidthSum() int { return s.columns.visibleSum() }

// Drift is the difference between the tracked table width and the sum of
// displayed widths. It is zero unless the table was seeded with an explicit
// width that disagreed with its columns.
func (s *Session) Drift() int { return s.TableWidth() - s.VisibleWidthSum() }

// Filterable returns the filterable column identifiers.
func (s *Session) Filterable() []string { return s.index.Columns() }

// IsFilterable reports whether the column has a filter control.
func (s *Session) IsFilterable(id string) bool { return s.index.has(id) }

// Options returns the filter options of a column.
func (s *Session) Options(id string) []string { return s.index.Options(id) }

// Filter returns the current selection of a column; "" means all.
func (s *Session) Filter(id string) string { return s.filters.Value(id) }

// Filters returns a copy of every selection.
func (s *Session) Filters() map[string]string { return s.filters.State() }

// SetFilter selects a value for a column and recomputes visibility.
func (s *Session) SetFilter(id, value string) error { return s.filters.Set(id, value) }

// ApplyFilters runs the recompute pass without changing any selection.
func (s *Session) ApplyFilters() { s.filters.Apply() }

// Toggle shows or hides a column.
func (s *Session) Toggle(id string, nowVisible bool) error {
	if g := s.resizer.Active(); g != nil && g.Column() == id {
		g.End()
	}
	return s.visibility.Toggle(id, nowVisible)
}

// BeginResize starts a drag gesture on a column boundary at pointer x.
func (s *Session) BeginResize(id string, x int) (*Gesture, error) {
	return s.resizer.Begin(id, x)
}

// ActiveGesture returns the live drag gesture, or nil.
func (s *Session) ActiveGesture() *Gesture { return s.resizer.Active() }

// Resize applies a single-step gesture of delta pixels. It reports whether
// the width changed.
func (s *Session) Resize(id string, delta int) (bool, error) {
	applied, err := s.resizer.Drag(id, 0, delta)
	return applied > 0, err
}

// MenuOpen reports whether the column menu is displayed.
func (s *Session) MenuOpen() bool { return s.menuOpen }

// SetMenuOpen opens or closes the column menu. It has no effect on columns,
// rows or filters.
func (s *Session) SetMenuOpen(open bool) { s.menuOpen = open }
