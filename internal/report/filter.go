package report

import (
	"fmt"
	"sort"
)

// FilterIndex holds, per filterable column, the sorted distinct non-empty
// values seen at load time.
type FilterIndex struct {
	options map[string][]string
	order   []string
}

// BuildFilterIndex scans rows once and collects the distinct values of every
// filterable column.
func BuildFilterIndex(rows []Row, filterable []string) FilterIndex {
	sets := make(map[string]map[string]struct{}, len(filterable))
	idx := FilterIndex{options: make(map[string][]string, len(filterable))}
	for _, id := range filterable {
		if _, dup := sets[id]; dup {
			continue
		}
		sets[id] = make(map[string]struct{})
		idx.order = append(idx.order, id)
	}
	for _, row := range rows {
		for _, cell := range row.cells {
			if set, ok := sets[cell.Column]; ok {
				set[cell.Value] = struct{}{}
			}
		}
	}
	for id, set := range sets {
		values := make([]string, 0, len(set))
		for v := range set {
			if v == "" {
				continue
			}
			values = append(values, v)
		}
		sort.Strings(values)
		idx.options[id] = values
	}
	return idx
}

// Columns returns the filterable column identifiers in declaration order.
func (ix FilterIndex) Columns() []string {
	return append([]string(nil), ix.order...)
}

// Options returns the option list for a column, without the leading "all".
func (ix FilterIndex) Options(id string) []string {
	return append([]string(nil), ix.options[id]...)
}

// Offers reports whether value is one of the column's options.
func (ix FilterIndex) Offers(id, value string) bool {
	values := ix.options[id]
	i := sort.SearchStrings(values, value)
	return i < len(values) && values[i] == value
}

func (ix FilterIndex) has(id string) bool {
	_, ok := ix.options[id]
	return ok
}

// FilterEngine holds the current selection per filterable column and the
// derived visibility of every row.
type FilterEngine struct {
	columns *Registry
	index   FilterIndex
	rows    []Row
	state   map[string]string
	visible []bool
}

// NewFilterEngine starts with every filter set to "all" and every row shown.
func NewFilterEngine(columns *Registry, rows []Row, index FilterIndex) *FilterEngine {
	e := &FilterEngine{
		columns: columns,
		index:   index,
		rows:    rows,
		state:   make(map[string]string, len(index.order)),
		visible: make([]bool, len(rows)),
	}
	for _, id := range index.order {
		e.state[id] = ""
	}
	e.Apply()
	return e
}

// Set selects value for the column and recomputes every row. The empty value
// clears the filter.
func (e *FilterEngine) Set(id, value string) error {
	if _, ok := e.state[id]; !ok {
		return fmt.Errorf("filter %q: %w", id, ErrNotFound)
	}
	if value != "" && !e.index.Offers(id, value) {
		return fmt.Errorf("filter %q=%q: %w", id, value, ErrInvalidFilterValue)
	}
	e.state[id] = value
	e.Apply()
	return nil
}

// Value returns the selection for a column; "" means all.
func (e *FilterEngine) Value(id string) string { return e.state[id] }

// State returns a copy of the current selections.
func (e *FilterEngine) State() map[string]string {
	out := make(map[string]string, len(e.state))
	for k, v := range e.state {
		out[k] = v
	}
	return out
}

// Apply is the recompute pass. A cell only disqualifies its row when its
// column has a selection and is displayed.
func (e *FilterEngine) Apply() {
	for i, row := range e.rows {
		shown := true
		for _, cell := range row.cells {
			want := e.state[cell.Column]
			if want == "" || e.columns.hidden(cell.Column) {
				continue
			}
			if cell.Value != want {
				shown = false
				break
			}
		}
		e.visible[i] = shown
	}
}

// Visible returns the visibility of every row, by row position.
func (e *FilterEngine) Visible() []bool {
	return append([]bool(nil), e.visible...)
}

func (e *FilterEngine) reset(id string) {
	if _, ok := e.state[id]; ok {
		e.state[id] = ""
	}
}
