package report

import "fmt"

// VisibilityController shows and hides columns, keeping the table width and
// the filter selection consistent with the displayed set.
type VisibilityController struct {
	columns *Registry
	table   *TableWidth
	filters *FilterEngine
}

// NewVisibilityController wires the controller to the state it reconciles.
func NewVisibilityController(columns *Registry, table *TableWidth, filters *FilterEngine) *VisibilityController {
	return &VisibilityController{columns: columns, table: table, filters: filters}
}

// Toggle displays (nowVisible) or hides the column. Hiding subtracts the
// current width; showing adds back the last-known width, or DefaultWidth when
// none was recorded. The column's filter is reset and rows are recomputed.
// Requesting the state the column is already in changes nothing.
func (v *VisibilityController) Toggle(id string, nowVisible bool) error {
	col, ok := v.columns.lookup(id)
	if !ok {
		return fmt.Errorf("toggle %q: %w", id, ErrNotFound)
	}
	if col.Hidden == !nowVisible {
		return nil
	}
	if nowVisible {
		restore := col.LastWidth
		if restore <= 0 {
			restore = DefaultWidth
		}
		col.Width = restore
		v.table.add(restore)
	} else {
		v.table.add(-col.Width)
	}
	col.Hidden = !nowVisible
	v.filters.reset(id)
	v.filters.Apply()
	return nil
}
