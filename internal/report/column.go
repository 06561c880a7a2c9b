package report

import (
	"fmt"
	"strings"
)

const (
	// MinWidth is the exclusive lower bound for a dragged column width.
	MinWidth = 50
	// DefaultWidth is used when a column has no rendered or recorded width.
	DefaultWidth = 150
)

// Column is a snapshot of one table column. Widths are in pixels.
type Column struct {
	ID        string
	Width     int
	LastWidth int
	Hidden    bool
}

// Header describes a header cell as rendered. Width zero means unknown.
type Header struct {
	ID    string
	Width int
}

// Registry enumerates the columns of a table in document order.
type Registry struct {
	order []*Column
	byID  map[string]*Column
}

// NewRegistry builds the registry from header cells. Blank and repeated
// identifiers are skipped.
func NewRegistry(headers []Header) *Registry {
	r := &Registry{byID: make(map[string]*Column, len(headers))}
	for _, h := range headers {
		id := strings.TrimSpace(h.ID)
		if id == "" {
			continue
		}
		if _, dup := r.byID[id]; dup {
			continue
		}
		col := &Column{ID: id, Width: h.Width, LastWidth: h.Width}
		if col.Width <= 0 {
			col.Width = DefaultWidth
			col.LastWidth = 0
		}
		r.order = append(r.order, col)
		r.byID[id] = col
	}
	return r
}

// Columns returns every column in document order.
func (r *Registry) Columns() []Column {
	out := make([]Column, len(r.order))
	for i, col := range r.order {
		out[i] = *col
	}
	return out
}

// Get returns the column with the given identifier.
func (r *Registry) Get(id string) (Column, error) {
	col, ok := r.lookup(id)
	if !ok {
		return Column{}, fmt.Errorf("column %q: %w", id, ErrNotFound)
	}
	return *col, nil
}

// Len reports the number of columns.
func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) lookup(id string) (*Column, bool) {
	col, ok := r.byID[id]
	return col, ok
}

func (r *Registry) hidden(id string) bool {
	col, ok := r.byID[id]
	return ok && col.Hidden
}

// visibleSum is the sum of the widths of every displayed column.
func (r *Registry) visibleSum() int {
	sum := 0
	for _, col := range r.order {
		if !col.Hidden {
			sum += col.Width
		}
	}
	return sum
}

// TableWidth tracks the total rendered width of the table. It is only ever
// moved by exact deltas.
type TableWidth struct {
	px int
}

// Value returns the current width in pixels.
func (t *TableWidth) Value() int { return t.px }

func (t *TableWidth) set(px int) { t.px = px }

func (t *TableWidth) add(delta int) { t.px += delta }
