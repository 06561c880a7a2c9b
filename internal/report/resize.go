package report

import "fmt"

// Resizer turns drag gestures on column boundaries into width changes.
// At most one gesture is live at a time.
type Resizer struct {
	columns *Registry
	table   *TableWidth
	active  *Gesture
}

// NewResizer binds a resizer to the registry and table width it mutates.
func NewResizer(columns *Registry, table *TableWidth) *Resizer {
	return &Resizer{columns: columns, table: table}
}

// Gesture is one drag from press to release. Pointer coordinates are pixels.
type Gesture struct {
	owner      *Resizer
	column     *Column
	startX     int
	startWidth int
	startTable int
	released   bool
}

// Begin captures the column, pointer origin and starting widths. The gesture
// must be ended with End.
func (r *Resizer) Begin(id string, x int) (*Gesture, error) {
	if r.active != nil {
		return nil, ErrGestureActive
	}
	col, ok := r.columns.lookup(id)
	if !ok {
		return nil, fmt.Errorf("resize %q: %w", id, ErrNotFound)
	}
	if col.Hidden {
		return nil, fmt.Errorf("resize %q: %w", id, ErrColumnHidden)
	}
	g := &Gesture{
		owner:      r,
		column:     col,
		startX:     x,
		startWidth: col.Width,
		startTable: r.table.Value(),
	}
	r.active = g
	return g, nil
}

// Active returns the live gesture, or nil.
func (r *Resizer) Active() *Gesture { return r.active }

// Drag runs a whole gesture: begin at x, one move per entry of moves, end.
// The gesture is released even if a move panics.
func (r *Resizer) Drag(id string, x int, moves ...int) (applied int, err error) {
	g, err := r.Begin(id, x)
	if err != nil {
		return 0, err
	}
	defer g.End()
	for _, mx := range moves {
		if g.Move(mx) {
			applied++
		}
	}
	return applied, nil
}

// Column returns the identifier of the column being resized.
func (g *Gesture) Column() string { return g.column.ID }

// Move applies the pointer position x. The update is dropped when the
// resulting width would not exceed MinWidth; the column keeps its last valid
// width in that case. A column hidden mid-gesture is not resized.
func (g *Gesture) Move(x int) bool {
	if g.released || g.column.Hidden {
		return false
	}
	delta := x - g.startX
	width := g.startWidth + delta
	if width <= MinWidth {
		return false
	}
	g.column.Width = width
	g.column.LastWidth = width
	g.owner.table.set(g.startTable + delta)
	return true
}

// End releases the gesture. Calling it more than once is harmless.
func (g *Gesture) End() {
	if g.released {
		return
	}
	g.released = true
	if g.owner.active == g {
		g.owner.active = nil
	}
}
