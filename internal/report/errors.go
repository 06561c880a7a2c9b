package report

import "errors"

var (
	// ErrNotFound reports an operation against a column identifier that is not
	// part of the rendered table.
	ErrNotFound = errors.New("column not found")
	// ErrGestureActive is returned when a resize starts while another is live.
	ErrGestureActive = errors.New("resize gesture already active")
	// ErrColumnHidden is returned when resizing a column that is not displayed.
	ErrColumnHidden = errors.New("column is hidden")
	// ErrInvalidFilterValue is returned for a filter value that was never
	// observed in the column.
	ErrInvalidFilterValue = errors.New("filter value not offered for column")
)
