// Package document loads the rendered report into the table model.
package document

import "github.com/bekirdag/task-report/internal/report"

// Document is the part of the report page the table logic depends on.
type Document struct {
	Headers    []report.Header
	Rows       []report.Row
	Filterable []string
	Toggles    []string
	// TableWidth is the rendered table width in pixels, zero if unknown.
	TableWidth int
}

// Session builds the interactive table state for the document.
func (d Document) Session() *report.Session {
	return report.NewSession(report.Options{
		Headers:    d.Headers,
		Rows:       d.Rows,
		Filterable: d.Filterable,
		TableWidth: d.TableWidth,
	})
}
