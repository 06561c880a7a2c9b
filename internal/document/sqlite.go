package document

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bekirdag/task-report/internal/report"
)

const tasksQuery = `SELECT * FROM tasks ORDER BY Compliance DESC, ID DESC`

// LoadSQLite builds the document from the report's task database, the same
// data the page is rendered from. Every column is filterable and toggleable.
func LoadSQLite(ctx context.Context, path string) (Document, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Document{}, fmt.Errorf("open task database: %w", err)
	}
	defer db.Close()
	return loadTasks(ctx, db)
}

func loadTasks(ctx context.Context, db *sql.DB) (Document, error) {
	rows, err := db.QueryContext(ctx, tasksQuery)
	if err != nil {
		return Document{}, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return Document{}, err
	}
	var doc Document
	for _, name := range names {
		doc.Headers = append(doc.Headers, report.Header{ID: name})
	}
	doc.Filterable = append([]string(nil), names...)
	doc.Toggles = append([]string(nil), names...)

	values := make([]any, len(names))
	dest := make([]any, len(names))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return Document{}, fmt.Errorf("scan task: %w", err)
		}
		cells := make([]report.Cell, len(names))
		for i, name := range names {
			cells[i] = report.Cell{Column: name, Value: formatValue(values[i])}
		}
		doc.Rows = append(doc.Rows, report.NewRow(cells...))
	}
	if err := rows.Err(); err != nil {
		return Document{}, fmt.Errorf("read tasks: %w", err)
	}
	return doc, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}
