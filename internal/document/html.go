package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bekirdag/task-report/internal/report"
)

// ErrNoTable is returned when the page has no table element.
var ErrNoTable = errors.New("report page has no table")

// Fetch downloads the report page and parses it.
func Fetch(ctx context.Context, client *http.Client, pageURL string) (Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return Document{}, fmt.Errorf("parse page url: %w", err)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Document{}, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("fetch report page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Document{}, fmt.Errorf("fetch report page: server responded %d", resp.StatusCode)
	}
	return ParseHTML(resp.Body)
}

// ParseHTML reads the table contract from a rendered page: header cells keyed
// by data-col, body cells keyed by their first class token, filter selects in
// #filter-row and checkboxes in #column-toggles.
func ParseHTML(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return Document{}, fmt.Errorf("parse report page: %w", err)
	}
	table := find(root, func(n *html.Node) bool { return n.DataAtom == atom.Table })
	if table == nil {
		return Document{}, ErrNoTable
	}

	var doc Document
	doc.TableWidth = styleWidth(attr(table, "style"))

	if thead := find(table, isElement(atom.Thead)); thead != nil {
		if tr := find(thead, isElement(atom.Tr)); tr != nil {
			for _, th := range children(tr, atom.Th) {
				id := attr(th, "data-col")
				if id == "" {
					id = firstClass(th)
				}
				doc.Headers = append(doc.Headers, report.Header{ID: id, Width: styleWidth(attr(th, "style"))})
			}
		}
	}

	if filterRow := find(root, hasID("filter-row")); filterRow != nil {
		walk(filterRow, func(n *html.Node) {
			if n.DataAtom == atom.Select {
				if id := attr(n, "data-col"); id != "" {
					doc.Filterable = append(doc.Filterable, id)
				}
			}
		})
	}

	if toggles := find(root, hasID("column-toggles")); toggles != nil {
		walk(toggles, func(n *html.Node) {
			if n.DataAtom == atom.Input && strings.EqualFold(attr(n, "type"), "checkbox") {
				if id := attr(n, "data-col"); id != "" {
					doc.Toggles = append(doc.Toggles, id)
				}
			}
		})
	}

	if tbody := find(table, isElement(atom.Tbody)); tbody != nil {
		for _, tr := range children(tbody, atom.Tr) {
			var cells []report.Cell
			for _, td := range children(tr, atom.Td) {
				cells = append(cells, report.Cell{Column: firstClass(td), Value: textContent(td)})
			}
			doc.Rows = append(doc.Rows, report.NewRow(cells...))
		}
	}
	return doc, nil
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.DataAtom == a }
}

func hasID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && attr(n, "id") == id }
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func children(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			out = append(out, c)
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func firstClass(n *html.Node) string {
	fields := strings.Fields(attr(n, "class"))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return strings.TrimSpace(b.String())
}

// styleWidth extracts a pixel width declaration from an inline style.
func styleWidth(style string) int {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "width") {
			continue
		}
		value = strings.TrimSuffix(strings.TrimSpace(value), "px")
		if px, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && px > 0 {
			return int(px)
		}
	}
	return 0
}
