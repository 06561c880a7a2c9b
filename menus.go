package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/bekirdag/task-report/internal/report"
)

const allOptionLabel = "Todos"

type filterOption struct {
	label string
	value string
}

func (o filterOption) Title() string       { return o.label }
func (o filterOption) Description() string { return "" }
func (o filterOption) FilterValue() string { return o.label }

// filterPicker is the option list of one column's filter control: "all"
// followed by the column's distinct values.
type filterPicker struct {
	column string
	list   list.Model
}

func newFilterPicker(column string, options []string, current string, s styles, width, height int) *filterPicker {
	items := make([]list.Item, 0, len(options)+1)
	items = append(items, filterOption{label: allOptionLabel})
	selected := 0
	for i, opt := range options {
		items = append(items, filterOption{label: opt, value: opt})
		if opt == current {
			selected = i + 1
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.NormalTitle = s.menuItem
	delegate.Styles.SelectedTitle = s.menuItemSel

	if width < 24 {
		width = 24
	}
	if height < 8 {
		height = 8
	}
	l := list.New(items, delegate, width, height)
	l.Title = "Filtro: " + column
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Select(selected)
	return &filterPicker{column: column, list: l}
}

func (p *filterPicker) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return cmd
}

func (p *filterPicker) Selected() (string, bool) {
	item, ok := p.list.SelectedItem().(filterOption)
	if !ok {
		return "", false
	}
	return item.value, true
}

func (p *filterPicker) View() string {
	return p.list.View()
}

// columnMenu lists the column toggles. Opening and closing it is tracked on
// the session; moving the cursor never touches table state.
type columnMenu struct {
	ids    []string
	cursor int
}

func newColumnMenu(ids []string) *columnMenu {
	return &columnMenu{ids: append([]string(nil), ids...)}
}

func (m *columnMenu) Move(delta int) {
	if len(m.ids) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.ids)) % len(m.ids)
}

func (m *columnMenu) Current() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.ids) {
		return "", false
	}
	return m.ids[m.cursor], true
}

func (m *columnMenu) Render(w io.Writer, session *report.Session, s styles, width int) {
	for i, id := range m.ids {
		mark := "[ ]"
		if col, err := session.Column(id); err == nil && !col.Hidden {
			mark = "[x]"
		}
		line := runewidth.Truncate(fmt.Sprintf("%s %s", mark, id), width, "…")
		style := s.menuItem
		if i == m.cursor {
			style = s.menuItemSel
		}
		fmt.Fprintln(w, style.Render(line))
	}
}

func (m *columnMenu) String(session *report.Session, s styles, width int) string {
	var b strings.Builder
	m.Render(&b, session, s, width)
	return strings.TrimRight(b.String(), "\n")
}
