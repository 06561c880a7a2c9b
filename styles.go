package main

import "github.com/charmbracelet/lipgloss"

var (
	colorText      = lipgloss.Color("252")
	colorMuted     = lipgloss.Color("245")
	colorBorder    = lipgloss.Color("240")
	colorAccent    = lipgloss.Color("69")
	colorSelection = lipgloss.Color("237")
	colorError     = lipgloss.Color("203")
)

type styles struct {
	app, topBar, title                lipgloss.Style
	filterBar, filterTag              lipgloss.Style
	header, cell, selected            lipgloss.Style
	strip, stripError                 lipgloss.Style
	runEnabled, runDisabled           lipgloss.Style
	statusBar, statusSeg, statusHint  lipgloss.Style
	menuOverlay, menuPrompt, menuHint lipgloss.Style
	menuItem, menuItemSel             lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()

	return styles{
		app:         base,
		topBar:      base.Padding(0, 1),
		title:       base.Copy().Bold(true),
		filterBar:   base.Padding(0, 1).Foreground(colorMuted),
		filterTag:   base.Copy().Foreground(colorAccent),
		header:      base.Copy().Bold(true).Foreground(colorMuted).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(colorBorder).Padding(0, 1),
		cell:        base.Padding(0, 1),
		selected:    base.Copy().Foreground(colorText).Background(colorSelection).Padding(0, 1),
		strip:       base.Padding(0, 1).Foreground(colorText).Background(colorSelection),
		stripError:  base.Padding(0, 1).Foreground(colorError).Background(colorSelection),
		runEnabled:  base.Copy().Bold(true).Foreground(colorAccent),
		runDisabled: base.Copy().Faint(true),
		statusBar:   base.Padding(0, 1),
		statusSeg:   base.Padding(0, 1).MarginRight(1),
		statusHint:  base.Copy().Foreground(colorMuted),
		menuOverlay: base.Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(1, 2),
		menuPrompt:  base.Copy().Bold(true),
		menuHint:    base.Copy().Faint(true),
		menuItem:    base.Padding(0, 1),
		menuItemSel: base.Padding(0, 1).Bold(true).Background(colorSelection),
	}
}
