package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/bekirdag/task-report/internal/report"
	"github.com/bekirdag/task-report/internal/status"
)

type keyMap struct {
	quit       key.Binding
	nextColumn key.Binding
	prevColumn key.Binding
	widen      key.Binding
	narrow     key.Binding
	filter     key.Binding
	columns    key.Binding
	toggle     key.Binding
	closeMenu  key.Binding
	apply      key.Binding
	run        key.Binding
	copyRow    key.Binding
	toggleHelp key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		nextColumn: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→", "next column"),
		),
		prevColumn: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←", "prev column"),
		),
		widen: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "widen column"),
		),
		narrow: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "narrow column"),
		),
		filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter column"),
		),
		columns: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "columns"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "show/hide"),
		),
		closeMenu: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		run: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "run extraction"),
		),
		copyRow: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy row"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.prevColumn,
		k.nextColumn,
		k.filter,
		k.columns,
		k.run,
		k.toggleHelp,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.prevColumn, k.nextColumn, k.widen, k.narrow},
		{k.filter, k.apply, k.closeMenu},
		{k.columns, k.toggle},
		{k.run, k.copyRow, k.toggleHelp, k.quit},
	}
}

type modelDeps struct {
	ctx           context.Context
	session       *report.Session
	toggles       []string
	channel       <-chan status.Message
	trigger       runTrigger
	log           logrus.FieldLogger
	pixelsPerCell int
	title         string
	copy          func(string) error
}

type model struct {
	width  int
	height int

	styles  styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	title         string
	session       *report.Session
	table         *reportTable
	focus         int
	pixelsPerCell int

	gesture *report.Gesture
	picker  *filterPicker
	menu    *columnMenu

	controls   status.Controls
	channel    <-chan status.Message
	streamDone bool
	trigger    runTrigger

	ctx  context.Context
	log  logrus.FieldLogger
	copy func(string) error

	toastMessage string
	toastExpires time.Time
}

func newModel(deps modelDeps) *model {
	s := newStyles()
	ppc := deps.pixelsPerCell
	if ppc <= 0 {
		ppc = defaultPixelsPerCell
	}
	log := deps.log
	if log == nil {
		log = logrus.StandardLogger()
	}
	ctx := deps.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	toggles := deps.toggles
	if len(toggles) == 0 {
		for _, col := range deps.session.Columns() {
			toggles = append(toggles, col.ID)
		}
	}

	m := &model{
		styles:        s,
		keys:          newKeyMap(),
		help:          help.New(),
		title:         deps.title,
		session:       deps.session,
		table:         newReportTable(ppc, s),
		pixelsPerCell: ppc,
		menu:          newColumnMenu(toggles),
		controls:      status.NewControls(),
		channel:       deps.channel,
		trigger:       deps.trigger,
		log:           log,
		ctx:           ctx,
		copy:          deps.copy,
	}
	m.help.ShortSeparator = " │ "
	m.help.Styles.ShortKey = s.statusHint.Copy()
	m.help.Styles.ShortDesc = s.statusHint.Copy()
	m.help.Styles.FullKey = s.statusHint.Copy()
	m.help.Styles.FullDesc = s.statusHint.Copy()
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.spinner.Style = s.statusHint.Copy().Bold(true)
	m.table.Refresh(m.session, m.focus)
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForStatusMsg(m.channel))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.endGesture()
		m.applyLayout()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case statusMsg:
		return m, m.handleStatus(msg.Message)
	case statusStreamEndedMsg:
		if !m.streamDone {
			m.handleStatus(status.Closed{})
		}
		return m, nil
	case runFinishedMsg:
		m.handleRunFinished(msg.Err)
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleStatus(msg status.Message) tea.Cmd {
	m.controls.Apply(msg)
	entry := m.log.WithFields(logrus.Fields{"kind": status.Kind(msg), "status": status.Text(msg)})
	switch msg := msg.(type) {
	case status.Failure:
		entry.Warn("status message")
	case status.Closed:
		entry.WithError(msg.Err).Info("status message")
	case status.TransportError:
		entry.WithError(msg.Err).Error("status message")
	default:
		entry.Info("status message")
	}
	if status.Terminal(msg) {
		m.streamDone = true
		return nil
	}
	return waitForStatusMsg(m.channel)
}

func (m *model) startRun() tea.Cmd {
	if m.trigger == nil {
		m.setToast("Sem servidor configurado", 0)
		return nil
	}
	if !m.controls.RunEnabled {
		m.setToast("Extração indisponível: "+m.controls.RunLabel, 0)
		return nil
	}
	m.controls.BeginRun()
	m.log.Info("run requested")
	return runExtractionCmd(m.ctx, m.trigger)
}

func (m *model) handleRunFinished(err error) {
	if err == nil {
		return
	}
	m.controls.RunFailed()
	m.log.WithError(err).Error("run failed")
	if errors.Is(err, status.ErrRequestFailed) {
		m.setToast(err.Error(), 8*time.Second)
	}
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if msg.Type == tea.MouseRelease {
		m.endGesture()
		return
	}
	if m.picker != nil || m.session.MenuOpen() {
		return
	}
	switch msg.Type {
	case tea.MouseLeft:
		if m.gesture != nil {
			m.moveGesture(msg.X)
			return
		}
		if line := m.tableHeaderLine(); msg.Y != line && msg.Y != line+1 {
			return
		}
		if idx, ok := m.table.boundaryAt(msg.X); ok {
			m.beginGesture(idx, msg.X)
			return
		}
		if idx, ok := m.table.columnAt(msg.X); ok {
			m.focus = idx
			m.refresh()
		}
	case tea.MouseMotion:
		if m.gesture != nil {
			m.moveGesture(msg.X)
		}
	}
}

// tableHeaderLine is the screen row of the table header: the top bar and the
// filter bar are drawn above it and may wrap.
func (m *model) tableHeaderLine() int {
	return lipgloss.Height(m.renderTopBar()) + lipgloss.Height(m.renderFilterBar())
}

func (m *model) beginGesture(idx, x int) {
	col, ok := m.table.column(idx)
	if !ok {
		return
	}
	g, err := m.session.BeginResize(col.ID, x*m.pixelsPerCell)
	if err != nil {
		m.log.WithError(err).WithField("column", col.ID).Warn("resize refused")
		return
	}
	m.gesture = g
	m.focus = idx
	m.refresh()
}

func (m *model) moveGesture(x int) {
	if m.session.ActiveGesture() != m.gesture {
		m.gesture = nil
		return
	}
	if m.gesture.Move(x * m.pixelsPerCell) {
		m.refresh()
	}
}

func (m *model) endGesture() {
	if m.gesture == nil {
		return
	}
	col, _ := m.session.Column(m.gesture.Column())
	m.gesture.End()
	m.gesture = nil
	m.log.WithFields(logrus.Fields{"column": col.ID, "width": col.Width, "table_width": m.session.TableWidth()}).Info("column resized")
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.picker != nil {
		return m.handlePickerKey(msg)
	}
	if m.session.MenuOpen() {
		m.handleMenuKey(msg)
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.endGesture()
		return tea.Quit
	case key.Matches(msg, m.keys.nextColumn):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.prevColumn):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.widen):
		m.resizeFocused(m.pixelsPerCell)
	case key.Matches(msg, m.keys.narrow):
		m.resizeFocused(-m.pixelsPerCell)
	case key.Matches(msg, m.keys.filter):
		m.endGesture()
		m.openPicker()
	case key.Matches(msg, m.keys.columns):
		m.endGesture()
		m.session.SetMenuOpen(true)
	case key.Matches(msg, m.keys.run):
		return m.startRun()
	case key.Matches(msg, m.keys.copyRow):
		m.copySelectedRow()
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.applyLayout()
	default:
		return m.table.Update(msg)
	}
	return nil
}

func (m *model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.closeMenu):
		m.picker = nil
		return nil
	case key.Matches(msg, m.keys.apply):
		column := m.picker.column
		value, ok := m.picker.Selected()
		m.picker = nil
		if !ok {
			return nil
		}
		if err := m.session.SetFilter(column, value); err != nil {
			m.log.WithError(err).WithField("column", column).Warn("filter rejected")
			m.setToast(err.Error(), 0)
			return nil
		}
		m.log.WithFields(logrus.Fields{"column": column, "value": value}).Info("filter set")
		m.refresh()
		return nil
	}
	return m.picker.Update(msg)
}

func (m *model) handleMenuKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.closeMenu), key.Matches(msg, m.keys.columns), key.Matches(msg, m.keys.quit):
		m.session.SetMenuOpen(false)
	case msg.String() == "up" || msg.String() == "k":
		m.menu.Move(-1)
	case msg.String() == "down" || msg.String() == "j":
		m.menu.Move(1)
	case key.Matches(msg, m.keys.toggle):
		id, ok := m.menu.Current()
		if !ok {
			return
		}
		m.toggleColumn(id)
	}
}

func (m *model) toggleColumn(id string) {
	col, err := m.session.Column(id)
	if err != nil {
		m.log.WithError(err).Warn("column toggle without column")
		m.setToast(err.Error(), 0)
		return
	}
	nowVisible := col.Hidden
	if err := m.session.Toggle(id, nowVisible); err != nil {
		m.log.WithError(err).Warn("column toggle failed")
		m.setToast(err.Error(), 0)
		return
	}
	m.log.WithFields(logrus.Fields{"column": id, "visible": nowVisible, "table_width": m.session.TableWidth()}).Info("column toggled")
	m.refresh()
}

func (m *model) moveFocus(delta int) {
	n := len(m.session.VisibleColumns())
	if n == 0 {
		return
	}
	m.focus = (m.focus + delta + n) % n
	m.refresh()
}

func (m *model) focusedColumn() (report.Column, bool) {
	return m.table.column(m.focus)
}

func (m *model) resizeFocused(delta int) {
	col, ok := m.focusedColumn()
	if !ok {
		return
	}
	applied, err := m.session.Resize(col.ID, delta)
	if err != nil {
		m.log.WithError(err).WithField("column", col.ID).Warn("resize refused")
		m.setToast(err.Error(), 0)
		return
	}
	if !applied {
		m.setToast(fmt.Sprintf("Largura mínima: %dpx", report.MinWidth), 0)
		return
	}
	m.refresh()
}

func (m *model) openPicker() {
	col, ok := m.focusedColumn()
	if !ok {
		return
	}
	if !m.session.IsFilterable(col.ID) {
		m.setToast("Coluna sem filtro: "+col.ID, 0)
		return
	}
	width := min(48, m.width-4)
	height := min(20, m.height-6)
	m.picker = newFilterPicker(col.ID, m.session.Options(col.ID), m.session.Filter(col.ID), m.styles, width, height)
}

func (m *model) copySelectedRow() {
	text, ok := m.table.selectedText()
	if !ok || m.copy == nil {
		return
	}
	if err := m.copy(text); err != nil {
		m.log.WithError(err).Warn("clipboard write failed")
		m.setToast("Falha ao copiar: "+err.Error(), 0)
		return
	}
	m.setToast("Linha copiada", 3*time.Second)
}

func (m *model) refresh() {
	if n := len(m.session.VisibleColumns()); m.focus >= n {
		m.focus = max(n-1, 0)
	}
	m.table.Refresh(m.session, m.focus)
}

func (m *model) applyLayout() {
	reserved := m.tableHeaderLine() + 4
	if m.help.ShowAll {
		reserved += 4
	}
	m.help.Width = max(m.width-4, 0)
	m.table.SetSize(m.width, m.height-reserved)
	m.refresh()
}

func (m *model) View() string {
	var builder strings.Builder

	builder.WriteString(m.renderTopBar())
	builder.WriteRune('\n')
	builder.WriteString(m.renderFilterBar())
	builder.WriteRune('\n')
	builder.WriteString(m.table.View())
	builder.WriteRune('\n')

	if m.controls.StripVisible {
		style := m.styles.strip
		if strings.HasPrefix(m.controls.StatusText, "Erro") {
			style = m.styles.stripError
		}
		builder.WriteString(style.Width(m.width).Render(m.controls.StatusText))
		builder.WriteRune('\n')
	}

	if helpView := m.help.View(m.keys); helpView != "" {
		builder.WriteString(helpView)
		if !strings.HasSuffix(helpView, "\n") {
			builder.WriteRune('\n')
		}
	}
	builder.WriteString(m.renderStatus())

	if overlay := m.renderOverlay(); overlay != "" {
		builder.WriteString("\n")
		builder.WriteString(lipgloss.Place(m.width, m.height/2, lipgloss.Center, lipgloss.Center, overlay))
	}
	return m.styles.app.Render(builder.String())
}

func (m *model) renderTopBar() string {
	title := "task-report"
	if m.title != "" {
		title += " • " + m.title
	}
	button := m.styles.runDisabled.Render("[ " + m.controls.RunLabel + " ]")
	if m.controls.RunEnabled {
		button = m.styles.runEnabled.Render("[ " + m.controls.RunLabel + " ]")
	}
	parts := []string{m.styles.title.Render(title), button}
	if m.controls.LoaderVisible {
		parts = append(parts, m.spinner.View())
	}
	return m.styles.topBar.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m *model) renderFilterBar() string {
	var tags []string
	for _, id := range m.session.Filterable() {
		if v := m.session.Filter(id); v != "" {
			tags = append(tags, m.styles.filterTag.Render(id+"="+v))
		}
	}
	if len(tags) == 0 {
		tags = append(tags, "nenhum")
	}
	return m.styles.filterBar.Width(m.width).Render("Filtros: " + strings.Join(tags, " "))
}

func (m *model) renderStatus() string {
	shown := len(m.session.VisibleRows())
	total := len(m.session.Rows())
	segments := []string{
		m.styles.statusSeg.Render(fmt.Sprintf("Linhas: %d/%d", shown, total)),
		m.styles.statusSeg.Render(fmt.Sprintf("Largura: %dpx", m.session.TableWidth())),
	}
	if col, ok := m.focusedColumn(); ok {
		segments = append(segments, m.styles.statusSeg.Render(fmt.Sprintf("%s: %dpx", col.ID, col.Width)))
	}
	if m.gesture != nil {
		segments = append(segments, m.styles.statusSeg.Render("Redimensionando "+m.gesture.Column()))
	}
	if m.toastMessage != "" {
		if time.Now().After(m.toastExpires) {
			m.toastMessage = ""
		} else {
			segments = append(segments, m.styles.statusSeg.Render(m.toastMessage))
		}
	}
	content := strings.Join(segments, "│")
	return m.styles.statusBar.Width(m.width).Render(content)
}

func (m *model) renderOverlay() string {
	overlayWidth := min(56, m.width-4)
	if overlayWidth < 24 {
		overlayWidth = 24
	}
	switch {
	case m.picker != nil:
		body := m.picker.View() + "\n" + m.styles.menuHint.Render("enter aplicar • esc fechar")
		return m.styles.menuOverlay.Width(overlayWidth).Render(body)
	case m.session.MenuOpen():
		var b strings.Builder
		b.WriteString(m.styles.menuPrompt.Render("Colunas"))
		b.WriteRune('\n')
		b.WriteString(m.menu.String(m.session, m.styles, overlayWidth-6))
		b.WriteRune('\n')
		b.WriteString(m.styles.menuHint.Render("space mostrar/ocultar • esc fechar"))
		return m.styles.menuOverlay.Width(overlayWidth).Render(b.String())
	}
	return ""
}

func (m *model) setToast(msg string, duration time.Duration) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		m.toastMessage = ""
		m.toastExpires = time.Time{}
		return
	}
	if duration <= 0 {
		duration = 5 * time.Second
	}
	m.toastMessage = trimmed
	m.toastExpires = time.Now().Add(duration)
}
