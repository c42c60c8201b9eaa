package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"azsearch/internal/domain"
	appErrors "azsearch/internal/errors"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const maxToastTextWidth = 80

// View implements tea.Model.
func (m *App) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderInput(),
		m.renderBody(),
		m.renderFooter(),
	)

	toasts := m.renderToasts()
	if m.picker == nil && !m.showHelp && toasts == "" {
		return base
	}

	c := newCanvas(m.width, m.height)
	c.drawBlock(0, 0, base)
	switch {
	case m.picker != nil:
		c.center(m.picker.view(), headerHeight, footerHeight)
	case m.showHelp:
		c.center(m.renderHelpOverlay(), headerHeight, footerHeight)
	}
	if toasts != "" {
		c.bottomRight(toasts, 1)
	}
	return c.render()
}

func (m *App) layout() {
	_, detailWidth := m.paneWidths()
	if detailWidth > 0 {
		// Border and padding take two cells on each side.
		m.viewport.Width = detailWidth - 4
		m.viewport.Height = max(m.bodyHeight()-2, 1)
	} else {
		m.viewport.Width = 0
	}
	m.help.Width = m.width
	if m.cursor >= m.offset+m.listHeight() {
		m.offset = m.cursor - m.listHeight() + 1
	}
	m.refreshDetail()
}

func (m *App) bodyHeight() int {
	return max(m.height-headerHeight-footerHeight, 1)
}

func (m *App) listHeight() int {
	return m.bodyHeight()
}

// paneWidths splits the body between the result list and the detail pane.
// The detail pane is dropped on narrow terminals.
func (m *App) paneWidths() (list, detail int) {
	if !m.showDetail || m.width < 2*minDetailWidth+10 {
		return m.width, 0
	}
	detail = m.width * 2 / 5
	return m.width - detail, detail
}

func (m *App) renderHeader() string {
	tabs := make([]string, 0, 2)
	for _, mode := range []Mode{ModeWorkItems, ModeQueries} {
		if mode == m.mode {
			tabs = append(tabs, styleTabActive().Render(mode.String()))
		} else {
			tabs = append(tabs, styleTabInactive().Render(mode.String()))
		}
	}
	left := styleHeader().Render("azsearch") + "  " + strings.Join(tabs, styleMuted().Render(" │ "))

	project := m.svc.SelectedProject().Name
	if project == "" {
		project = "all projects"
	}
	right := styleMuted().Render("Project: " + project)
	if m.version != "" {
		right += styleMuted().Render("  " + m.version)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, m.width, "")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *App) renderInput() string {
	indicator := " "
	if m.loading {
		indicator = m.spinner.View()
	}
	return ansi.Truncate(indicator+" "+m.input.View(), m.width, "")
}

func (m *App) renderBody() string {
	listWidth, detailWidth := m.paneWidths()
	list := m.renderList(listWidth)
	if detailWidth == 0 {
		return list
	}
	pane := styleDetailPane().
		Width(detailWidth - 2).
		Height(m.bodyHeight() - 2).
		Render(m.viewport.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, list, pane)
}

func (m *App) renderList(width int) string {
	height := m.listHeight()
	lines := make([]string, 0, height)

	n := m.rowCount()
	if n == 0 {
		lines = append(lines, styleMuted().Italic(true).Render(m.emptyText()))
	}
	for i := m.offset; i < n && len(lines) < height; i++ {
		selected := i == m.cursor
		if m.mode == ModeQueries {
			lines = append(lines, m.renderQueryRow(m.queries[i], width, selected))
		} else {
			lines = append(lines, m.renderWorkItemRow(m.items[i], width, selected))
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m *App) emptyText() string {
	switch {
	case m.loading:
		return "Searching..."
	case m.mode == ModeQueries && m.input.Value() == "":
		return "Type to search saved queries."
	default:
		return "No results."
	}
}

func (m *App) renderWorkItemRow(wi domain.WorkItem, width int, selected bool) string {
	glyph := typeGlyph(wi.Type, m.solidIcons)
	id := fmt.Sprintf("%-7s", strconv.Itoa(wi.ID))
	state := "● " + wi.State
	assignee := wi.AssignedTo

	rightPlain := state
	if assignee != "" {
		rightPlain += "  " + assignee
	}
	prefixPlain := "  " + glyph + " " + id + " "
	titleWidth := max(width-lipgloss.Width(prefixPlain)-lipgloss.Width(rightPlain)-2, 8)
	title := ansi.Truncate(wi.Title, titleWidth, "…")
	gap := max(width-lipgloss.Width(prefixPlain)-lipgloss.Width(title)-lipgloss.Width(rightPlain), 1)

	if selected {
		line := "▸ " + glyph + " " + id + " " + title + strings.Repeat(" ", gap) + rightPlain
		return styleSelected().Render(ansi.Truncate(line, width, ""))
	}

	right := styleState(wi.State).Render("●") + " " + styleMuted().Render(wi.State)
	if assignee != "" {
		right += "  " + styleMuted().Render(assignee)
	}
	line := "  " + styleType(wi.Type).Render(glyph) + " " + styleID().Render(id) + " " +
		styleText().Render(title) + strings.Repeat(" ", gap) + right
	return ansi.Truncate(line, width, "")
}

func (m *App) renderQueryRow(q domain.Query, width int, selected bool) string {
	label := q.Type.Label()
	titleWidth := max(width-lipgloss.Width(label)-6, 8)
	name := ansi.Truncate(q.Name, titleWidth, "…")
	gap := max(width-4-lipgloss.Width(name)-lipgloss.Width(label), 1)

	if selected {
		line := "▸ " + queryGlyph + " " + name + strings.Repeat(" ", gap) + label
		return styleSelected().Render(ansi.Truncate(line, width, ""))
	}
	line := "  " + styleID().Render(queryGlyph) + " " + styleText().Render(name) +
		strings.Repeat(" ", gap) + styleMuted().Render(label)
	return ansi.Truncate(line, width, "")
}

func (m *App) renderFooter() string {
	return ansi.Truncate(m.help.View(m.keys), m.width, "")
}

func (m *App) renderHelpOverlay() string {
	title := styleHeader().Render("Keyboard shortcuts")
	return styleOverlay().Render(title + "\n\n" + m.help.FullHelpView(m.keys.FullHelp()))
}

// renderToasts stacks the visible toasts, error first.
func (m *App) renderToasts() string {
	var toasts []string
	if t := m.renderErrorToast(); t != "" {
		toasts = append(toasts, t)
	}
	if t := m.renderCopyToast(); t != "" {
		toasts = append(toasts, t)
	}
	return lipgloss.JoinVertical(lipgloss.Right, toasts...)
}

func (m *App) renderErrorToast() string {
	if !m.showErrorToast || m.lastError == nil {
		return ""
	}
	title := styleErrorTitle().Render("⚠ " + appErrors.Title(m.lastError))
	message := ansi.Truncate(appErrors.Message(m.lastError), maxToastTextWidth, "…")
	countdown := styleMuted().Render(fmt.Sprintf("[%ds]", remainingSeconds(m.errorToastStart, errorToastDuration)))
	return styleErrorToast().Render(title + "\n" + message + "\n" + alignRight(countdown, lipgloss.Width(message)))
}

func (m *App) renderCopyToast() string {
	if !m.showCopyToast || m.copyToastText == "" {
		return ""
	}
	line := fmt.Sprintf("Copied %s to clipboard.", m.copyToastText)
	return styleSuccessToast().Render(line)
}

func remainingSeconds(start time.Time, total time.Duration) int {
	return max(int((total-time.Since(start)).Seconds()), 0)
}

func alignRight(s string, width int) string {
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
