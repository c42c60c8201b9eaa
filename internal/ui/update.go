package ui

import (
	"context"
	"errors"
	"time"

	"azsearch/internal/debug"
	"azsearch/internal/domain"
	"azsearch/internal/search"
	"azsearch/internal/ui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		if m.picker != nil {
			m.picker.resize(m.width, m.height)
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case projectsLoadedMsg:
		return m, m.handleProjectsLoaded(msg)
	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.search()
	case searchResultMsg:
		return m, m.handleSearchResult(msg)
	case actionDoneMsg:
		if msg.err != nil {
			return m, m.displayError(msg.err)
		}
		return m, nil
	case errorToastTickMsg:
		if !m.showErrorToast {
			return m, nil
		}
		if time.Since(m.errorToastStart) >= errorToastDuration {
			m.showErrorToast = false
			return m, nil
		}
		return m, scheduleErrorToastTick()
	case copyToastTickMsg:
		if !m.showCopyToast {
			return m, nil
		}
		if time.Since(m.copyToastStart) >= copyToastDuration {
			m.showCopyToast = false
			return m, nil
		}
		return m, scheduleCopyToastTick()
	}

	if m.picker != nil {
		return m, m.updatePicker(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		return m, m.handleKey(km)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *App) handleProjectsLoaded(msg projectsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.loading = false
		return m.displayError(msg.err)
	}
	m.projects = msg.projects
	debug.Logf("palette: %d projects, scope %q", len(msg.projects), m.svc.SelectedProject().Name)
	return m.search()
}

func (m *App) handleSearchResult(msg searchResultMsg) tea.Cmd {
	if msg.seq != m.seq {
		debug.Logf("palette: dropping stale response %d (latest %d)", msg.seq, m.seq)
		return nil
	}
	m.loading = false
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, context.Canceled), errors.Is(msg.err, search.ErrEmptyQuery):
			return nil
		}
		m.items, m.queries = nil, nil
		m.cursor, m.offset = 0, 0
		m.refreshDetail()
		return m.displayError(msg.err)
	}
	if msg.mode == ModeQueries {
		m.queries = msg.queries
	} else {
		m.items = msg.items
	}
	m.cursor, m.offset = 0, 0
	m.refreshDetail()
	return nil
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.showHelp = false
		} else if msg.Type == tea.KeyCtrlC {
			return tea.Quit
		}
		return nil
	}

	// Printable keys belong to the input while it has focus.
	if m.focus == FocusInput && msg.Type == tea.KeyRunes {
		return m.updateInput(msg)
	}

	switch {
	case msg.Type == tea.KeyCtrlC:
		return tea.Quit
	case key.Matches(msg, m.keys.Quit) && m.focus == FocusResults:
		return tea.Quit
	case key.Matches(msg, m.keys.Escape):
		return m.handleEscape()
	case key.Matches(msg, m.keys.Mode):
		return m.toggleMode()
	case key.Matches(msg, m.keys.Projects):
		m.openPicker()
		return nil
	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail
		m.layout()
		return nil
	case key.Matches(msg, m.keys.Theme):
		theme.CycleTheme()
		m.input.PromptStyle = stylePrompt()
		m.spinner.Style = stylePrompt()
		return nil
	case key.Matches(msg, m.keys.Up):
		if m.focus == FocusResults && m.cursor == 0 {
			m.setFocus(FocusInput)
			return nil
		}
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, m.keys.Down):
		if m.focus == FocusInput && m.rowCount() > 0 {
			m.setFocus(FocusResults)
			return nil
		}
		m.moveCursor(1)
		return nil
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
		return nil
	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	case key.Matches(msg, m.keys.CopyURL):
		return m.copySelected(copyURL)
	case key.Matches(msg, m.keys.CopyMarkdown):
		return m.copySelected(copyMarkdown)
	case key.Matches(msg, m.keys.CopyHTML):
		return m.copySelected(copyHTML)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keys.Search):
		m.setFocus(FocusInput)
		return nil
	}

	if m.focus == FocusInput {
		return m.updateInput(msg)
	}
	return nil
}

// updateInput forwards a key to the search input and schedules a debounced
// search when the text changed.
func (m *App) updateInput(msg tea.KeyMsg) tea.Cmd {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.seq++
	if m.debounce <= 0 {
		return tea.Batch(cmd, m.search())
	}
	return tea.Batch(cmd, scheduleDebounce(m.seq, m.debounce))
}

func (m *App) handleEscape() tea.Cmd {
	if m.focus == FocusResults {
		m.setFocus(FocusInput)
		return nil
	}
	if m.input.Value() == "" {
		return tea.Quit
	}
	m.input.SetValue("")
	return m.search()
}

func (m *App) setFocus(focus FocusArea) {
	m.focus = focus
	if focus == FocusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *App) toggleMode() tea.Cmd {
	if m.mode == ModeWorkItems {
		m.mode = ModeQueries
	} else {
		m.mode = ModeWorkItems
	}
	m.input.Placeholder = m.mode.placeholder()
	m.cursor, m.offset = 0, 0
	m.setFocus(FocusInput)
	return m.search()
}

func (m *App) moveCursor(delta int) {
	n := m.rowCount()
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if h > 0 && m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.refreshDetail()
}

func (m *App) openPicker() {
	if len(m.projects) == 0 {
		return
	}
	m.picker = newProjectPicker(m.projects, m.svc.SelectedProject().ID, m.width, m.height)
}

func (m *App) updatePicker(msg tea.Msg) tea.Cmd {
	cmd, chosen, done := m.picker.update(msg, m.keys)
	if !done {
		return cmd
	}
	m.picker = nil
	if chosen == nil || chosen.ID == m.svc.SelectedProject().ID {
		return nil
	}
	return m.selectProject(*chosen)
}

func (m *App) selectProject(p domain.Project) tea.Cmd {
	if err := m.svc.SelectProject(p.ID); err != nil {
		return m.displayError(err)
	}
	var cmds []tea.Cmd
	if m.onProjectSelected != nil {
		if err := m.onProjectSelected(p); err != nil {
			cmds = append(cmds, m.displayError(err))
		}
	}
	m.cursor, m.offset = 0, 0
	cmds = append(cmds, m.search())
	return tea.Batch(cmds...)
}

type copyFormat int

const (
	copyURL copyFormat = iota
	copyMarkdown
	copyHTML
)

func (f copyFormat) String() string {
	switch f {
	case copyMarkdown:
		return "Markdown link"
	case copyHTML:
		return "HTML link"
	default:
		return "URL"
	}
}

// selectedLink returns the title and web URL of the selected row.
func (m *App) selectedLink() (title, url string, ok bool) {
	if wi, ok := m.selectedWorkItem(); ok {
		return wi.Title, m.svc.WorkItemURL(wi.ID), true
	}
	if q, ok := m.selectedQuery(); ok {
		return q.Name, m.svc.QueryURL(q.ID), true
	}
	return "", "", false
}

func (m *App) openSelected() tea.Cmd {
	_, url, ok := m.selectedLink()
	if !ok {
		return nil
	}
	return openURLCmd(url)
}

func (m *App) copySelected(format copyFormat) tea.Cmd {
	title, url, ok := m.selectedLink()
	if !ok {
		return nil
	}
	text := url
	switch format {
	case copyMarkdown:
		if wi, isItem := m.selectedWorkItem(); isItem {
			text = m.svc.MarkdownLink(wi)
		} else {
			text = domain.MarkdownLink(title, url)
		}
	case copyHTML:
		if wi, isItem := m.selectedWorkItem(); isItem {
			text = m.svc.HTMLLink(wi)
		} else {
			text = domain.HTMLLink(title, url)
		}
	}
	if err := writeClipboard(text); err != nil {
		return m.displayError(err)
	}
	return m.displayCopyToast(format.String())
}
