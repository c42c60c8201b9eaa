package ui

import (
	"azsearch/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	pickerMaxWidth  = 60
	pickerMaxHeight = 20
)

type projectItem struct {
	project  domain.Project
	selected bool
}

func (i projectItem) Title() string {
	if i.selected {
		return i.project.Name + " ✓"
	}
	return i.project.Name
}

func (i projectItem) Description() string { return i.project.ID }
func (i projectItem) FilterValue() string { return i.project.Name }

// projectPicker is the project selection overlay.
type projectPicker struct {
	list list.Model
}

func newProjectPicker(projects []domain.Project, selectedID string, width, height int) *projectPicker {
	items := make([]list.Item, 0, len(projects))
	cursor := 0
	for i, p := range projects {
		items = append(items, projectItem{project: p, selected: p.ID == selectedID})
		if p.ID == selectedID {
			cursor = i
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select project"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Select(cursor)

	p := &projectPicker{list: l}
	p.resize(width, height)
	return p
}

func (p *projectPicker) resize(width, height int) {
	w := min(max(width-8, 20), pickerMaxWidth)
	h := min(max(height-8, 6), pickerMaxHeight)
	p.list.SetSize(w, h)
}

// filtering reports whether the user is typing a filter, in which case Enter
// and Esc belong to the list.
func (p *projectPicker) filtering() bool {
	return p.list.FilterState() == list.Filtering
}

// update handles a message. done is set when the picker should close; chosen
// is the picked project, or nil when the picker was dismissed.
func (p *projectPicker) update(msg tea.Msg, keys KeyMap) (cmd tea.Cmd, chosen *domain.Project, done bool) {
	if km, ok := msg.(tea.KeyMsg); ok && !p.filtering() {
		switch {
		case km.Type == tea.KeyEnter:
			if item, ok := p.list.SelectedItem().(projectItem); ok {
				project := item.project
				return nil, &project, true
			}
			return nil, nil, true
		case key.Matches(km, keys.Escape), km.Type == tea.KeyCtrlC:
			if p.list.FilterState() == list.FilterApplied {
				p.list.ResetFilter()
				return nil, nil, false
			}
			return nil, nil, true
		}
	}
	p.list, cmd = p.list.Update(msg)
	return cmd, nil, false
}

func (p *projectPicker) view() string {
	return styleOverlay().Render(p.list.View())
}
