package ui

import (
	"time"

	"azsearch/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	errorToastDuration = 10 * time.Second
	copyToastDuration  = 3 * time.Second
)

// debounceMsg fires after the input has been idle; seq identifies the
// keystroke that scheduled it.
type debounceMsg struct {
	seq int
}

func scheduleDebounce(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// searchResultMsg carries the outcome of one request. Results whose seq is
// not the latest issued are stale and dropped.
type searchResultMsg struct {
	seq     int
	mode    Mode
	items   []domain.WorkItem
	queries []domain.Query
	err     error
}

type projectsLoadedMsg struct {
	projects []domain.Project
	err      error
}

// actionDoneMsg reports the outcome of a row action run outside Update.
type actionDoneMsg struct {
	err error
}

type errorToastTickMsg struct{}

func scheduleErrorToastTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return errorToastTickMsg{}
	})
}

type copyToastTickMsg struct{}

func scheduleCopyToastTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return copyToastTickMsg{}
	})
}
