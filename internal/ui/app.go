// Package ui implements the interactive search palette.
package ui

import (
	"context"
	"errors"
	"time"

	"azsearch/internal/domain"
	"azsearch/internal/ui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultDebounce = 300 * time.Millisecond
	headerHeight    = 2 // header + input line
	footerHeight    = 1
)

// Mode selects what the palette searches.
type Mode int

const (
	ModeWorkItems Mode = iota
	ModeQueries
)

func (m Mode) String() string {
	if m == ModeQueries {
		return "Saved queries"
	}
	return "Work items"
}

func (m Mode) placeholder() string {
	if m == ModeQueries {
		return "Search saved queries by name"
	}
	return "Search work items: text, @me, @name, #type or an id"
}

// FocusArea is the part of the palette that receives plain keys.
type FocusArea int

const (
	FocusInput FocusArea = iota
	FocusResults
)

// Searcher is what the palette needs from the search session.
type Searcher interface {
	LoadProjects(ctx context.Context) ([]domain.Project, error)
	SelectProject(id string) error
	SelectedProject() domain.Project
	WorkItems(ctx context.Context, text string) ([]domain.WorkItem, error)
	Recent(ctx context.Context) ([]domain.WorkItem, error)
	Queries(ctx context.Context, text string) ([]domain.Query, error)
	WorkItemURL(id int) string
	QueryURL(id string) string
	MarkdownLink(wi domain.WorkItem) string
	HTMLLink(wi domain.WorkItem) string
}

// Config configures the UI application.
type Config struct {
	Service       Searcher
	Debounce      time.Duration
	SolidIcons    bool
	MarkdownStyle string
	Theme         string
	Version       string
	// OnProjectSelected persists a project picked in the palette.
	OnProjectSelected func(domain.Project) error
}

// App implements the Bubble Tea model for the palette.
type App struct {
	svc  Searcher
	keys KeyMap

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	picker   *projectPicker

	mode       Mode
	focus      FocusArea
	items      []domain.WorkItem
	queries    []domain.Query
	projects   []domain.Project
	cursor     int
	offset     int
	showDetail bool
	showHelp   bool
	loading    bool

	// seq numbers every request; only the latest one may update the results.
	seq    int
	cancel context.CancelFunc

	debounce          time.Duration
	solidIcons        bool
	markdownStyle     string
	renderMarkdown    func(string) string
	renderWidth       int
	version           string
	onProjectSelected func(domain.Project) error

	width  int
	height int

	lastError       error
	showErrorToast  bool
	errorToastStart time.Time

	copyToastText  string
	showCopyToast  bool
	copyToastStart time.Time
}

// NewApp creates the palette. The project list and the recent work items are
// loaded by Init.
func NewApp(cfg Config) (*App, error) {
	if cfg.Service == nil {
		return nil, errors.New("ui: search service is required")
	}
	debounce := cfg.Debounce
	if debounce < 0 {
		debounce = defaultDebounce
	}
	if cfg.Theme != "" {
		theme.SetTheme(cfg.Theme)
	}

	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.PromptStyle = stylePrompt()
	ti.Placeholder = ModeWorkItems.placeholder()
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = stylePrompt()

	return &App{
		svc:               cfg.Service,
		keys:              DefaultKeyMap(),
		input:             ti,
		spinner:           sp,
		viewport:          viewport.New(0, 0),
		help:              help.New(),
		showDetail:        true,
		loading:           true,
		debounce:          debounce,
		solidIcons:        cfg.SolidIcons,
		markdownStyle:     cfg.MarkdownStyle,
		version:           cfg.Version,
		onProjectSelected: cfg.OnProjectSelected,
	}, nil
}

// Init loads the projects; the recent work items follow once the project
// scope is known.
func (m *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, loadProjectsCmd(m.svc))
}

// nextRequest cancels the in-flight request and returns the context and
// sequence number for a new one.
func (m *App) nextRequest() (context.Context, int) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.seq++
	return ctx, m.seq
}

// search issues the request matching the current mode and input.
func (m *App) search() tea.Cmd {
	text := m.input.Value()
	switch m.mode {
	case ModeQueries:
		if text == "" {
			if m.cancel != nil {
				m.cancel()
				m.cancel = nil
			}
			m.seq++
			m.queries = nil
			m.loading = false
			m.cursor, m.offset = 0, 0
			m.refreshDetail()
			return nil
		}
		ctx, seq := m.nextRequest()
		m.loading = true
		return querySearchCmd(ctx, m.svc, seq, text)
	default:
		ctx, seq := m.nextRequest()
		m.loading = true
		if text == "" {
			return recentCmd(ctx, m.svc, seq)
		}
		return workItemSearchCmd(ctx, m.svc, seq, text)
	}
}

func (m *App) selectedWorkItem() (domain.WorkItem, bool) {
	if m.mode != ModeWorkItems || m.cursor < 0 || m.cursor >= len(m.items) {
		return domain.WorkItem{}, false
	}
	return m.items[m.cursor], true
}

func (m *App) selectedQuery() (domain.Query, bool) {
	if m.mode != ModeQueries || m.cursor < 0 || m.cursor >= len(m.queries) {
		return domain.Query{}, false
	}
	return m.queries[m.cursor], true
}

func (m *App) rowCount() int {
	if m.mode == ModeQueries {
		return len(m.queries)
	}
	return len(m.items)
}

func (m *App) displayError(err error) tea.Cmd {
	m.lastError = err
	m.showErrorToast = true
	m.errorToastStart = time.Now()
	return scheduleErrorToastTick()
}

func (m *App) displayCopyToast(what string) tea.Cmd {
	m.copyToastText = what
	m.showCopyToast = true
	m.copyToastStart = time.Now()
	return scheduleCopyToastTick()
}
