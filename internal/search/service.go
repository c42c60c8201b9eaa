// Package search implements the work item and saved query search session:
// it owns the selected project and turns user input into remote searches.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"azsearch/internal/debug"
	"azsearch/internal/devops"
	"azsearch/internal/domain"
	appErrors "azsearch/internal/errors"
	"azsearch/internal/iconcache"
	"azsearch/internal/wiql"

	"go.uber.org/zap"
)

// DefaultTop caps the number of results of one search.
const DefaultTop = 20

// ErrEmptyQuery is returned when the search text yields no query. Callers
// treat it as "nothing to search", not as a failure.
var ErrEmptyQuery = appErrors.New(appErrors.CodeEmptyQuery, "search text produced no query", nil)

// Options configures a Service.
type Options struct {
	// Domain is the organisation host, e.g. "dev.azure.com/contoso".
	Domain string
	// DefaultProject is the project name selected after LoadProjects.
	DefaultProject string
	Top            int
}

// Service runs searches against one Azure DevOps organisation. It is safe for
// concurrent use.
type Service struct {
	client devops.Client
	icons  *iconcache.Resolver
	opts   Options

	mu       sync.RWMutex
	projects []domain.Project
	selected domain.Project
}

// NewService wires a client and an optional icon resolver.
func NewService(client devops.Client, icons *iconcache.Resolver, opts Options) *Service {
	if opts.Top <= 0 {
		opts.Top = DefaultTop
	}
	return &Service{
		client:   client,
		icons:    icons,
		opts:     opts,
		selected: domain.Project{Name: opts.DefaultProject},
	}
}

// LoadProjects fetches the project list and selects the configured default
// project when it exists.
func (s *Service) LoadProjects(ctx context.Context) ([]domain.Project, error) {
	raw, err := s.client.Projects(ctx)
	if err != nil {
		return nil, err
	}
	projects := domain.ProjectsFromAPI(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = projects
	if s.selected.ID == "" {
		name := s.selected.Name
		if id := domain.FindProjectIDByName(projects, name); id != "" {
			s.selected = domain.Project{ID: id, Name: name}
		}
	}
	debug.Logger().Debug("projects loaded",
		zap.Int("count", len(projects)),
		zap.String("selected", s.selected.Name))
	return append([]domain.Project(nil), projects...), nil
}

// Projects returns the projects from the last LoadProjects call.
func (s *Service) Projects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Project(nil), s.projects...)
}

// SelectProject scopes subsequent searches to the project with id.
func (s *Service) SelectProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := domain.FindProjectNameByID(s.projects, id)
	if name == "" {
		return appErrors.New(appErrors.CodeInvalidProject, fmt.Sprintf("unknown project %q", id), nil)
	}
	s.selected = domain.Project{ID: id, Name: name}
	return nil
}

// SelectProjectByName scopes subsequent searches to the named project.
func (s *Service) SelectProjectByName(name string) error {
	s.mu.RLock()
	id := domain.FindProjectIDByName(s.projects, name)
	s.mu.RUnlock()
	if id == "" {
		return appErrors.New(appErrors.CodeInvalidProject, fmt.Sprintf("unknown project %q", name), nil)
	}
	return s.SelectProject(id)
}

// SelectedProject returns the current scope. ID is empty until a project has
// been resolved.
func (s *Service) SelectedProject() domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// WorkItems searches work items matching text. Text that produces no query
// returns ErrEmptyQuery without contacting the server.
func (s *Service) WorkItems(ctx context.Context, text string) ([]domain.WorkItem, error) {
	query := wiql.Build(text)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return s.run(ctx, query)
}

// Recent lists recently changed work items of the selected project.
func (s *Service) Recent(ctx context.Context) ([]domain.WorkItem, error) {
	return s.run(ctx, wiql.Recent())
}

// WorkItemsWithIcons is WorkItems with each record annotated with its type
// icon URI. Types without an icon are left blank; other icon failures are
// returned. Icon sets are per project, so an organisation-wide search is
// returned without icons.
func (s *Service) WorkItemsWithIcons(ctx context.Context, text string) ([]domain.WorkItem, error) {
	items, err := s.WorkItems(ctx, text)
	if err != nil {
		return nil, err
	}
	if s.icons == nil {
		return items, nil
	}
	project := s.SelectedProject().Name
	if project == "" {
		debug.Logf("no project selected, skipping icons")
		return items, nil
	}
	for i := range items {
		uri, err := s.icons.Resolve(ctx, project, items[i].Type)
		if errors.Is(err, iconcache.ErrIconNotFound) {
			debug.Logf("no icon for %s", items[i].Type)
			continue
		}
		if err != nil {
			return nil, err
		}
		items[i].IconURI = uri
	}
	return items, nil
}

// Queries searches saved queries of the selected project by name.
func (s *Service) Queries(ctx context.Context, text string) ([]domain.Query, error) {
	if text == "" {
		return nil, ErrEmptyQuery
	}
	project := s.SelectedProject()
	scope := project.ID
	if scope == "" {
		scope = project.Name
	}
	if scope == "" {
		return nil, appErrors.New(appErrors.CodeInvalidProject, "saved query search needs a project", nil)
	}
	items, err := s.client.SearchQueries(ctx, scope, text, s.opts.Top)
	if err != nil {
		return nil, err
	}
	return domain.QueriesFromAPI(items), nil
}

func (s *Service) run(ctx context.Context, query string) ([]domain.WorkItem, error) {
	project := s.SelectedProject()
	debug.Logger().Debug("work item search",
		zap.String("project", project.Name),
		zap.String("wiql", query))
	raw, err := devops.SearchWorkItems(ctx, s.client, query, project.ID, s.opts.Top)
	if err != nil {
		return nil, err
	}
	items := domain.WorkItemsFromAPI(raw)
	debug.Logf("search returned %d records, %d usable", len(raw), len(items))
	return items, nil
}

// WorkItemURL is the web page of a work item in the selected project.
func (s *Service) WorkItemURL(id int) string {
	return domain.WorkItemURL(s.opts.Domain, s.SelectedProject().Name, id)
}

// QueryURL is the web page of a saved query in the selected project.
func (s *Service) QueryURL(id string) string {
	return domain.QueryURL(s.opts.Domain, s.SelectedProject().Name, id)
}

// MarkdownLink formats wi as a Markdown link to its web page.
func (s *Service) MarkdownLink(wi domain.WorkItem) string {
	return domain.MarkdownLink(wi.Title, s.WorkItemURL(wi.ID))
}

// HTMLLink formats wi as an HTML anchor to its web page.
func (s *Service) HTMLLink(wi domain.WorkItem) string {
	return domain.HTMLLink(wi.Title, s.WorkItemURL(wi.ID))
}

// Icons exposes the icon resolver, nil when icons are disabled.
func (s *Service) Icons() *iconcache.Resolver {
	return s.icons
}
