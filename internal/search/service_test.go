package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"azsearch/internal/devops"
	"azsearch/internal/domain"
	appErrors "azsearch/internal/errors"
	"azsearch/internal/iconcache"

	"github.com/google/go-cmp/cmp"
)

const (
	fabrikamID = "eb6e4656-77fc-42a1-9181-4c6d8e9da5d1"
	contosoID  = "6ce954b1-ce1f-45d1-b94d-e6bf2464ba2c"
)

func intPtr(v int) *int { return &v }

func newSearchMock() *devops.MockClient {
	mock := devops.NewMockClient()
	mock.ProjectsFn = func(context.Context) ([]devops.Project, error) {
		return []devops.Project{
			{ID: fabrikamID, Name: "Fabrikam"},
			{ID: contosoID, Name: "Contoso"},
		}, nil
	}
	mock.ProjectFn = func(_ context.Context, id string) (*devops.Project, error) {
		return &devops.Project{ID: id, Name: "Fabrikam", DefaultTeam: &devops.TeamRef{ID: "t1", Name: "Fabrikam Team"}}, nil
	}
	mock.QueryByWiqlFn = func(context.Context, string, devops.TeamContext, int) (*devops.WiqlResult, error) {
		return &devops.WiqlResult{
			Columns:   []devops.FieldReference{{ReferenceName: "System.Id"}, {ReferenceName: "System.Title"}},
			WorkItems: []devops.WorkItemReference{{ID: intPtr(1)}, {ID: intPtr(2)}},
		}, nil
	}
	mock.WorkItemsBatchFn = func(context.Context, []int, []string) ([]devops.WorkItem, error) {
		return []devops.WorkItem{
			{ID: intPtr(1), Fields: map[string]any{"System.Title": "Login fails", "System.WorkItemType": "Bug"}},
			{ID: intPtr(2)},
		}, nil
	}
	return mock
}

func newTestService(t *testing.T, mock *devops.MockClient, icons *iconcache.Resolver) *Service {
	t.Helper()
	svc := NewService(mock, icons, Options{Domain: "dev.azure.com/contoso", DefaultProject: "Fabrikam"})
	if _, err := svc.LoadProjects(context.Background()); err != nil {
		t.Fatalf("LoadProjects returned error: %v", err)
	}
	return svc
}

func TestLoadProjectsSelectsDefault(t *testing.T) {
	svc := newTestService(t, newSearchMock(), nil)

	if got := svc.SelectedProject(); got.ID != fabrikamID || got.Name != "Fabrikam" {
		t.Fatalf("expected Fabrikam selected, got %+v", got)
	}
	if len(svc.Projects()) != 2 {
		t.Fatalf("expected two projects, got %d", len(svc.Projects()))
	}
}

func TestLoadProjectsUnknownDefault(t *testing.T) {
	svc := NewService(newSearchMock(), nil, Options{DefaultProject: "Missing"})
	if _, err := svc.LoadProjects(context.Background()); err != nil {
		t.Fatalf("LoadProjects returned error: %v", err)
	}
	if got := svc.SelectedProject(); got.ID != "" {
		t.Fatalf("expected no project id, got %+v", got)
	}
}

func TestLoadProjectsConnectionError(t *testing.T) {
	mock := devops.NewMockClient()
	mock.ProjectsFn = func(context.Context) ([]devops.Project, error) {
		return nil, appErrors.Connection(errors.New("401"))
	}
	_, err := NewService(mock, nil, Options{}).LoadProjects(context.Background())
	if !appErrors.IsCode(err, appErrors.CodeConnection) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestSelectProject(t *testing.T) {
	svc := newTestService(t, newSearchMock(), nil)

	if err := svc.SelectProject(contosoID); err != nil {
		t.Fatalf("SelectProject returned error: %v", err)
	}
	if svc.SelectedProject().Name != "Contoso" {
		t.Fatalf("expected Contoso, got %+v", svc.SelectedProject())
	}
	if err := svc.SelectProject("nope"); !appErrors.IsCode(err, appErrors.CodeInvalidProject) {
		t.Fatalf("expected invalid project error, got %v", err)
	}
	if err := svc.SelectProjectByName("Fabrikam"); err != nil {
		t.Fatalf("SelectProjectByName returned error: %v", err)
	}
	if svc.SelectedProject().ID != fabrikamID {
		t.Fatalf("expected Fabrikam id, got %+v", svc.SelectedProject())
	}
}

func TestWorkItemsEmptyInputSkipsNetwork(t *testing.T) {
	mock := newSearchMock()
	svc := newTestService(t, mock, nil)

	for _, text := range []string{"", "   ", "--- !!", "@ #"} {
		if _, err := svc.WorkItems(context.Background(), text); !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("WorkItems(%q) expected ErrEmptyQuery, got %v", text, err)
		}
	}
	if mock.WiqlCallCount != 0 || mock.ProjectCallCount != 0 {
		t.Fatalf("expected no remote calls, got %v", mock.Calls())
	}
}

func TestWorkItemsSearchesSelectedProject(t *testing.T) {
	mock := newSearchMock()
	svc := newTestService(t, mock, nil)

	items, err := svc.WorkItems(context.Background(), "@me #bug login")
	if err != nil {
		t.Fatalf("WorkItems returned error: %v", err)
	}
	want := []domain.WorkItem{{ID: 1, Title: "Login fails", Type: "Bug"}}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	if len(mock.WiqlCallArgs) != 1 {
		t.Fatalf("expected one wiql call, got %d", len(mock.WiqlCallArgs))
	}
	call := mock.WiqlCallArgs[0]
	if call.Team.ProjectID != fabrikamID || call.Team.Team != "Fabrikam Team" {
		t.Fatalf("unexpected team context %+v", call.Team)
	}
	if call.Top != DefaultTop {
		t.Fatalf("expected top %d, got %d", DefaultTop, call.Top)
	}
	for _, clause := range []string{`[System.AssignedTo] = @me`, `[System.WorkItemType] Contains "bug"`, `[System.Title] Contains Words "login"`} {
		if !strings.Contains(call.Query, clause) {
			t.Fatalf("query %q missing clause %q", call.Query, clause)
		}
	}
}

func TestRecent(t *testing.T) {
	mock := newSearchMock()
	svc := newTestService(t, mock, nil)

	if _, err := svc.Recent(context.Background()); err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if !strings.Contains(mock.WiqlCallArgs[0].Query, "@Today - 30") {
		t.Fatalf("unexpected recent query %q", mock.WiqlCallArgs[0].Query)
	}
}

func TestQueries(t *testing.T) {
	mock := newSearchMock()
	mock.SearchQueriesFn = func(_ context.Context, project, filter string, top int) ([]devops.QueryItem, error) {
		if project != fabrikamID || filter != "bugs" || top != DefaultTop {
			t.Fatalf("unexpected args %s %s %d", project, filter, top)
		}
		return []devops.QueryItem{{ID: "q1", Name: "Active Bugs", QueryType: "flat"}, {ID: "q2"}}, nil
	}
	svc := newTestService(t, mock, nil)

	got, err := svc.Queries(context.Background(), "bugs")
	if err != nil {
		t.Fatalf("Queries returned error: %v", err)
	}
	want := []domain.Query{{ID: "q1", Name: "Active Bugs", Type: domain.QueryTypeFlat}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("queries mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.Queries(context.Background(), ""); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestQueriesWithoutProject(t *testing.T) {
	svc := NewService(newSearchMock(), nil, Options{})
	if _, err := svc.Queries(context.Background(), "bugs"); !appErrors.IsCode(err, appErrors.CodeInvalidProject) {
		t.Fatalf("expected invalid project error, got %v", err)
	}
}

func TestWorkItemsWithIcons(t *testing.T) {
	mock := newSearchMock()
	mock.WorkItemTypesFn = func(_ context.Context, project string) ([]devops.WorkItemType, error) {
		if project != "Fabrikam" {
			t.Fatalf("expected icons for Fabrikam, got %s", project)
		}
		return []devops.WorkItemType{{Name: "Bug", Icon: &devops.WorkItemIcon{URL: "https://icons/bug"}}}, nil
	}
	mock.FetchIconFn = func(context.Context, string) (string, error) {
		return "data:image/svg+xml;base64,AAAA", nil
	}
	resolver := iconcache.NewResolver(mock, iconcache.NewMemoryStore())
	svc := newTestService(t, mock, resolver)

	items, err := svc.WorkItemsWithIcons(context.Background(), "login")
	if err != nil {
		t.Fatalf("WorkItemsWithIcons returned error: %v", err)
	}
	if items[0].IconURI != "data:image/svg+xml;base64,AAAA" {
		t.Fatalf("expected icon uri, got %q", items[0].IconURI)
	}

	// Second search hits the cache.
	if _, err := svc.WorkItemsWithIcons(context.Background(), "login"); err != nil {
		t.Fatalf("WorkItemsWithIcons returned error: %v", err)
	}
	if mock.TypesCallCount != 1 {
		t.Fatalf("expected one icon set fetch, got %d", mock.TypesCallCount)
	}
}

func TestWorkItemsWithIconsPropagatesIconError(t *testing.T) {
	mock := newSearchMock()
	mock.WorkItemTypesFn = func(context.Context, string) ([]devops.WorkItemType, error) {
		return nil, errors.New("types offline")
	}
	svc := newTestService(t, mock, iconcache.NewResolver(mock, iconcache.NewMemoryStore()))

	_, err := svc.WorkItemsWithIcons(context.Background(), "login")
	if err == nil || !strings.Contains(err.Error(), "types offline") {
		t.Fatalf("expected icon error, got %v", err)
	}
}

func TestWorkItemsWithIconsMissingType(t *testing.T) {
	mock := newSearchMock()
	mock.WorkItemTypesFn = func(context.Context, string) ([]devops.WorkItemType, error) {
		return []devops.WorkItemType{}, nil
	}
	svc := newTestService(t, mock, iconcache.NewResolver(mock, iconcache.NewMemoryStore()))

	items, err := svc.WorkItemsWithIcons(context.Background(), "login")
	if err != nil {
		t.Fatalf("expected missing icons to be tolerated, got %v", err)
	}
	if items[0].IconURI != "" {
		t.Fatalf("expected blank icon, got %q", items[0].IconURI)
	}
}

func TestWorkItemsWithIconsIconlessTypeFetchesOnce(t *testing.T) {
	mock := newSearchMock()
	mock.QueryByWiqlFn = func(context.Context, string, devops.TeamContext, int) (*devops.WiqlResult, error) {
		refs := make([]devops.WorkItemReference, 0, 5)
		for id := 1; id <= 5; id++ {
			refs = append(refs, devops.WorkItemReference{ID: intPtr(id)})
		}
		return &devops.WiqlResult{WorkItems: refs}, nil
	}
	mock.WorkItemsBatchFn = func(_ context.Context, ids []int, _ []string) ([]devops.WorkItem, error) {
		items := make([]devops.WorkItem, 0, len(ids))
		for _, id := range ids {
			items = append(items, devops.WorkItem{ID: intPtr(id), Fields: map[string]any{
				"System.Title":        "Blocked",
				"System.WorkItemType": "Impediment",
			}})
		}
		return items, nil
	}
	mock.WorkItemTypesFn = func(context.Context, string) ([]devops.WorkItemType, error) {
		return []devops.WorkItemType{{Name: "Bug", Icon: &devops.WorkItemIcon{URL: "https://icons/bug"}}}, nil
	}
	mock.FetchIconFn = func(context.Context, string) (string, error) {
		return "data:bug", nil
	}
	svc := newTestService(t, mock, iconcache.NewResolver(mock, iconcache.NewMemoryStore()))

	items, err := svc.WorkItemsWithIcons(context.Background(), "blocked")
	if err != nil {
		t.Fatalf("WorkItemsWithIcons returned error: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected five items, got %d", len(items))
	}
	for _, wi := range items {
		if wi.IconURI != "" {
			t.Fatalf("expected blank icon for %d, got %q", wi.ID, wi.IconURI)
		}
	}
	if mock.TypesCallCount != 1 || mock.FetchIconCallCount != 1 {
		t.Fatalf("expected one icon set fetch, got %d type listings and %d icons",
			mock.TypesCallCount, mock.FetchIconCallCount)
	}
}

func TestWorkItemsWithIconsWithoutProject(t *testing.T) {
	mock := newSearchMock()
	mock.WorkItemTypesFn = func(context.Context, string) ([]devops.WorkItemType, error) {
		return nil, errors.New("no project in path")
	}
	svc := NewService(mock, iconcache.NewResolver(mock, iconcache.NewMemoryStore()), Options{})

	items, err := svc.WorkItemsWithIcons(context.Background(), "login")
	if err != nil {
		t.Fatalf("WorkItemsWithIcons returned error: %v", err)
	}
	if len(items) != 1 || items[0].IconURI != "" {
		t.Fatalf("expected one item without icon, got %+v", items)
	}
	if mock.TypesCallCount != 0 {
		t.Fatalf("expected no icon lookups, got %v", mock.TypesCallArgs)
	}
}

func TestLinkHelpers(t *testing.T) {
	svc := newTestService(t, newSearchMock(), nil)
	wi := domain.WorkItem{ID: 7, Title: "Fix login"}

	url := "https://dev.azure.com/contoso/Fabrikam/_workitems/edit/7"
	if got := svc.WorkItemURL(7); got != url {
		t.Fatalf("WorkItemURL = %q", got)
	}
	if got := svc.MarkdownLink(wi); got != "[Fix login]("+url+")" {
		t.Fatalf("MarkdownLink = %q", got)
	}
	if got := svc.HTMLLink(wi); got != `<a href="`+url+`">Fix login</a>` {
		t.Fatalf("HTMLLink = %q", got)
	}
	if got := svc.QueryURL("q1"); got != "https://dev.azure.com/contoso/Fabrikam/_queries/query/q1" {
		t.Fatalf("QueryURL = %q", got)
	}
}
