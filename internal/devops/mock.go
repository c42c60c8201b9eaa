package devops

import (
	"context"
	"errors"
	"sync"
)

// ErrMockNotImplemented is returned when a MockClient method lacks an override.
var ErrMockNotImplemented = errors.New("devops.MockClient: method not implemented")

// MockClient is a test double for the Client interface.
type MockClient struct {
	ProjectsFn       func(context.Context) ([]Project, error)
	ProjectFn        func(context.Context, string) (*Project, error)
	QueryByWiqlFn    func(context.Context, string, TeamContext, int) (*WiqlResult, error)
	WorkItemsBatchFn func(context.Context, []int, []string) ([]WorkItem, error)
	SearchQueriesFn  func(context.Context, string, string, int) ([]QueryItem, error)
	WorkItemTypesFn  func(context.Context, string) ([]WorkItemType, error)
	FetchIconFn      func(context.Context, string) (string, error)

	mu                 sync.Mutex
	ProjectsCallCount  int
	ProjectCallCount   int
	WiqlCallCount      int
	BatchCallCount     int
	QueriesCallCount   int
	TypesCallCount     int
	FetchIconCallCount int
	WiqlCallArgs       []WiqlCallArg
	BatchCallArgs      []BatchCallArg
	QueriesCallArgs    [][]string // [project, filter]
	TypesCallArgs      []string
	FetchIconCallArgs  []string
}

// WiqlCallArg captures arguments passed to QueryByWiql.
type WiqlCallArg struct {
	Query string
	Team  TeamContext
	Top   int
}

// BatchCallArg captures arguments passed to WorkItemsBatch.
type BatchCallArg struct {
	IDs    []int
	Fields []string
}

// NewMockClient returns a MockClient with zeroed handlers.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Projects invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) Projects(ctx context.Context) ([]Project, error) {
	m.mu.Lock()
	m.ProjectsCallCount++
	m.mu.Unlock()
	if m.ProjectsFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.ProjectsFn(ctx)
}

// Project invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) Project(ctx context.Context, id string) (*Project, error) {
	m.mu.Lock()
	m.ProjectCallCount++
	m.mu.Unlock()
	if m.ProjectFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.ProjectFn(ctx, id)
}

// QueryByWiql invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) QueryByWiql(ctx context.Context, query string, team TeamContext, top int) (*WiqlResult, error) {
	m.mu.Lock()
	m.WiqlCallCount++
	m.WiqlCallArgs = append(m.WiqlCallArgs, WiqlCallArg{Query: query, Team: team, Top: top})
	m.mu.Unlock()
	if m.QueryByWiqlFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.QueryByWiqlFn(ctx, query, team, top)
}

// WorkItemsBatch invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) WorkItemsBatch(ctx context.Context, ids []int, fields []string) ([]WorkItem, error) {
	m.mu.Lock()
	m.BatchCallCount++
	m.BatchCallArgs = append(m.BatchCallArgs, BatchCallArg{
		IDs:    append([]int(nil), ids...),
		Fields: append([]string(nil), fields...),
	})
	m.mu.Unlock()
	if m.WorkItemsBatchFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.WorkItemsBatchFn(ctx, ids, fields)
}

// SearchQueries invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) SearchQueries(ctx context.Context, project, filter string, top int) ([]QueryItem, error) {
	m.mu.Lock()
	m.QueriesCallCount++
	m.QueriesCallArgs = append(m.QueriesCallArgs, []string{project, filter})
	m.mu.Unlock()
	if m.SearchQueriesFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.SearchQueriesFn(ctx, project, filter, top)
}

// WorkItemTypes invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) WorkItemTypes(ctx context.Context, project string) ([]WorkItemType, error) {
	m.mu.Lock()
	m.TypesCallCount++
	m.TypesCallArgs = append(m.TypesCallArgs, project)
	m.mu.Unlock()
	if m.WorkItemTypesFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.WorkItemTypesFn(ctx, project)
}

// FetchIcon invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) FetchIcon(ctx context.Context, iconURL string) (string, error) {
	m.mu.Lock()
	m.FetchIconCallCount++
	m.FetchIconCallArgs = append(m.FetchIconCallArgs, iconURL)
	m.mu.Unlock()
	if m.FetchIconFn == nil {
		return "", ErrMockNotImplemented
	}
	return m.FetchIconFn(ctx, iconURL)
}

// Calls returns a snapshot of the call counters keyed by method name.
func (m *MockClient) Calls() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int{
		"Projects":       m.ProjectsCallCount,
		"Project":        m.ProjectCallCount,
		"QueryByWiql":    m.WiqlCallCount,
		"WorkItemsBatch": m.BatchCallCount,
		"SearchQueries":  m.QueriesCallCount,
		"WorkItemTypes":  m.TypesCallCount,
		"FetchIcon":      m.FetchIconCallCount,
	}
}

var _ Client = (*MockClient)(nil)
var _ Client = (*HTTPClient)(nil)
