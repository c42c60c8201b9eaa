package devops

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appErrors "azsearch/internal/errors"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("dev.azure.com/contoso", "jane", "secret-pat", WithBaseURL(server.URL)), server
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("dev.azure.com/contoso/", "jane", "pat")
	require.Equal(t, "https://dev.azure.com/contoso", c.baseURL)
	require.NotNil(t, c.httpClient)
	require.Equal(t, DefaultTimeout, c.httpClient.Timeout)

	custom := &http.Client{}
	c = NewClient("dev.azure.com/contoso", "jane", "pat", WithHTTPClient(custom), WithTimeout(3*time.Second))
	require.Same(t, custom, c.httpClient)
	require.Equal(t, 3*time.Second, c.httpClient.Timeout)
}

func TestProjectsSendsAuthAndVersion(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/_apis/projects", r.URL.Path)
		require.Equal(t, APIVersion, r.URL.Query().Get("api-version"))
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "jane", user)
		require.Equal(t, "secret-pat", pass)
		_, _ = w.Write([]byte(`{"count":2,"value":[{"id":"p1","name":"Fabrikam"},{"id":"p2","name":"Contoso"}]}`))
	})

	projects, err := c.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, "Fabrikam", projects[0].Name)
	require.Equal(t, "p2", projects[1].ID)
}

func TestQueryByWiqlScopesToTeam(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/Fabrikam Fiber/Fiber Team/_apis/wit/wiql", r.URL.Path)
		require.Equal(t, "20", r.URL.Query().Get("$top"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body wiqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "SELECT [System.Id] FROM WorkItems", body.Query)

		_, _ = w.Write([]byte(`{"queryType":"flat","columns":[{"referenceName":"System.Id"}],"workItems":[{"id":7},{"id":9}]}`))
	})

	team := TeamContext{Project: "Fabrikam Fiber", ProjectID: "p1", Team: "Fiber Team"}
	result, err := c.QueryByWiql(context.Background(), "SELECT [System.Id] FROM WorkItems", team, 20)
	require.NoError(t, err)
	require.Len(t, result.WorkItems, 2)
	require.Equal(t, 9, *result.WorkItems[1].ID)
	require.Equal(t, "System.Id", result.Columns[0].ReferenceName)
}

func TestQueryByWiqlWithoutProjectIsOrganisationWide(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/_apis/wit/wiql", r.URL.Path)
		require.Empty(t, r.URL.Query().Get("$top"))
		_, _ = w.Write([]byte(`{"workItems":[]}`))
	})

	result, err := c.QueryByWiql(context.Background(), "SELECT [System.Id] FROM WorkItems", TeamContext{}, 0)
	require.NoError(t, err)
	require.Empty(t, result.WorkItems)
}

func TestWorkItemsBatch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/_apis/wit/workitemsbatch", r.URL.Path)
		var body workItemsBatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, []int{1, 2}, body.IDs)
		require.Equal(t, []string{"System.Title"}, body.Fields)
		_, _ = w.Write([]byte(`{"count":2,"value":[{"id":1,"fields":{"System.Title":"One"}},{"id":2}]}`))
	})

	items, err := c.WorkItemsBatch(context.Background(), []int{1, 2}, []string{"System.Title"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "One", items[0].Fields["System.Title"])
	require.Nil(t, items[1].Fields)
}

func TestWorkItemsBatchSkipsEmptyRequest(t *testing.T) {
	c := NewClient("dev.azure.com/contoso", "", "pat", WithBaseURL("http://127.0.0.1:1"))
	items, err := c.WorkItemsBatch(context.Background(), nil, []string{"System.Title"})
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSearchQueriesAndTypes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Fabrikam/_apis/wit/queries":
			require.Equal(t, "active bugs", r.URL.Query().Get("$filter"))
			require.Equal(t, "50", r.URL.Query().Get("$top"))
			_, _ = w.Write([]byte(`{"value":[{"id":"q1","name":"Active Bugs","queryType":"flat"}]}`))
		case "/Fabrikam/_apis/wit/workitemtypes":
			_, _ = w.Write([]byte(`{"value":[{"name":"Bug","icon":{"id":"icon_insect","url":"https://x/icon_insect"}}]}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	queries, err := c.SearchQueries(context.Background(), "Fabrikam", "active bugs", 50)
	require.NoError(t, err)
	require.Equal(t, []QueryItem{{ID: "q1", Name: "Active Bugs", QueryType: "flat"}}, queries)

	types, err := c.WorkItemTypes(context.Background(), "Fabrikam")
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.Equal(t, "https://x/icon_insect", types[0].Icon.URL)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   appErrors.Code
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, code: appErrors.CodeConnection},
		{name: "forbidden", status: http.StatusForbidden, code: appErrors.CodeConnection},
		{name: "sign-in page", status: http.StatusNonAuthoritativeInfo, body: "<html>", code: appErrors.CodeConnection},
		{name: "server error", status: http.StatusBadGateway, code: appErrors.CodeConnection},
		{name: "not found", status: http.StatusNotFound, code: appErrors.CodeNotFound},
		{name: "malformed body", status: http.StatusOK, body: "{not json", code: appErrors.CodeParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Projects(context.Background())
			require.Error(t, err)
			require.Equal(t, tt.code, appErrors.CodeOf(err))
			if tt.code == appErrors.CodeConnection {
				require.True(t, strings.HasSuffix(err.Error(), appErrors.ConnectionMessage), err.Error())
				require.Equal(t, "Connection error", appErrors.Title(err))
			}
		})
	}
}

func TestUnreachableServerIsConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c := NewClient("dev.azure.com/contoso", "", "pat", WithBaseURL(base))
	_, err := c.Projects(context.Background())
	require.Error(t, err)
	require.True(t, appErrors.IsCode(err, appErrors.CodeConnection))
}

func TestCancelledContextIsNotWrapped(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value":[]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Projects(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, appErrors.IsCode(err, appErrors.CodeConnection))
}

func TestFetchIconReturnsDataURI(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg"></svg>`
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/icons/icon_insect", r.URL.Path)
		_, pass, _ := r.BasicAuth()
		require.Equal(t, "secret-pat", pass)
		w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
		_, _ = w.Write([]byte(svg))
	})

	uri, err := c.FetchIcon(context.Background(), server.URL+"/icons/icon_insect")
	require.NoError(t, err)
	require.Equal(t, "data:image/svg+xml;base64,"+base64.StdEncoding.EncodeToString([]byte(svg)), uri)
}

func TestFetchIconFailureIsRaw(t *testing.T) {
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.FetchIcon(context.Background(), server.URL+"/icons/missing")
	require.Error(t, err)
	require.Equal(t, appErrors.CodeUnknown, appErrors.CodeOf(err))
	require.Contains(t, err.Error(), "status 401")
}

func TestDataURIDetectsMissingContentType(t *testing.T) {
	uri := dataURI("", []byte("\x89PNG\r\n\x1a\n"))
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), uri)
}
