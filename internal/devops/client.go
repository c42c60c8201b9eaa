// Package devops is a thin client for the Azure DevOps REST API covering the
// project, WIQL, work item batch, saved query and work item type endpoints.
package devops

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	appErrors "azsearch/internal/errors"
)

const (
	// APIVersion is the REST API version sent with every request.
	APIVersion = "7.0"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	maxIconBytes = 1 << 20
	userAgent    = "azsearch"
)

// Client defines the remote operations azsearch needs.
type Client interface {
	Projects(ctx context.Context) ([]Project, error)
	Project(ctx context.Context, id string) (*Project, error)
	QueryByWiql(ctx context.Context, query string, team TeamContext, top int) (*WiqlResult, error)
	WorkItemsBatch(ctx context.Context, ids []int, fields []string) ([]WorkItem, error)
	SearchQueries(ctx context.Context, project, filter string, top int) ([]QueryItem, error)
	WorkItemTypes(ctx context.Context, project string) ([]WorkItemType, error)
	FetchIcon(ctx context.Context, iconURL string) (string, error)
}

// HTTPClient talks to Azure DevOps over HTTPS using a personal access token.
type HTTPClient struct {
	baseURL    string
	user       string
	token      string
	httpClient *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithBaseURL replaces the https://<domain> base, e.g. to target a test server.
func WithBaseURL(base string) Option {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimSuffix(base, "/")
	}
}

// NewClient creates a client for the organisation at domain, for example
// "dev.azure.com/contoso".
func NewClient(domain, user, token string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: "https://" + strings.Trim(domain, "/"),
		user:    user,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Projects lists the team projects of the organisation.
func (c *HTTPClient) Projects(ctx context.Context) ([]Project, error) {
	var resp projectsResponse
	if err := c.do(ctx, http.MethodGet, "/_apis/projects", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return resp.Value, nil
}

// Project fetches one project including its default team.
func (c *HTTPClient) Project(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, "/_apis/projects/"+url.PathEscape(id), nil, nil, &project); err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &project, nil
}

// QueryByWiql runs a WIQL statement, scoped to team when it names a project.
func (c *HTTPClient) QueryByWiql(ctx context.Context, query string, team TeamContext, top int) (*WiqlResult, error) {
	path := "/_apis/wit/wiql"
	if project := firstNonEmpty(team.Project, team.ProjectID); project != "" {
		scope := "/" + url.PathEscape(project)
		if t := firstNonEmpty(team.Team, team.TeamID); t != "" {
			scope += "/" + url.PathEscape(t)
		}
		path = scope + path
	}
	params := url.Values{}
	if top > 0 {
		params.Set("$top", strconv.Itoa(top))
	}
	var result WiqlResult
	if err := c.do(ctx, http.MethodPost, path, params, wiqlRequest{Query: query}, &result); err != nil {
		return nil, fmt.Errorf("query by wiql: %w", err)
	}
	return &result, nil
}

// WorkItemsBatch fetches the given work items restricted to fields.
func (c *HTTPClient) WorkItemsBatch(ctx context.Context, ids []int, fields []string) ([]WorkItem, error) {
	if len(ids) == 0 {
		return []WorkItem{}, nil
	}
	var resp workItemsBatchResponse
	body := workItemsBatchRequest{IDs: ids, Fields: fields}
	if err := c.do(ctx, http.MethodPost, "/_apis/wit/workitemsbatch", nil, body, &resp); err != nil {
		return nil, fmt.Errorf("get work items batch: %w", err)
	}
	return resp.Value, nil
}

// SearchQueries searches the saved queries of project by name.
func (c *HTTPClient) SearchQueries(ctx context.Context, project, filter string, top int) ([]QueryItem, error) {
	params := url.Values{}
	params.Set("$filter", filter)
	if top > 0 {
		params.Set("$top", strconv.Itoa(top))
	}
	var resp queriesResponse
	if err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(project)+"/_apis/wit/queries", params, nil, &resp); err != nil {
		return nil, fmt.Errorf("search queries: %w", err)
	}
	return resp.Value, nil
}

// WorkItemTypes lists the work item types of project.
func (c *HTTPClient) WorkItemTypes(ctx context.Context, project string) ([]WorkItemType, error) {
	var resp workItemTypesResponse
	if err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(project)+"/_apis/wit/workitemtypes", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list work item types: %w", err)
	}
	return resp.Value, nil
}

// FetchIcon downloads an icon asset and returns it as a data URI. Failures
// are returned as plain errors.
func (c *HTTPClient) FetchIcon(ctx context.Context, iconURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return "", fmt.Errorf("create icon request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "image/svg+xml, image/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch icon %s: %w", iconURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch icon %s: status %d", iconURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return "", fmt.Errorf("read icon %s: %w", iconURL, err)
	}
	return dataURI(resp.Header.Get("Content-Type"), data), nil
}

func dataURI(contentType string, data []byte) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		mediaType = http.DetectContentType(data)
		if i := strings.Index(mediaType, ";"); i >= 0 {
			mediaType = mediaType[:i]
		}
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (c *HTTPClient) authorize(req *http.Request) {
	req.SetBasicAuth(c.user, c.token)
	req.Header.Set("User-Agent", userAgent)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api-version", APIVersion)
	endpoint := c.baseURL + path + "?" + params.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return appErrors.Connection(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("decode %s response: %v", path, err), err)
	}
	return nil
}

// ErrUnexpectedStatus is wrapped by errors for non-success responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// classifyStatus maps HTTP status codes onto structured errors. Azure DevOps
// answers an invalid PAT with 203 and an HTML sign-in page, so anything but
// 200 is a failure.
func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return appErrors.New(appErrors.CodeNotFound, "resource not found", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	default:
		return appErrors.Connection(fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
