package devops

// TeamRef identifies a team inside a project.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is a team project as returned by the core API.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	State       string   `json:"state,omitempty"`
	DefaultTeam *TeamRef `json:"defaultTeam,omitempty"`
}

// TeamContext scopes a WIQL query to a project and, optionally, a team.
type TeamContext struct {
	Project   string
	ProjectID string
	Team      string
	TeamID    string
}

type projectsResponse struct {
	Count int       `json:"count"`
	Value []Project `json:"value"`
}

type wiqlRequest struct {
	Query string `json:"query"`
}

// WorkItemReference is a work item id returned by a WIQL query.
type WorkItemReference struct {
	ID  *int   `json:"id"`
	URL string `json:"url,omitempty"`
}

// FieldReference names a column of a WIQL result.
type FieldReference struct {
	ReferenceName string `json:"referenceName"`
	Name          string `json:"name,omitempty"`
}

// WiqlResult is the flat result of a WIQL query.
type WiqlResult struct {
	QueryType       string              `json:"queryType"`
	QueryResultType string              `json:"queryResultType"`
	Columns         []FieldReference    `json:"columns"`
	WorkItems       []WorkItemReference `json:"workItems"`
}

type workItemsBatchRequest struct {
	IDs    []int    `json:"ids"`
	Fields []string `json:"fields,omitempty"`
}

// WorkItem is a raw work item. Fields is nil when the service omitted it.
type WorkItem struct {
	ID     *int           `json:"id"`
	Rev    int            `json:"rev,omitempty"`
	Fields map[string]any `json:"fields"`
	URL    string         `json:"url,omitempty"`
}

type workItemsBatchResponse struct {
	Count int        `json:"count"`
	Value []WorkItem `json:"value"`
}

// QueryItem is a saved query or folder from the query hierarchy.
type QueryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	QueryType string `json:"queryType,omitempty"`
	IsFolder  bool   `json:"isFolder,omitempty"`
}

type queriesResponse struct {
	Count int         `json:"count"`
	Value []QueryItem `json:"value"`
}

// WorkItemIcon points at the icon asset of a work item type.
type WorkItemIcon struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// WorkItemType describes a work item type of a project.
type WorkItemType struct {
	Name          string        `json:"name"`
	ReferenceName string        `json:"referenceName,omitempty"`
	Color         string        `json:"color,omitempty"`
	IsDisabled    bool          `json:"isDisabled,omitempty"`
	Icon          *WorkItemIcon `json:"icon,omitempty"`
}

type workItemTypesResponse struct {
	Count int            `json:"count"`
	Value []WorkItemType `json:"value"`
}
