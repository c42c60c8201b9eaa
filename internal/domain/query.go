package domain

import (
	"strings"

	"azsearch/internal/debug"
	"azsearch/internal/devops"
)

// QueryType is the result shape of a saved query.
type QueryType string

const (
	QueryTypeUnknown QueryType = ""
	QueryTypeFlat    QueryType = "flat"
	QueryTypeTree    QueryType = "tree"
	QueryTypeOneHop  QueryType = "oneHop"
)

var queryTypeLabels = map[QueryType]string{
	QueryTypeFlat:   "Flat list",
	QueryTypeTree:   "Tree",
	QueryTypeOneHop: "Direct links",
}

// ParseQueryType maps the API's query type onto the closed set, ignoring case.
// Unrecognised values yield QueryTypeUnknown.
func ParseQueryType(raw string) QueryType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "flat":
		return QueryTypeFlat
	case "tree":
		return QueryTypeTree
	case "onehop":
		return QueryTypeOneHop
	default:
		return QueryTypeUnknown
	}
}

// Label returns a human readable name, empty for unknown types.
func (t QueryType) Label() string {
	return queryTypeLabels[t]
}

// Query is the display record for a saved query.
type Query struct {
	ID   string
	Name string
	Path string
	Type QueryType
}

// NewQueryFromAPI converts a devops.QueryItem, rejecting items without an id
// or name.
func NewQueryFromAPI(item devops.QueryItem) (Query, error) {
	if item.ID == "" {
		return Query{}, invalidQueryError("query id is required")
	}
	if item.Name == "" {
		return Query{}, invalidQueryError("query " + item.ID + " has no name")
	}
	return Query{
		ID:   item.ID,
		Name: item.Name,
		Path: item.Path,
		Type: ParseQueryType(item.QueryType),
	}, nil
}

// QueriesFromAPI maps a batch of saved queries. Folders and invalid items are
// dropped; order is preserved.
func QueriesFromAPI(items []devops.QueryItem) []Query {
	out := make([]Query, 0, len(items))
	for _, item := range items {
		if item.IsFolder {
			continue
		}
		q, err := NewQueryFromAPI(item)
		if err != nil {
			debug.Logf("dropping query: %v", err)
			continue
		}
		out = append(out, q)
	}
	return out
}
