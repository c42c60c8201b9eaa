package domain

import (
	"fmt"

	"azsearch/internal/debug"
	"azsearch/internal/devops"
	"azsearch/internal/wiql"
)

// WorkItem is the display record for one search hit.
type WorkItem struct {
	ID         int
	Title      string
	State      string
	Type       string
	AssignedTo string
	// IconURI is only populated by searches that resolve type icons.
	IconURI string
}

// NewWorkItemFromAPI converts a devops.WorkItem into a display record.
// Records without an identifier or field payload are rejected.
func NewWorkItemFromAPI(item devops.WorkItem) (WorkItem, error) {
	if item.ID == nil {
		return WorkItem{}, invalidWorkItemError("work item id is required", nil)
	}
	if item.Fields == nil {
		return WorkItem{}, invalidWorkItemError(fmt.Sprintf("work item %d has no fields", *item.ID), nil)
	}
	return WorkItem{
		ID:         *item.ID,
		Title:      stringField(item.Fields, wiql.FieldTitle),
		State:      stringField(item.Fields, wiql.FieldState),
		Type:       stringField(item.Fields, wiql.FieldWorkItemType),
		AssignedTo: identityName(item.Fields[wiql.FieldAssignedTo]),
	}, nil
}

// WorkItemsFromAPI maps a batch, dropping records that fail validation and
// keeping the relative order of the rest.
func WorkItemsFromAPI(items []devops.WorkItem) []WorkItem {
	out := make([]WorkItem, 0, len(items))
	for _, item := range items {
		wi, err := NewWorkItemFromAPI(item)
		if err != nil {
			debug.Logf("dropping work item: %v", err)
			continue
		}
		out = append(out, wi)
	}
	return out
}

func stringField(fields map[string]any, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// identityName extracts the display name of an identity field. A plain string
// value is used as-is.
func identityName(value any) string {
	switch v := value.(type) {
	case map[string]any:
		if name, ok := v["displayName"].(string); ok {
			return name
		}
		return ""
	case string:
		return v
	default:
		return ""
	}
}
