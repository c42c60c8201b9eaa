package devops

import (
	"context"
	"fmt"
)

// SearchWorkItems runs query in the scope of projectID (its default team when
// it has one) and fetches the matching work items with the query's columns.
// A query with no matches returns an empty slice without a batch request.
func SearchWorkItems(ctx context.Context, c Client, query, projectID string, top int) ([]WorkItem, error) {
	var team TeamContext
	if projectID != "" {
		project, err := c.Project(ctx, projectID)
		if err != nil {
			return nil, err
		}
		team = TeamContext{Project: project.Name, ProjectID: projectID}
		if project.DefaultTeam != nil {
			team.Team = project.DefaultTeam.Name
			team.TeamID = project.DefaultTeam.ID
		}
	}

	result, err := c.QueryByWiql(ctx, query, team, top)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(result.WorkItems))
	for _, ref := range result.WorkItems {
		if ref.ID != nil {
			ids = append(ids, *ref.ID)
		}
	}
	if len(ids) == 0 {
		return []WorkItem{}, nil
	}

	fields := make([]string, 0, len(result.Columns))
	for _, col := range result.Columns {
		if col.ReferenceName != "" {
			fields = append(fields, col.ReferenceName)
		}
	}

	items, err := c.WorkItemsBatch(ctx, ids, fields)
	if err != nil {
		return nil, fmt.Errorf("fetch %d work items: %w", len(ids), err)
	}
	return items, nil
}
