package domain

import (
	"azsearch/internal/debug"
	"azsearch/internal/devops"

	"github.com/google/uuid"
)

// Project is a team project that scopes searches.
type Project struct {
	ID   string
	Name string
}

// NewProjectFromAPI converts a devops.Project. Project ids are GUIDs; anything
// else is rejected.
func NewProjectFromAPI(p devops.Project) (Project, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return Project{}, invalidProjectError(p.ID, err)
	}
	if p.Name == "" {
		return Project{}, invalidProjectError(p.ID, nil)
	}
	return Project{ID: id.String(), Name: p.Name}, nil
}

// ProjectsFromAPI maps the project listing, dropping invalid entries.
func ProjectsFromAPI(projects []devops.Project) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		project, err := NewProjectFromAPI(p)
		if err != nil {
			debug.Logf("dropping project: %v", err)
			continue
		}
		out = append(out, project)
	}
	return out
}

// FindProjectIDByName returns the id of the project called name, or "".
func FindProjectIDByName(projects []Project, name string) string {
	for _, p := range projects {
		if p.Name == name {
			return p.ID
		}
	}
	return ""
}

// FindProjectNameByID returns the name of the project with id, or "".
func FindProjectNameByID(projects []Project, id string) string {
	for _, p := range projects {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}
